package keeper

import "math/rand/v2"

// IntNSource yields a value in [0, n). *rand.Rand satisfies it.
type IntNSource interface {
	IntN(n int) int
}

// globalSource draws from the goroutine-safe top-level math/rand/v2 source.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource is the random source used when none is injected.
var DefaultSource IntNSource = globalSource{}

var awakeQuotes = []string{
	"‘It is not wise to leave a dragon out of your calculations…’",
	"‘All we have to decide is what to do with the time that is given to us.’",
	"‘Mischief is afoot, and the Realm awakens at your call!’",
	"‘By thunder and torchlight, the portals stir once more!’",
}

var sleepQuotes = []string{
	"‘Even the smallest person can change the course of the future.’",
	"‘Night falls upon the land. Mischief… managed.’",
	"‘The fires dim, and the song of the realm grows still.’",
	"‘Another adventure ends. Rest well, noble traveler.’",
}

var playfulReplies = []string{
	"I see your curiosity burns bright, young wizard.",
	"You dare question the Keeper of Mischief?",
	"Ah, knowledge seeks you — as do all lost travellers.",
}

// PickQuote returns one entry of quotes chosen by src, or "" for an empty table.
func PickQuote(src IntNSource, quotes []string) string {
	if len(quotes) == 0 {
		return ""
	}
	if src == nil {
		src = DefaultSource
	}
	return quotes[src.IntN(len(quotes))]
}
