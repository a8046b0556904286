package keeper

import "strings"

// Listener answers any message that mentions the trigger word and asks a
// question. It runs on every message, command or not.
type Listener struct {
	trigger string
	replies []string
	rand    IntNSource
	metrics *Metrics
}

// NewListener creates a Listener. An empty trigger word defaults to "keeper".
func NewListener(triggerWord string, src IntNSource, metrics *Metrics) *Listener {
	if triggerWord == "" {
		triggerWord = "keeper"
	}
	if src == nil {
		src = DefaultSource
	}
	return &Listener{
		trigger: strings.ToLower(triggerWord),
		replies: playfulReplies,
		rand:    src,
		metrics: metrics,
	}
}

// Respond returns a playful reply and true when content qualifies.
func (l *Listener) Respond(content string) (string, bool) {
	if !strings.Contains(content, "?") {
		return "", false
	}
	if !strings.Contains(strings.ToLower(content), l.trigger) {
		return "", false
	}
	l.metrics.RecordPassiveReply()
	return PickQuote(l.rand, l.replies), true
}
