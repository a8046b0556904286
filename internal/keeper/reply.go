package keeper

import "fmt"

// Embed colours, matching the classic Discord palette.
const (
	colorAwake     = 0x2ECC71
	colorAsleep    = 0x607D8B
	colorUncertain = 0xE67E22
	colorCodex     = 0x9B59B6
)

const (
	thumbnailAwake  = "https://cdn-icons-png.flaticon.com/512/10033/10033454.png"
	thumbnailAsleep = "https://cdn-icons-png.flaticon.com/512/15468/15468253.png"

	footerCodex = "Mischief Manager | Bound by runes of redstone"
)

// Reply is a transport-neutral chat response. A reply with a Title or
// Description renders as an embed; otherwise Text is sent as a plain message.
type Reply struct {
	Text        string
	Title       string
	Description string
	Color       int
	Footer      string
	Thumbnail   string
}

// IsEmbed reports whether the reply is sent as an embed.
func (r Reply) IsEmbed() bool {
	return r.Title != "" || r.Description != ""
}

// IsEmpty reports whether there is nothing to send.
func (r Reply) IsEmpty() bool {
	return r.Text == "" && !r.IsEmbed()
}

func awakeReply(quote, user string) Reply {
	return Reply{
		Title:       "🪄 The Realm Awakens",
		Description: fmt.Sprintf("%s\n\nThe great engines stir at the command of **%s**.", quote, user),
		Color:       colorAwake,
		Footer:      "Mischief Manager | Server Status: Online",
		Thumbnail:   thumbnailAwake,
	}
}

func sleepReply(quote, user string) Reply {
	return Reply{
		Title:       "💤 Mischief Managed",
		Description: fmt.Sprintf("%s\n\nThe realm now rests, by order of **%s**.", quote, user),
		Color:       colorAsleep,
		Footer:      "Mischief Manager | Server Status: Offline",
		Thumbnail:   thumbnailAsleep,
	}
}

func statusReply(description string, color int, state string) Reply {
	return Reply{
		Title:       "🔮 Realm Status",
		Description: description,
		Color:       color,
		Footer:      "Mischief Manager | Azure VM Status: " + state,
	}
}

func scryingFailedReply(err error) Reply {
	return Reply{Text: fmt.Sprintf("⚠️ *The scrying crystal flickers... I cannot see the realm right now.*\n```%v```", err)}
}

func falteredReply(err error) Reply {
	return Reply{Text: fmt.Sprintf("⚠️ *The spell faltered...* An error occurred:\n```%v```", err)}
}

func invalidIncantationReply(prefix string) Reply {
	return Reply{
		Title:       "⚠️ Invalid incantation",
		Description: fmt.Sprintf("Try `%[1]sserver on`, `%[1]sserver off`, or `%[1]sserver status`.", prefix),
		Color:       colorUncertain,
	}
}

// HelpReply is the static codex shown by the help command.
func HelpReply(prefix string) Reply {
	return Reply{
		Title: "📜 Mischief Manager's Codex",
		Description: fmt.Sprintf("Welcome, traveller. I am **The Keeper of Mischief**, steward of the realm.\n\n"+
			"You may command me thus:\n"+
			"• `%[1]sserver on` — Awaken the realm.\n"+
			"• `%[1]sserver off` — Let it slumber.\n"+
			"• `%[1]sserver status` — See if the portal hums with life.\n"+
			"• `%[1]shelp` — Summon this tome again.\n\n"+
			"_Whisper your commands with care, for magic is fickle._", prefix),
		Color:  colorCodex,
		Footer: footerCodex,
	}
}

// IntroReply is the static channel introduction.
func IntroReply(prefix string) Reply {
	return Reply{
		Title: "🪄 Welcome, traveller!",
		Description: fmt.Sprintf("Use this channel to control the Minecraft server through our resident keeper, "+
			"**Mischief Manager** (*a.k.a.* **The Keeper of Mischief**).\n\n"+
			"__**Commands**__\n"+
			"`%[1]sserver on` — Awaken the realm (starts the Minecraft server)\n"+
			"`%[1]sserver off` — Let it slumber (safely stops it)\n"+
			"`%[1]sserver status` — Check whether the realm is awake or dreaming\n"+
			"`%[1]shelp` — Summon the Keeper’s codex of incantations\n\n"+
			"__**Tips for Mortals**__\n"+
			"⏳ Wait ~1–2 minutes after `%[1]sserver on` before joining — the portals take time to stabilise.\n"+
			"💭 If the Keeper says “The scrying crystal flickers…”, Azure may be sleepy or credentials need a refresh.\n"+
			"⚡ Never run `%[1]sserver off` while players are inside unless you enjoy smiting the innocent.\n"+
			"🌙 The realm sleeps automatically when mischief wanes (or when commanded).", prefix),
		Color:  colorCodex,
		Footer: footerCodex,
	}
}
