package icon

// Icon names a UI symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Warn
	Info
	Progress
	Search
	Link
	Playing
	Paused
	Stopped
	Favorite
	SingleLoop
	ListLoop
	Sequential
	Volume
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "x",
		kaomoji: "(×﹏×)",
		squares: "▣",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "+",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "■",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "!",
		kaomoji: "(・_・;)",
		squares: "▲",
	},
	Info: {
		emoji:   "💬",
		nerd:    "",
		plain:   "i",
		kaomoji: "(・ω・)",
		squares: "□",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "~",
		kaomoji: "┌(・。・)┘♪",
		squares: "▦",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "( ˘▽˘)っ",
		squares: "◫",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "&",
		kaomoji: "(◕‿◕)",
		squares: "▤",
	},
	Playing: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "♪(´ε｀ )",
		squares: "▶",
	},
	Paused: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(－_－) zzZ",
		squares: "▮▮",
	},
	Stopped: {
		emoji:   "⏹️",
		nerd:    "",
		plain:   "#",
		kaomoji: "(￣ー￣)",
		squares: "■",
	},
	Favorite: {
		emoji:   "💖",
		nerd:    "",
		plain:   "*",
		kaomoji: "(♡˙︶˙♡)",
		squares: "◆",
	},
	SingleLoop: {
		emoji:   "🔂",
		nerd:    "",
		plain:   "1",
		kaomoji: "(↻1)",
		squares: "◎",
	},
	ListLoop: {
		emoji:   "🔁",
		nerd:    "",
		plain:   "@",
		kaomoji: "(↻)",
		squares: "◉",
	},
	Sequential: {
		emoji:   "➡️",
		nerd:    "",
		plain:   "->",
		kaomoji: "(→)",
		squares: "▷",
	},
	Volume: {
		emoji:   "🔊",
		nerd:    "",
		plain:   "vol",
		kaomoji: "(((o(*ﾟ▽ﾟ*)o)))",
		squares: "◧",
	},
}
