// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/gcourse-cli/gcourse/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Icon identifies a UI symbol in the global registry.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Warn
	Progress
	Download
	Merge
	Convert
	Question
	Link
	Mark
	Lua
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "[ok]",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "■",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "[fail]",
		kaomoji: "(╯°□°)╯",
		squares: "▣",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "",
		plain:   "[warn]",
		kaomoji: "(・_・;)",
		squares: "▤",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "[..]",
		kaomoji: "(づ｡◕‿‿◕｡)づ",
		squares: "▥",
	},
	Download: {
		emoji:   "📥",
		nerd:    "",
		plain:   "[dl]",
		kaomoji: "(っ◔◡◔)っ",
		squares: "▦",
	},
	Merge: {
		emoji:   "📦",
		nerd:    "",
		plain:   "[merge]",
		kaomoji: "(⊃｡•́‿•̀｡)⊃",
		squares: "▧",
	},
	Convert: {
		emoji:   "🎞",
		nerd:    "",
		plain:   "[remux]",
		kaomoji: "( ﾉ ﾟｰﾟ)ﾉ",
		squares: "▨",
	},
	Question: {
		emoji:   "❓",
		nerd:    "",
		plain:   "[?]",
		kaomoji: "(￢ ￢)",
		squares: "▩",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "[url]",
		kaomoji: "(づ￣ ³￣)づ",
		squares: "□",
	},
	Mark: {
		emoji:   "📺",
		nerd:    "",
		plain:   "[*]",
		kaomoji: "(◕‿◕✿)",
		squares: "◆",
	},
	Lua: {
		emoji:   "🌙",
		nerd:    "",
		plain:   "[lua]",
		kaomoji: "(☾‿☽)",
		squares: "◇",
	},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}
