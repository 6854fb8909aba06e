package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the palette of the live view. Flesh colours run from Skin at
// rest to Wound at full stress.
type Theme struct {
	Name    string
	Skin    lipgloss.Color
	Wound   lipgloss.Color
	Outline lipgloss.Color
	Ripple  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
}

// Available themes
var (
	ThemeFlesh = Theme{
		Name:    "flesh",
		Skin:    lipgloss.Color("#e8b4a0"),
		Wound:   lipgloss.Color("#8b0000"),
		Outline: lipgloss.Color("#f5d0c0"),
		Ripple:  lipgloss.Color("#ffe4d6"),
		Text:    lipgloss.Color("#fff5f0"),
		Muted:   lipgloss.Color("#8a6a60"),
		Accent:  lipgloss.Color("#ff8a80"),
		Warning: lipgloss.Color("#ff4444"),
	}

	ThemeBruise = Theme{
		Name:    "bruise",
		Skin:    lipgloss.Color("#c9a0c9"),
		Wound:   lipgloss.Color("#3b0a45"),
		Outline: lipgloss.Color("#e0c0e8"),
		Ripple:  lipgloss.Color("#f0e0ff"),
		Text:    lipgloss.Color("#f5eaff"),
		Muted:   lipgloss.Color("#6b5070"),
		Accent:  lipgloss.Color("#b388ff"),
		Warning: lipgloss.Color("#ff4081"),
	}

	ThemeClinical = Theme{
		Name:    "clinical",
		Skin:    lipgloss.Color("#cccccc"),
		Wound:   lipgloss.Color("#ff0000"),
		Outline: lipgloss.Color("#ffffff"),
		Ripple:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Accent:  lipgloss.Color("#0088ff"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	// Default theme
	CurrentTheme = ThemeFlesh

	// All available themes
	Themes = []Theme{
		ThemeFlesh,
		ThemeBruise,
		ThemeClinical,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeFlesh
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme advances CurrentTheme and returns its name.
func NextTheme() string {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			break
		}
	}
	return CurrentTheme.Name
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// StressColor blends Skin toward Wound in Lab space by stress in [0,1].
func (t Theme) StressColor(stress float64) colorful.Color {
	skin, err := colorful.Hex(string(t.Skin))
	if err != nil {
		skin = colorful.Color{R: 1, G: 1, B: 1}
	}
	wound, err := colorful.Hex(string(t.Wound))
	if err != nil {
		wound = colorful.Color{R: 1}
	}
	return skin.BlendLab(wound, max(0, min(stress, 1))).Clamped()
}

// StressRGB is StressColor as 8-bit channels.
func (t Theme) StressRGB(stress float64) (r, g, b uint8) {
	return t.StressColor(stress).RGB255()
}

// StressHex is StressColor as a #rrggbb string.
func (t Theme) StressHex(stress float64) string {
	return t.StressColor(stress).Hex()
}
