package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color

	Bar     lipgloss.Color
	Compare lipgloss.Color
	Swap    lipgloss.Color
	Sorted  lipgloss.Color

	Wall     lipgloss.Color
	Frontier lipgloss.Color
	Visited  lipgloss.Color
	Path     lipgloss.Color
	Endpoint lipgloss.Color

	// Labels colours cluster and class ids; Noise is for DBSCAN outliers.
	Labels []lipgloss.Color
	Noise  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Primary:  lipgloss.Color("#00ffff"),
		Accent:   lipgloss.Color("#ff00ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666688"),
		Bar:      lipgloss.Color("#5f87ff"),
		Compare:  lipgloss.Color("#ffff00"),
		Swap:     lipgloss.Color("#ff0055"),
		Sorted:   lipgloss.Color("#00ff88"),
		Wall:     lipgloss.Color("#444466"),
		Frontier: lipgloss.Color("#ffaa00"),
		Visited:  lipgloss.Color("#0077be"),
		Path:     lipgloss.Color("#ff00ff"),
		Endpoint: lipgloss.Color("#00ff00"),
		Labels:   []lipgloss.Color{"#ff4444", "#00ccff", "#ffcc00", "#00ff88", "#ff88ff", "#ff8800"},
		Noise:    lipgloss.Color("#555555"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Primary:  lipgloss.Color("#00ff00"),
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Bar:      lipgloss.Color("#00aa00"),
		Compare:  lipgloss.Color("#ffff00"),
		Swap:     lipgloss.Color("#ff0000"),
		Sorted:   lipgloss.Color("#88ff88"),
		Wall:     lipgloss.Color("#003300"),
		Frontier: lipgloss.Color("#ccff00"),
		Visited:  lipgloss.Color("#007700"),
		Path:     lipgloss.Color("#ffffff"),
		Endpoint: lipgloss.Color("#ffff00"),
		Labels:   []lipgloss.Color{"#00ff00", "#88ff88", "#ccff00", "#00aa55", "#aaffaa"},
		Noise:    lipgloss.Color("#004400"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Primary:  lipgloss.Color("#00a8cc"),
		Accent:   lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Bar:      lipgloss.Color("#0077be"),
		Compare:  lipgloss.Color("#ffd700"),
		Swap:     lipgloss.Color("#ff4444"),
		Sorted:   lipgloss.Color("#00ff88"),
		Wall:     lipgloss.Color("#002b4d"),
		Frontier: lipgloss.Color("#ffcc00"),
		Visited:  lipgloss.Color("#005f8f"),
		Path:     lipgloss.Color("#ffd700"),
		Endpoint: lipgloss.Color("#00ff88"),
		Labels:   []lipgloss.Color{"#ff6b6b", "#00a8cc", "#ffd700", "#5fd068", "#c792ea"},
		Noise:    lipgloss.Color("#4488aa"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme
		}
	}
	CurrentTheme = Themes[0]
	return CurrentTheme
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Label returns the colour for a cluster or class id.
func (t Theme) Label(id int) lipgloss.Color {
	if id < 0 || len(t.Labels) == 0 {
		return t.Noise
	}
	return t.Labels[id%len(t.Labels)]
}
