package domain

// Theme names understood by the UI.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeSepia = "sepia"
)

// Settings holds the single user's presentation preferences. There is
// exactly one settings record per installation.
type Settings struct {
	Timestamps
	Theme string `json:"theme"`
}

// ValidTheme reports whether theme is one of the supported themes.
func ValidTheme(theme string) bool {
	switch theme {
	case ThemeDark, ThemeLight, ThemeSepia:
		return true
	}
	return false
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() *Settings {
	return &Settings{Theme: ThemeDark}
}
