package state

import (
	"net/http"
	"strings"
)

type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"

	DefaultThemeMode = ThemeSystem
)

func ParseThemeMode(s string) (ThemeMode, bool) {
	switch m := ThemeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ThemeLight, ThemeDark, ThemeSystem:
		return m, true
	default:
		return "", false
	}
}

// Scheme is the color scheme actually applied.
type Scheme string

const (
	SchemeLight Scheme = "light"
	SchemeDark  Scheme = "dark"
)

type ThemeOption struct {
	Value       ThemeMode `json:"value"`
	Label       string    `json:"label"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
}

var ThemeOptions = []ThemeOption{
	{Value: ThemeLight, Label: "theme.lightMode", Icon: "sun", Description: "theme.lightModeDescription"},
	{Value: ThemeDark, Label: "theme.darkMode", Icon: "moon", Description: "theme.darkModeDescription"},
	{Value: ThemeSystem, Label: "theme.systemMode", Icon: "computer", Description: "theme.systemModeDescription"},
}

// Theme is a visitor's theme. It is not safe for concurrent use.
type Theme struct {
	mode    ThemeMode
	current Scheme
	system  Scheme
}

func NewTheme(mode ThemeMode, system Scheme) *Theme {
	if _, ok := ParseThemeMode(string(mode)); !ok {
		mode = DefaultThemeMode
	}
	if system != SchemeDark {
		system = SchemeLight
	}
	t := &Theme{mode: mode, system: system}
	t.update()
	return t
}

func (t *Theme) Mode() ThemeMode { return t.mode }
func (t *Theme) Current() Scheme { return t.current }
func (t *Theme) IsDark() bool    { return t.current == SchemeDark }
func (t *Theme) IsLight() bool   { return t.current == SchemeLight }
func (t *Theme) IsSystem() bool  { return t.mode == ThemeSystem }

// SetTheme ignores unknown modes.
func (t *Theme) SetTheme(mode ThemeMode) {
	if _, ok := ParseThemeMode(string(mode)); !ok {
		return
	}
	t.mode = mode
	t.update()
}

// Toggle flips the applied scheme and pins it as an explicit mode.
func (t *Theme) Toggle() {
	if t.current == SchemeDark {
		t.SetTheme(ThemeLight)
		return
	}
	t.SetTheme(ThemeDark)
}

// SetSystemScheme records an OS preference change. It only affects the applied
// scheme in system mode.
func (t *Theme) SetSystemScheme(s Scheme) {
	if s != SchemeDark {
		s = SchemeLight
	}
	t.system = s
	t.update()
}

func (t *Theme) update() {
	if t.mode == ThemeSystem {
		t.current = t.system
		return
	}
	t.current = Scheme(t.mode)
}

// SystemScheme reads the Sec-CH-Prefers-Color-Scheme client hint. Browsers that
// do not send it get light.
func SystemScheme(r *http.Request) Scheme {
	v := strings.Trim(strings.TrimSpace(r.Header.Get("Sec-CH-Prefers-Color-Scheme")), `"`)
	if strings.EqualFold(v, "dark") {
		return SchemeDark
	}
	return SchemeLight
}
