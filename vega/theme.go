package vega

import "sync"

// Theme produces a base document config. Registered themes live in a
// process-wide registry; registration is idempotent (last writer wins) and
// carries no ordering dependency between compiles.
type Theme func() *Config

var themeRegistry = struct {
	mu     sync.Mutex
	themes map[string]Theme
	active string
}{themes: map[string]Theme{}}

// RegisterTheme installs (or replaces) a named theme.
func RegisterTheme(name string, t Theme) {
	themeRegistry.mu.Lock()
	defer themeRegistry.mu.Unlock()
	themeRegistry.themes[name] = t
}

// EnableTheme makes the named theme the active one. Enabling an unregistered
// name clears the active theme.
func EnableTheme(name string) {
	themeRegistry.mu.Lock()
	defer themeRegistry.mu.Unlock()
	if _, ok := themeRegistry.themes[name]; ok {
		themeRegistry.active = name
	} else {
		themeRegistry.active = ""
	}
}

// ActiveTheme reports the currently enabled theme name, if any.
func ActiveTheme() (string, bool) {
	themeRegistry.mu.Lock()
	defer themeRegistry.mu.Unlock()
	return themeRegistry.active, themeRegistry.active != ""
}

func activeThemeConfig() *Config {
	themeRegistry.mu.Lock()
	t, ok := themeRegistry.themes[themeRegistry.active]
	themeRegistry.mu.Unlock()
	if !ok || t == nil {
		return nil
	}
	return t()
}

// FontTheme returns a theme applying one font family to titles, axes, facet
// headers and legends.
func FontTheme(font string) Theme {
	return func() *Config {
		return &Config{
			Title:  &TitleConfig{Font: font},
			Axis:   &AxisConfig{LabelFont: font, TitleFont: font},
			Header: &HeaderConfig{LabelFont: font, TitleFont: font},
			Legend: &LegendConfig{LabelFont: font, TitleFont: font},
		}
	}
}
