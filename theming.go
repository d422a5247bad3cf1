package chartlib

import "github.com/reoring/chartlib/vega"

// ThemeName is the registry entry the compiler installs its font theme under.
const ThemeName = "customFont"

// Theming isolates the process-wide theme registry write so the compiler
// itself stays free of global mutable state. Compile calls Apply at most once
// per invocation, as its final step.
type Theming interface {
	Apply(font string)
}

// RegistryTheming writes the font theme into the vega theme registry.
// Registration is idempotent and last-writer-wins.
type RegistryTheming struct{}

// Apply registers and enables the compiler's font theme.
func (RegistryTheming) Apply(font string) {
	vega.RegisterTheme(ThemeName, vega.FontTheme(font))
	vega.EnableTheme(ThemeName)
}

// NopTheming skips theme registration; useful for isolated unit tests.
type NopTheming struct{}

// Apply does nothing.
func (NopTheming) Apply(string) {}
