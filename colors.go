package chartlib

import "fmt"

// paletteHex is the fixed ordered palette, packed as 6-character hex chunks:
// tableau10, the matplotlib default cycle, paired, accent and dark2, in that
// order. Collisions between schemes are skipped at assignment time by value.
const paletteHex = "4e79a7f28e2ce1575976b7b259a14fedc949af7aa1ff9da79c755fbab0ab" +
	"1f77b4ff7f0e2ca02cd627289467bd8c564be377c27f7f7fbcbd2217becf" +
	"a6cee31f78b4b2df8a33a02cfb9a99e31a1cfdbf6fff7f00cab2d66a3d9affff99b15928" +
	"7fc97fbeaed4fdc086ffff99386cb0f0027fbf5b17666666" +
	"1b9e77d95f027570b3e7298a66a61ee6ab02a6761d666666"

// namedFallbacks extend the palette far past any practical group count.
var namedFallbacks = []string{"red", "blue", "green", "purple", "orange"}

// ColorScheme is the full ordered palette the assigner scans.
var ColorScheme = buildColorScheme()

func buildColorScheme() []string {
	scheme := make([]string, 0, len(paletteHex)/6+len(namedFallbacks))
	for i := 0; i+6 <= len(paletteHex); i += 6 {
		scheme = append(scheme, "#"+paletteHex[i:i+6])
	}
	return append(scheme, namedFallbacks...)
}

// assignColors produces a total group→color mapping over the given groups in
// order: entries of partial are kept; otherwise defaultColor when configured;
// otherwise the first palette entry not already used by value, scanning from
// a cursor that only moves forward. Deterministic for fixed inputs.
func assignColors(groups []string, partial map[string]string, defaultColor string) (map[string]string, error) {
	out := make(map[string]string, len(groups)+len(partial))
	used := make(map[string]bool, len(partial))
	for k, v := range partial {
		out[k] = v
		used[v] = true
	}
	cursor := 0
	for _, group := range groups {
		if _, ok := out[group]; ok {
			continue
		}
		if defaultColor != "" {
			out[group] = defaultColor
			continue
		}
		for cursor < len(ColorScheme) && used[ColorScheme[cursor]] {
			cursor++
		}
		if cursor >= len(ColorScheme) {
			return nil, issuef(CodePaletteExhausted, "palette exhausted after %d groups", len(groups))
		}
		out[group] = ColorScheme[cursor]
		used[ColorScheme[cursor]] = true
		cursor++
	}
	return out, nil
}

// groupKey normalizes a dataset group value into a colormap key.
func groupKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
