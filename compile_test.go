package chartlib_test

import (
	"fmt"
	"strings"
	"testing"

	chartlib "github.com/reoring/chartlib"
	"github.com/reoring/chartlib/vega"
)

// table is a minimal in-memory Table for compile tests.
type table struct {
	cols []string
	rows []map[string]any
}

func (t table) HasColumn(name string) bool {
	for _, c := range t.cols {
		if c == name {
			return true
		}
	}
	return false
}

func (t table) Distinct(name string) []any {
	seen := map[string]bool{}
	var out []any
	for _, r := range t.rows {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		k := fmt.Sprint(v)
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

func (t table) Rows() []map[string]any { return t.rows }

func seriesTable(groups ...string) table {
	t := table{cols: []string{"x", "y", "x_type", "group", "group_idx"}}
	for gi, g := range groups {
		for x := 0; x < 3; x++ {
			t.rows = append(t.rows, map[string]any{
				"x": x, "y": float64(10 * (x + 1)), "x_type": "normal",
				"group": g, "group_idx": gi,
			})
		}
	}
	return t
}

func baseConfig() *chartlib.ChartConfig {
	return &chartlib.ChartConfig{
		Lines:          chartlib.Flag(true),
		Points:         chartlib.Flag(true),
		DetailBy:       "group",
		ColorBy:        "group",
		ClickSelection: true,
	}
}

func compile(t *testing.T, cfg *chartlib.ChartConfig, tab chartlib.Table) *vega.Spec {
	t.Helper()
	spec, err := chartlib.NewCompiler(chartlib.NopTheming{}).Compile(cfg, tab)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return spec
}

func wantIssue(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected issue with code %q, got nil", code)
	}
	iss, ok := chartlib.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Code != code {
		t.Fatalf("expected code %q, got %q (%v)", code, iss[0].Code, err)
	}
}

func TestCompile_ValidationRejections(t *testing.T) {
	tab := seriesTable("a", "b")
	c := chartlib.NewCompiler(chartlib.NopTheming{})

	cfg := baseConfig()
	cfg.Lines, cfg.Points = nil, nil
	_, err := c.Compile(cfg, tab)
	wantIssue(t, err, chartlib.CodeMarksRequired)

	cfg = baseConfig()
	_, err = c.Compile(cfg, table{cols: []string{"y"}})
	wantIssue(t, err, chartlib.CodeMissingColumn)

	cfg = baseConfig()
	cfg.ClickSelection = false
	_, err = c.Compile(cfg, tab)
	wantIssue(t, err, chartlib.CodeSelectionRequired)

	cfg = baseConfig()
	cfg.ColorBy = "other"
	cfg.Colormap = map[string]string{"a": "red"}
	_, err = c.Compile(cfg, tab)
	wantIssue(t, err, chartlib.CodeColormapMismatch)

	cfg = baseConfig()
	cfg.ColorBy = "other"
	cfg.LegendSelection = true
	_, err = c.Compile(cfg, tab)
	wantIssue(t, err, chartlib.CodeColormapMismatch)

	cfg = baseConfig()
	cfg.Extra = map[string]any{"colormap": "not-a-mapping"}
	_, err = c.Compile(cfg, tab)
	wantIssue(t, err, chartlib.CodeColormapMismatch)
}

func layerNames(spec *vega.Spec) []string {
	var names []string
	for _, u := range spec.Layer {
		names = append(names, u.Name)
	}
	return names
}

func TestCompile_NativeLayerOrder(t *testing.T) {
	cfg := baseConfig()
	cfg.LegendSelection = true
	cfg.HasTooltips = true
	cfg.TooltipPoints = true
	cfg.TooltipText = true
	cfg.TooltipRules = true
	cfg.LockdownRules = true
	cfg.LockdownIcons = true
	cfg.EventSelect = true
	cfg.LockdownExtrapolation = true

	spec := compile(t, cfg, seriesTable("a", "b"))
	want := []string{
		"fake_interactive", "legend", "selectors", "fake_points",
		"lines", "points",
		"tooltip_points", "tooltip_text", "tooltip_rules",
		"lockdown_rules", "lockdown_icons",
		"hover_layer", "event_checkbox_layer",
		"model_lines", "model_tooltip",
	}
	got := layerNames(spec)
	if len(got) != len(want) {
		t.Fatalf("expected %d layers, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("layer %d: expected %q, got %q (%v)", i, want[i], got[i], got)
		}
	}

	// The first layer declaring a color channel must be the invisible legend
	// layer, and it must carry the legend-bound selection.
	for _, u := range spec.Layer {
		if u.Encoding == nil || u.Encoding.Color == nil {
			continue
		}
		if u.Name != "legend" {
			t.Fatalf("first color-declaring layer is %q, want legend", u.Name)
		}
		if u.Selection["legend"] == nil {
			t.Fatalf("legend layer missing legend selection")
		}
		break
	}
}

func TestCompile_CoverageSplitsIconLayers(t *testing.T) {
	cfg := baseConfig()
	cfg.HasTooltips = true
	cfg.LockdownIcons = true

	tab := seriesTable("a")
	tab.cols = append(tab.cols, "Coverage")
	spec := compile(t, cfg, tab)
	names := strings.Join(layerNames(spec), ",")
	if !strings.Contains(names, "statewide_lockdown_icons") || !strings.Contains(names, "regional_lockdown_icons") {
		t.Fatalf("expected split icon layers, got %s", names)
	}
	if strings.Contains(names, ",lockdown_icons") {
		t.Fatalf("unexpected combined icon layer: %s", names)
	}
}

func TestCompile_ManualLegend(t *testing.T) {
	cfg := baseConfig()
	cfg.UseManualLegend = true
	spec := compile(t, cfg, seriesTable("a", "b"))

	if len(spec.HConcat) != 2 {
		t.Fatalf("expected hconcat of chart and legend, got %d entries", len(spec.HConcat))
	}
	if spec.Spacing == nil || *spec.Spacing != 0 {
		t.Fatalf("expected spacing 0")
	}
	legend := spec.HConcat[1]
	if len(legend.Layer) != 5 {
		t.Fatalf("expected 5 legend layers, got %d", len(legend.Layer))
	}
	if legend.Width != 100 {
		t.Fatalf("expected legend width 100, got %d", legend.Width)
	}
	// Descending indices starting at 34 for the first group, title row at 35.
	rows := legend.Data.Values
	if len(rows) != 3 {
		t.Fatalf("expected 2 group rows plus title, got %d", len(rows))
	}
	if rows[0]["idx"] != 34 || rows[1]["idx"] != 33 || rows[2]["idx"] != 35 {
		t.Fatalf("unexpected legend indices: %v %v %v", rows[0]["idx"], rows[1]["idx"], rows[2]["idx"])
	}
	if rows[2]["row_type"] != "title" {
		t.Fatalf("expected final row to be the title row")
	}
	// Manual mode suppresses the built-in legend on the color channel.
	doc, err := vega.Export(spec)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(string(doc), `"legend":null`) {
		t.Fatalf("expected suppressed built-in legend in document")
	}
	if strings.Contains(string(doc), `"symbolType"`) {
		t.Fatalf("manual mode must not configure the built-in legend symbol")
	}
}

func TestCompile_ManualLegendCapacity(t *testing.T) {
	var groups []string
	for i := 0; i < 34; i++ {
		groups = append(groups, fmt.Sprintf("g%02d", i))
	}
	cfg := baseConfig()
	cfg.UseManualLegend = true
	_, err := chartlib.NewCompiler(chartlib.NopTheming{}).Compile(cfg, seriesTable(groups...))
	wantIssue(t, err, chartlib.CodeLegendCapacity)

	spec := compile(t, cfg, seriesTable(groups[:33]...))
	if got := len(spec.HConcat[1].Data.Values); got != 34 {
		t.Fatalf("expected 33 group rows plus title, got %d", got)
	}
}

func TestCompile_ConfigAndOverlayUntouched(t *testing.T) {
	cfg := baseConfig()
	cfg.LegendSelection = true
	cfg.ReadableGroupName = "country"
	tab := seriesTable("a", "b")
	for _, r := range tab.rows {
		r["Select_country"] = r["group"]
	}
	tab.cols = append(tab.cols, "Select_country")

	c := chartlib.NewCompiler(chartlib.NopTheming{})
	first, err := c.Compile(cfg, tab)
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	second, err := c.Compile(cfg, tab)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if cfg.ColorBy != "group" || cfg.DetailBy != "group" {
		t.Fatalf("compile mutated the config: colorby=%q detailby=%q", cfg.ColorBy, cfg.DetailBy)
	}
	a, _ := vega.Export(first)
	b, _ := vega.Export(second)
	if string(a) != string(b) {
		t.Fatalf("repeated compiles differ")
	}
	if !strings.Contains(string(a), "Select_country") {
		t.Fatalf("expected aliased grouping column in document")
	}
}

func TestCompile_ExtrapolationModel(t *testing.T) {
	cfg := baseConfig()
	cfg.LockdownExtrapolation = true
	cfg.YDomain = &chartlib.Domain{10, 100000}
	cfg.ExtrapClipToYDomain = true
	spec := compile(t, cfg, seriesTable("a"))

	var model *vega.Unit
	for _, u := range spec.Layer {
		if u.Name == "model_lines" {
			model = u
		}
	}
	if model == nil {
		t.Fatalf("missing model_lines layer")
	}
	var haveCalc, haveClip bool
	for _, tr := range model.Transform {
		if tr.As == "model_y" &&
			tr.Calculate == "datum.lockdown_y * pow(datum.lockdown_slope, datum.x - datum.lockdown_x)" {
			haveCalc = true
		}
		if tr.Filter == "datum.model_y <= 100000" {
			haveClip = true
		}
		if tr.Filter == "datum.xmax - datum.lockdown_x >= 5" {
			// default horizon
			continue
		}
	}
	if !haveCalc {
		t.Fatalf("missing model_y calculate transform: %+v", model.Transform)
	}
	if !haveClip {
		t.Fatalf("missing ydomain clip filter: %+v", model.Transform)
	}
}

func TestCompile_FacetAndInteractive(t *testing.T) {
	cfg := baseConfig()
	cfg.FacetBy = "group"
	cfg.Interactive = true
	spec := compile(t, cfg, seriesTable("a", "b"))
	if spec.Facet == nil || spec.Inner == nil {
		t.Fatalf("expected facet wrapper")
	}
	if spec.Data == nil {
		t.Fatalf("expected data hoisted to facet level")
	}
	if spec.Inner.Layer[0].Selection["zoom"] == nil {
		t.Fatalf("expected zoom selection inside facet")
	}
}

func TestCompile_EmojiLegend(t *testing.T) {
	tab := seriesTable("a")
	tab.cols = append(tab.cols, "emoji")
	tab.rows = append(tab.rows, map[string]any{
		"x": 0, "y": 10.0, "x_type": "lockdown", "group": "a", "emoji": "🏠🎓👨‍👩‍👧‍👦",
	})

	cfg := baseConfig()
	cfg.EmojiLegend = true
	_, err := chartlib.NewCompiler(chartlib.NopTheming{}).Compile(cfg, tab)
	wantIssue(t, err, chartlib.CodeInvalidConfig) // xdomain required

	cfg.XDomain = &chartlib.Domain{0, 40}
	spec := compile(t, cfg, tab)
	names := strings.Join(layerNames(spec), ",")
	if !strings.Contains(names, "emoji_marks") || !strings.Contains(names, "emoji_legend_sep") {
		t.Fatalf("expected emoji legend layers, got %s", names)
	}

	bad := tab
	bad.rows = append(bad.rows[:len(bad.rows):len(bad.rows)], map[string]any{
		"x": 1, "y": 10.0, "x_type": "lockdown", "group": "a", "emoji": "🦠",
	})
	_, err = chartlib.NewCompiler(chartlib.NopTheming{}).Compile(cfg, bad)
	wantIssue(t, err, chartlib.CodeUnknownEmoji)

	over := tab
	over.rows = append(over.rows[:len(over.rows):len(over.rows)], map[string]any{
		"x": 2, "y": 10.0, "x_type": "lockdown", "group": "a", "emoji": "🍔🏬💼🛃⚠️",
	})
	_, err = chartlib.NewCompiler(chartlib.NopTheming{}).Compile(cfg, over)
	wantIssue(t, err, chartlib.CodeEmojiCapacity)
}

func TestSegmentEmoji(t *testing.T) {
	got := chartlib.SegmentEmoji("🏠🎓👨‍👩‍👧‍👦")
	if len(got) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %q", len(got), got)
	}
	if got[0] != "🏠" || got[1] != "🎓" || got[2] != "👨‍👩‍👧‍👦" {
		t.Fatalf("unexpected tokens: %q", got)
	}
	if got := chartlib.SegmentEmoji("⚠️🏠"); len(got) != 2 || got[0] != "⚠️" {
		t.Fatalf("variation selector should extend its token: %q", got)
	}
	if chartlib.SegmentEmoji("") != nil {
		t.Fatalf("empty input should yield no tokens")
	}
}
