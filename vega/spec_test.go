package vega_test

import (
	"strings"
	"testing"

	"github.com/reoring/chartlib/vega"
)

func TestChannel_NoLegendMarshalsNull(t *testing.T) {
	u := vega.NewUnit().Encode(vega.EncColor(vega.Field("group", vega.Nominal).NoLegend()))
	spec := vega.Layer(u)
	doc, err := vega.Export(spec)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(doc), `"legend":null`) {
		t.Fatalf("expected explicit legend null, got %s", doc)
	}

	plain := vega.Layer(vega.NewUnit().Encode(vega.EncColor(vega.Field("group", vega.Nominal))))
	doc, err = vega.Export(plain)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Contains(string(doc), `"legend"`) {
		t.Fatalf("unexpected legend key on plain channel: %s", doc)
	}
}

func TestUnit_MarkConstructorsClone(t *testing.T) {
	base := vega.NewUnit().Encode(vega.EncX(vega.Field("x", vega.Quantitative)))
	line := base.MarkLine(vega.MarkDef{}).TransformFilter("false")
	point := base.MarkPoint(vega.MarkDef{Size: vega.Size(0)})

	if base.Mark != nil {
		t.Fatalf("base unit gained a mark")
	}
	if len(base.Transform) != 0 || len(point.Transform) != 0 {
		t.Fatalf("transform leaked across derived units")
	}
	if line.Encoding.X == nil || point.Encoding.X == nil {
		t.Fatalf("derived units should inherit encoding")
	}
	line.Encode(vega.EncY(vega.Field("y", vega.Quantitative)))
	if point.Encoding.Y != nil {
		t.Fatalf("encoding mutation leaked between siblings")
	}
}

func TestSpec_FacetHoistsData(t *testing.T) {
	inner := vega.Layer(vega.NewUnit())
	inner.Data = &vega.Data{Values: []map[string]any{{"x": 1}}}
	outer := inner.FacetColumn("region")
	if outer.Data == nil || inner.Data != nil {
		t.Fatalf("facet should move data to the outer spec")
	}
	if outer.Facet == nil || outer.Facet.Column.Field != "region" {
		t.Fatalf("unexpected facet: %+v", outer.Facet)
	}
}

func TestSpec_InteractiveDescendsIntoFacet(t *testing.T) {
	inner := vega.Layer(vega.NewUnit())
	outer := inner.FacetColumn("region")
	outer.Interactive(true, true)
	sel := inner.Layer[0].Selection["zoom"]
	if sel == nil {
		t.Fatalf("zoom selection missing on the inner layer")
	}
	if sel.Bind != vega.BindScales || len(sel.Encodings) != 2 {
		t.Fatalf("unexpected zoom selection: %+v", sel)
	}
}

func TestThemeRegistry(t *testing.T) {
	vega.RegisterTheme("test_font", vega.FontTheme("Khula"))
	vega.RegisterTheme("test_font", vega.FontTheme("Lato")) // last writer wins
	vega.EnableTheme("test_font")
	defer vega.EnableTheme("")

	if name, ok := vega.ActiveTheme(); !ok || name != "test_font" {
		t.Fatalf("active theme = %q, %v", name, ok)
	}
	doc, err := vega.Export(vega.Layer(vega.NewUnit()))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(doc), `"labelFont":"Lato"`) {
		t.Fatalf("expected re-registered theme font in config: %s", doc)
	}

	vega.EnableTheme("never_registered")
	if _, ok := vega.ActiveTheme(); ok {
		t.Fatalf("enabling an unregistered theme should clear the active theme")
	}
}

func TestExport_SpecConfigWinsOverTheme(t *testing.T) {
	vega.RegisterTheme("test_font2", vega.FontTheme("Khula"))
	vega.EnableTheme("test_font2")
	defer vega.EnableTheme("")

	spec := vega.Layer(vega.NewUnit()).Configure(func(c *vega.Config) {
		c.Background = "white"
		c.Title = &vega.TitleConfig{Font: "Lato"}
	})
	doc, err := vega.Export(spec)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	s := string(doc)
	if !strings.Contains(s, `"background":"white"`) {
		t.Fatalf("missing spec background: %s", s)
	}
	if !strings.Contains(s, `"title":{"font":"Lato"}`) {
		t.Fatalf("spec title font should win over theme: %s", s)
	}
	if !strings.Contains(s, `"labelFont":"Khula"`) {
		t.Fatalf("theme axis fonts should survive beneath spec config: %s", s)
	}
}

func TestExportVar(t *testing.T) {
	doc, err := vega.ExportVar(vega.Layer(vega.NewUnit()), "vis")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(string(doc), "var vis = {") {
		t.Fatalf("unexpected prefix: %s", doc)
	}
}

func TestMergeConfig(t *testing.T) {
	base := &vega.Config{
		Background: "gray",
		Axis:       &vega.AxisConfig{LabelFont: "Khula", TitleFont: "Khula"},
	}
	over := &vega.Config{
		Background: "white",
		Axis:       &vega.AxisConfig{TitleFontSize: 16},
	}
	got := vega.MergeConfig(base, over)
	if got.Background != "white" {
		t.Fatalf("over background should win, got %q", got.Background)
	}
	if got.Axis.TitleFontSize != 16 || got.Axis.LabelFont != "Khula" {
		t.Fatalf("axis merge lost fields: %+v", got.Axis)
	}
	if base.Axis.TitleFontSize != 0 {
		t.Fatalf("merge mutated base")
	}
}
