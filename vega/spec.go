package vega

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// SchemaURL is the grammar version the compiler targets.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v4.json"

// Data is an inline data source.
type Data struct {
	Values []map[string]any `json:"values,omitempty"`
	Name   string           `json:"name,omitempty"`
}

// Spec is a composable document node: a layered view, a facet wrapper or a
// horizontal concatenation, optionally carrying top-level config.
type Spec struct {
	Schema  string      `json:"$schema,omitempty"`
	Data    *Data       `json:"data,omitempty"`
	Title   string      `json:"title,omitempty"`
	Width   int         `json:"width,omitempty"`
	Height  int         `json:"height,omitempty"`
	Layer   []*Unit     `json:"layer,omitempty"`
	Facet   *Facet      `json:"facet,omitempty"`
	Inner   *Spec       `json:"spec,omitempty"`
	HConcat []*Spec     `json:"hconcat,omitempty"`
	Spacing *int        `json:"spacing,omitempty"`
	View    *ViewConfig `json:"view,omitempty"`
	Config  *Config     `json:"config,omitempty"`
}

// Facet wraps a spec into a column-faceted trellis.
type Facet struct {
	Column *Channel `json:"column,omitempty"`
}

// Layer builds a layered spec from ordered units. Order is load-bearing: the
// renderer binds its legend to the first unit declaring a color channel.
func Layer(units ...*Unit) *Spec {
	return &Spec{Layer: units}
}

// FacetColumn wraps the spec in a column facet over the given field, moving
// inline data to the facet level as the grammar requires.
func (s *Spec) FacetColumn(field string) *Spec {
	outer := &Spec{
		Facet: &Facet{Column: Field(field, Nominal)},
		Inner: s,
		Data:  s.Data,
	}
	s.Data = nil
	return outer
}

// Interactive binds pan/zoom to the view scales by attaching an interval
// selection to the first layer, descending through facet wrappers.
func (s *Spec) Interactive(bindX, bindY bool) *Spec {
	if len(s.Layer) == 0 {
		if s.Inner != nil {
			s.Inner.Interactive(bindX, bindY)
		}
		return s
	}
	var enc []string
	if bindX {
		enc = append(enc, "x")
	}
	if bindY {
		enc = append(enc, "y")
	}
	s.Layer[0].AddSelection("zoom", &Selection{
		Type:      SelectionInterval,
		Bind:      BindScales,
		Encodings: enc,
	})
	return s
}

// HConcat concatenates specs horizontally with the given spacing.
func HConcat(spacing int, specs ...*Spec) *Spec {
	return &Spec{HConcat: specs, Spacing: &spacing}
}

// Configure attaches (or merges into) the spec's top-level config.
func (s *Spec) Configure(set func(c *Config)) *Spec {
	if s.Config == nil {
		s.Config = &Config{}
	}
	set(s.Config)
	return s
}

// Export serializes the document, layering the spec's own config over the
// active theme's base config.
func Export(s *Spec) ([]byte, error) {
	themed := *s
	if base := activeThemeConfig(); base != nil {
		themed.Config = MergeConfig(base, s.Config)
	}
	return json.Marshal(&themed)
}

// ExportVar serializes the document as a JavaScript variable assignment, the
// hand-off format for embedding pages.
func ExportVar(s *Spec, name string) ([]byte, error) {
	b, err := Export(s)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "var %s = %s", name, b), nil
}

func marshal(v any) ([]byte, error) { return json.Marshal(v) }
