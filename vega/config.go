package vega

// Config is the document-wide cosmetic configuration.
type Config struct {
	Background string        `json:"background,omitempty"`
	Axis       *AxisConfig   `json:"axis,omitempty"`
	Title      *TitleConfig  `json:"title,omitempty"`
	Legend     *LegendConfig `json:"legend,omitempty"`
	Header     *HeaderConfig `json:"header,omitempty"`
	View       *ViewConfig   `json:"view,omitempty"`
}

// AxisConfig configures all axes.
type AxisConfig struct {
	TitleFontSize int    `json:"titleFontSize,omitempty"`
	LabelFont     string `json:"labelFont,omitempty"`
	TitleFont     string `json:"titleFont,omitempty"`
}

// TitleConfig configures the chart title.
type TitleConfig struct {
	Font string `json:"font,omitempty"`
}

// LegendConfig configures the built-in legend widget.
type LegendConfig struct {
	SymbolType string `json:"symbolType,omitempty"`
	LabelFont  string `json:"labelFont,omitempty"`
	TitleFont  string `json:"titleFont,omitempty"`
}

// HeaderConfig configures facet headers.
type HeaderConfig struct {
	LabelFont string `json:"labelFont,omitempty"`
	TitleFont string `json:"titleFont,omitempty"`
}

// ViewConfig configures the view frame.
type ViewConfig struct {
	StrokeOpacity *float64 `json:"strokeOpacity,omitempty"`
}

// FloatRef exposes a *float64 for config fields where zero is meaningful.
func FloatRef(f float64) *float64 { return &f }

// MergeConfig layers over on top of base, field by field; set fields in over
// win. Neither argument is mutated.
func MergeConfig(base, over *Config) *Config {
	if base == nil && over == nil {
		return nil
	}
	out := &Config{}
	if base != nil {
		*out = *base
	}
	if over == nil {
		return out
	}
	if over.Background != "" {
		out.Background = over.Background
	}
	out.Axis = mergeAxisConfig(out.Axis, over.Axis)
	if over.Title != nil {
		t := *over.Title
		if t.Font == "" && out.Title != nil {
			t.Font = out.Title.Font
		}
		out.Title = &t
	}
	out.Legend = mergeLegendConfig(out.Legend, over.Legend)
	if over.Header != nil {
		h := *over.Header
		out.Header = &h
	}
	if over.View != nil {
		v := *over.View
		out.View = &v
	}
	return out
}

func mergeAxisConfig(base, over *AxisConfig) *AxisConfig {
	if over == nil {
		return base
	}
	out := *over
	if base != nil {
		if out.TitleFontSize == 0 {
			out.TitleFontSize = base.TitleFontSize
		}
		if out.LabelFont == "" {
			out.LabelFont = base.LabelFont
		}
		if out.TitleFont == "" {
			out.TitleFont = base.TitleFont
		}
	}
	return &out
}

func mergeLegendConfig(base, over *LegendConfig) *LegendConfig {
	if over == nil {
		return base
	}
	out := *over
	if base != nil {
		if out.SymbolType == "" {
			out.SymbolType = base.SymbolType
		}
		if out.LabelFont == "" {
			out.LabelFont = base.LabelFont
		}
		if out.TitleFont == "" {
			out.TitleFont = base.TitleFont
		}
	}
	return &out
}
