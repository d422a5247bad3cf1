// Package chartfile loads declarative chart definitions from YAML and turns
// them into compiler configs. Key names follow the definition files the
// charts were historically built from; unrecognized keys are preserved in
// the config's Extra map.
package chartfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/chartlib"
)

// ErrBadDomain signals a domain that is not a two-element [min, max] pair.
var ErrBadDomain = errors.New("chartfile: domain must be [min, max]")

// Definition is the YAML shape of a chart definition.
type Definition struct {
	Title             string `yaml:"title"`
	DetailBy          string `yaml:"detailby"`
	ColorBy           string `yaml:"colorby"`
	FacetBy           string `yaml:"facetby"`
	ReadableGroupName string `yaml:"readable_group_name"`

	Lines  *bool `yaml:"lines"`
	Points *bool `yaml:"points"`
	Grid   *bool `yaml:"grid"`

	ClickSelection     bool   `yaml:"click_selection"`
	LegendSelection    bool   `yaml:"legend_selection"`
	ClickSelectionInit string `yaml:"click_selection_init"`
	UseManualLegend    bool   `yaml:"use_manual_legend"`

	Colormap     map[string]string `yaml:"colormap"`
	DefaultColor string            `yaml:"default_color"`

	XDomain []float64 `yaml:"xdomain"`
	YDomain []float64 `yaml:"ydomain"`
	XTitle  string    `yaml:"xtitle"`
	YTitle  string    `yaml:"ytitle"`
	YScale  string    `yaml:"yscale"`

	Height            int     `yaml:"height"`
	Width             int     `yaml:"width"`
	PointSize         int     `yaml:"point_size"`
	UnfocusedOpacity  float64 `yaml:"unfocused_opacity"`
	Background        string  `yaml:"background"`
	AxesTitleFontSize int     `yaml:"axes_title_fontsize"`
	Font              string  `yaml:"font"`
	Interactive       bool    `yaml:"interactive"`

	HasTooltips   bool `yaml:"has_tooltips"`
	TooltipPoints bool `yaml:"tooltip_points"`
	TooltipText   bool `yaml:"tooltip_text"`
	TooltipRules  bool `yaml:"tooltip_rules"`

	LockdownRules    bool `yaml:"lockdown_rules"`
	LockdownIcons    bool `yaml:"lockdown_icons"`
	LockdownTooltips bool `yaml:"lockdown_tooltips"`
	EventSelect      bool `yaml:"event_select"`

	LockdownExtrapolation bool `yaml:"lockdown_extrapolation"`
	ExtrapClipToYDomain   bool `yaml:"extrap_clip_to_ydomain"`
	ExtrapTooltipOnHover  bool `yaml:"only_show_extrapolation_tooltip_on_hover"`
	MinTrendlineDays      int  `yaml:"min_trend_line_days"`

	EmojiLegend bool `yaml:"emoji_legend"`

	Extra map[string]any `yaml:",inline"`
}

// Load parses a YAML chart definition into a compiler config.
func Load(r io.Reader) (*chartlib.ChartConfig, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("chartfile: %w", err)
	}
	return def.Config()
}

// LoadFile parses the named YAML chart definition file.
func LoadFile(path string) (*chartlib.ChartConfig, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Load(fh)
}

// Config converts the definition into a compiler config.
func (d *Definition) Config() (*chartlib.ChartConfig, error) {
	xd, err := domainOf(d.XDomain)
	if err != nil {
		return nil, fmt.Errorf("xdomain: %w", err)
	}
	yd, err := domainOf(d.YDomain)
	if err != nil {
		return nil, fmt.Errorf("ydomain: %w", err)
	}
	return &chartlib.ChartConfig{
		Title:             d.Title,
		DetailBy:          d.DetailBy,
		ColorBy:           d.ColorBy,
		FacetBy:           d.FacetBy,
		ReadableGroupName: d.ReadableGroupName,

		Lines:  d.Lines,
		Points: d.Points,
		Grid:   d.Grid,

		ClickSelection:     d.ClickSelection,
		LegendSelection:    d.LegendSelection,
		ClickSelectionInit: d.ClickSelectionInit,
		UseManualLegend:    d.UseManualLegend,

		Colormap:     d.Colormap,
		DefaultColor: d.DefaultColor,

		XDomain: xd,
		YDomain: yd,
		XTitle:  d.XTitle,
		YTitle:  d.YTitle,
		YScale:  d.YScale,

		Height:            d.Height,
		Width:             d.Width,
		PointSize:         d.PointSize,
		UnfocusedOpacity:  d.UnfocusedOpacity,
		Background:        d.Background,
		AxesTitleFontSize: d.AxesTitleFontSize,
		Font:              d.Font,
		Interactive:       d.Interactive,

		HasTooltips:   d.HasTooltips,
		TooltipPoints: d.TooltipPoints,
		TooltipText:   d.TooltipText,
		TooltipRules:  d.TooltipRules,

		LockdownRules:    d.LockdownRules,
		LockdownIcons:    d.LockdownIcons,
		LockdownTooltips: d.LockdownTooltips,
		EventSelect:      d.EventSelect,

		LockdownExtrapolation: d.LockdownExtrapolation,
		ExtrapClipToYDomain:   d.ExtrapClipToYDomain,
		ExtrapTooltipOnHover:  d.ExtrapTooltipOnHover,
		MinTrendlineDays:      d.MinTrendlineDays,

		EmojiLegend: d.EmojiLegend,

		Extra: d.Extra,
	}, nil
}

func domainOf(vals []float64) (*chartlib.Domain, error) {
	switch len(vals) {
	case 0:
		return nil, nil
	case 2:
		return &chartlib.Domain{vals[0], vals[1]}, nil
	default:
		return nil, fmt.Errorf("%w, got %d values", ErrBadDomain, len(vals))
	}
}
