package chartlib

// Well-known column names in the compile-ready frame.
const (
	ColX          = "x"
	ColY          = "y"
	ColXType      = "x_type"
	ColXMax       = "xmax"
	ColXStart     = "x_start"
	ColLockdownX  = "lockdown_x"
	ColLockdownY  = "lockdown_y"
	ColSlope      = "lockdown_slope"
	ColGroupIdx   = "group_idx"
	ColEventIndex = "event_index"
	ColCoverage   = "Coverage"
	ColEmoji      = "emoji"
)

// Values of the x_type column.
const (
	XTypeNormal   = "normal"
	XTypeLockdown = "lockdown"
)

// Selection names declared in the output document.
const (
	selClick        = "click"
	selCursor       = "cursor"
	selLegend       = "legend"
	selLegendHover  = "legend_hover"
	selEvents       = "events"
	selHideRegional = "hide_regional_icons"
	selTrends       = "trends"
)

// Compile-time defaults and ceilings.
const (
	DefaultHeight            = 400
	DefaultWidth             = 600
	DefaultPointSize         = 45
	DefaultUnfocusedOpacity  = 0.08
	DefaultAxesTitleFontSize = 16
	DefaultBackgroundColor   = "white"
	DefaultMinTrendlineDays  = 5
	DefaultFont              = "Khula"
	MaxLegendMarks           = 33
	MaxEmojiLegendMarks      = 7
	EmptySelection           = ""
)

// LegendMode selects between the renderer's built-in legend and the manual
// mark-built legend. The two modes differ in selection cardinality, predicate
// construction and layer ordering.
type LegendMode int

const (
	ModeNative LegendMode = iota
	ModeManual
)

// Domain is an inclusive [min, max] axis domain.
type Domain [2]float64

// Flag returns a *bool; Lines/Points/Grid distinguish "explicitly false" from
// "unset".
func Flag(b bool) *bool { return &b }

// ChartConfig is the declarative input to Compile. The zero value of every
// optional field means "unset"; pointer fields are tri-state. Extra carries
// forward-compatible keys the compiler does not recognize.
//
// ChartConfig is immutable for the duration of a compile; per-compile derived
// state lives in a transient overlay owned by the pipeline.
type ChartConfig struct {
	// Marks.
	Lines  *bool
	Points *bool

	// Grouping.
	DetailBy          string
	ColorBy           string
	FacetBy           string
	ReadableGroupName string

	// Selections.
	ClickSelection     bool
	LegendSelection    bool
	ClickSelectionInit string
	UseManualLegend    bool

	// Colors.
	Colormap     map[string]string
	DefaultColor string

	// Axes and scales.
	XDomain *Domain
	YDomain *Domain
	XTitle  string
	YTitle  string
	YScale  string
	Grid    *bool

	// Geometry and cosmetics.
	Height            int
	Width             int
	PointSize         int
	UnfocusedOpacity  float64
	Title             string
	Background        string
	AxesTitleFontSize int
	Font              string
	Interactive       bool

	// Tooltips.
	HasTooltips   bool
	TooltipPoints bool
	TooltipText   bool
	TooltipRules  bool

	// Event (intervention) layers.
	LockdownRules    bool
	LockdownIcons    bool
	LockdownTooltips bool
	EventSelect      bool

	// Trend extrapolation.
	LockdownExtrapolation bool
	ExtrapClipToYDomain   bool
	ExtrapTooltipOnHover  bool
	MinTrendlineDays      int

	// Legends.
	EmojiLegend bool

	// Extra holds unrecognized configuration keys verbatim.
	Extra map[string]any
}

// NewConfig returns an empty config.
func NewConfig() *ChartConfig {
	return &ChartConfig{}
}

// Mode reports the legend mode the config selects.
func (c *ChartConfig) Mode() LegendMode {
	if c.UseManualLegend {
		return ModeManual
	}
	return ModeNative
}

// overlay is the transient per-compile derived state. It is created at the
// start of a compile and discarded at the end, on success and failure alike,
// so no state leaks across compile calls.
type overlay struct {
	colorBy  string
	detailBy string
	colormap map[string]string
}

// Overlay-aware lookups: overlay value if present, else base config, else the
// supplied default.

func (c *ChartConfig) colorByWith(ov *overlay) string {
	if ov != nil && ov.colorBy != "" {
		return ov.colorBy
	}
	return c.ColorBy
}

func (c *ChartConfig) detailByWith(ov *overlay) string {
	if ov != nil && ov.detailBy != "" {
		return ov.detailBy
	}
	return c.DetailBy
}

func (c *ChartConfig) colormapWith(ov *overlay) map[string]string {
	if ov != nil && ov.colormap != nil {
		return ov.colormap
	}
	cm, _ := c.effectiveColormap()
	return cm
}

// effectiveColormap resolves the configured colormap, including one supplied
// through Extra, and reports whether the value was a proper mapping.
func (c *ChartConfig) effectiveColormap() (map[string]string, error) {
	if c.Colormap != nil {
		return c.Colormap, nil
	}
	raw, ok := c.Extra["colormap"]
	if !ok || raw == nil {
		return nil, nil
	}
	switch m := raw.(type) {
	case map[string]string:
		return m, nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, v := range m {
			s, ok := v.(string)
			if !ok {
				return nil, issuef(CodeColormapMismatch, "expected mapping for colormap, got %T value for %q", v, k)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, issuef(CodeColormapMismatch, "expected mapping for colormap, got %T", raw)
	}
}

func (c *ChartConfig) font() string {
	if c.Font != "" {
		return c.Font
	}
	return DefaultFont
}

func (c *ChartConfig) height() int {
	if c.Height != 0 {
		return c.Height
	}
	return DefaultHeight
}

func (c *ChartConfig) width() int {
	if c.Width != 0 {
		return c.Width
	}
	return DefaultWidth
}

func (c *ChartConfig) pointSize() int {
	if c.PointSize != 0 {
		return c.PointSize
	}
	return DefaultPointSize
}

func (c *ChartConfig) unfocusedOpacity() float64 {
	if c.UnfocusedOpacity != 0 {
		return c.UnfocusedOpacity
	}
	return DefaultUnfocusedOpacity
}

func (c *ChartConfig) yScale() string {
	if c.YScale != "" {
		return c.YScale
	}
	return "linear"
}

func (c *ChartConfig) minTrendlineDays() int {
	if c.MinTrendlineDays != 0 {
		return c.MinTrendlineDays
	}
	return DefaultMinTrendlineDays
}

func (c *ChartConfig) axesTitleFontSize() int {
	if c.AxesTitleFontSize != 0 {
		return c.AxesTitleFontSize
	}
	return DefaultAxesTitleFontSize
}

func (c *ChartConfig) background() string {
	if c.Background != "" {
		return c.Background
	}
	return DefaultBackgroundColor
}

// LegendTitle resolves the title the native legend shows, which doubles as
// the aliased color/detail column when legend selection is enabled. Data
// preparation uses it to materialize the aliased column.
func (c *ChartConfig) LegendTitle() string {
	switch {
	case c.ReadableGroupName != "" && c.LegendSelection:
		return "Select_" + c.ReadableGroupName
	case c.ReadableGroupName != "":
		return c.ReadableGroupName
	default:
		return c.ColorBy
	}
}

// validate rejects configurations no coherent layer set can be built from,
// before any layer work happens.
func (c *ChartConfig) validate(tab Table) error {
	if c.Lines == nil && c.Points == nil {
		return issuef(CodeMarksRequired, "should have at least one of lines or points")
	}
	if !tab.HasColumn(ColX) {
		return issuef(CodeMissingColumn, "dataset should have an %q column", ColX)
	}
	if !tab.HasColumn(ColY) {
		return issuef(CodeMissingColumn, "dataset should have a %q column", ColY)
	}
	if !c.ClickSelection && !c.LegendSelection {
		return issuef(CodeSelectionRequired, "one of click or legend selection should be specified")
	}
	cm, err := c.effectiveColormap()
	if err != nil {
		return err
	}
	if cm != nil && c.DetailBy != c.ColorBy {
		return issuef(CodeColormapMismatch, "when colormap specified, detailby and colorby should be identical")
	}
	if c.LegendSelection && c.DetailBy != c.ColorBy {
		return issuef(CodeColormapMismatch, "when legend selection enabled, detailby and colorby should be identical")
	}
	return nil
}
