package chartlib

import (
	"fmt"
	"sort"

	"github.com/reoring/chartlib/vega"
)

// Table is the tabular dataset collaborator. The caller materializes it fully
// before compile; the compiler never mutates it.
type Table interface {
	// HasColumn reports whether the named column exists.
	HasColumn(name string) bool
	// Distinct returns the column's distinct values in encounter order.
	Distinct(name string) []any
	// Rows returns the rows for embedding into the output document.
	Rows() []map[string]any
}

// Compile compiles cfg plus tab into a renderer document, registering the
// font theme in the process-wide vega registry.
func Compile(cfg *ChartConfig, tab Table) (*vega.Spec, error) {
	return NewCompiler(nil).Compile(cfg, tab)
}

// Compiler runs compile passes with an explicit Theming collaborator.
// Compilers hold no per-compile state and are safe for reuse.
type Compiler struct {
	theming Theming
}

// NewCompiler returns a compiler; nil theming selects the registry-backed
// default.
func NewCompiler(theming Theming) *Compiler {
	if theming == nil {
		theming = RegistryTheming{}
	}
	return &Compiler{theming: theming}
}

// Compile runs one synchronous compile pass:
// Validate → PopulateTransient → BuildBaseSelections → BuildOrderedLayers →
// ComposeAndConfigure → TeardownTransient.
func (c *Compiler) Compile(cfg *ChartConfig, tab Table) (*vega.Spec, error) {
	if err := cfg.validate(tab); err != nil {
		return nil, err
	}
	p := &pipeline{
		cfg:   cfg,
		tab:   tab,
		ov:    &overlay{},
		strat: strategyFor(cfg.Mode()),
		base:  vega.NewUnit(),
	}
	// The overlay is scoped to this call; release it on every exit path.
	defer p.teardown()
	return p.run(c.theming)
}

// pipeline owns the transient overlay and the in-progress layer set of one
// compile call. Nothing here survives the call.
type pipeline struct {
	cfg    *ChartConfig
	tab    Table
	ov     *overlay
	strat  legendStrategy
	expr   *expressions
	base   *vega.Unit
	layers []*vega.Unit
	click  *vega.Selection
	cursor *vega.Selection
}

func (p *pipeline) teardown() {
	p.ov = nil
	p.expr = nil
	p.layers = nil
}

func (p *pipeline) run(theming Theming) (*vega.Spec, error) {
	if err := p.populateTransient(); err != nil {
		return nil, err
	}
	p.expr = newExpressions(p.cfg, p.ov, p.strat)
	p.buildSelections()
	if err := p.buildLayers(); err != nil {
		return nil, err
	}
	return p.compose(theming)
}

// populateTransient resolves the per-compile colormap and the legend-title
// aliasing of the grouping columns into the overlay.
func (p *pipeline) populateTransient() error {
	cm, err := p.cfg.effectiveColormap()
	if err != nil {
		return err
	}
	if cm != nil {
		var groups []string
		for _, v := range p.tab.Distinct(p.cfg.colorByWith(p.ov)) {
			groups = append(groups, groupKey(v))
		}
		full, err := assignColors(groups, cm, p.cfg.DefaultColor)
		if err != nil {
			return err
		}
		p.ov.colormap = full
	}
	if p.cfg.ReadableGroupName != "" && p.cfg.LegendSelection {
		title := p.cfg.LegendTitle()
		p.ov.colorBy = title
		p.ov.detailBy = title
	}
	return nil
}

func (p *pipeline) buildSelections() {
	d := p.cfg.detailByWith(p.ov)
	click := &vega.Selection{
		Type:   p.strat.clickSelectionType(),
		Fields: []string{d},
		On:     "click",
		Empty:  "all",
		Clear:  "dblclick",
	}
	if p.strat.mode() == ModeNative {
		options := []string{EmptySelection}
		name := " "
		if p.cfg.ClickSelection {
			for _, v := range p.tab.Distinct(d) {
				options = append(options, groupKey(v))
			}
			label := p.cfg.ReadableGroupName
			if label == "" {
				label = p.cfg.DetailBy
			}
			if label == "" {
				label = "group"
			}
			name = fmt.Sprintf("Select %s: ", label)
		}
		click.Bind = vega.BindingSelect(options, name)
	}
	if p.cfg.ClickSelectionInit != "" {
		click.Init = p.strat.clickInit(map[string]any{d: p.cfg.ClickSelectionInit})
	}
	p.click = click

	cursor := &vega.Selection{
		Type:    vega.SelectionSingle,
		Nearest: true,
		On:      "mouseover",
		Fields:  []string{ColX},
		Empty:   "none",
	}
	if p.strat.mode() == ModeManual {
		// A sticky clear would make the hover highlight vanish while the
		// cursor sits on a point.
		cursor.Clear = "mouseout"
	}
	p.cursor = cursor
}

func (p *pipeline) add(name string, u *vega.Unit) {
	p.layers = append(p.layers, u.Named(name))
}

// buildLayers assembles the ordered layer set. Insertion order is a hard
// contract: the renderer binds its legend to the first layer declaring a
// color encoding, and multi-value selections only register on the layer they
// are attached to.
func (p *pipeline) buildLayers() error {
	// An invisible line layer with both axes encoded gives pan/zoom x and y
	// fields to bind to.
	p.add("fake_interactive", p.base.MarkLine(vega.MarkDef{}).
		Encode(vega.EncX(p.xch(ColX, "")), vega.EncY(p.ych(ColY, ""))).
		TransformFilter("false"))

	if p.strat.mode() == ModeNative {
		// The first layer with a color channel generates the legend, so its
		// marks must not be translucent, and the legend-bound multi selection
		// has to live on that same layer.
		legendSel := &vega.Selection{
			Type:   vega.SelectionMulti,
			Fields: []string{p.cfg.colorByWith(p.ov)},
			On:     "click",
			Empty:  "all",
			Bind:   vega.BindLegend,
			Clear:  "dblclick",
		}
		p.add("legend", p.base.MarkPoint(vega.MarkDef{Size: vega.Size(0)}).
			Encode(vega.EncX(p.xch(ColX, "")), vega.EncY(p.ych(ColY, "")), vega.EncColor(p.colorChannel())).
			AddSelection(selLegend, legendSel))

		// Hover binds to the x column; layers using the hover interaction
		// must encode the same column and filter out rows they do not want.
		p.add("selectors", p.base.MarkPoint(vega.MarkDef{Size: vega.Size(0)}).
			Encode(vega.EncX(p.xch(ColX, ""))).
			AddSelection(selCursor, p.cursor))
	}

	// Fat invisible points make easy click targets; being translucent they
	// can be neither the legend-generating layer nor the legend-bound one.
	p.add("fake_points", p.pointLayer(400, true).AddSelection(selClick, p.click))

	if p.strat.mode() == ModeManual {
		// The multi-valued click selection does not stick if it follows a
		// single-valued hover selection, so hover goes after click here.
		p.add("selectors", p.pointLayer(0, true).AddSelection(selCursor, p.cursor))
	}

	p.add("lines", p.lineLayer())
	points := p.pointLayer(p.cfg.pointSize(), false)
	p.add("points", points)

	p.collectTooltipLayers(points)

	if p.cfg.LockdownExtrapolation {
		trendSel := &vega.Selection{
			Type: vega.SelectionSingle,
			Bind: vega.BindingCheckbox("Show trend lines for selected "),
			Init: map[string]any{"values": true},
		}
		model := p.extrapolationLayer()
		p.add("model_lines", model)
		p.add("model_tooltip", p.extrapolationTooltip(model, trendSel))
	}

	if p.cfg.EmojiLegend {
		if err := p.collectEmojiLegendLayers(); err != nil {
			return err
		}
	}
	return nil
}

func (p *pipeline) lineLayer() *vega.Unit {
	var opacity *vega.Channel
	if p.cfg.Lines != nil && *p.cfg.Lines {
		opacity = vega.Cond(p.expr.inFocusOrNoneSelected(), 1, p.cfg.unfocusedOpacity())
	} else {
		opacity = vega.Value(0)
	}
	u := p.base.MarkLine(vega.MarkDef{Size: vega.Size(3)}).
		Encode(append(p.contentEncoding(), vega.EncOpacity(opacity))...).
		TransformFilter("datum.y !== null").
		TransformFilter(fmt.Sprintf("datum.x_type == %q", XTypeNormal))
	if p.cfg.yScale() == "log" {
		u.TransformFilter("datum.y > 0")
	}
	return u
}

func (p *pipeline) pointLayer(size int, fake bool) *vega.Unit {
	var opacity *vega.Channel
	if fake || p.cfg.Points == nil || !*p.cfg.Points {
		opacity = vega.Value(0)
	} else {
		opacity = vega.Cond(p.expr.inFocusOrNoneSelected(), 0.4, p.cfg.unfocusedOpacity())
	}
	u := p.base.MarkPoint(vega.MarkDef{Size: vega.Size(size), Filled: true}).
		Encode(append(p.contentEncoding(), vega.EncOpacity(opacity))...).
		TransformFilter("datum.y !== null").
		TransformFilter(fmt.Sprintf("datum.x_type == %q", XTypeNormal))
	if p.cfg.yScale() == "log" {
		u.TransformFilter("datum.y > 0")
	}
	if fake && p.strat.mode() == ModeNative {
		// Keeps tooltips from sticking to unfocused fake points.
		u.TransformFilter(p.expr.inFocusOrNoneSelected())
	}
	return u
}

func (p *pipeline) collectTooltipLayers(points *vega.Unit) {
	if !p.cfg.HasTooltips {
		return
	}
	if p.cfg.TooltipPoints {
		p.add("tooltip_points", points.MarkPoint(vega.MarkDef{Filled: true}).
			Encode(vega.EncOpacity(vega.CondSelectionValue(selCursor, 1, 0))).
			TransformFilter(p.expr.inFocus()))
	}
	if p.cfg.TooltipText {
		p.add("tooltip_text", p.tooltipTextLayer(points))
	}
	if p.cfg.TooltipRules {
		p.add("tooltip_rules", p.base.MarkRule(vega.MarkDef{Color: "gray"}).
			Encode(vega.EncX(vega.Field(ColX, vega.Quantitative))).
			TransformFilterSelection(selCursor).
			TransformFilter(p.expr.someoneHasFocus()))
	}

	eventBase := p.base.Clone().
		TransformFilter(fmt.Sprintf("datum.x_type == %q", XTypeLockdown)).
		TransformFilter(p.expr.inFocus())
	if p.tab.HasColumn(ColCoverage) {
		eventBase.TransformFilter(fmt.Sprintf(`datum.Coverage == "Statewide" || !%s`, p.expr.hideRegionalIcons()))
	}
	hasRules := p.cfg.LockdownRules
	hasIcons := p.cfg.LockdownIcons
	if hasRules {
		p.add("lockdown_rules", eventBase.MarkRule(vega.MarkDef{Size: vega.Size(3), StrokeDash: []int{7, 3}}).
			Encode(vega.EncX(p.xch(ColX, "")), vega.EncDetail(p.detailChannel()), vega.EncColor(p.colorChannel())))
	}
	if hasIcons {
		p.collectEventIconLayers(eventBase)
	}
	if hasRules || hasIcons || p.cfg.LockdownTooltips {
		p.collectEventTooltipLayers(eventBase)
	}
}

func (p *pipeline) tooltipTextLayer(points *vega.Unit) *vega.Unit {
	d := p.cfg.detailByWith(p.ov)
	return points.MarkText(vega.MarkDef{Align: "left", DX: 5, DY: 45, Font: p.cfg.font()}).
		Encode(
			vega.EncText(vega.CondSelection(selCursor, "tooltip_text", vega.Nominal, " ")),
			vega.EncOpacity(vega.Value(1)),
			vega.EncColor(vega.Value("black")),
		).
		TransformCalculate("tooltip_text", fmt.Sprintf(`datum.%s + ": " + datum.y`, d)).
		TransformFilter(p.expr.inFocus())
}

func (p *pipeline) collectEventIconLayers(eventBase *vega.Unit) {
	ycol := ColY
	hasIdx := p.tab.HasColumn(ColEventIndex)
	if hasIdx {
		ycol = "event_index_y"
	}
	makeBase := func(size int) *vega.Unit {
		u := eventBase.MarkImage(vega.MarkDef{Height: size, Width: size}).
			Encode(
				vega.EncX(p.xch(ColX, "")),
				vega.EncY(p.ych(ycol, "")),
				vega.EncOpacity(vega.Value(1)),
				vega.EncURL(vega.Field("image_url", vega.Nominal)),
			)
		if hasIdx {
			// Constant pixel offsets under a log-scaled axis.
			// TODO don't assume log scale
			u.TransformCalculate(ycol, "exp(log(datum.y) + (2 * (datum.event_index % 2) - 1) * ceil(datum.event_index / 2) * .8)")
		}
		return u
	}
	if p.tab.HasColumn(ColCoverage) {
		p.add("statewide_lockdown_icons", makeBase(25).TransformFilter(`datum.Coverage == "Statewide"`))
		p.add("regional_lockdown_icons", makeBase(20).TransformFilter(`datum.Coverage != "Statewide"`))
	} else {
		p.add("lockdown_icons", makeBase(25))
	}
}

// collectEventTooltipLayers builds two text layers because a condition of
// type "mouseover OR checkbox" cannot be expressed in one: the first is
// active on hover while the checkbox is off, the second whenever the
// checkbox is on.
func (p *pipeline) collectEventTooltipLayers(eventBase *vega.Unit) {
	const tooltipField = "lockdown_tooltip_text"
	const emptyIfCheckbox = "empty_if_checkbox"
	hasIdx := p.tab.HasColumn(ColEventIndex)
	makeBase := func(text *vega.Channel) *vega.Unit {
		u := eventBase.MarkText(vega.MarkDef{Align: "left", DX: 15, Font: p.cfg.font(), FontWeight: 600}).
			Encode(
				vega.EncX(p.xch(ColX, "")),
				vega.EncY(p.ych(ColY, "")),
				vega.EncText(text),
				vega.EncColor(vega.Value("black")),
			).
			TransformCalculate(tooltipField, `datum.lockdown_type + " " + "(" + datum.lockdown_date + ")"`)
		if hasIdx {
			u.TransformFilter("datum.event_index == 0")
		}
		return u
	}

	hover := makeBase(vega.CondSelection(selCursor, emptyIfCheckbox, vega.Nominal, " "))
	calcExpr := "datum." + tooltipField
	if p.cfg.EventSelect {
		calcExpr = fmt.Sprintf(`%s ? " " : datum.%s`, p.expr.showEvents(), tooltipField)
		hover.AddSelection(selEvents, &vega.Selection{
			Type: vega.SelectionSingle,
			Bind: vega.BindingCheckbox("Show all intervention details "),
			Init: map[string]any{"values": false},
		})
	}
	if p.tab.HasColumn(ColCoverage) {
		// Declared here so the control renders above the "show all events"
		// checkbox.
		hover.AddSelection(selHideRegional, &vega.Selection{
			Type: vega.SelectionSingle,
			Bind: vega.BindingCheckbox("Hide regional intervention icons "),
			Init: map[string]any{"values": false},
		})
	}
	hover.TransformCalculate(emptyIfCheckbox, calcExpr)
	p.add("hover_layer", hover)

	if p.cfg.EventSelect {
		p.add("event_checkbox_layer", makeBase(vega.Field(tooltipField, vega.Nominal)).
			TransformFilter(p.expr.showEvents()))
	}
}

func (p *pipeline) compose(theming Theming) (*vega.Spec, error) {
	spec := vega.Layer(p.layers...)
	spec.Data = &vega.Data{Values: p.tab.Rows()}
	spec.Width = p.cfg.width()
	spec.Height = p.cfg.height()
	if p.cfg.FacetBy != "" {
		spec = spec.FacetColumn(p.cfg.FacetBy)
	}
	if p.cfg.Interactive {
		spec.Interactive(true, true)
	}
	if p.cfg.Title != "" {
		spec.Title = p.cfg.Title
	}
	final := spec
	if p.strat.mode() == ModeManual {
		legend, err := p.manualLegendSpec()
		if err != nil {
			return nil, err
		}
		final = vega.HConcat(0, spec, legend)
	}
	final.Configure(func(c *vega.Config) {
		c.Background = p.cfg.background()
		c.Axis = &vega.AxisConfig{TitleFontSize: p.cfg.axesTitleFontSize()}
		c.Title = &vega.TitleConfig{Font: p.cfg.font()}
		if p.strat.mode() == ModeNative {
			c.Legend = &vega.LegendConfig{SymbolType: "diamond"}
		}
	})
	final.Schema = vega.SchemaURL
	theming.Apply(p.cfg.font())
	return final, nil
}

// Encoding channel helpers.

func (p *pipeline) contentEncoding() []vega.EncOpt {
	return []vega.EncOpt{
		vega.EncX(p.xch(ColX, "")),
		vega.EncY(p.ych(ColY, "")),
		vega.EncDetail(p.detailChannel()),
		vega.EncColor(p.colorChannel()),
	}
}

func (p *pipeline) xch(field, agg string) *vega.Channel {
	c := vega.Field(field, vega.Quantitative)
	if agg != "" {
		c.WithAggregate(agg)
	}
	if p.cfg.XDomain != nil {
		c.Scale = &vega.Scale{Domain: domainVals(*p.cfg.XDomain)}
	}
	if p.cfg.XTitle != "" {
		c.Title = p.cfg.XTitle
	}
	if p.cfg.Grid != nil {
		c.Axis = &vega.Axis{Grid: p.cfg.Grid}
	}
	return c
}

func (p *pipeline) ych(field, agg string) *vega.Channel {
	c := vega.Field(field, vega.Quantitative)
	if agg != "" {
		c.WithAggregate(agg)
	}
	sc := &vega.Scale{Type: p.cfg.yScale()}
	if p.cfg.YDomain != nil {
		sc.Domain = domainVals(*p.cfg.YDomain)
	}
	c.Scale = sc
	if p.cfg.YTitle != "" {
		c.Title = p.cfg.YTitle
	}
	if p.cfg.Grid != nil {
		c.Axis = &vega.Axis{Grid: p.cfg.Grid}
	}
	return c
}

func (p *pipeline) detailChannel() *vega.Channel {
	return vega.Field(p.cfg.detailByWith(p.ov), vega.Nominal)
}

func (p *pipeline) colorChannel() *vega.Channel {
	c := vega.Field(p.cfg.colorByWith(p.ov), vega.Nominal)
	if cm := p.cfg.colormapWith(p.ov); cm != nil {
		keys := make([]string, 0, len(cm))
		for k := range cm {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		domain := make([]any, 0, len(keys))
		rng := make([]any, 0, len(keys))
		for _, k := range keys {
			domain = append(domain, k)
			rng = append(rng, cm[k])
		}
		c.Scale = &vega.Scale{Domain: domain, Range: rng}
	}
	if p.strat.mode() == ModeManual {
		c.NoLegend()
	}
	return c
}

func domainVals(d Domain) []any { return []any{d[0], d[1]} }
