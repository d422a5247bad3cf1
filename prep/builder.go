package prep

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/reoring/chartlib"
	"github.com/reoring/chartlib/dataset"
)

var (
	// ErrMissingGroupColumn signals a series or event frame without the
	// configured grouping column.
	ErrMissingGroupColumn = errors.New("prep: grouping col should be in dataframe cols")
	// ErrMissingMeasureColumn signals a series frame without the measure.
	ErrMissingMeasureColumn = errors.New("prep: measure col should be in dataframe cols")
	// ErrMissingEventColumn signals an event frame lacking a required column.
	ErrMissingEventColumn = errors.New("prep: required column missing from event frame")
)

// trendWindowDays keeps early points out of the counterfactual slope fit:
// only rows within this many days before the intervention contribute.
const trendWindowDays = 5

// Options configures a preprocessing run.
type Options struct {
	// GroupCol names the grouping column, YCol the raw measure, XCol the
	// date column (default "date").
	GroupCol string
	YCol     string
	XCol     string

	// YIsCumulative marks the measure as already cumulative; otherwise each
	// group gets a running sum.
	YIsCumulative bool

	// TopKGroups keeps only the k groups with the largest measure, plus any
	// ForceGroups, when positive.
	TopKGroups  int
	ForceGroups []string

	// XDomain/YDomain clip rows to the chart domain before layout.
	XDomain *chartlib.Domain
	YDomain *chartlib.Domain

	// ClipEventsBeyondXMax drops events past each group's last charted day.
	// Nil means true.
	ClipEventsBeyondXMax *bool

	// LegendAlias, when set, duplicates the group column under the legend
	// title so legend-bound selections can reference it.
	LegendAlias string
}

// Builder assembles the compile-ready frame from a raw series frame and an
// optional event frame.
type Builder struct {
	series *dataset.Frame
	events *dataset.Frame
	crit   StartCriterion
	opts   Options
}

// NewBuilder returns a builder over the raw series.
func NewBuilder(series *dataset.Frame, crit StartCriterion, opts Options) *Builder {
	if opts.XCol == "" {
		opts.XCol = "date"
	}
	return &Builder{series: series, crit: crit, opts: opts}
}

// WithEvents attaches the intervention event frame. Required columns: the
// grouping column, lockdown_date and lockdown_type.
func (b *Builder) WithEvents(events *dataset.Frame) *Builder {
	b.events = events
	return b
}

// Build runs the full preprocessing pass and returns the compile-ready frame.
func (b *Builder) Build() (*dataset.Frame, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	rows := make([]dataset.Row, 0, b.series.Len())
	for _, r := range b.series.Rows() {
		cp := make(dataset.Row, len(r)+8)
		for k, v := range r {
			cp[k] = v
		}
		cp[chartlib.ColXType] = chartlib.XTypeNormal
		rows = append(rows, cp)
	}
	b.computeY(rows)
	rows = b.filterTopK(rows)

	dayZero, err := b.crit.DayZero(frameOf(rows), b.opts.GroupCol, b.opts.XCol)
	if err != nil {
		return nil, err
	}
	rows, err = b.alignDays(rows, dayZero)
	if err != nil {
		return nil, err
	}
	rows = b.clipDomains(rows)

	xmax := b.groupMaxX(rows)
	for _, r := range rows {
		r[chartlib.ColXMax] = xmax[b.group(r)]
	}

	if b.events != nil {
		rows, err = b.mergeEvents(rows, dayZero, xmax)
		if err != nil {
			return nil, err
		}
	}

	b.assignGroupIdx(rows)
	if b.opts.LegendAlias != "" {
		for _, r := range rows {
			r[b.opts.LegendAlias] = r[b.opts.GroupCol]
		}
	}

	// Alphabetic group order, day order within each group.
	sort.SliceStable(rows, func(i, j int) bool {
		gi, gj := b.group(rows[i]), b.group(rows[j])
		if gi != gj {
			return gi < gj
		}
		xi, _ := dataset.AsFloat(rows[i][chartlib.ColX])
		xj, _ := dataset.AsFloat(rows[j][chartlib.ColX])
		return xi < xj
	})

	out := dataset.New(b.outputColumns()...)
	for _, r := range rows {
		out.AddRow(r)
	}
	return out, nil
}

func (b *Builder) validate() error {
	if !b.series.HasColumn(b.opts.GroupCol) {
		return ErrMissingGroupColumn
	}
	if !b.series.HasColumn(b.opts.YCol) {
		return ErrMissingMeasureColumn
	}
	if b.events != nil {
		if !b.events.HasColumn(b.opts.GroupCol) {
			return ErrMissingGroupColumn
		}
		for _, col := range []string{"lockdown_date", "lockdown_type"} {
			if !b.events.HasColumn(col) {
				return fmt.Errorf("%w: %q", ErrMissingEventColumn, col)
			}
		}
	}
	return nil
}

func (b *Builder) group(r dataset.Row) string { return fmt.Sprint(r[b.opts.GroupCol]) }

func (b *Builder) computeY(rows []dataset.Row) {
	if b.opts.YIsCumulative {
		for _, r := range rows {
			r[chartlib.ColY] = r[b.opts.YCol]
		}
		return
	}
	running := map[string]float64{}
	for _, r := range rows {
		g := b.group(r)
		if v, ok := dataset.AsFloat(r[b.opts.YCol]); ok {
			running[g] += v
		}
		r[chartlib.ColY] = running[g]
	}
}

func (b *Builder) filterTopK(rows []dataset.Row) []dataset.Row {
	if b.opts.TopKGroups <= 0 {
		return rows
	}
	maxY := map[string]float64{}
	var order []string
	for _, r := range rows {
		g := b.group(r)
		v, _ := dataset.AsFloat(r[chartlib.ColY])
		if cur, ok := maxY[g]; !ok {
			maxY[g] = v
			order = append(order, g)
		} else if v > cur {
			maxY[g] = v
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return maxY[order[i]] > maxY[order[j]] })
	keep := map[string]bool{}
	for i, g := range order {
		if i >= b.opts.TopKGroups {
			break
		}
		keep[g] = true
	}
	for _, g := range b.opts.ForceGroups {
		keep[g] = true
	}
	out := rows[:0]
	for _, r := range rows {
		if keep[b.group(r)] {
			out = append(out, r)
		}
	}
	return out
}

// alignDays drops groups without a day zero and rewrites dates as day counts
// from it.
func (b *Builder) alignDays(rows []dataset.Row, dayZero map[string]string) ([]dataset.Row, error) {
	out := rows[:0]
	for _, r := range rows {
		zero, ok := dayZero[b.group(r)]
		if !ok {
			continue
		}
		date, ok := r[b.opts.XCol].(string)
		if !ok {
			date = fmt.Sprint(r[b.opts.XCol])
		}
		x, err := DaysBetween(zero, date)
		if err != nil {
			return nil, err
		}
		r[chartlib.ColX] = x
		out = append(out, r)
	}
	return out, nil
}

func (b *Builder) clipDomains(rows []dataset.Row) []dataset.Row {
	out := rows[:0]
	for _, r := range rows {
		x, _ := dataset.AsFloat(r[chartlib.ColX])
		y, _ := dataset.AsFloat(r[chartlib.ColY])
		if d := b.opts.XDomain; d != nil && (x < d[0] || x > d[1]) {
			continue
		}
		if d := b.opts.YDomain; d != nil && (y < d[0] || y > d[1]) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (b *Builder) groupMaxX(rows []dataset.Row) map[string]int {
	out := map[string]int{}
	seen := map[string]bool{}
	for _, r := range rows {
		g := b.group(r)
		x := intOf(r[chartlib.ColX])
		if !seen[g] || x > out[g] {
			out[g] = x
			seen[g] = true
		}
	}
	return out
}

// mergeEvents day-aligns the event rows, fits the per-group counterfactual
// trend and appends both event rows and the synthetic rows that guarantee a
// series point at x == lockdown_x.
func (b *Builder) mergeEvents(rows []dataset.Row, dayZero map[string]string, xmax map[string]int) ([]dataset.Row, error) {
	events, err := b.prepareEvents(dayZero, xmax)
	if err != nil {
		return nil, err
	}

	// Trends anchor at each group's last in-domain event.
	lockdownX := map[string]int{}
	seen := map[string]bool{}
	for _, e := range events {
		g := b.group(e)
		x := intOf(e[chartlib.ColX])
		if !seen[g] || x > lockdownX[g] {
			lockdownX[g] = x
			seen[g] = true
		}
	}
	for _, r := range rows {
		if lx, ok := lockdownX[b.group(r)]; ok {
			r[chartlib.ColLockdownX] = lx
		}
	}

	b.fitTrends(rows, lockdownX)

	// One synthetic row per group so the lockdown layers, which filter on
	// x == lockdown_x, always have a row to bind to.
	var synthetic []dataset.Row
	for _, g := range sortedKeys(lockdownX) {
		synthetic = append(synthetic, dataset.Row{
			b.opts.GroupCol:       g,
			chartlib.ColLockdownX: lockdownX[g],
			chartlib.ColX:         lockdownX[g],
		})
	}
	rows = append(rows, synthetic...)

	// Give event rows the series values at their day so they sit on the line.
	firstAt := map[string]dataset.Row{}
	for _, r := range rows {
		key := fmt.Sprintf("%s\x00%d", b.group(r), intOf(r[chartlib.ColX]))
		if _, ok := firstAt[key]; !ok {
			firstAt[key] = r
		}
	}
	for _, e := range events {
		key := fmt.Sprintf("%s\x00%d", b.group(e), intOf(e[chartlib.ColX]))
		src, ok := firstAt[key]
		if !ok {
			continue
		}
		for _, col := range []string{chartlib.ColY, chartlib.ColLockdownX, chartlib.ColLockdownY} {
			if v, present := src[col]; present {
				e[col] = v
			}
		}
	}
	return append(rows, events...), nil
}

func (b *Builder) prepareEvents(dayZero map[string]string, xmax map[string]int) ([]dataset.Row, error) {
	clip := b.opts.ClipEventsBeyondXMax == nil || *b.opts.ClipEventsBeyondXMax
	var events []dataset.Row
	for _, r := range b.events.Rows() {
		if r[b.opts.GroupCol] == nil || r["lockdown_date"] == nil || r["lockdown_type"] == nil {
			continue
		}
		g := b.group(r)
		zero, ok := dayZero[g]
		if !ok {
			continue
		}
		date, ok := r["lockdown_date"].(string)
		if !ok {
			date = fmt.Sprint(r["lockdown_date"])
		}
		x, err := DaysBetween(zero, date)
		if err != nil {
			return nil, err
		}
		if clip {
			if mx, ok := xmax[g]; !ok || x > mx {
				continue
			}
		}
		// Events only render strictly inside the chart domain.
		if d := b.opts.XDomain; d != nil && (float64(x) <= d[0] || float64(x) >= d[1]) {
			continue
		}
		cp := make(dataset.Row, len(r)+4)
		for k, v := range r {
			cp[k] = v
		}
		cp[chartlib.ColXType] = chartlib.XTypeLockdown
		cp[chartlib.ColX] = x
		events = append(events, cp)
	}

	// Chronological index per group.
	sort.SliceStable(events, func(i, j int) bool {
		return intOf(events[i][chartlib.ColX]) < intOf(events[j][chartlib.ColX])
	})
	counter := map[string]int{}
	for _, e := range events {
		g := b.group(e)
		e[chartlib.ColEventIndex] = counter[g]
		counter[g]++
	}
	return events, nil
}

// fitTrends computes per-group exponential model parameters from the rows
// inside the trend window and writes them onto every row of the group.
func (b *Builder) fitTrends(rows []dataset.Row, lockdownX map[string]int) {
	type params struct {
		xStart, yStart float64
		haveStart      bool
	}
	fits := map[string]*params{}
	for _, r := range rows {
		g := b.group(r)
		lx, ok := lockdownX[g]
		if !ok {
			continue
		}
		x := intOf(r[chartlib.ColX])
		if lx-x >= trendWindowDays {
			continue
		}
		y, ok := dataset.AsFloat(r[chartlib.ColY])
		if !ok {
			continue
		}
		p := fits[g]
		if p == nil {
			p = &params{}
			fits[g] = p
		}
		if !p.haveStart || float64(x) < p.xStart {
			p.xStart = float64(x)
			p.yStart = y
			p.haveStart = true
		}
	}
	// The anchor is the y at the last day at or before the intervention,
	// still inside the trend window.
	anchorX := map[string]int{}
	anchorY := map[string]float64{}
	for _, r := range rows {
		g := b.group(r)
		lx, ok := lockdownX[g]
		if !ok {
			continue
		}
		x := intOf(r[chartlib.ColX])
		if lx-x >= trendWindowDays || x > lx {
			continue
		}
		y, ok := dataset.AsFloat(r[chartlib.ColY])
		if !ok {
			continue
		}
		if ax, seen := anchorX[g]; !seen || x > ax {
			anchorX[g] = x
			anchorY[g] = y
		}
	}
	for _, r := range rows {
		g := b.group(r)
		p := fits[g]
		lx, ok := lockdownX[g]
		if p == nil || !p.haveStart || !ok {
			continue
		}
		ly, haveAnchor := anchorY[g]
		if !haveAnchor {
			continue
		}
		r[chartlib.ColXStart] = p.xStart
		r["y_start"] = p.yStart
		r[chartlib.ColLockdownY] = ly
		r[chartlib.ColSlope] = math.Exp(math.Log(ly/p.yStart) / (float64(lx) - p.xStart))
	}
}

func (b *Builder) assignGroupIdx(rows []dataset.Row) {
	seen := map[string]bool{}
	var names []string
	for _, r := range rows {
		g := b.group(r)
		if !seen[g] {
			seen[g] = true
			names = append(names, g)
		}
	}
	sort.Strings(names)
	idx := make(map[string]int, len(names))
	for i, g := range names {
		idx[g] = i
	}
	for _, r := range rows {
		r[chartlib.ColGroupIdx] = idx[b.group(r)]
	}
}

func (b *Builder) outputColumns() []string {
	var cols []string
	seen := map[string]bool{}
	add := func(cs ...string) {
		for _, c := range cs {
			if c != "" && !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	add(b.series.Columns()...)
	if b.events != nil {
		add(b.events.Columns()...)
	}
	add(chartlib.ColXType, chartlib.ColY, chartlib.ColX, chartlib.ColXMax,
		chartlib.ColLockdownX, chartlib.ColXStart, "y_start", chartlib.ColLockdownY,
		chartlib.ColSlope, chartlib.ColEventIndex, chartlib.ColGroupIdx, b.opts.LegendAlias)
	return cols
}

func frameOf(rows []dataset.Row) *dataset.Frame {
	f := dataset.New()
	for _, r := range rows {
		f.AddRow(r)
	}
	return f
}

func intOf(v any) int {
	f, _ := dataset.AsFloat(v)
	return int(f)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
