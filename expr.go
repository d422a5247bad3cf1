package chartlib

import (
	"fmt"
	"strings"
)

// parens wraps an expression so every predicate is a single parenthesized
// term and composes safely with && / ||.
func parens(expr string) string { return "(" + expr + ")" }

func andJoin(terms ...string) string { return parens(strings.Join(terms, " && ")) }

func boolLit(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// expressions builds the boolean focus/activity predicates of one compile.
// Predicates are pure functions of the resolved column names, so they are
// memoized for the lifetime of the compile.
type expressions struct {
	cfg   *ChartConfig
	ov    *overlay
	strat legendStrategy
	memo  map[string]string
}

func newExpressions(cfg *ChartConfig, ov *overlay, strat legendStrategy) *expressions {
	return &expressions{cfg: cfg, ov: ov, strat: strat, memo: map[string]string{}}
}

func (e *expressions) memoize(key string, build func() string) string {
	if v, ok := e.memo[key]; ok {
		return v
	}
	v := build()
	e.memo[key] = v
	return v
}

func (e *expressions) detailBy() string { return e.cfg.detailByWith(e.ov) }

// clickActive holds when click selection is enabled and the click selection
// carries a non-sentinel detail value.
func (e *expressions) clickActive() string {
	return e.memoize("clickActive", func() string {
		d := e.detailBy()
		return andJoin(
			boolLit(e.cfg.ClickSelection),
			fmt.Sprintf("isValid(%s.%s)", selClick, d),
			fmt.Sprintf("%s.%s != %q", selClick, d, EmptySelection),
		)
	})
}

// clickFocused holds when the datum's detail value is a member of the click
// selection.
func (e *expressions) clickFocused() string {
	return e.memoize("clickFocused", func() string {
		d := e.detailBy()
		return andJoin(
			e.clickActive(),
			fmt.Sprintf("indexof(%s.%s, datum.%s) >= 0", selClick, d, d),
		)
	})
}

func (e *expressions) legendActive() string {
	return e.memoize("legendActive", func() string { return e.strat.legendActive(e) })
}

func (e *expressions) legendFocused() string {
	return e.memoize("legendFocused", func() string { return e.strat.legendFocused(e) })
}

func (e *expressions) inFocus() string {
	return e.memoize("inFocus", func() string {
		return parens(e.clickFocused() + " || " + e.legendFocused())
	})
}

func (e *expressions) someoneHasFocus() string {
	return e.memoize("someoneHasFocus", func() string {
		return parens(e.clickActive() + " || " + e.legendActive())
	})
}

// inFocusOrNoneSelected is the dominant opacity-governing predicate: content
// marks are fully opaque when nothing is selected or the datum matches the
// active selection.
func (e *expressions) inFocusOrNoneSelected() string {
	return e.memoize("inFocusOrNoneSelected", func() string {
		return parens(e.inFocus() + " || !" + e.someoneHasFocus())
	})
}

func (e *expressions) clickFocusedOrNoneSelected() string {
	return e.memoize("clickFocusedOrNoneSelected", func() string {
		return parens(e.clickFocused() + " || !" + e.someoneHasFocus())
	})
}

func (e *expressions) legendFocusedOrNoneSelected() string {
	return e.memoize("legendFocusedOrNoneSelected", func() string {
		return parens(e.legendFocused() + " || !" + e.someoneHasFocus())
	})
}

func (e *expressions) showEvents() string { return selEvents + ".values[0]" }

func (e *expressions) hideRegionalIcons() string { return selHideRegional + ".values[0]" }

func (e *expressions) showTrends() string { return e.strat.showTrends() }

// legendStrategy is the tagged-variant implementation of a LegendMode: each
// mode owns its activity/focus predicates, its click-selection cardinality
// and its init shape.
type legendStrategy interface {
	mode() LegendMode
	legendActive(e *expressions) string
	legendFocused(e *expressions) string
	showTrends() string
	clickSelectionType() string
	clickInit(init map[string]any) any
}

func strategyFor(mode LegendMode) legendStrategy {
	if mode == ModeManual {
		return manualLegend{}
	}
	return nativeLegend{}
}

// nativeLegend drives the renderer's built-in legend widget.
type nativeLegend struct{}

func (nativeLegend) mode() LegendMode { return ModeNative }

func (nativeLegend) legendActive(e *expressions) string {
	d := e.detailBy()
	terms := []string{
		boolLit(e.cfg.LegendSelection),
		fmt.Sprintf("isDefined(%s.%s)", selLegend, d),
		fmt.Sprintf("(!isDefined(%s) || !isDefined(%s_%s))", selClick, selClick, d),
	}
	if e.cfg.FacetBy == "" {
		// legend_tuple is not defined for facet charts; detecting a click on
		// a blank area needs the per-column legend store there instead.
		terms = append(terms,
			fmt.Sprintf("isValid(%s_tuple)", selLegend),
			fmt.Sprintf("!isDefined(%s_tuple.unit)", selLegend),
		)
	} else {
		terms = append(terms, fmt.Sprintf("isValid(%s_%s_legend)", selLegend, d))
	}
	return andJoin(terms...)
}

func (nativeLegend) legendFocused(e *expressions) string {
	d := e.detailBy()
	return andJoin(
		e.legendActive(),
		fmt.Sprintf("indexof(%s.%s, datum.%s) >= 0", selLegend, d, d),
	)
}

func (nativeLegend) showTrends() string {
	return fmt.Sprintf("!isValid(%s_tuple) || %s_tuple.values[0]", selTrends, selTrends)
}

func (nativeLegend) clickSelectionType() string { return "single" }

func (nativeLegend) clickInit(init map[string]any) any { return init }

// manualLegend drives the synthetic mark-built legend keyed by group index.
type manualLegend struct{}

func (manualLegend) mode() LegendMode { return ModeManual }

func (manualLegend) legendActive(e *expressions) string {
	return andJoin(
		fmt.Sprintf("isValid(%s)", selLegendHover),
		fmt.Sprintf("isValid(%s.%s)", selLegendHover, ColGroupIdx),
		fmt.Sprintf("%s.%s > -1", selLegendHover, ColGroupIdx),
	)
}

func (manualLegend) legendFocused(e *expressions) string {
	return andJoin(
		e.legendActive(),
		fmt.Sprintf("datum.%s == %s.%s", ColGroupIdx, selLegendHover, ColGroupIdx),
	)
}

func (manualLegend) showTrends() string { return selTrends + ".values[0]" }

func (manualLegend) clickSelectionType() string { return "multi" }

// Multi-valued selections initialize from a list of field maps.
func (manualLegend) clickInit(init map[string]any) any { return []map[string]any{init} }
