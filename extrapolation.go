package chartlib

import (
	"fmt"

	"github.com/reoring/chartlib/vega"
)

// extrapolationLayer renders the counterfactual trend continuation past each
// group's intervention: model_y = lockdown_y * slope^(x - lockdown_x). The
// slope is fitted upstream during preprocessing; this layer only evaluates
// the model inside the document.
func (p *pipeline) extrapolationLayer() *vega.Unit {
	u := p.base.MarkLine(vega.MarkDef{Size: vega.Size(5), StrokeDash: []int{1, 1}}).
		Encode(
			vega.EncX(p.xch(ColX, "")),
			vega.EncY(p.ych("model_y", "")),
			vega.EncDetail(p.detailChannel()),
			vega.EncColor(p.colorChannel()),
		)
	p.addModelTransforms(u)
	u.TransformFilter(p.expr.inFocus())
	return u
}

func (p *pipeline) addModelTransforms(u *vega.Unit) {
	u.TransformFilter(p.expr.showTrends()).
		TransformFilter("datum.lockdown_x != null").
		TransformFilter("datum.y !== null").
		TransformFilter("datum.lockdown_y !== null").
		TransformFilter("datum.lockdown_slope !== null").
		TransformFilter("datum.x >= datum.lockdown_x").
		// Only draw the trend when the intervention happened after the
		// series start.
		TransformFilter("datum.lockdown_x > datum.x_start").
		TransformFilter(fmt.Sprintf("datum.xmax - datum.lockdown_x >= %d", p.cfg.minTrendlineDays())).
		TransformCalculate("model_y", "datum.lockdown_y * pow(datum.lockdown_slope, datum.x - datum.lockdown_x)")
	if p.cfg.YDomain != nil && p.cfg.ExtrapClipToYDomain {
		u.TransformFilter(fmt.Sprintf("datum.model_y <= %v", p.cfg.YDomain[1]))
	}
}

// extrapolationTooltip labels the trend lines and carries the "show trend
// lines" checkbox. Without the hover-only option the label sits at the max
// point of each trend; with it the label follows the cursor.
func (p *pipeline) extrapolationTooltip(model *vega.Unit, trendSel *vega.Selection) *vega.Unit {
	const textField = "extrap_text"
	var text *vega.Channel
	xAgg, yAgg := "max", "max"
	if p.cfg.ExtrapTooltipOnHover {
		text = vega.CondSelection(selCursor, textField, vega.Nominal, " ")
		xAgg, yAgg = "", ""
	} else {
		text = vega.Field(textField, vega.Nominal)
	}
	return model.MarkText(vega.MarkDef{Align: "center", DY: -5, Font: p.cfg.font()}).
		Encode(
			vega.EncX(p.xch(ColX, xAgg)),
			vega.EncY(p.ych("model_y", yAgg)),
			vega.EncText(text),
			vega.EncOpacity(vega.Value(1)),
			vega.EncColor(vega.Value("black")),
		).
		TransformFilter(p.expr.showTrends()).
		TransformCalculate(textField, `"Original trend"`).
		AddSelection(selTrends, trendSel)
}
