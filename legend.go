package chartlib

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/chartlib/vega"
)

// manualLegendSpec builds the mark-based legend concatenated to the right of
// the chart in manual mode. Each group gets a diamond plus a text label on an
// invisible coordinate system; hovering a row drives the legend_hover
// selection and clicking the (invisible, padded) label row toggles the
// multi-valued click selection.
func (p *pipeline) manualLegendSpec() (*vega.Spec, error) {
	colorCol := p.cfg.colorByWith(p.ov)

	// First row per group, rows sorted by group name.
	seen := map[string]bool{}
	var names []string
	groupIdx := map[string]any{}
	for _, row := range p.tab.Rows() {
		k := groupKey(row[p.cfg.ColorBy])
		if seen[k] {
			continue
		}
		seen[k] = true
		names = append(names, k)
		if v, ok := row[ColGroupIdx]; ok {
			groupIdx[k] = v
		} else {
			groupIdx[k] = -1
		}
	}
	sort.Strings(names)
	if len(names) > MaxLegendMarks {
		return nil, issuef(CodeLegendCapacity, "max %d supported for now (%d requested)", MaxLegendMarks, len(names))
	}

	// Rows are laid out top-down from idx 34; the title row sits above at 35.
	rows := make([]map[string]any, 0, len(names)+1)
	for i, name := range names {
		rows = append(rows, map[string]any{
			"idx":       MaxLegendMarks + 1 - i,
			ColGroupIdx: groupIdx[name],
			colorCol:    name,
			ColX:        0,
			"row_type":  "normal",
		})
	}
	label := p.cfg.ReadableGroupName
	if label == "" {
		label = "line"
	}
	rows = append(rows, map[string]any{
		"idx":       MaxLegendMarks + 2,
		ColGroupIdx: -1,
		colorCol:    "Select " + label,
		ColX:        0,
		"row_type":  "title",
	})

	off := vega.BoolRef(false)
	axis := &vega.Axis{Domain: off, Ticks: off, Orient: "right", Grid: off, Labels: off}
	makeBase := func(extra ...vega.EncOpt) *vega.Unit {
		opts := append([]vega.EncOpt{
			vega.EncX(&vega.Channel{Field: ColX, Type: vega.Quantitative, Axis: axis, Scale: &vega.Scale{Domain: []any{-5, 20}}}),
			vega.EncY(&vega.Channel{Field: "idx", Type: vega.Quantitative, Axis: axis, Scale: &vega.Scale{Domain: []any{0, MaxLegendMarks}}}),
			vega.EncColor(p.colorChannel()),
			vega.EncDetail(p.detailChannel()),
		}, extra...)
		return vega.NewUnit().Encode(opts...)
	}

	points := makeBase(vega.EncOpacity(vega.Cond(p.expr.clickFocusedOrNoneSelected(), 1, 0.4))).
		MarkPoint(vega.MarkDef{Shape: "diamond", Filled: true, Size: vega.Size(160)}).
		TransformFilter(`datum.row_type == "normal"`)

	hover := &vega.Selection{
		Type:    vega.SelectionSingle,
		Nearest: true,
		On:      "mouseover",
		Clear:   "mouseout",
		Fields:  []string{ColGroupIdx},
		Empty:   "none",
	}

	spec := vega.Layer(
		points,
		// Invisible padded labels carry the click selection; the padding
		// widens the hit target beyond the visible text.
		points.MarkText(vega.MarkDef{Align: "left"}).
			Encode(
				vega.EncText(vega.Field("padded_text", vega.Nominal)),
				vega.EncOpacity(vega.Value(0)),
			).
			TransformCalculate("padded_text", fmt.Sprintf(`"__" + datum.%s + "__"`, colorCol)).
			AddSelection(selClick, p.click),
		makeBase().MarkPoint(vega.MarkDef{Size: vega.Size(0)}).AddSelection(selLegendHover, hover),
		points.MarkText(vega.MarkDef{Align: "left", DX: 10, Font: p.cfg.font()}).
			Encode(
				vega.EncText(vega.Field(colorCol, vega.Nominal)),
				vega.EncColor(vega.Value("black")),
				vega.EncOpacity(vega.Cond(p.expr.inFocusOrNoneSelected(), 1, 0.4)),
			),
		makeBase().MarkText(vega.MarkDef{Align: "left", DX: -10, DY: -5, Font: p.cfg.font(), FontSize: 16}).
			Encode(
				vega.EncText(vega.Field(colorCol, vega.Nominal)),
				vega.EncColor(vega.Value("black")),
			).
			TransformFilter(`datum.row_type == "title"`),
	)
	spec.Data = &vega.Data{Values: rows}
	spec.Height = p.cfg.height()
	spec.Width = 100
	spec.View = &vega.ViewConfig{StrokeOpacity: vega.FloatRef(0)}
	return spec, nil
}

// emojiDescriptionOrder fixes the key order of the description lookup emitted
// into the document.
var emojiDescriptionOrder = []string{
	"👨‍👩‍👧‍👦", "🏠", "🍔", "🏬", "⚠️", "🎓", "🛩", "💼", "🛃",
}

var emojiDescriptions = map[string]string{
	"👨‍👩‍👧‍👦": "Gatherings banned",
	"🏠":     "Stay-at-home order",
	"🍔":     "Restaurant closures",
	"🏬":     "Business closures",
	"⚠️":    "Emergency declaration",
	"🎓":     "School closures",
	"🛩":     "Travel restrictions",
	"💼":     "Visitor/Border restrictions",
	"🛃":     "Forgot what this meant",
}

// SegmentEmoji splits a string of concatenated emoji into display tokens. A
// zero-width joiner (U+200D) or variation selector (U+FE0F) extends the
// current token, and so does the rune immediately following one.
func SegmentEmoji(s string) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}
	isSep := func(r rune) bool { return r == '\u200d' || r == '\ufe0f' }
	var tokens []string
	cur := string(runes[0])
	sawSep := false
	for _, c := range runes[1:] {
		if !sawSep && !isSep(c) {
			tokens = append(tokens, cur)
			cur = string(c)
		} else {
			cur += string(c)
		}
		sawSep = isSep(c)
	}
	return append(tokens, cur)
}

// collectEmojiLegendLayers lays distinct intervention emoji out in a three
// column grid inside the plot area, each with its description, plus a
// separator rule below the grid.
func (p *pipeline) collectEmojiLegendLayers() error {
	if p.cfg.XDomain == nil {
		return issuef(CodeInvalidConfig, "emoji legend requires an explicit xdomain")
	}
	var concat strings.Builder
	for _, v := range p.tab.Distinct(ColEmoji) {
		if v == nil {
			continue
		}
		concat.WriteString(groupKey(v))
	}
	uniq := map[string]bool{}
	for _, tok := range SegmentEmoji(concat.String()) {
		if tok == "🚫" {
			continue
		}
		uniq[tok] = true
	}
	emojis := make([]string, 0, len(uniq))
	for tok := range uniq {
		if _, ok := emojiDescriptions[tok]; !ok {
			return issuef(CodeUnknownEmoji, "no description for emoji %q", tok)
		}
		emojis = append(emojis, tok)
	}
	sort.Strings(emojis)
	if len(emojis) > MaxEmojiLegendMarks {
		return issuef(CodeEmojiCapacity, "max %d supported for now", MaxEmojiLegendMarks)
	}
	emojis = append(emojis, "Intervention type")

	rows := make([]map[string]any, 0, len(emojis))
	for i, e := range emojis {
		rowType := "normal"
		if i == len(emojis)-1 {
			rowType = "title"
		}
		rows = append(rows, map[string]any{
			"idx":      i,
			ColEmoji:   e,
			"zero":     0,
			"row_type": rowType,
		})
	}
	data := &vega.Data{Values: rows}

	var desc strings.Builder
	desc.WriteString(`datum.emoji + " " + {`)
	for _, k := range emojiDescriptionOrder {
		fmt.Fprintf(&desc, "%q: %q, ", k, emojiDescriptions[k])
	}
	desc.WriteString(`}[datum.emoji]`)

	colStep := int(p.cfg.XDomain[1])/4 + 2
	marks := vega.NewUnit().
		MarkText(vega.MarkDef{Align: "left", Font: p.cfg.font(), FontSize: 12}).
		Encode(
			vega.EncX(p.xch(ColX, "")),
			vega.EncY(p.ych(ColY, "")),
			vega.EncText(vega.Field("emoji_and_description", vega.Nominal)),
			vega.EncColor(vega.Value("black")),
		).
		WithData(data).
		TransformCalculate("emoji_and_description", desc.String()).
		TransformFilter(`datum.row_type == "normal"`).
		TransformCalculate(ColX, fmt.Sprintf("5 + (datum.idx %% 3) * %d", colStep)).
		TransformCalculate(ColY, "1.5 * pow(1.7, floor(datum.idx / 3))")
	p.add("emoji_marks", marks)

	sepY := map[int]string{1: "2", 2: "4", 3: "7"}[(len(emojis)+2)/3]
	sep := vega.NewUnit().
		MarkRule(vega.MarkDef{StrokeWidth: 0.5, StrokeDash: []int{1, 0}}).
		Encode(
			vega.EncY(p.ych(ColY, "")),
			vega.EncColor(vega.Value("gray")),
		).
		WithData(data).
		TransformCalculate(ColY, sepY)
	p.add("emoji_legend_sep", sep)
	return nil
}
