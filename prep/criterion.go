package prep

import (
	"fmt"

	"github.com/reoring/chartlib/dataset"
)

// StartCriterion decides each group's day-zero date, the origin its x values
// count from. Groups without a day zero drop out of the chart.
type StartCriterion interface {
	DayZero(f *dataset.Frame, groupCol, xCol string) (map[string]string, error)
}

// DaysSinceNumReached anchors each group at the first date its measure
// exceeds N. Col defaults to the derived "y" column when empty.
type DaysSinceNumReached struct {
	N   float64
	Col string
}

// DayZero returns, per group, the earliest date whose measure exceeds N.
func (c DaysSinceNumReached) DayZero(f *dataset.Frame, groupCol, xCol string) (map[string]string, error) {
	col := c.Col
	if col == "" {
		col = "y"
	}
	out := map[string]string{}
	for _, row := range f.Rows() {
		v, ok := dataset.AsFloat(row[col])
		if !ok || v <= c.N {
			continue
		}
		group := fmt.Sprint(row[groupCol])
		date, ok := row[xCol].(string)
		if !ok {
			continue
		}
		prev, seen := out[group]
		if !seen {
			out[group] = date
			continue
		}
		pt, err := ParseDate(prev)
		if err != nil {
			return nil, err
		}
		dt, err := ParseDate(date)
		if err != nil {
			return nil, err
		}
		if dt.Before(pt) {
			out[group] = date
		}
	}
	return out, nil
}
