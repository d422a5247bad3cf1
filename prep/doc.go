// Package prep turns raw per-group time series plus an optional intervention
// event table into the compile-ready frame the chart compiler expects:
// day-aligned x values, cumulative y values, per-group trend-model
// parameters and merged event rows.
package prep
