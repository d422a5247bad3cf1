package chartlib

// Package chartlib compiles a tabular dataset plus a declarative ChartConfig
// into a multi-layer, interactive chart document for a Vega-Lite-style
// renderer:
//
// - Focus semantics (hover/click/legend) expressed as boolean predicates in
//   the renderer's expression language
// - Deterministic, collision-free palette allocation per data group
// - An ordered layer set whose insertion order drives the renderer's legend
//   and selection binding rules
// - An exponential trend-extrapolation layer
// - Manual (diamond/text) and emoji legends
//
// Design policy:
// - Public compiler API lives in the root package; the output grammar lives
//   under vega/, tabular input under dataset/, frame preparation under prep/,
//   chart definition files under chartfile/, and the CLI under cmd/chartc.
// - Compilation is a single synchronous pass; per-compile scratch state lives
//   in an explicit overlay released on every exit path.
// - Failures are reported as Issues with stable codes.
//
// Typical usage:
//
//	cfg := chartlib.NewConfig()
//	cfg.Lines, cfg.Points = chartlib.Flag(true), chartlib.Flag(true)
//	cfg.ClickSelection = true
//	cfg.DetailBy, cfg.ColorBy = "state", "state"
//	doc, err := chartlib.Compile(cfg, frame)
//	b, err := vega.Export(doc)
