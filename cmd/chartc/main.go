package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/reoring/chartlib"
	"github.com/reoring/chartlib/chartfile"
	"github.com/reoring/chartlib/dataset"
	"github.com/reoring/chartlib/prep"
	"github.com/reoring/chartlib/vega"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "compile":
		compileCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "chartc CLI\n\nUsage:\n  chartc compile -chart def.yaml -data series.csv -group COL -y COL [-events events.csv] [-x COL] [-start-n N] [-start-col COL] [-cumulative] [-top-k K] [-o out.json] [-var NAME]")
}

func compileCmd(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	var (
		chartPath  string
		dataPath   string
		eventsPath string
		groupCol   string
		yCol       string
		xCol       string
		startN     float64
		startCol   string
		cumulative bool
		topK       int
		out        string
		jsVar      string
	)
	fs.StringVar(&chartPath, "chart", "", "chart definition YAML")
	fs.StringVar(&dataPath, "data", "", "series CSV")
	fs.StringVar(&eventsPath, "events", "", "intervention events CSV (optional)")
	fs.StringVar(&groupCol, "group", "", "grouping column")
	fs.StringVar(&yCol, "y", "", "measure column")
	fs.StringVar(&xCol, "x", "date", "date column")
	fs.Float64Var(&startN, "start-n", 0, "day-zero threshold for the measure")
	fs.StringVar(&startCol, "start-col", "", "column the day-zero threshold applies to (default: derived y)")
	fs.BoolVar(&cumulative, "cumulative", true, "measure is already cumulative")
	fs.IntVar(&topK, "top-k", 0, "keep only the K largest groups")
	fs.StringVar(&out, "o", "", "output filename (default: stdout)")
	fs.StringVar(&jsVar, "var", "", "emit as a JavaScript variable assignment")
	_ = fs.Parse(args)
	if chartPath == "" || dataPath == "" || groupCol == "" || yCol == "" {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := chartfile.LoadFile(chartPath)
	if err != nil {
		fatal(err)
	}
	if cfg.DetailBy == "" {
		cfg.DetailBy = groupCol
	}
	if cfg.ColorBy == "" {
		cfg.ColorBy = groupCol
	}

	series, err := dataset.ReadCSVFile(dataPath)
	if err != nil {
		fatal(err)
	}
	opts := prep.Options{
		GroupCol:      groupCol,
		YCol:          yCol,
		XCol:          xCol,
		YIsCumulative: cumulative,
		TopKGroups:    topK,
		XDomain:       cfg.XDomain,
		YDomain:       cfg.YDomain,
	}
	if cfg.ReadableGroupName != "" && cfg.LegendSelection {
		opts.LegendAlias = cfg.LegendTitle()
	}
	if v, ok := cfg.Extra["filter_lockdown_rules_beyond_xmax"].(bool); ok {
		opts.ClipEventsBeyondXMax = &v
	}
	builder := prep.NewBuilder(series, prep.DaysSinceNumReached{N: startN, Col: startCol}, opts)
	if eventsPath != "" {
		events, err := dataset.ReadCSVFile(eventsPath)
		if err != nil {
			fatal(err)
		}
		builder.WithEvents(events)
	}
	frame, err := builder.Build()
	if err != nil {
		fatal(err)
	}

	spec, err := chartlib.Compile(cfg, frame)
	if err != nil {
		fatal(err)
	}
	var doc []byte
	if jsVar != "" {
		doc, err = vega.ExportVar(spec, jsVar)
	} else {
		doc, err = vega.Export(spec)
	}
	if err != nil {
		fatal(err)
	}
	if out == "" {
		fmt.Println(string(doc))
		return
	}
	if err := os.WriteFile(out, doc, 0o644); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "chartc:", err)
	os.Exit(1)
}
