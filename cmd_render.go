package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gettalong/pdfbench/bench"
)

type scenarioUsage struct {
	use   string
	short string
	args  int
}

var scenarioUsages = map[bench.Scenario]scenarioUsage{
	bench.LineWrapping: {
		use:   "line_wrapping <input.txt> <width> <output.pdf>",
		short: "Word-wrap a text file to a fixed content width",
		args:  3,
	},
	bench.RawText: {
		use:   "raw_text <input.txt> <output.pdf>",
		short: "Write a text file line by line onto A4 pages",
		args:  2,
	},
	bench.Table: {
		use:   "table <rows> <image> <output.pdf>",
		short: "Render a three-column table with an image per row",
		args:  3,
	},
}

func newScenarioCmd(sc bench.Scenario, opts *globalOptions) *cobra.Command {
	usage := scenarioUsages[sc]
	return &cobra.Command{
		Use:   usage.use,
		Short: usage.short,
		Args:  cobra.ExactArgs(usage.args),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := bench.ParseLibrary(opts.lib)
			if err != nil {
				return err
			}
			req, err := opts.request(sc, args)
			if err != nil {
				return err
			}
			req.Library = lib
			report, err := bench.Run(req, opts.logger)
			if err != nil {
				return err
			}
			return bench.WriteMetrics(opts.metrics, report)
		},
	}
}

// parseScenarioArgs 把位置参数映射到请求字段。
func parseScenarioArgs(sc bench.Scenario, args []string) (bench.Request, error) {
	req := bench.Request{Scenario: sc}
	usage, ok := scenarioUsages[sc]
	if !ok {
		return req, fmt.Errorf("unknown scenario %q", sc)
	}
	if len(args) != usage.args {
		return req, fmt.Errorf("usage: pdfbench %s", usage.use)
	}

	switch sc {
	case bench.LineWrapping:
		width, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return req, fmt.Errorf("invalid width %q: %w", args[1], err)
		}
		req.Input, req.Width, req.Output = args[0], width, args[2]
	case bench.RawText:
		req.Input, req.Output = args[0], args[1]
	case bench.Table:
		rows, err := strconv.Atoi(args[0])
		if err != nil {
			return req, fmt.Errorf("invalid row count %q: %w", args[0], err)
		}
		req.Rows, req.Image, req.Output = rows, args[1], args[2]
	}
	return req, nil
}
