package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gettalong/pdfbench/bench"
	"github.com/gettalong/pdfbench/extract"
)

func newCompareCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <scenario> [args...]",
		Short: "Render a scenario with every library and diff the text layers",
		Long: `Render the scenario with canvas and then fpdf into <output>.canvas.pdf and
<output>.fpdf.pdf, extract both text layers and print a line diff
followed by the timings. --lib is ignored.

Example:
  pdfbench compare raw_text input.txt out.pdf
  pdfbench compare table 200 image.png out.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := bench.ParseScenario(args[0])
			if err != nil {
				return err
			}
			req, err := opts.request(sc, args[1:])
			if err != nil {
				return err
			}
			cmp, err := bench.Compare(cmd.Context(), req, opts.logger)
			if err != nil {
				return err
			}
			if err := bench.WriteMetrics(opts.metrics, cmp.Reports...); err != nil {
				return err
			}
			return printComparison(cmd.OutOrStdout(), cmp)
		},
	}
}

func printComparison(w io.Writer, cmp *bench.Comparison) error {
	if cmp.Stats.Identical() {
		fmt.Fprintln(w, "text layers are identical")
	} else {
		fmt.Fprint(w, cmp.Diff)
	}
	fmt.Fprintf(w, "\n%d equal, %d only in canvas, %d only in fpdf\n\n",
		cmp.Stats.Equal, cmp.Stats.Removed, cmp.Stats.Added)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LIBRARY\tPAGES\tBYTES\tLAYOUT\tRENDER\tTOTAL\tOUTPUT")
	for _, r := range cmp.Reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			r.Library, r.Pages, r.Bytes, r.Layout, r.Render, r.Elapsed, r.Output)
	}
	return tw.Flush()
}

func newExtractCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Print the text layer of a PDF page by page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := extract.File(args[0])
			if err != nil {
				return err
			}
			if plain {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), extract.Text(pages))
				return err
			}
			return extract.Print(cmd.OutOrStdout(), pages)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Separate pages with form feeds instead of headers")
	return cmd
}
