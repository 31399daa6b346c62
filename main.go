package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gettalong/pdfbench/bench"
	"github.com/gettalong/pdfbench/config"
)

var (
	// Version is set during build
	Version = "dev"

	// BuildDate is set during build
	BuildDate = "unknown"
)

// globalOptions 对应根命令的持久参数，所有场景命令共用。
type globalOptions struct {
	lib           string
	font          string
	config        string
	metrics       string
	debug         string
	deterministic bool
	compress      bool
	verbose       bool

	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "pdfbench",
		Short: "Render benchmark documents with interchangeable PDF libraries",
		Long: `pdfbench renders the line_wrapping, raw_text and table benchmark
documents with either tdewolff/canvas or go-pdf/fpdf behind one command
line, so that external timing tools can invoke every library the same way.

Example:
  pdfbench raw_text input.txt out.pdf --lib fpdf
  pdfbench line_wrapping input.txt 400 out.pdf --font DejaVuSans.ttf
  pdfbench table 1000 image.png out.pdf
  pdfbench compare raw_text input.txt out.pdf`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.lib, "lib", "l", string(bench.Canvas), "PDF library: canvas or fpdf")
	flags.StringVar(&opts.font, "font", "", "TrueType/OpenType font registered as \"font\"")
	flags.StringVarP(&opts.config, "config", "c", "", "Config file (.toml, .yaml or .yml)")
	flags.StringVar(&opts.metrics, "metrics", "", "Write Prometheus textfile metrics to this path")
	flags.StringVar(&opts.debug, "debug", "", "Write the planned layout as JSON to this path")
	flags.BoolVar(&opts.deterministic, "deterministic", false, "Fix document dates and ordering (fpdf)")
	flags.BoolVar(&opts.compress, "compress", true, "Compress page content streams")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	for _, sc := range bench.Scenarios {
		root.AddCommand(newScenarioCmd(sc, opts))
	}
	root.AddCommand(newCompareCmd(opts), newExtractCmd())
	return root
}

// request 合并配置文件与命令行参数；Library 由调用方决定。
func (o *globalOptions) request(sc bench.Scenario, args []string) (bench.Request, error) {
	req, err := parseScenarioArgs(sc, args)
	if err != nil {
		return req, err
	}
	cfg, err := config.Load(o.config)
	if err != nil {
		return req, err
	}
	req.Font = o.font
	req.Deterministic = o.deterministic
	req.Compress = o.compress
	req.DebugLayout = o.debug
	req.Config = cfg
	return req, nil
}
