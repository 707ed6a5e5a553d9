package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"archmap/internal/core/app"
	"archmap/internal/core/config"
	"archmap/internal/data/history"
	"archmap/internal/output"
)

var (
	configPath  = flag.String("config", "", "Path to TOML config file")
	outputPath  = flag.String("o", "", "Output JSON path")
	markdown    = flag.String("markdown", "", "Write a markdown report to this path")
	mermaid     = flag.String("mermaid", "", "Write a mermaid diagram to this path")
	title       = flag.String("title", "", "Title for the generated model")
	excludeDirs = flag.String("exclude-dirs", "", "Comma-separated directory names to exclude")
	noSmells    = flag.Bool("no-smells", false, "Skip smell detection")
	noSource    = flag.Bool("no-source", false, "Do not embed source file content")
	maxNodes    = flag.Int("max-nodes", 0, "Maximum number of nodes in the model")
	jsonOnly    = flag.Bool("json", false, "Print the model as JSON to stdout instead of writing files")
	trends      = flag.Bool("trends", false, "Print the snapshot trend report and exit")
	watch       = flag.Bool("watch", false, "Re-run the analysis on file changes")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: archmap [flags] [path]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("archmap v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logOut := os.Stderr
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	svc, err := app.NewService(cfg, logger)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	if cfg.History.Enabled || *trends {
		if err := svc.EnableHistory(); err != nil {
			slog.Warn("history disabled", "error", err)
		}
	}

	if *trends {
		printTrends(svc)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := svc.Run(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	for _, f := range res.FailedFiles {
		slog.Warn("file skipped", "path", f)
	}

	if *jsonOnly {
		data, err := output.MarshalModelJSON(res.Model, !cfg.Output.Compact)
		if err != nil {
			slog.Error("marshal failed", "error", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	if err := svc.WriteOutputs(res); err != nil {
		slog.Error("write failed", "error", err)
		os.Exit(1)
	}

	if *watch {
		if err := svc.Watch(ctx, func(_ *app.Result, err error) {
			if err != nil {
				slog.Error("re-run failed", "error", err)
			}
		}); err != nil && ctx.Err() == nil {
			slog.Error("watch failed", "error", err)
			os.Exit(1)
		}
	}
}

func applyFlags(cfg *config.Config) {
	if flag.NArg() > 0 {
		cfg.Paths.Root = flag.Arg(0)
	}
	if *outputPath != "" {
		cfg.Paths.Output = *outputPath
	}
	if *markdown != "" {
		cfg.Paths.Markdown = *markdown
	}
	if *mermaid != "" {
		cfg.Paths.Mermaid = *mermaid
	}
	if *title != "" {
		cfg.Output.Title = *title
	}
	if *excludeDirs != "" {
		for _, d := range strings.Split(*excludeDirs, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, d)
			}
		}
	}
	if *noSmells {
		f := false
		cfg.Smells.Enabled = &f
	}
	if *noSource {
		f := false
		cfg.Output.EmbedSource = &f
	}
	if *maxNodes > 0 {
		cfg.Limits.MaxNodes = *maxNodes
	}
}

func printTrends(svc *app.Service) {
	store := svc.History()
	if store == nil {
		fmt.Fprintln(os.Stderr, "no history store available")
		os.Exit(1)
	}
	snapshots, err := store.LoadSnapshots(svc.ProjectName(), time.Time{})
	if err != nil {
		slog.Error("load snapshots failed", "error", err)
		os.Exit(1)
	}
	report, err := history.BuildTrendReport(snapshots)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	data, err := output.MarshalJSON(report, true)
	if err != nil {
		slog.Error("marshal trend report failed", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
