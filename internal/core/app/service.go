// Package app wires the pipeline: scan, parse, build, detect, render.
package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"archmap/internal/core/config"
	"archmap/internal/core/errors"
	"archmap/internal/data/history"
	"archmap/internal/engine/graph"
	"archmap/internal/engine/parser"
	"archmap/internal/engine/smells"
	"archmap/internal/output"
	"archmap/internal/query"
	"archmap/internal/shared/observability"
)

type Service struct {
	cfg     *config.Config
	parser  *parser.Parser
	scanner *Scanner
	store   *history.Store
	log     *slog.Logger
}

// Result carries everything one analysis run produced.
type Result struct {
	Model       *graph.Model
	Document    *output.Document
	Findings    []smells.Finding
	Files       []string
	FailedFiles []string
}

func NewService(cfg *config.Config, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}
	scanner, err := NewScanner(cfg, cfg.Paths.Root)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:     cfg,
		parser:  parser.NewParser(),
		scanner: scanner,
		log:     log,
	}, nil
}

// EnableHistory opens the snapshot store at the configured path.
func (s *Service) EnableHistory() error {
	store, err := history.Open(s.cfg.History.Path)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "open history store")
	}
	s.store = store
	return nil
}

func (s *Service) History() *history.Store {
	return s.store
}

func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// Run executes one full analysis of the project root.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "service.Run",
		trace.WithAttributes(attribute.String("project", s.ProjectName())))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	runStart := time.Now()

	scanStart := time.Now()
	files, err := s.scanner.PythonFiles()
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "scan")
	}
	observability.AnalysisDuration.WithLabelValues("scan").Observe(time.Since(scanStart).Seconds())
	s.log.Debug("scan complete", "files", len(files))

	analyses, entryPoints, failed := s.parseFiles(ctx, files)

	buildStart := time.Now()
	model := graph.NewBuilder(s.cfg).Build(graph.Input{
		Files:       files,
		Analyses:    analyses,
		EntryPoints: entryPoints,
	})
	observability.AnalysisDuration.WithLabelValues("build").Observe(time.Since(buildStart).Seconds())
	observability.GraphNodes.Set(float64(len(model.Nodes)))
	observability.GraphEdges.Set(float64(len(model.Edges)))

	var findings []smells.Finding
	var metrics map[string]smells.NodeMetrics
	if s.cfg.DetectSmells() {
		smellStart := time.Now()
		findings, metrics = smells.NewDetector(s.cfg.Smells).Detect(model, analyses)
		observability.AnalysisDuration.WithLabelValues("smells").Observe(time.Since(smellStart).Seconds())
		for _, f := range findings {
			observability.SmellsEmitted.WithLabelValues(f.Severity).Inc()
		}
	}

	doc := output.NewDocument(s.cfg.Output.Title, model)
	doc.Smells = findings
	doc.NodeMetrics = metrics
	doc.CodeMap = graph.BuildCodeMap(model, analyses)
	doc.FileTree = s.scanner.DirectoryTree(model)
	doc.Readme = s.scanner.ReadmeExcerpt()
	if s.cfg.EmbedSource() {
		doc.Sources = s.scanner.ReadSources(model.Nodes)
	}
	doc.Summary = query.NewService().Summary(s.ProjectName(), model, findings, len(files))

	if s.store != nil {
		if err := s.saveSnapshot(model, findings, len(files)); err != nil {
			s.log.Warn("history snapshot not saved", "error", err)
		}
	}

	observability.RunsTotal.Inc()
	s.log.Info("analysis complete",
		"run_id", runID,
		"nodes", len(model.Nodes),
		"edges", len(model.Edges),
		"findings", len(findings),
		"duration", time.Since(runStart).Round(time.Millisecond))
	return &Result{
		Model:       model,
		Document:    doc,
		Findings:    findings,
		Files:       files,
		FailedFiles: failed,
	}, nil
}

// WriteOutputs renders the configured artifacts to disk.
func (s *Service) WriteOutputs(res *Result) error {
	if err := res.Document.WriteJSON(s.cfg.Paths.Output, !s.cfg.Output.Compact); err != nil {
		return err
	}
	s.log.Info("wrote model", "path", s.cfg.Paths.Output)

	if s.cfg.Paths.Markdown != "" {
		if err := output.WriteMarkdown(s.cfg.Paths.Markdown, res.Document); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write markdown report")
		}
		s.log.Info("wrote report", "path", s.cfg.Paths.Markdown)
	}
	if s.cfg.Paths.Mermaid != "" {
		if err := output.WriteMermaid(s.cfg.Paths.Mermaid, res.Model); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write mermaid diagram")
		}
		s.log.Info("wrote diagram", "path", s.cfg.Paths.Mermaid)
	}
	return nil
}

// parseFiles extracts structure from each file. Files the grammar rejects
// still take part in the model as empty analyses.
func (s *Service) parseFiles(ctx context.Context, files []string) (map[string]*parser.FileAnalysis, map[string]bool, []string) {
	_, span := observability.Tracer.Start(ctx, "service.parseFiles")
	defer span.End()

	analyses := make(map[string]*parser.FileAnalysis, len(files))
	entryPoints := make(map[string]bool)
	var failed []string

	parseStart := time.Now()
	for _, rel := range files {
		full := filepath.Join(s.cfg.Paths.Root, filepath.FromSlash(rel))
		content, err := os.ReadFile(full)
		if err != nil {
			s.log.Warn("file not readable", "path", rel, "error", err)
			analyses[rel] = parser.EmptyAnalysis(rel)
			failed = append(failed, rel)
			observability.ParsingDuration.WithLabelValues("error").Observe(0)
			continue
		}

		fileStart := time.Now()
		analysis, err := s.parser.ParseFile(rel, content)
		if err != nil {
			s.log.Warn("parse failed", "path", rel, "error", err)
			analyses[rel] = parser.EmptyAnalysis(rel)
			failed = append(failed, rel)
			observability.ParsingDuration.WithLabelValues("error").Observe(time.Since(fileStart).Seconds())
			continue
		}
		observability.ParsingDuration.WithLabelValues("ok").Observe(time.Since(fileStart).Seconds())

		analyses[rel] = analysis
		if analysis.HasEntryPoint {
			entryPoints[rel] = true
		}
	}
	observability.AnalysisDuration.WithLabelValues("parse").Observe(time.Since(parseStart).Seconds())

	return analyses, entryPoints, failed
}

func (s *Service) saveSnapshot(model *graph.Model, findings []smells.Finding, fileCount int) error {
	warnings, infos, cycleNodes := 0, 0, 0
	for _, f := range findings {
		switch f.Severity {
		case smells.SeverityWarning:
			warnings++
		case smells.SeverityInfo:
			infos++
		}
		if f.Title == "Dependency Cycle Detected" {
			cycleNodes = len(f.Nodes)
		}
	}
	maxTier := 0
	for _, n := range model.Nodes {
		if n.Tier > maxTier {
			maxTier = n.Tier
		}
	}

	return s.store.SaveSnapshot(s.ProjectName(), history.Snapshot{
		NodeCount:      len(model.Nodes),
		EdgeCount:      len(model.Edges),
		GroupCount:     len(model.Groups),
		FileCount:      fileCount,
		WarningCount:   warnings,
		InfoCount:      infos,
		CycleNodeCount: cycleNodes,
		MaxTier:        maxTier,
	})
}

func (s *Service) ProjectName() string {
	abs, err := filepath.Abs(s.cfg.Paths.Root)
	if err != nil {
		return filepath.Base(s.cfg.Paths.Root)
	}
	return filepath.Base(abs)
}
