// Command greenlight evaluates film and TV projects through
// multi-agent analysis and writes a markdown greenlighting report.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"greenlight/internal/analyzer"
	"greenlight/internal/config"
	"greenlight/internal/inference"
	"greenlight/internal/report"
	"greenlight/internal/tmdb"
)

// Exit codes.
const (
	exitOK             = 0
	exitConfigError    = 1
	exitAnalysisFailed = 2
	exitReportFailed   = 3
)

var errReportWrite = errors.New("report write failed")

var (
	printSuccess = color.New(color.FgGreen).PrintlnFunc()
	printError   = color.New(color.FgRed).PrintlnFunc()
	printWarning = color.New(color.FgYellow).PrintlnFunc()
	printInfo    = color.New(color.FgCyan).PrintlnFunc()
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	orch   *analyzer.Orchestrator
	writer *report.Writer
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	llm := inference.NewClient(cfg.OpenAIKey, cfg.Model, cfg.MaxTokens)
	metadata := tmdb.NewClient(cfg.TMDBBaseURL, cfg.TMDBKey, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		orch:   analyzer.NewOrchestrator(llm, metadata, logger, cfg.AgentTimeout),
		writer: report.NewWriter(cfg.ReportsDir, logger),
	}, nil
}

// analyze runs the full pipeline for one request and prints the
// outcome. Partial subagent failure still yields a report; total
// failure surfaces as an error and writes nothing.
func (a *app) analyze(ctx context.Context, req analyzer.ProjectRequest) error {
	printInfo(fmt.Sprintf("Analyzing: %s", truncateLine(req.Description, 100)))
	printInfo(fmt.Sprintf("Budget: $%d  Genre: %s  Platform: %s", req.Budget, req.Genre, req.Platform))

	agg, err := a.orch.Analyze(ctx, req)
	if err != nil {
		return err
	}

	path, err := a.writer.Write(req, agg)
	if err != nil {
		return fmt.Errorf("%w: %v", errReportWrite, err)
	}

	fmt.Println()
	switch agg.Recommendation {
	case analyzer.Go:
		printSuccess(fmt.Sprintf("RECOMMENDATION: %s", agg.Recommendation))
	case analyzer.NoGo:
		printError(fmt.Sprintf("RECOMMENDATION: %s", agg.Recommendation))
	default:
		printWarning(fmt.Sprintf("RECOMMENDATION: %s", agg.Recommendation))
	}
	printInfo(fmt.Sprintf("Confidence: %.1f%%", agg.Confidence*100))

	for _, r := range agg.Results {
		if r.Status == analyzer.Failed {
			printWarning(fmt.Sprintf("  %s: analysis failed", r.Role.DisplayName()))
		}
	}

	fmt.Printf("\nFull report saved to: %s\n", path)
	return nil
}

func newRootCommand(ctx context.Context, a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "greenlight",
		Short:         "Multi-agent greenlighting analysis for film and TV projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.interactive(ctx)
		},
	}

	var (
		project     string
		budget      int64
		genre       string
		platform    string
		comparables string
		audience    string
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a full analysis for one project",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := analyzer.ProjectRequest{
				Description:    project,
				Budget:         budget,
				Genre:          genre,
				Platform:       platform,
				Comparables:    splitCSV(comparables),
				TargetAudience: audience,
			}
			return a.analyze(ctx, req)
		},
	}

	runCmd.Flags().StringVar(&project, "project", "", "project description (required)")
	runCmd.Flags().Int64Var(&budget, "budget", 0, "production budget in dollars (required)")
	runCmd.Flags().StringVar(&genre, "genre", "Unknown", "primary genre")
	runCmd.Flags().StringVar(&platform, "platform", "theatrical", "distribution platform: theatrical, streaming, or hybrid")
	runCmd.Flags().StringVar(&comparables, "comparables", "", "comma-separated comparable titles")
	runCmd.Flags().StringVar(&audience, "audience", "general", "target audience")
	runCmd.MarkFlagRequired("project")
	runCmd.MarkFlagRequired("budget")

	root.AddCommand(runCmd)
	return root
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func truncateLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, analyzer.ErrNoSuccessfulAgents):
		return exitAnalysisFailed
	case errors.Is(err, errReportWrite):
		return exitReportFailed
	default:
		return exitConfigError
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		printError(fmt.Sprintf("Configuration error: %v", err))
		os.Exit(exitConfigError)
	}
	defer a.logger.Sync()

	if err := newRootCommand(ctx, a).Execute(); err != nil {
		printError(fmt.Sprintf("Error: %v", err))
		if errors.Is(err, analyzer.ErrNoSuccessfulAgents) {
			printInfo("Every analysis agent failed. Check the inference provider key, model access, and network connectivity, then retry.")
		}
		os.Exit(exitCode(err))
	}
}
