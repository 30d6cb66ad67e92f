package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"greenlight/internal/inference"
	"greenlight/internal/prompts"
	"greenlight/internal/tmdb"
)

// MetadataSource is the slice of the metadata client subagents use for
// comparable-title enrichment.
type MetadataSource interface {
	SearchMovie(ctx context.Context, title string) ([]tmdb.Record, error)
	MovieDetails(ctx context.Context, id int) (tmdb.Record, error)
}

// Subagent runs one domain analysis by prompting the inference service.
type Subagent struct {
	role     Role
	llm      inference.Completer
	metadata MetadataSource
	logger   *zap.Logger
	timeout  time.Duration
}

// NewSubagent binds a role to its clients. metadata may be nil, in
// which case enrichment is skipped entirely.
func NewSubagent(role Role, llm inference.Completer, metadata MetadataSource, logger *zap.Logger, timeout time.Duration) *Subagent {
	return &Subagent{
		role:     role,
		llm:      llm,
		metadata: metadata,
		logger:   logger.With(zap.String("agent", string(role))),
		timeout:  timeout,
	}
}

// Run executes the analysis and always returns a SubagentResult. Any
// failure is folded into the result with Status Failed; errors never
// cross this boundary.
func (a *Subagent) Run(ctx context.Context, req ProjectRequest) SubagentResult {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	brief := prompts.ProjectBrief{
		Description:    req.Description,
		Budget:         req.Budget,
		Genre:          req.Genre,
		Platform:       req.Platform,
		Comparables:    req.Comparables,
		TargetAudience: req.TargetAudience,
	}

	system, user, temperature := a.buildPrompt(ctx, brief)

	a.logger.Debug("dispatching analysis", zap.Int("prompt_bytes", len(user)))

	raw, err := a.llm.Complete(ctx, system, user, temperature)
	if err != nil {
		a.logger.Warn("analysis failed", zap.Error(err))
		return SubagentResult{
			Role:           a.role,
			Status:         Failed,
			Recommendation: Unknown,
			Confidence:     0,
			Narrative:      fmt.Sprintf("Analysis failed: %v", err),
			Elapsed:        time.Since(start),
		}
	}

	result := SubagentResult{
		Role:           a.role,
		Status:         Succeeded,
		Recommendation: ParseRecommendation(raw),
		Confidence:     ParseConfidence(raw),
		Narrative:      raw,
		Raw:            raw,
		Elapsed:        time.Since(start),
	}

	a.logger.Info("analysis complete",
		zap.String("recommendation", string(result.Recommendation)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", result.Elapsed))

	return result
}

// buildPrompt renders the role's prompts. Metadata enrichment happens
// here for the roles that use it; its failure only degrades the prompt.
func (a *Subagent) buildPrompt(ctx context.Context, brief prompts.ProjectBrief) (system, user string, temperature float32) {
	switch a.role {
	case MarketResearch:
		block := a.comparableData(ctx, brief.Comparables)
		return prompts.MarketResearchSystemPrompt(),
			prompts.MarketResearchPrompt(brief, BudgetTier(brief.Budget), block),
			0.7
	case FinancialModel:
		block := a.comparableData(ctx, brief.Comparables)
		baseline := FinancialBaseline(brief.Budget, brief.Genre, brief.Platform)
		// Lower temperature for numerical analysis.
		return prompts.FinancialModelingSystemPrompt(),
			prompts.FinancialModelingPrompt(brief, baseline, block),
			0.5
	default:
		return prompts.RiskAnalysisSystemPrompt(),
			prompts.RiskAnalysisPrompt(brief),
			0.7
	}
}

// comparableData looks up each comparable title and formats its
// historical figures. Any provider failure degrades to no enrichment.
func (a *Subagent) comparableData(ctx context.Context, comparables []string) string {
	if a.metadata == nil || len(comparables) == 0 {
		return ""
	}
	if len(comparables) > 3 {
		comparables = comparables[:3]
	}

	var lines []string
	for _, title := range comparables {
		matches, err := a.metadata.SearchMovie(ctx, title)
		if err != nil {
			a.logger.Warn("metadata search failed, continuing without enrichment",
				zap.String("title", title), zap.Error(err))
			continue
		}
		if len(matches) == 0 {
			continue
		}

		record, err := a.metadata.MovieDetails(ctx, matches[0].ID)
		if err != nil {
			a.logger.Warn("metadata details failed, continuing without enrichment",
				zap.String("title", title), zap.Error(err))
			continue
		}

		lines = append(lines, fmt.Sprintf("- %s (%s): budget $%d, revenue $%d, rating %.1f, ROI %.1f%%",
			record.Title, record.Year, record.Budget, record.Revenue, record.Rating, record.ROI()))
	}

	return strings.Join(lines, "\n")
}
