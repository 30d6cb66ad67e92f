package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"greenlight/internal/inference"
	"greenlight/internal/prompts"
)

// ErrNoSuccessfulAgents is returned when every subagent failed; no
// recommendation can be produced and no report should be written.
var ErrNoSuccessfulAgents = errors.New("all subagent analyses failed")

// Orchestrator fans the project out to every configured subagent,
// joins their results, and synthesizes the final recommendation.
type Orchestrator struct {
	agents  []*Subagent
	llm     inference.Completer
	logger  *zap.Logger
	timeout time.Duration
}

// NewOrchestrator wires one subagent per configured role.
func NewOrchestrator(llm inference.Completer, metadata MetadataSource, logger *zap.Logger, agentTimeout time.Duration) *Orchestrator {
	agents := make([]*Subagent, 0, len(Roles))
	for _, role := range Roles {
		agents = append(agents, NewSubagent(role, llm, metadata, logger, agentTimeout))
	}
	return &Orchestrator{
		agents:  agents,
		llm:     llm,
		logger:  logger.With(zap.String("component", "orchestrator")),
		timeout: agentTimeout,
	}
}

// Analyze runs the full pipeline. All subagents run concurrently and
// independently; the join waits for every one to settle. The aggregate
// always carries every result, failed ones included. The only error
// conditions are an invalid request and zero successful subagents.
func (o *Orchestrator) Analyze(ctx context.Context, req ProjectRequest) (*Aggregate, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project request: %w", err)
	}

	runID := uuid.NewString()
	o.logger.Info("starting analysis",
		zap.String("run_id", runID),
		zap.Int("agents", len(o.agents)),
		zap.Int64("budget", req.Budget))

	results := o.fanOut(ctx, req)

	succeeded := 0
	for _, r := range results {
		if r.Status == Succeeded {
			succeeded++
		}
	}
	if succeeded == 0 {
		o.logger.Error("analysis failed", zap.String("run_id", runID))
		return nil, fmt.Errorf("%w: %d agents dispatched, 0 succeeded", ErrNoSuccessfulAgents, len(results))
	}

	agg := o.synthesize(ctx, req, results)
	agg.RunID = runID

	o.logger.Info("analysis complete",
		zap.String("run_id", runID),
		zap.String("recommendation", string(agg.Recommendation)),
		zap.Float64("confidence", agg.Confidence),
		zap.Bool("synthesized", agg.Synthesized))

	return agg, nil
}

// fanOut dispatches every subagent concurrently and joins on all of
// them. Each goroutine writes only its own slot; there is no shared
// mutable state beyond the metadata client's limiter.
func (o *Orchestrator) fanOut(ctx context.Context, req ProjectRequest) []SubagentResult {
	results := make([]SubagentResult, len(o.agents))

	var wg sync.WaitGroup
	for i, agent := range o.agents {
		wg.Add(1)
		go func(i int, agent *Subagent) {
			defer wg.Done()
			results[i] = agent.Run(ctx, req)
		}(i, agent)
	}
	wg.Wait()

	return results
}

// synthesize asks the inference service for the final call. When that
// call fails, a deterministic majority vote over the succeeded results
// stands in, with ties broken toward NO-GO.
func (o *Orchestrator) synthesize(ctx context.Context, req ProjectRequest, results []SubagentResult) *Aggregate {
	brief := prompts.ProjectBrief{
		Description:    req.Description,
		Budget:         req.Budget,
		Genre:          req.Genre,
		Platform:       req.Platform,
		Comparables:    req.Comparables,
		TargetAudience: req.TargetAudience,
	}

	findings := make([]prompts.AgentFinding, 0, len(results))
	for _, r := range results {
		findings = append(findings, prompts.AgentFinding{
			Role:           r.Role.DisplayName(),
			Recommendation: string(r.Recommendation),
			Confidence:     r.Confidence,
			Narrative:      r.Narrative,
			Failed:         r.Status == Failed,
			FailureReason:  failureReason(r),
		})
	}

	synthCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	raw, err := o.llm.Complete(synthCtx, prompts.SynthesisSystemPrompt(), prompts.SynthesisPrompt(brief, findings), 0.7)
	if err != nil {
		o.logger.Warn("synthesis failed, falling back to majority vote", zap.Error(err))
		return o.fallbackVote(results)
	}

	confidence := ParseConfidence(raw)
	if confidence == 0 {
		confidence = meanConfidence(results)
	}

	return &Aggregate{
		Recommendation: ParseRecommendation(raw),
		Confidence:     Clamp(confidence),
		Summary:        ExtractSummary(raw),
		Narrative:      raw,
		Synthesized:    true,
		Results:        results,
	}
}

// fallbackVote picks the most common recommendation among succeeded
// subagents. Candidates are checked most-conservative first so any tie
// resolves toward NO-GO.
func (o *Orchestrator) fallbackVote(results []SubagentResult) *Aggregate {
	counts := map[Recommendation]int{}
	for _, r := range results {
		if r.Status == Succeeded {
			counts[r.Recommendation]++
		}
	}

	winner := Unknown
	best := 0
	for _, candidate := range []Recommendation{NoGo, Conditional, Go, Unknown} {
		if counts[candidate] > best {
			winner = candidate
			best = counts[candidate]
		}
	}

	return &Aggregate{
		Recommendation: winner,
		Confidence:     meanConfidence(results),
		Summary:        "Synthesis was unavailable; this recommendation is a majority vote across the individual analyses.",
		Narrative:      "",
		Synthesized:    false,
		Results:        results,
	}
}

// meanConfidence averages confidence over succeeded results.
func meanConfidence(results []SubagentResult) float64 {
	sum, n := 0.0, 0
	for _, r := range results {
		if r.Status == Succeeded {
			sum += r.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return Clamp(sum / float64(n))
}

func failureReason(r SubagentResult) string {
	if r.Status != Failed {
		return ""
	}
	return r.Narrative
}
