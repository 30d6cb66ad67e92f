// Package analyzer implements the greenlight analysis pipeline: domain
// subagents that each produce one recommendation by prompting the
// inference service, and an orchestrator that runs them concurrently
// and synthesizes a final call.
package analyzer

import (
	"fmt"
	"time"

	"greenlight/internal/config"
)

// Recommendation is the outcome label attached to an analysis.
type Recommendation string

const (
	Go          Recommendation = "GO"
	Conditional Recommendation = "CONDITIONAL"
	NoGo        Recommendation = "NO-GO"
	Unknown     Recommendation = "UNKNOWN"
)

// Role identifies a subagent. The set is closed: each role is bound to
// its prompt template and temperature at compile time.
type Role string

const (
	MarketResearch Role = "market_research"
	FinancialModel Role = "financial_model"
	RiskAnalysis   Role = "risk_analysis"
)

// Roles lists every configured role in dispatch order.
var Roles = []Role{MarketResearch, FinancialModel, RiskAnalysis}

// DisplayName returns the human-readable agent name used in prompts
// and reports.
func (r Role) DisplayName() string {
	switch r {
	case MarketResearch:
		return "Market Research Agent"
	case FinancialModel:
		return "Financial Modeling Agent"
	case RiskAnalysis:
		return "Risk Analysis Agent"
	}
	return string(r)
}

// ProjectRequest describes the project under evaluation. Immutable
// once constructed.
type ProjectRequest struct {
	Description    string
	Budget         int64
	Genre          string
	Platform       string
	Comparables    []string
	TargetAudience string
}

// Validate checks the request before any analysis is dispatched.
func (p ProjectRequest) Validate() error {
	if p.Description == "" {
		return fmt.Errorf("project description is required")
	}
	if p.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %d", p.Budget)
	}
	if !config.ValidPlatform(p.Platform) {
		return fmt.Errorf("invalid platform %q: must be theatrical, streaming, or hybrid", p.Platform)
	}
	return nil
}

// Status records whether a subagent produced findings.
type Status string

const (
	Succeeded Status = "succeeded"
	Failed    Status = "failed"
)

// SubagentResult is one subagent's contribution. Subagents always
// return a result, never an error: failures are carried in Status and
// Narrative so one agent cannot abort its siblings.
type SubagentResult struct {
	Role           Role
	Status         Status
	Recommendation Recommendation
	Confidence     float64
	Narrative      string
	Raw            string
	Elapsed        time.Duration
}

// Aggregate is the orchestrator's final output for one run. It always
// references every dispatched SubagentResult in dispatch order.
type Aggregate struct {
	RunID          string
	Recommendation Recommendation
	Confidence     float64
	Summary        string
	Narrative      string
	Synthesized    bool
	Results        []SubagentResult
}
