package prompts

import (
	"fmt"
	"strings"
)

// ProjectBrief carries the project fields every user prompt embeds.
// Plain strings and numbers so this package stays dependency-free.
type ProjectBrief struct {
	Description    string
	Budget         int64
	Genre          string
	Platform       string
	Comparables    []string
	TargetAudience string
}

func (p ProjectBrief) comparablesLine() string {
	if len(p.Comparables) == 0 {
		return "None provided"
	}
	return strings.Join(p.Comparables, ", ")
}

// MarketResearchPrompt renders the user prompt for the market research
// analyst. metadataBlock is optional comparable-title data from the
// metadata provider; empty means no enrichment was available.
func MarketResearchPrompt(brief ProjectBrief, budgetTier, metadataBlock string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Analyze the market viability for this project:

**Project Description:** %s

**Genre:** %s
**Estimated Budget:** $%d (%s)
**Distribution Platform:** %s
**Comparable Titles:** %s
`, brief.Description, brief.Genre, brief.Budget, budgetTier, brief.Platform, brief.comparablesLine())

	if metadataBlock != "" {
		fmt.Fprintf(&b, "\nHistorical data for comparable titles:\n%s\n", metadataBlock)
	}

	b.WriteString(`
Please provide:
1. Current market trends for this genre
2. Performance analysis of comparable titles
3. Box office/streaming potential based on recent similar releases
4. Audience demand indicators
5. Market saturation assessment
6. Recommended release timing considerations`)

	return b.String()
}

// FinancialModelingPrompt renders the user prompt for the financial
// modeling analyst. metricsBlock holds deterministic pre-computed
// benchmarks; metadataBlock holds comparable revenue data.
func FinancialModelingPrompt(brief ProjectBrief, metricsBlock, metadataBlock string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Build a comprehensive financial model for this project:

**Project Description:** %s

**Production Budget:** $%d
**Genre:** %s
**Distribution Platform:** %s
`, brief.Description, brief.Budget, brief.Genre, brief.Platform)

	if metricsBlock != "" {
		fmt.Fprintf(&b, "\nBaseline benchmarks computed from industry multipliers:\n%s\n", metricsBlock)
	}
	if metadataBlock != "" {
		fmt.Fprintf(&b, "\nComparable title revenue data:\n%s\n", metadataBlock)
	}

	b.WriteString(`
Please provide:
1. Revenue projections (conservative, moderate, optimistic scenarios)
2. Break-even analysis
3. ROI estimates for each scenario
4. Marketing budget recommendations
5. Revenue timeline (opening, domestic total, international, ancillary)
6. Risk factors affecting financial performance

For streaming projects, focus on subscriber acquisition value and retention.
For theatrical, provide box office projections.`)

	return b.String()
}

// RiskAnalysisPrompt renders the user prompt for the risk assessment
// analyst.
func RiskAnalysisPrompt(brief ProjectBrief) string {
	return fmt.Sprintf(`Conduct a comprehensive risk assessment for this project:

**Project Description:** %s

**Budget:** $%d
**Genre:** %s
**Platform:** %s
**Target Audience:** %s

Identify production, creative, market, financial, reputational, and external risks. For each, give likelihood, impact, and mitigation strategies. Call out any deal-breakers.`,
		brief.Description, brief.Budget, brief.Genre, brief.Platform, brief.TargetAudience)
}

// AgentFinding is one subagent's contribution to the synthesis prompt.
type AgentFinding struct {
	Role           string
	Recommendation string
	Confidence     float64
	Narrative      string
	Failed         bool
	FailureReason  string
}

// SynthesisPrompt renders the final prompt embedding every subagent
// finding. Narratives are truncated so the combined prompt stays inside
// the model's context comfortably.
func SynthesisPrompt(brief ProjectBrief, findings []AgentFinding) string {
	var b strings.Builder

	fmt.Fprintf(&b, `# COMPREHENSIVE PROJECT ANALYSIS

**Project:** %s
**Budget:** $%d
**Genre:** %s
**Platform:** %s

---
`, brief.Description, brief.Budget, brief.Genre, brief.Platform)

	for _, f := range findings {
		fmt.Fprintf(&b, "\n## %s\n", f.Role)
		if f.Failed {
			fmt.Fprintf(&b, "This analysis FAILED and produced no findings: %s\n\n---\n", f.FailureReason)
			continue
		}
		fmt.Fprintf(&b, "**Recommendation:** %s\n**Confidence:** %.0f%%\n\n%s\n\n---\n",
			f.Recommendation, f.Confidence*100, truncate(f.Narrative, 4000))
	}

	b.WriteString("\nBased on all the above analyses, provide your final greenlight recommendation.")
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n[... truncated]"
}
