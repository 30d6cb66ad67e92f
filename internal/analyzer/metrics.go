package analyzer

import (
	"fmt"
	"strings"
)

// BudgetTier maps a production budget onto industry-standard tiers.
func BudgetTier(budget int64) string {
	switch {
	case budget < 1_000_000:
		return "Micro Budget"
	case budget < 5_000_000:
		return "Low Budget"
	case budget < 25_000_000:
		return "Medium Budget"
	case budget < 75_000_000:
		return "High Budget"
	case budget < 200_000_000:
		return "Blockbuster"
	default:
		return "Tentpole"
	}
}

// Simplified industry revenue multipliers per genre for theatrical
// releases. Real models are far richer; these only seed the prompt
// with a defensible baseline.
var theatricalMultipliers = map[string]float64{
	"action":          2.5,
	"comedy":          2.8,
	"drama":           2.2,
	"horror":          3.5,
	"science fiction": 2.4,
}

const (
	defaultMultiplier  = 2.0
	valuePerSubscriber = 120 // annual subscriber value, dollars
	subsPerBudgetMil   = 50  // estimated new subscribers per budget million
)

// FinancialBaseline renders deterministic benchmark figures for the
// financial modeling prompt: scenario revenues for theatrical, or a
// subscriber-value model for streaming and hybrid.
func FinancialBaseline(budget int64, genre, platform string) string {
	if platform == "theatrical" {
		mult, ok := theatricalMultipliers[strings.ToLower(genre)]
		if !ok {
			mult = defaultMultiplier
		}
		conservative := float64(budget) * mult * 0.7
		moderate := float64(budget) * mult
		optimistic := float64(budget) * mult * 1.5

		return fmt.Sprintf(
			"- Conservative revenue: $%.0f (ROI %.1f%%)\n"+
				"- Moderate revenue: $%.0f (ROI %.1f%%)\n"+
				"- Optimistic revenue: $%.0f (ROI %.1f%%)",
			conservative, roiPercent(conservative, budget),
			moderate, roiPercent(moderate, budget),
			optimistic, roiPercent(optimistic, budget))
	}

	estSubs := float64(budget) / 1_000_000 * subsPerBudgetMil
	lifetimeValue := estSubs * valuePerSubscriber
	costPerAcq := 0.0
	if estSubs > 0 {
		costPerAcq = float64(budget) / estSubs
	}

	return fmt.Sprintf(
		"- Estimated new subscribers: %.0f\n"+
			"- Subscriber lifetime value: $%.0f\n"+
			"- Cost per acquisition: $%.0f\n"+
			"- Estimated ROI: %.1f%%",
		estSubs, lifetimeValue, costPerAcq, roiPercent(lifetimeValue, budget))
}

func roiPercent(revenue float64, budget int64) float64 {
	if budget == 0 {
		return 0
	}
	return (revenue/float64(budget) - 1) * 100
}
