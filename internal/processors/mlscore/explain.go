// internal/processors/mlscore/explain.go
package mlscore

import (
	"fmt"
	"strings"

	"credit-engine/internal/models"
)

// explainFactors derives the human-readable factors behind a score from
// threshold rules over the raw applicant record. Deterministic, never
// fails.
func explainFactors(applicant models.ApplicantRecord) []string {
	var explanations []string

	income := applicant.Float("Income", 0)
	if income > 100000 {
		explanations = append(explanations, "High income positively impacts score")
	} else if income < 30000 {
		explanations = append(explanations, "Low income negatively impacts score")
	}

	dti := applicant.Float("DTIRatio", 0)
	if dti == 0 {
		explanations = append(explanations, "No existing debt obligations (excellent)")
	} else if dti < 0.3 {
		explanations = append(explanations, "Low debt-to-income ratio (good)")
	} else if dti > 0.5 {
		explanations = append(explanations, "High debt-to-income ratio (concerning)")
	}

	monthsEmployed := applicant.Float("MonthsEmployed", 0)
	if monthsEmployed > 24 {
		explanations = append(explanations, "Stable employment history")
	} else if monthsEmployed < 6 {
		explanations = append(explanations, "Limited employment history")
	}

	savingsRate := applicant.Float("SavingsRate", 0)
	if savingsRate > 0.15 {
		explanations = append(explanations, "Excellent savings rate")
	} else if savingsRate < 0.05 {
		explanations = append(explanations, "Low savings rate")
	}

	overdrafts := applicant.Float("NumOverdraftsLast12Months", 0)
	if overdrafts == 0 {
		explanations = append(explanations, "No recent overdrafts")
	} else if overdrafts > 3 {
		explanations = append(explanations, "Frequent overdrafts (negative factor)")
	}

	if len(explanations) == 0 {
		explanations = append(explanations, "Score based on overall financial profile analysis")
	}

	return explanations
}

// Explain concatenates the threshold factors with the numeric score into
// a single explanation string.
func Explain(applicant models.ApplicantRecord, score float64) string {
	factors := explainFactors(applicant)
	return fmt.Sprintf("ML Model Analysis: %s. Predicted credit score: %.0f",
		strings.Join(factors, "; "), score)
}
