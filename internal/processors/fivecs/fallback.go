// internal/processors/fivecs/fallback.go
package fivecs

import (
	"fmt"

	"credit-engine/internal/models"
)

// categoryScores holds the deterministic rule-based 5C sub-scores.
// The display caps (30/25/20/15/10) do not always equal the achievable
// maxima (25/25/20/10/8); that inconsistency is kept as-is for parity
// with the persisted assessments.
type categoryScores struct {
	Character  float64
	Capacity   float64
	Capital    float64
	Collateral float64
	Conditions float64
}

func (c categoryScores) Total() float64 {
	return c.Character + c.Capacity + c.Capital + c.Collateral + c.Conditions
}

// scoreCategories applies the rule table to the applicant.
func scoreCategories(applicant models.ApplicantRecord, mlScore *float64) categoryScores {
	scores := categoryScores{Conditions: 8}

	if mlScore != nil && *mlScore != 0 {
		scores.Character = *mlScore / 30
		if scores.Character > 25 {
			scores.Character = 25
		}
	} else {
		scores.Character = 20
	}

	dti := applicant.Float("DTIRatio", 0)
	switch {
	case dti == 0:
		scores.Capacity = 25
	case dti < 0.2:
		scores.Capacity = 22
	case dti < 0.3:
		scores.Capacity = 18
	case dti < 0.4:
		scores.Capacity = 14
	default:
		scores.Capacity = 10
	}

	income := applicant.Float("Income", 0)
	switch {
	case income > 150000:
		scores.Capital = 20
	case income > 80000:
		scores.Capital = 16
	case income > 50000:
		scores.Capital = 12
	default:
		scores.Capital = 8
	}

	if applicant.Float("CollateralValue", 0) > 0 {
		scores.Collateral = 10
	} else {
		scores.Collateral = 5
	}

	return scores
}

func riskLabel(total float64) string {
	switch {
	case total >= 70:
		return "LOW RISK"
	case total >= 40:
		return "MEDIUM RISK"
	default:
		return "HIGH RISK"
	}
}

func recommendation(total float64) string {
	switch {
	case total >= 60:
		return "APPROVE"
	case total >= 40:
		return "CONDITIONAL APPROVAL"
	default:
		return "DECLINE"
	}
}

// fallbackAssessment renders the rule-based narrative used when the
// generative provider is unconfigured or fails.
func fallbackAssessment(applicant models.ApplicantRecord, mlScore *float64) string {
	scores := scoreCategories(applicant, mlScore)
	total := scores.Total()

	dti := applicant.Float("DTIRatio", 0)
	income := applicant.Float("Income", 0)

	collateralLine := "Unsecured loan"
	if scores.Collateral > 5 {
		collateralLine = "Secured loan"
	}

	return fmt.Sprintf(`**Credit Confidence Score**
**%.0f/100**
**%s**

**Character (%.0f/30)**
%.0f/30 - Credit assessment based on available data

**Capacity (%.0f/25)**
%.0f/25 - DTI ratio: %.1f%%, repayment capacity evaluated

**Capital (%.0f/20)**
%.0f/20 - Income level: KES %s

**Collateral (%.0f/15)**
%.0f/15 - %s

**Conditions (%.0f/10)**
%.0f/10 - Standard loan conditions

**Risk Assessment:** Basic assessment completed. Comprehensive AI evaluation temporarily unavailable.

**RECOMMENDATION:** %s`,
		total,
		riskLabel(total),
		scores.Character, scores.Character,
		scores.Capacity, scores.Capacity, dti*100,
		scores.Capital, scores.Capital, formatKES0(income),
		scores.Collateral, scores.Collateral, collateralLine,
		scores.Conditions, scores.Conditions,
		recommendation(total),
	)
}
