// internal/processors/fivecs/prompt.go
package fivecs

import (
	"fmt"
	"strings"

	"credit-engine/internal/models"
)

// defaultSystemPrompt instructs the provider to produce the structured
// assessment. A custom prompt file configured via PromptPath overrides it.
const defaultSystemPrompt = `You are a senior credit analyst. Evaluate the loan application below using the 5 C's of Credit framework: Character, Capacity, Capital, Collateral, Conditions.

Produce a structured Markdown assessment with:
- A Credit Confidence Score out of 100 and a risk label (LOW RISK, MEDIUM RISK or HIGH RISK).
- A scored section for each of the five C's (Character /30, Capacity /25, Capital /20, Collateral /15, Conditions /10) with a one-line justification.
- A short overall risk assessment paragraph.
- A final RECOMMENDATION line: APPROVE, CONDITIONAL APPROVAL or DECLINE.

Base every score on the figures provided. Be conservative where data is missing.`

// fieldOr renders an applicant field, substituting "N/A" when absent.
func fieldOr(a models.ApplicantRecord, key string) string {
	if a.Has(key) {
		return a.String(key, "N/A")
	}
	return "N/A"
}

// groupThousands inserts comma separators into the integer part of a
// formatted number.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var sb strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}

	out := sb.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func formatKES(v float64) string {
	return groupThousands(fmt.Sprintf("%.2f", v))
}

func formatKES0(v float64) string {
	return groupThousands(fmt.Sprintf("%.0f", v))
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// LoanToValue computes loan amount over collateral value, treating a
// zero denominator as 1. The quirk is intentional and kept for parity
// with the persisted assessments.
func LoanToValue(loanAmount, collateralValue float64) float64 {
	if collateralValue == 0 {
		collateralValue = 1
	}
	return loanAmount / collateralValue
}

// buildEvaluationInput renders the applicant profile section of the
// prompt. Every field is populated, with N/A substitution for missing
// keys, plus conditional sections for the ML score, collateral,
// co-signer, statement analysis and document validation.
func buildEvaluationInput(input *Input) string {
	a := input.Applicant

	var sb strings.Builder
	fmt.Fprintf(&sb, `
## APPLICANT PROFILE

**Personal Information:**
- Name: %s
- Age: %s
- Education: %s
- Employment: %s
- Marital Status: %s
- Months Employed: %s

**Financial Profile:**
- Annual Income: KES %s
- DTI Ratio: %s
- Average Monthly Balance: KES %s
- Average Monthly Savings: KES %s
- Savings Rate: %s
- Overdrafts (Last 12 months): %d

**Loan Details:**
- Purpose: %s
- Amount: KES %s
- Term: %d months
- Interest Rate: %s
- Monthly Payment: KES %s

**Credit Information:**
- Credit Score: %s
`,
		fieldOr(a, "full_name"),
		fieldOr(a, "Age"),
		fieldOr(a, "Education"),
		fieldOr(a, "EmploymentType"),
		fieldOr(a, "MaritalStatus"),
		fieldOr(a, "MonthsEmployed"),
		formatKES(a.Float("Income", 0)),
		formatPercent(a.Float("DTIRatio", 0)),
		formatKES(a.Float("AvgMonthlyBalance", 0)),
		formatKES(a.Float("AvgMonthlySavings", 0)),
		formatPercent(a.Float("SavingsRate", 0)),
		a.Int("NumOverdraftsLast12Months", 0),
		fieldOr(a, "LoanPurpose"),
		formatKES(a.Float("LoanAmount", 0)),
		a.Int("LoanTermMonths", 0),
		formatPercent(a.Float("InterestRate", 0)),
		formatKES(a.Float("MonthlyPayment", 0)),
		creditScoreLine(a),
	)

	if input.MLScore != nil {
		fmt.Fprintf(&sb, `
**ML Model Prediction:**
- Predicted Credit Score: %.0f
- Model Assessment: ML model analyzed financial behavior patterns
`, *input.MLScore)
	}

	if a.String("CollateralType", "") != "" && a.Float("CollateralValue", 0) > 0 {
		ltv := LoanToValue(a.Float("LoanAmount", 0), a.Float("CollateralValue", 0))
		fmt.Fprintf(&sb, `
**Collateral Information:**
- Type: %s
- Value: KES %s
- Loan-to-Value Ratio: %s
`,
			a.String("CollateralType", ""),
			formatKES(a.Float("CollateralValue", 0)),
			formatPercent(ltv),
		)
	}

	if a.String("CoSignerName", "") != "" {
		cosignerID := a.String("CoSignerID", "")
		if cosignerID == "" {
			cosignerID = "Not provided"
		}
		fmt.Fprintf(&sb, `
**Co-signer Information:**
- Name: %s
- ID Number: %s
`, a.String("CoSignerName", ""), cosignerID)
	}

	if input.StatementAnalysis != nil {
		sb.WriteString(`
**Statement Analysis:**
- Banking behavior patterns analyzed
- Transaction history reviewed
- Balance trends evaluated
`)
	}

	if input.DocumentAnalysis != nil {
		fmt.Fprintf(&sb, `
**Document Validation:**
- Collateral documents: %s
- Co-signer documents: %s
`,
			validatedLabel(input.DocumentAnalysis.CollateralValid),
			validatedLabel(input.DocumentAnalysis.CosignerValid),
		)
	}

	sb.WriteString(`

## EVALUATION REQUEST
Please evaluate this loan application using the 5 C's of Credit framework and provide a structured assessment with specific scores for each category.
`)

	return sb.String()
}

func creditScoreLine(a models.ApplicantRecord) string {
	if a.Has("CreditScore") {
		return a.String("CreditScore", "Not provided")
	}
	return "Not provided"
}

func validatedLabel(valid bool) string {
	if valid {
		return "Validated"
	}
	return "Not validated"
}
