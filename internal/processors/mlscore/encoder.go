// internal/processors/mlscore/encoder.go
package mlscore

import "credit-engine/internal/models"

// FeatureSchema is the fixed column order the trained model expects.
// It is versioned configuration shipped alongside the model artifact;
// it must never be re-derived at inference time, because any reordering
// silently produces wrong predictions.
var FeatureSchema = []string{
	"Age", "Income", "MonthsEmployed", "DTIRatio", "Education_Graduate",
	"Education_High School", "Education_Postgraduate", "Education_Undergraduate",
	"EmploymentType_Full-time", "EmploymentType_Part-time", "EmploymentType_Salaried",
	"EmploymentType_Self-employed", "MaritalStatus_Divorced", "MaritalStatus_Married",
	"MaritalStatus_Single", "HasMortgage", "HasDependents", "HasCoSigner",
	"AvgMonthlyBalance", "AvgMonthlySavings", "NumOverdraftsLast12Months",
	"SavingsRate", "DepositFrequency", "LastMonthSpending",
	"MinBalanceLast6Months", "MaxBalanceLast6Months",
}

// CategoricalLevels maps each categorical field to its known levels from
// the training data. An applicant value outside these levels produces an
// all-zero one-hot row for that category; that is the documented
// unknown-category policy, not an error.
var CategoricalLevels = map[string][]string{
	"Education":      {"Graduate", "High School", "Postgraduate", "Undergraduate"},
	"EmploymentType": {"Full-time", "Part-time", "Salaried", "Self-employed"},
	"MaritalStatus":  {"Divorced", "Married", "Single"},
}

// Encode converts a raw applicant record into a fixed-width numeric
// vector whose positions correspond one-to-one to schema's column order.
// Missing fields default to zero; encoding never fails.
func Encode(applicant models.ApplicantRecord, schema []string, levels map[string][]string) []float64 {
	oneHot := make(map[string]float64)
	for category, categoryLevels := range levels {
		value := applicant.String(category, "")
		for _, level := range categoryLevels {
			column := category + "_" + level
			if value == level {
				oneHot[column] = 1
			} else {
				oneHot[column] = 0
			}
		}
	}

	vector := make([]float64, len(schema))
	for i, column := range schema {
		if v, ok := oneHot[column]; ok {
			vector[i] = v
			continue
		}
		vector[i] = applicant.Float(column, 0)
	}
	return vector
}
