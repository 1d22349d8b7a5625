// internal/processors/fivecs/handler_test.go
package fivecs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"credit-engine/internal/common/genai"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:         5 * time.Second,
		Temperature:     0.1,
		MaxOutputTokens: 2000,
	}
}

func createTestApplicant() models.ApplicantRecord {
	return models.ApplicantRecord{
		"full_name":      "Jane Wanjiku",
		"Age":            34,
		"Income":         95000.0,
		"MonthsEmployed": 30,
		"DTIRatio":       0.25,
		"Education":      "Graduate",
		"EmploymentType": "Salaried",
		"MaritalStatus":  "Married",
		"LoanPurpose":    "Business",
		"LoanAmount":     200000.0,
		"LoanTermMonths": 24,
		"InterestRate":   0.14,
		"MonthlyPayment": 9600.0,
	}
}

// stubAssessor forces provider outcomes for handler tests.
type stubAssessor struct {
	configured bool
	text       string
	err        error
	lastReq    *genai.Request
}

func (s *stubAssessor) Configured() bool { return s.configured }

func (s *stubAssessor) GenerateContent(ctx context.Context, req *genai.Request) (string, error) {
	s.lastReq = req
	return s.text, s.err
}

func floatPtr(v float64) *float64 { return &v }

// ==========================
// Rule Table Tests
// ==========================

func TestScoreCategories_Capacity(t *testing.T) {
	tests := []struct {
		dti      float64
		expected float64
	}{
		{0, 25},
		{0.1, 22},
		{0.25, 18},
		{0.35, 14},
		{0.5, 10},
	}

	for _, tt := range tests {
		applicant := models.ApplicantRecord{"DTIRatio": tt.dti}
		scores := scoreCategories(applicant, nil)
		assert.Equal(t, tt.expected, scores.Capacity, "dti %v", tt.dti)
	}
}

func TestScoreCategories_Capital(t *testing.T) {
	tests := []struct {
		income   float64
		expected float64
	}{
		{200000, 20},
		{100000, 16},
		{60000, 12},
		{40000, 8},
	}

	for _, tt := range tests {
		applicant := models.ApplicantRecord{"Income": tt.income}
		scores := scoreCategories(applicant, nil)
		assert.Equal(t, tt.expected, scores.Capital, "income %v", tt.income)
	}
}

func TestScoreCategories_CharacterAndCollateral(t *testing.T) {
	applicant := models.ApplicantRecord{"CollateralValue": 0.0}

	scores := scoreCategories(applicant, nil)
	assert.Equal(t, 20.0, scores.Character)
	assert.Equal(t, 5.0, scores.Collateral)
	assert.Equal(t, 8.0, scores.Conditions)

	scores = scoreCategories(applicant, floatPtr(900))
	assert.Equal(t, 25.0, scores.Character, "character caps at 25")

	scores = scoreCategories(applicant, floatPtr(600))
	assert.Equal(t, 20.0, scores.Character)

	applicant["CollateralValue"] = 500000.0
	scores = scoreCategories(applicant, nil)
	assert.Equal(t, 10.0, scores.Collateral)
}

func TestFallbackAssessment_TotalAndRecommendation(t *testing.T) {
	// character=20, capacity=25, capital=20, collateral=5, conditions=8 => 78
	applicant := models.ApplicantRecord{
		"DTIRatio": 0.0,
		"Income":   200000.0,
	}

	narrative := fallbackAssessment(applicant, nil)

	assert.Contains(t, narrative, "**78/100**")
	assert.Contains(t, narrative, "LOW RISK")
	assert.Contains(t, narrative, "**RECOMMENDATION:** APPROVE")
	assert.Contains(t, narrative, "Unsecured loan")
}

func TestRecommendation_Boundaries(t *testing.T) {
	assert.Equal(t, "APPROVE", recommendation(60))
	assert.Equal(t, "CONDITIONAL APPROVAL", recommendation(59.999))
	assert.Equal(t, "CONDITIONAL APPROVAL", recommendation(40))
	assert.Equal(t, "DECLINE", recommendation(39.999))

	assert.Equal(t, "LOW RISK", riskLabel(70))
	assert.Equal(t, "MEDIUM RISK", riskLabel(69.999))
	assert.Equal(t, "MEDIUM RISK", riskLabel(40))
	assert.Equal(t, "HIGH RISK", riskLabel(39.999))
}

// ==========================
// Prompt Tests
// ==========================

func TestLoanToValue_ZeroCollateralDoesNotDivideByZero(t *testing.T) {
	assert.Equal(t, 100000.0, LoanToValue(100000, 0))
	assert.Equal(t, 0.5, LoanToValue(100000, 200000))
}

func TestBuildEvaluationInput_MissingFieldsSubstituteNA(t *testing.T) {
	prompt := buildEvaluationInput(&Input{Applicant: models.ApplicantRecord{}})

	assert.Contains(t, prompt, "- Name: N/A")
	assert.Contains(t, prompt, "- Education: N/A")
	assert.Contains(t, prompt, "- Annual Income: KES 0.00")
	assert.Contains(t, prompt, "- Credit Score: Not provided")
	assert.NotContains(t, prompt, "**Collateral Information:**")
	assert.NotContains(t, prompt, "**Co-signer Information:**")
}

func TestBuildEvaluationInput_ConditionalSections(t *testing.T) {
	applicant := createTestApplicant()
	applicant["CollateralType"] = "Vehicle"
	applicant["CollateralValue"] = 400000.0
	applicant["CoSignerName"] = "Peter Otieno"

	prompt := buildEvaluationInput(&Input{
		Applicant:         applicant,
		MLScore:           floatPtr(712),
		StatementAnalysis: &models.StatementAnalysis{},
		DocumentAnalysis:  &models.DocumentAnalysis{CollateralValid: true},
	})

	assert.Contains(t, prompt, "- Name: Jane Wanjiku")
	assert.Contains(t, prompt, "- Annual Income: KES 95,000.00")
	assert.Contains(t, prompt, "- DTI Ratio: 25.00%")
	assert.Contains(t, prompt, "- Predicted Credit Score: 712")
	assert.Contains(t, prompt, "- Type: Vehicle")
	assert.Contains(t, prompt, "- Loan-to-Value Ratio: 50.00%")
	assert.Contains(t, prompt, "- Name: Peter Otieno")
	assert.Contains(t, prompt, "- ID Number: Not provided")
	assert.Contains(t, prompt, "**Statement Analysis:**")
	assert.Contains(t, prompt, "- Collateral documents: Validated")
	assert.Contains(t, prompt, "- Co-signer documents: Not validated")
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "1,234,567.89", groupThousands("1234567.89"))
	assert.Equal(t, "950.00", groupThousands("950.00"))
	assert.Equal(t, "-12,000", groupThousands("-12000"))
}

// ==========================
// Handler Tests
// ==========================

func TestHandler_Execute_ProviderUnconfiguredFallsBack(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubAssessor{configured: false}, logger.NewTestLogger(t))

	output := handler.Execute(context.Background(), &Input{Applicant: createTestApplicant()})

	assert.Equal(t, SourceFallback, output.Source)
	assert.Contains(t, output.Assessment, "RECOMMENDATION")
}

func TestHandler_Execute_ProviderErrorFallsBack(t *testing.T) {
	stub := &stubAssessor{configured: true, err: errors.New("quota exceeded")}
	handler := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	output := handler.Execute(context.Background(), &Input{Applicant: createTestApplicant()})

	assert.Equal(t, SourceFallback, output.Source)
	assert.Contains(t, output.Assessment, "Credit Confidence Score")
}

func TestHandler_Execute_ProviderSuccess(t *testing.T) {
	stub := &stubAssessor{configured: true, text: "**Credit Confidence Score**\n**82/100**"}
	handler := NewHandler(createTestConfig(), stub, logger.NewTestLogger(t))

	output := handler.Execute(context.Background(), &Input{
		Applicant: createTestApplicant(),
		MLScore:   floatPtr(705),
	})

	assert.Equal(t, SourceGemini, output.Source)
	assert.Equal(t, "**Credit Confidence Score**\n**82/100**", output.Assessment)

	assert.NotNil(t, stub.lastReq)
	assert.Equal(t, 0.1, stub.lastReq.Temperature)
	assert.Equal(t, 2000, stub.lastReq.MaxOutputTokens)
	assert.Contains(t, stub.lastReq.Parts[0].Text, "Predicted Credit Score: 705")
}

// ==========================
// Prompt Override Tests
// ==========================

func TestNewHandler_PromptFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("You are a conservative underwriter."), 0o600))

	cfg := createTestConfig()
	cfg.PromptPath = path
	h := NewHandler(cfg, nil, logger.NewTestLogger(t))

	assert.Equal(t, "You are a conservative underwriter.", h.systemPrompt)
}

func TestNewHandler_PromptFileUnreadableUsesBuiltIn(t *testing.T) {
	cfg := createTestConfig()
	cfg.PromptPath = filepath.Join(t.TempDir(), "missing.txt")
	h := NewHandler(cfg, nil, logger.NewTestLogger(t))

	assert.Equal(t, defaultSystemPrompt, h.systemPrompt)
}
