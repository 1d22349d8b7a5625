// internal/models/statement.go
package models

// Statement analysis processors, in fallback order.
const (
	ProcessorBedrock  = "bedrock"
	ProcessorGemini   = "gemini"
	ProcessorFallback = "fallback"
)

// BalanceSummary aggregates account balances over the statement period.
type BalanceSummary struct {
	Opening float64 `json:"opening"`
	Closing float64 `json:"closing"`
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

// TransactionBucket counts one class of transactions.
type TransactionBucket struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// TransactionSummary aggregates transactions by direction.
type TransactionSummary struct {
	TotalCount  int               `json:"total_count"`
	Deposits    TransactionBucket `json:"deposits"`
	Withdrawals TransactionBucket `json:"withdrawals"`
	Transfers   TransactionBucket `json:"transfers"`
}

// AnalysisSummary is the qualitative portion of a statement analysis.
type AnalysisSummary struct {
	AnalysisPeriod    string   `json:"analysis_period"`
	AccountActivity   string   `json:"account_activity"`
	FinancialBehavior string   `json:"financial_behavior"`
	RiskIndicators    []string `json:"risk_indicators"`
}

// FileDiagnostic records what was received for one uploaded statement when
// analysis could not run.
type FileDiagnostic struct {
	Provided  bool   `json:"provided"`
	SizeBytes int    `json:"size_bytes"`
	Status    string `json:"status"`
}

// StatementAnalysis is the validated result of the statement pipeline. The
// three top-level sections (balances, transactions, summary) are the shape
// contract every provider must satisfy.
type StatementAnalysis struct {
	Balances      BalanceSummary     `json:"balances"`
	Transactions  TransactionSummary `json:"transactions"`
	Summary       AnalysisSummary    `json:"summary"`
	ProcessorUsed string             `json:"processor_used"`
	Timestamp     string             `json:"timestamp,omitempty"`
	Status        string             `json:"status,omitempty"`

	// Populated on the placeholder result only, for diagnostic visibility.
	BankStatement  *FileDiagnostic `json:"bank_statement,omitempty"`
	MpesaStatement *FileDiagnostic `json:"mpesa_statement,omitempty"`
}

// DocumentAnalysis reports validation of collateral and co-signer
// documents.
type DocumentAnalysis struct {
	CollateralValid bool   `json:"collateral_valid"`
	CosignerValid   bool   `json:"cosigner_valid"`
	CollateralNotes string `json:"collateral_notes,omitempty"`
	CosignerNotes   string `json:"cosigner_notes,omitempty"`
	ProcessorUsed   string `json:"processor_used,omitempty"`
}
