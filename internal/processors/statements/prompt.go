// internal/processors/statements/prompt.go
package statements

import (
	"encoding/json"
	"errors"
	"strings"
)

// analysisPrompt asks a provider to return the statement analysis as a
// bare JSON object matching the dispatcher's shape contract.
const analysisPrompt = `Analyze the attached account statement document(s) and respond with a single JSON object, no prose and no code fences, in exactly this shape:

{
  "balances": {"opening": 0.0, "closing": 0.0, "average": 0.0, "minimum": 0.0, "maximum": 0.0},
  "transactions": {
    "total_count": 0,
    "deposits": {"count": 0, "total": 0.0},
    "withdrawals": {"count": 0, "total": 0.0},
    "transfers": {"count": 0, "total": 0.0}
  },
  "summary": {
    "analysis_period": "",
    "account_activity": "",
    "financial_behavior": "",
    "risk_indicators": []
  }
}

Populate every field from the statements. Amounts are in KES. risk_indicators lists any concerning patterns (frequent overdrafts, gambling transactions, irregular income); use an empty list when none are found.`

var errNoJSONObject = errors.New("response contains no JSON object")

// extractJSON pulls the first JSON object out of a provider reply,
// tolerating markdown code fences and surrounding prose.
func extractJSON(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, errNoJSONObject
	}

	raw := json.RawMessage(text[start : end+1])
	if !json.Valid(raw) {
		return nil, errors.New("response JSON is malformed")
	}
	return raw, nil
}
