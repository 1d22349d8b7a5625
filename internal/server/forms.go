// internal/server/forms.go
package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	stderrors "credit-engine/internal/common/errors"
	"credit-engine/internal/models"
)

// formReader accumulates field-level validation problems while reading a
// multipart form, so a malformed submission reports every bad field at
// once instead of failing on the first.
type formReader struct {
	r    *http.Request
	errs []string
}

func (f *formReader) value(name string) string {
	return strings.TrimSpace(f.r.FormValue(name))
}

func (f *formReader) requireString(name string) string {
	v := f.value(name)
	if v == "" {
		f.errs = append(f.errs, fmt.Sprintf("%s is required", name))
	}
	return v
}

func (f *formReader) requireFloat(name string) float64 {
	v := f.value(name)
	if v == "" {
		f.errs = append(f.errs, fmt.Sprintf("%s is required", name))
		return 0
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f.errs = append(f.errs, fmt.Sprintf("%s must be a number", name))
		return 0
	}
	return parsed
}

func (f *formReader) requireInt(name string) int {
	v := f.value(name)
	if v == "" {
		f.errs = append(f.errs, fmt.Sprintf("%s is required", name))
		return 0
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		f.errs = append(f.errs, fmt.Sprintf("%s must be an integer", name))
		return 0
	}
	return parsed
}

func (f *formReader) optionalFloat(name string, def float64) float64 {
	v := f.value(name)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		f.errs = append(f.errs, fmt.Sprintf("%s must be a number", name))
		return def
	}
	return parsed
}

func (f *formReader) optionalInt(name string, def int) int {
	v := f.value(name)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		f.errs = append(f.errs, fmt.Sprintf("%s must be an integer", name))
		return def
	}
	return parsed
}

// optionalFlag reads a boolean form field into the 0/1 encoding the
// score model was trained on.
func (f *formReader) optionalFlag(name string) int {
	switch strings.ToLower(f.value(name)) {
	case "1", "true", "yes", "on":
		return 1
	default:
		return 0
	}
}

// miscPurpose is the loan purpose value that signals a free-text purpose
// follows in custom_loan_purpose.
const miscPurpose = "Other-Miscellaneous"

// parseApplicant builds the applicant record from a submitted form.
// Record keys follow the training data column names; form-only fields
// (full_name, contact details) keep their form names.
func parseApplicant(r *http.Request) (models.ApplicantRecord, *stderrors.StandardError) {
	f := &formReader{r: r}

	record := models.ApplicantRecord{
		"full_name":      f.requireString("full_name"),
		"Age":            f.requireInt("age"),
		"Income":         f.requireFloat("income"),
		"MonthsEmployed": f.requireInt("months_employed"),
		"Education":      f.requireString("education"),
		"EmploymentType": f.requireString("employment_type"),
		"MaritalStatus":  f.requireString("marital_status"),

		"AvgMonthlyBalance":     f.requireFloat("avg_monthly_balance"),
		"AvgMonthlySavings":     f.requireFloat("avg_monthly_savings"),
		"SavingsRate":           f.requireFloat("savings_rate"),
		"DepositFrequency":      f.requireInt("deposit_frequency"),
		"LastMonthSpending":     f.requireFloat("last_month_spending"),
		"MinBalanceLast6Months": f.requireFloat("min_balance_last_6_months"),
		"MaxBalanceLast6Months": f.requireFloat("max_balance_last_6_months"),

		"LoanAmount":     f.requireFloat("loan_amount"),
		"LoanTermMonths": f.requireInt("loan_term_months"),
		"InterestRate":   f.requireFloat("interest_rate"),
		"MonthlyPayment": f.requireFloat("monthly_payment"),

		"DTIRatio":                  f.optionalFloat("dti_ratio", 0),
		"NumOverdraftsLast12Months": f.optionalInt("num_overdrafts_last_12_months", 0),
		"HasMortgage":               f.optionalFlag("has_mortgage"),
		"HasDependents":             f.optionalFlag("has_dependents"),
		"HasCoSigner":               f.optionalFlag("has_cosigner"),
	}

	purpose := f.requireString("loan_purpose")
	if purpose == miscPurpose {
		if custom := f.value("custom_loan_purpose"); custom != "" {
			purpose = custom
		}
	}
	record["LoanPurpose"] = purpose

	for formField, key := range map[string]string{
		"collateral_type": "CollateralType",
		"cosigner_name":   "CoSignerName",
		"cosigner_id":     "CoSignerID",
		"credit_score":    "CreditScore",
		"applicant_email": "applicant_email",
		"applicant_phone": "applicant_phone",
	} {
		if v := f.value(formField); v != "" {
			record[key] = v
		}
	}
	if v := f.value("collateral_value"); v != "" {
		record["CollateralValue"] = f.optionalFloat("collateral_value", 0)
	}

	if len(f.errs) > 0 {
		return nil, stderrors.NewApplicationValidationFailedError(strings.Join(f.errs, "; "))
	}
	return record, nil
}

// readFormFile reads one optional uploaded file. A missing file is not an
// error; an unreadable one is.
func readFormFile(r *http.Request, field string) ([]byte, string, *stderrors.StandardError) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", stderrors.NewUploadUnreadableError(field, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, "", stderrors.NewUploadUnreadableError(field, err)
	}
	return content, header.Header.Get("Content-Type"), nil
}
