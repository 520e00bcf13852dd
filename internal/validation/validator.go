// Package validation checks documents before they are rendered.
//
// SYSTEM ARCHITECTURE ROLE:
// Rendering never fails: a missing value becomes a visible marker and an
// unknown gender leaves the word as typed. This package is where those soft
// problems are reported, so the CLI and the fill form can warn the notary
// before a document is printed.
//
// KEY RESPONSIBILITIES:
//   - Report template variables that have no value (warnings)
//   - Report values typed for variables the template does not use (warnings)
//   - Check a clause context: no parties is an error; an empty name, an unknown
//     gender tag or an unparseable date are warnings
//   - Check template metadata before it is saved
//
// INTEGRATION POINTS:
// - internal/service: Validate* methods wrap this package
// - internal/errors: ValidationResult.ToAppError() converts failures to AppError
// - internal/cli: the validate command prints warnings and errors
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dpshade/scrib-digital/internal/errors"
	"github.com/dpshade/scrib-digital/internal/grammar"
	"github.com/dpshade/scrib-digital/internal/models"
	"github.com/dpshade/scrib-digital/internal/placeholder"
)

// Validation codes
const (
	CodeRequired       = "REQUIRED_FIELD_MISSING"
	CodePatternMatch   = "PATTERN_MISMATCH"
	CodeNoParties      = "NO_PARTIES"
	CodeMissingValue   = "MISSING_VALUE"
	CodeUnusedValue    = "UNUSED_VALUE"
	CodeUnknownGender  = "UNKNOWN_GENDER"
	CodeEmptyName      = "EMPTY_NAME"
	CodeInvalidDate    = "INVALID_DATE"
	CodeNonNumericAct  = "NON_NUMERIC_ACT"
	CodeUnbalanced     = "UNBALANCED_BRACES"
	CodeNoPlaceholders = "NO_PLACEHOLDERS"
)

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationWarning represents a field validation warning
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

func (r *ValidationResult) addError(field, code, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: message})
}

func (r *ValidationResult) addWarning(field, code, message string) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Code: code, Message: message})
}

// Merge appends the errors and warnings of other to r
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

var templateIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validator checks templates, records and clause contexts
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateTemplate checks a template before it is saved
func (v *Validator) ValidateTemplate(t *models.Template) *ValidationResult {
	result := newResult()

	if strings.TrimSpace(t.ID) == "" {
		result.addError("id", CodeRequired, "Field 'id' is required")
	} else if !templateIDPattern.MatchString(t.ID) {
		result.addError("id", CodePatternMatch, "Field 'id' must be lowercase letters, digits, '-' or '_'")
	}
	if strings.TrimSpace(t.Title) == "" {
		result.addError("title", CodeRequired, "Field 'title' is required")
	}

	for _, s := range t.Sections() {
		if strings.Count(s.Body, "{{") != strings.Count(s.Body, "}}") {
			result.addWarning(s.Name, CodeUnbalanced, "Unbalanced '{{' and '}}'; unmatched braces are left as text")
		}
	}
	if len(t.Variables()) == 0 {
		result.addWarning("body", CodeNoPlaceholders, "Template has no {{VARIABLE}} placeholders")
	}

	return result
}

// ValidateRecord reports the template variables left without a value and
// the values that no placeholder uses
func (v *Validator) ValidateRecord(t *models.Template, record placeholder.Record) *ValidationResult {
	result := newResult()

	used := make(map[string]bool)
	for _, name := range t.Variables() {
		used[name] = true
		if record[name] == "" {
			result.addWarning(name, CodeMissingValue, fmt.Sprintf("No value for %s", placeholder.Tag(name)))
		}
	}

	var unused []string
	for name := range record {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	for _, name := range unused {
		result.addWarning(name, CodeUnusedValue, fmt.Sprintf("Value %q is not used by the template", name))
	}

	return result
}

// ValidateClause checks the input of the clause builder
func (v *Validator) ValidateClause(ctx models.ClauseContext) *ValidationResult {
	result := newResult()

	if len(ctx.Parties) == 0 {
		result.addError("parties", CodeNoParties, "At least one party is required")
	}
	for i, p := range ctx.Parties {
		field := fmt.Sprintf("parties[%d]", i)
		if strings.TrimSpace(p.Name) == "" {
			result.addWarning(field+".name", CodeEmptyName, "Party has no name")
		}
		if !p.Gender.Valid() {
			result.addWarning(field+".gender", CodeUnknownGender,
				fmt.Sprintf("Unknown gender %q; words are left as typed (use M or F)", string(p.Gender)))
		}
		if p.BirthDate != "" && !grammar.ParseDate(p.BirthDate).Complete() {
			result.addWarning(field+".birth_date", CodeInvalidDate, fmt.Sprintf("Birth date %q is incomplete", p.BirthDate))
		}
	}

	if ctx.Date != "" && !grammar.ParseDate(ctx.Date).Complete() {
		result.addWarning("date", CodeInvalidDate, fmt.Sprintf("Date %q is incomplete", ctx.Date))
	}
	if ctx.ActNumber != "" && ctx.ActNumberSpelled == "" {
		if _, err := strconv.Atoi(strings.ReplaceAll(ctx.ActNumber, ".", "")); err != nil {
			result.addWarning("act_number", CodeNonNumericAct, "Act number is not numeric and will not be spelled out")
		}
	}

	return result
}

// ToAppError converts validation result to AppError
func (result *ValidationResult) ToAppError() *errors.AppError {
	if result.Valid {
		return nil
	}

	if len(result.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	firstError := result.Errors[0]
	var appErr *errors.AppError
	if firstError.Code == CodeNoParties {
		appErr = errors.NoPartiesError()
	} else {
		appErr = errors.ValidationError(firstError.Message)
	}

	var details []string
	for _, validationErr := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
	}
	appErr.WithDetails(strings.Join(details, "; "))

	appErr.WithContext("validation_errors", result.Errors)
	if len(result.Warnings) > 0 {
		appErr.WithContext("validation_warnings", result.Warnings)
	}

	return appErr
}
