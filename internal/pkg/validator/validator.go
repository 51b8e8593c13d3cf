// Package validator performs local request validation. Anything rejected
// here never reaches the network.
package validator

import (
	"fmt"
	"strings"

	"github.com/iacforge/orchestrator/internal/entity"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSubmitQuery rejects empty or whitespace-only queries
func (v *Validator) ValidateSubmitQuery(req *entity.SubmitQueryRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return entity.ErrEmptyQuery
	}
	return nil
}

// ValidateEditVariable rejects edits without a variable name
func (v *Validator) ValidateEditVariable(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: variable name", entity.ErrMissingField)
	}
	return nil
}

// ValidateConnect rejects connect attempts without a token
func (v *Validator) ValidateConnect(req *entity.ConnectRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return entity.ErrMissingToken
	}
	return nil
}

// ValidateSeedQuery rejects empty query seeds
func (v *Validator) ValidateSeedQuery(req *entity.SeedQueryRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return entity.ErrEmptyQuery
	}
	return nil
}

// ValidateReportFormat rejects unsupported report formats
func (v *Validator) ValidateReportFormat(format string) error {
	if err := entity.ReportFormat(format).Validate(); err != nil {
		return fmt.Errorf("%w: %s", entity.ErrInvalidFormat, format)
	}
	return nil
}
