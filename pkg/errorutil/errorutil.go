package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Codes for the error taxonomy surfaced to clients.
const (
	CodeValidation     = "VALIDATION_FAILED"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeQuotaExceeded  = "QUOTA_EXCEEDED"
	CodePlanRequired   = "PLAN_INSUFFICIENT"
	CodeFileTooLarge   = "FILE_TOO_LARGE"
	CodeUpstream       = "UPSTREAM_FAILURE"
	CodeIdentityLookup = "IDENTITY_LOOKUP_FAILED"
	CodeInternal       = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError. Outcomes answer 200 unless a status is given.
func NewDomainError(code, message string, status int) *DomainError {
	if status == 0 {
		status = http.StatusOK
	}
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidationError(message string) error {
	return NewDomainError(CodeValidation, message, 0)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), 0)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewQuotaExceeded(message string) error {
	return NewDomainError(CodeQuotaExceeded, message, 0)
}

func NewPlanRequired(message string) error {
	return NewDomainError(CodePlanRequired, message, 0)
}

func NewFileTooLarge(message string) error {
	return NewDomainError(CodeFileTooLarge, message, 0)
}

// NewUpstreamError keeps the collaborator's message verbatim.
func NewUpstreamError(err error) error {
	return &DomainError{Code: CodeUpstream, Message: err.Error(), HTTPStatus: http.StatusOK, Err: err}
}

// NewIdentityLookupError keeps the identity provider's message verbatim.
func NewIdentityLookupError(err error) error {
	return &DomainError{Code: CodeIdentityLookup, Message: err.Error(), HTTPStatus: http.StatusOK, Err: err}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Unknown errors keep
// their message so the client sees what failed.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return NewDomainError(CodeNotFound, "resource not found", 0)
	}
	return &DomainError{Code: CodeInternal, Message: err.Error(), HTTPStatus: http.StatusOK, Err: err}
}

// MapError converts err to a *DomainError, returned as error.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
