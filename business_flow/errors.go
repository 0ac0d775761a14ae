// Package businessflow contains the core business logic and use cases for the marketplace
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Provider account errors
	ErrProviderNotFound   = errors.New("provider not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session has expired")

	// Admin errors
	ErrAdminNotFound = errors.New("admin not found")
	ErrCaptchaFailed = errors.New("captcha verification failed")

	// Service area errors
	ErrServiceAreaLimitReached = errors.New("service area limit reached")
	ErrServiceAreaDuplicate    = errors.New("service area already registered for this zip")
	ErrServiceAreaNotFound     = errors.New("service area not found")

	// Eligibility errors
	ErrInvalidZip = errors.New("zip code must be exactly 5 digits")

	// Listing errors
	ErrServiceNotFound     = errors.New("service not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrListingAccessDenied = errors.New("listing access denied")

	// Lead errors
	ErrLeadNotFound         = errors.New("lead not found")
	ErrLeadAccessDenied     = errors.New("lead access denied")
	ErrLeadNotServable      = errors.New("no provider serves this zip code")
	ErrLeadAlreadyClosed    = errors.New("lead is already completed or rejected")
	ErrLeadInvalidStatus    = errors.New("invalid lead status")
	ErrAssignProviderNotFound = errors.New("assignment target provider not found")

	// Global ZIP allowlist errors
	ErrGlobalZipNotFound = errors.New("global zip not found")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
	ErrInvalidLeadView = errors.New("view must be one of active, completed, rejected, recurring")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsProviderNotFound(err error) bool {
	return errors.Is(err, ErrProviderNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsCaptchaFailed(err error) bool {
	return errors.Is(err, ErrCaptchaFailed)
}

func IsServiceAreaLimitReached(err error) bool {
	return errors.Is(err, ErrServiceAreaLimitReached)
}

func IsServiceAreaDuplicate(err error) bool {
	return errors.Is(err, ErrServiceAreaDuplicate)
}

func IsServiceAreaNotFound(err error) bool {
	return errors.Is(err, ErrServiceAreaNotFound)
}

func IsInvalidZip(err error) bool {
	return errors.Is(err, ErrInvalidZip)
}

func IsServiceNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFound)
}

func IsProductNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsListingAccessDenied(err error) bool {
	return errors.Is(err, ErrListingAccessDenied)
}

func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}

func IsLeadAccessDenied(err error) bool {
	return errors.Is(err, ErrLeadAccessDenied)
}

func IsLeadNotServable(err error) bool {
	return errors.Is(err, ErrLeadNotServable)
}

func IsLeadAlreadyClosed(err error) bool {
	return errors.Is(err, ErrLeadAlreadyClosed)
}

func IsGlobalZipNotFound(err error) bool {
	return errors.Is(err, ErrGlobalZipNotFound)
}

func IsAssignProviderNotFound(err error) bool {
	return errors.Is(err, ErrAssignProviderNotFound)
}
