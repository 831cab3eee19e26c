package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// Guarantor errors
var (
	ErrGuarantorNotFound  = errors.New("guarantor not found")
	ErrPolicyNotFound     = errors.New("rental policy not found")
	ErrNotSubmittable     = errors.New("guarantor does not meet submission requirements")
	ErrConfirmationNeeded = errors.New("switching the guarantee method clears the previous method's data and requires confirmation")
	ErrMethodFixed        = errors.New("a fiador always guarantees with property; the method cannot change")
	ErrKindMismatch       = errors.New("operation is not applicable to this guarantor kind")
	ErrAlreadySubmitted   = errors.New("guarantor already submitted for verification")
)

// Validation error codes returned by the completeness evaluator
const (
	CodeRequired      = "REQUIRED"
	CodeInvalidFormat = "INVALID_FORMAT"
	CodeBusinessRule  = "BUSINESS_RULE"
	CodeInsufficient  = "INSUFFICIENT"
)

// ValidationError is one submission-blocking problem on a guarantor.
// Evaluator runs collect all of them so a caller can show every issue at once.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
