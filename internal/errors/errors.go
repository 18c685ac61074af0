// Package errors provides error classification for Footman.
package errors

import (
	stderrors "errors"
	"strings"
	"time"
)

// Category defines the type of error for handling decisions.
type Category int

const (
	// CategoryTemporary errors are retryable (network timeouts, transient failures)
	CategoryTemporary Category = iota

	// CategoryPermanent errors are not retryable (invalid input, not found)
	CategoryPermanent

	// CategoryUser errors are due to user input or configuration
	CategoryUser

	// CategoryRateLimit errors are due to API rate limiting
	CategoryRateLimit
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTemporary:
		return "temporary"
	case CategoryPermanent:
		return "permanent"
	case CategoryUser:
		return "user"
	case CategoryRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// Error codes for programmatic handling.
const (
	CodeModelUnavailable     = "MODEL_UNAVAILABLE"
	CodeModelRateLimit       = "MODEL_RATE_LIMIT"
	CodeModelParseError      = "MODEL_PARSE_ERROR"
	CodeModelInvalidResponse = "MODEL_INVALID_RESPONSE"
	CodeNetworkUnavailable   = "NETWORK_UNAVAILABLE"
	CodeProviderUnavailable  = "PROVIDER_UNAVAILABLE"
	CodeProviderEmpty        = "PROVIDER_EMPTY"
)

// AppError carries a code and a handling category alongside the message.
type AppError struct {
	Code       string
	Message    string
	Category   Category
	Inner      error
	RetryAfter time.Duration
}

// Error returns the error message.
func (e *AppError) Error() string {
	var sb strings.Builder
	if e.Code != "" {
		sb.WriteString("[")
		sb.WriteString(e.Code)
		sb.WriteString("] ")
	}
	sb.WriteString(e.Message)
	if e.Inner != nil && e.Inner.Error() != e.Message {
		sb.WriteString(": ")
		sb.WriteString(e.Inner.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Inner
}

// New creates a new AppError.
func New(code, message string, category Category) *AppError {
	return &AppError{Code: code, Message: message, Category: category}
}

// Wrap wraps an existing error with a code and category.
func Wrap(err error, code, message string, category Category) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Category: category, Inner: err}
}

// Temporary creates a retryable temporary error.
func Temporary(code, message string) *AppError {
	return New(code, message, CategoryTemporary)
}

// Permanent creates a non-retryable permanent error.
func Permanent(code, message string) *AppError {
	return New(code, message, CategoryPermanent)
}

// User creates a user/configuration error.
func User(code, message string) *AppError {
	return New(code, message, CategoryUser)
}

// RateLimit creates a rate limit error with a suggested retry delay.
func RateLimit(code, message string, retryAfter time.Duration) *AppError {
	return &AppError{Code: code, Message: message, Category: CategoryRateLimit, RetryAfter: retryAfter}
}

// GetCategory extracts the category from an error chain. Unknown errors
// are treated as temporary so the caller may retry them.
func GetCategory(err error) Category {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Category
	}
	return CategoryTemporary
}

// IsRetryable reports whether an operation that produced err may be retried.
func IsRetryable(err error) bool {
	switch GetCategory(err) {
	case CategoryTemporary, CategoryRateLimit:
		return true
	default:
		return false
	}
}
