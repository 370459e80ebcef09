// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Comparison outcomes surfaced to the process
const (
	ErrCodeNoItemsEntered           ErrorCode = "NO_ITEMS_ENTERED"
	ErrCodeNoItemsMatchRequirements ErrorCode = "NO_ITEMS_MATCH_REQUIREMENTS"
	ErrCodeInvalidInput             ErrorCode = "INVALID_INPUT"
)

// Catalog and item store
const (
	ErrCodeCategoryNotFound         ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeCatalogLookupFailed      ErrorCode = "CATALOG_LOOKUP_FAILED"
	ErrCodeCatalogUpdateFailed      ErrorCode = "CATALOG_UPDATE_FAILED"
	ErrCodeItemStoreFailed          ErrorCode = "ITEM_STORE_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
)

// Sessions, benchmarks, delivery
const (
	ErrCodeSessionNotFound      ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed   ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeBenchmarkLoadFailed  ErrorCode = "BENCHMARK_LOAD_FAILED"
	ErrCodeReportDeliveryFailed ErrorCode = "REPORT_DELIVERY_FAILED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// AsStandardError unwraps err to a *StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables set on the job when it fails or throws.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoItemsEnteredError is returned when a submission has no usable item.
func NewNoItemsEnteredError() *StandardError {
	return newError(ErrCodeNoItemsEntered, "Please enter at least one item to analyze.", "", false)
}

// NewNoItemsMatchError is returned when filters exclude every item.
func NewNoItemsMatchError(details string) *StandardError {
	return newError(ErrCodeNoItemsMatchRequirements, "No items match your requirements.", details, false)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false)
}

func NewCategoryNotFoundError(categoryID int64) *StandardError {
	return newError(ErrCodeCategoryNotFound, "Category not found", fmt.Sprintf("categoryId: %d", categoryID), false).
		WithMetadata("categoryId", categoryID)
}

func NewCatalogLookupFailedError(err error) *StandardError {
	return newError(ErrCodeCatalogLookupFailed, "Attribute catalog lookup failed", err.Error(), true)
}

func NewCatalogUpdateFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeCatalogUpdateFailed, "Catalog update failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewItemStoreFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeItemStoreFailed, "Item store operation failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "No items to rank. Please enter items again.",
		fmt.Sprintf("sessionId: %s", sessionID), false)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store operation failed", err.Error(), true)
}

func NewBenchmarkLoadFailedError(index string, err error) *StandardError {
	return newError(ErrCodeBenchmarkLoadFailed, "Benchmark tables could not be loaded",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewReportDeliveryFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeReportDeliveryFailed, "Report delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. BPMN Mapping & Retry Policy
// ==========================

// BPMNErrorMapping overrides the BPMN error code thrown for an internal code.
// Codes without an entry are thrown as-is.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeNoItemsEntered:           "NO_ITEMS_ENTERED",
	ErrCodeNoItemsMatchRequirements: "NO_ITEMS_MATCH",
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeCategoryNotFound:         "CATEGORY_NOT_FOUND",
	ErrCodeSessionNotFound:          "SESSION_EXPIRED",
	ErrCodeReportDeliveryFailed:     "REPORT_DELIVERY_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogLookupFailed,
		ErrCodeCatalogUpdateFailed,
		ErrCodeItemStoreFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeSessionStoreFailed:
		return 3

	case ErrCodeBenchmarkLoadFailed,
		ErrCodeReportDeliveryFailed:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	c := string(code)
	switch {
	case strings.HasPrefix(c, "NO_ITEMS"):
		return "COMPARISON"
	case strings.Contains(c, "CATEGORY") || strings.Contains(c, "ATTRIBUTE") || strings.Contains(c, "CATALOG"):
		return "CATALOG"
	case strings.Contains(c, "ITEM_STORE") || strings.Contains(c, "DATABASE"):
		return "DATABASE"
	case strings.Contains(c, "SESSION"):
		return "SESSION"
	case strings.Contains(c, "BENCHMARK"):
		return "SEARCH"
	case strings.Contains(c, "DELIVERY"):
		return "NOTIFICATION"
	case strings.Contains(c, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
