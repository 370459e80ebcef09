// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{
			name:            "mapped business error",
			err:             NewNoItemsMatchError("maxBudget: 300"),
			expectedCode:    "NO_ITEMS_MATCH",
			expectedRetries: 0,
		},
		{
			name:            "session expiry maps to its own code",
			err:             NewSessionNotFoundError("abc"),
			expectedCode:    "SESSION_EXPIRED",
			expectedRetries: 0,
		},
		{
			name:            "retryable technical error keeps its code",
			err:             NewItemStoreFailedError("insert", fmt.Errorf("conn reset")),
			expectedCode:    "ITEM_STORE_FAILED",
			expectedRetries: 3,
		},
		{
			name: "non-retryable flag zeroes retries",
			err: func() *StandardError {
				e := NewCatalogLookupFailedError(fmt.Errorf("bad row"))
				e.Retryable = false
				return e
			}(),
			expectedCode:    "CATALOG_LOOKUP_FAILED",
			expectedRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmn.Code)
			assert.Equal(t, tt.expectedRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])

			vars := bpmn.ToErrorVariables()
			assert.Equal(t, tt.expectedCode, vars["errorCode"])
			assert.Equal(t, tt.err.Message, vars["errorMessage"])
		})
	}
}

func TestMetadataPropagatesToVariables(t *testing.T) {
	bpmn := ConvertToBPMNError(NewCategoryNotFoundError(42))

	assert.Equal(t, int64(42), bpmn.ErrorVariables["categoryId"])
	assert.Equal(t, "CATEGORY_NOT_FOUND", bpmn.Code)
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("rank: %w", NewNoItemsEnteredError())

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoItemsEntered, stdErr.Code)
	assert.Equal(t, "Please enter at least one item to analyze.", stdErr.Message)
	assert.True(t, HasCode(wrapped, ErrCodeNoItemsEntered))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeNoItemsEntered))

	assert.Equal(t, ErrCodeInternal, normalizeError(fmt.Errorf("plain")).Code)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "COMPARISON", GetErrorCategory(ErrCodeNoItemsEntered))
	assert.Equal(t, "CATALOG", GetErrorCategory(ErrCodeCategoryNotFound))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeItemStoreFailed))
	assert.Equal(t, "SESSION", GetErrorCategory(ErrCodeSessionStoreFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeBenchmarkLoadFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeReportDeliveryFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestRetryPolicy(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeSessionStoreFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeReportDeliveryFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeNoItemsEntered))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidInput))
}

func TestStandardError_Error(t *testing.T) {
	assert.Equal(t, "INVALID_INPUT: Invalid input (categoryId required)", NewInvalidInputError("categoryId required").Error())
	assert.Equal(t, "NO_ITEMS_ENTERED: Please enter at least one item to analyze.", NewNoItemsEnteredError().Error())
}
