package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeCompanyNotFound, "ticker %s not found", "PFE")
	assert.Equal(t, "[RISK_003] ticker PFE not found", err.Error())

	withDetail := err.WithDetail("source=reference_data")
	assert.Equal(t, "[RISK_003] ticker PFE not found: source=reference_data", withDetail.Error())
	// WithDetail clones; original untouched.
	assert.Empty(t, err.Detail)
}

func TestWrap_NilPassthrough(t *testing.T) {
	if got := Wrap(nil, ErrCodeDatabaseError, "query failed"); got != nil {
		t.Fatalf("Wrap(nil) = %v, want nil", got)
	}
}

func TestWrap_ChainTraversal(t *testing.T) {
	root := stderrors.New("connection refused")
	wrapped := Wrap(root, ErrCodeDatabaseError, "failed to load company")
	outer := fmt.Errorf("analysis aborted: %w", wrapped)

	assert.True(t, IsCode(outer, ErrCodeDatabaseError))
	assert.False(t, IsCode(outer, ErrCodeCacheError))
	assert.True(t, stderrors.Is(outer, root))
}

func TestMissingRevenueData(t *testing.T) {
	err := MissingRevenueData("XYZ")
	assert.True(t, IsMissingRevenueData(err))
	assert.Equal(t, ErrCodeMissingRevenueData, GetCode(err))
	assert.Contains(t, err.Error(), "ticker=XYZ")

	// Wrapping must not lose the typed code.
	outer := fmt.Errorf("projection failed: %w", err)
	assert.True(t, IsMissingRevenueData(outer))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, ErrCodeInternal, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeValidation, GetCode(NewValidation("bad horizon")))
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusForCode(ErrCodeMissingRevenueData))
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodeCompanyNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("BOGUS")))
}
