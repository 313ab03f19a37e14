package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code string
		is   func(error) bool
	}{
		{NewInvalidTableError("t"), "INVALID_TABLE", IsInvalidTable},
		{NewNoUniqueRecordColumnsError("t"), "NO_UNIQUE_RECORD_COLUMNS", IsNoUniqueRecordColumns},
		{NewNonUniqueResultError("t", 2), "NON_UNIQUE_RESULT", IsNonUniqueResult},
		{NewUnsupportedOperationError("delete by query"), "UNSUPPORTED_OPERATION", IsUnsupportedOperation},
		{NewInvalidQueryError("filter", errors.New("bad")), "INVALID_QUERY", IsInvalidQuery},
		{NewParamConversionError("t", "c", "x", errors.New("bad")), "PARAM_CONVERSION", IsParamConversion},
		{NewPersistenceError("insert", "t", "INSERT", sql.ErrConnDone), "PERSISTENCE_FAILURE", IsPersistence},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			wrapped := fmt.Errorf("call failed: %w", tt.err)
			assert.Equal(t, tt.code, GetErrorCode(wrapped))
			assert.True(t, tt.is(wrapped))
			assert.NotEmpty(t, tt.err.Error())
		})
	}

	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(errors.New("other")))
	assert.False(t, IsInvalidTable(errors.New("other")))
}

func TestUnwrap(t *testing.T) {
	err := NewPersistenceError("update", "accounts", "UPDATE", sql.ErrConnDone)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "accounts")

	resp := ToResponse(err)
	assert.Equal(t, "PERSISTENCE_FAILURE", resp.Code)
	assert.Equal(t, err.Error(), resp.Message)
}
