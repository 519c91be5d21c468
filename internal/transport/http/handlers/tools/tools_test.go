package toolshandler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavedesk/internal/platform/sentinel"
)

func TestDecodeArgs(t *testing.T) {
	var args employeeArgs
	require.NoError(t, decodeArgs(nil, &args))
	require.NoError(t, decodeArgs(json.RawMessage(" null "), &args))
	assert.Empty(t, args.EmployeeID)

	require.NoError(t, decodeArgs(json.RawMessage(`{"employeeId":"EMP001"}`), &args))
	assert.Equal(t, "EMP001", args.EmployeeID)

	err := decodeArgs(json.RawMessage(`{"employee":"EMP001"}`), &args)
	assert.ErrorIs(t, err, sentinel.ErrInvalidInput)

	err = decodeArgs(json.RawMessage(`["EMP001"]`), &args)
	assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
}

func TestRequiredNamesEveryMissingArgument(t *testing.T) {
	assert.NoError(t, required("employeeId", "EMP001"))

	err := required("employeeId", " ", "startDate", "2025-01-01", "endDate", "")
	require.ErrorIs(t, err, sentinel.ErrInvalidInput)
	assert.Contains(t, err.Error(), "employeeId, endDate")
}

func TestToolNamesAreUnique(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil, nil)
	assert.Len(t, h.byName, len(h.Tools()))
	for _, tool := range h.Tools() {
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
}
