package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	names := []string{
		FieldFile, FieldFormat, FieldStatus, FieldOperation, FieldError,
		FieldCount, FieldDuration, FieldRecordIndex, FieldField, FieldBank,
		FieldChatID, FieldStep, FieldState, FieldStaffCode, FieldOutputFile,
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		assert.NotEmpty(t, n)
		assert.False(t, seen[n], "duplicate field name %q", n)
		seen[n] = true
	}
}
