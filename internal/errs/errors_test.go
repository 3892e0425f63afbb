package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"not found", New(ErrKindNotFound, "x"), IsNotFound},
		{"timeout", New(ErrKindTimeout, "x"), IsTimeout},
		{"connection", New(ErrKindConnectionFailed, "x"), IsConnectionFailed},
		{"query", New(ErrKindQueryFailed, "x"), IsQueryFailed},
		{"invalid input", New(ErrKindInvalidInput, "x"), IsInvalidInput},
		{"permission", New(ErrKindPermissionDenied, "x"), IsPermissionDenied},
		{"dialect", New(ErrKindUnsupportedDialect, "x"), IsUnsupportedDialect},
		{"operation", New(ErrKindUnsupportedOperation, "x"), IsUnsupportedOperation},
		{"read only", New(ErrKindReadOnlyViolation, "x"), IsReadOnlyViolation},
		{"table", New(ErrKindTableNotFound, "x"), IsTableNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			assert.True(t, tt.is(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.is(errors.New("plain")))
		})
	}
}

func TestError_Format(t *testing.T) {
	cause := errors.New("no such table: foo")
	err := Wrap(ErrKindQueryFailed, "query failed", cause)

	assert.Equal(t, "[query_failed] query failed: no such table: foo", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[table_not_found] gone", New(ErrKindTableNotFound, "gone").Error())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Equal(t, "bad", Message(New(ErrKindInvalidInput, "bad")))
	assert.Equal(t, "query failed: boom",
		Message(fmt.Errorf("ctx: %w", Wrap(ErrKindQueryFailed, "query failed", errors.New("boom")))))
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("x")))
	assert.Equal(t, "unknown", ErrKindUnknown.String())
	assert.Equal(t, "read_only_violation", ErrKindReadOnlyViolation.String())
}
