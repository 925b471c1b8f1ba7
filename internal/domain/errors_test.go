package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("driver said no")
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "plain error", err: cause, want: KindUnknown},
		{name: "store error", err: &StoreError{Kind: KindUniqueViolation, Err: cause}, want: KindUniqueViolation},
		{name: "wrapped store error", err: fmt.Errorf("create registration: %w", &StoreError{Kind: KindForeignKeyViolation, Err: cause}), want: KindForeignKeyViolation},
		{name: "not found sentinel", err: fmt.Errorf("get: %w", ErrNotFound), want: KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStoreError_IsNotFound(t *testing.T) {
	err := fmt.Errorf("get speaker: %w", &StoreError{Kind: KindNotFound, Op: "speakers.get", Err: errors.New("no rows")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, &StoreError{Kind: KindUniqueViolation, Err: errors.New("dup")}, ErrNotFound)
	assert.Equal(t, "speakers.get: not_found: no rows", errors.Unwrap(err).Error())
}
