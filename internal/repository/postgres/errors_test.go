package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefair/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind domain.ErrorKind
	}{
		{name: "no rows", err: sql.ErrNoRows, wantKind: domain.KindNotFound},
		{name: "bad conn", err: driver.ErrBadConn, wantKind: domain.KindUnavailable},
		{name: "unique", err: &pq.Error{Code: "23505", Constraint: "registrations_user_conference_key"}, wantKind: domain.KindUniqueViolation},
		{name: "foreign key", err: &pq.Error{Code: "23503"}, wantKind: domain.KindForeignKeyViolation},
		{name: "check", err: &pq.Error{Code: "23514"}, wantKind: domain.KindCheckViolation},
		{name: "bad uuid text", err: &pq.Error{Code: "22P02"}, wantKind: domain.KindCheckViolation},
		{name: "raised no data", err: &pq.Error{Code: "P0002"}, wantKind: domain.KindNotFound},
		{name: "connection failure", err: &pq.Error{Code: "08006"}, wantKind: domain.KindUnavailable},
		{name: "undefined function", err: &pq.Error{Code: "42883"}, wantKind: domain.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			var se *domain.StoreError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantKind, se.Kind)
			assert.Equal(t, "op", se.Op)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, classify("op", nil))
	plain := errors.New("boom")
	assert.Same(t, plain, classify("op", plain))
}

func TestClassify_KeepsConstraint(t *testing.T) {
	err := classify("conferences.create", &pq.Error{Code: "23505", Constraint: "conferences_room_slot_key"})
	var se *domain.StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "conferences_room_slot_key", se.Constraint)
}
