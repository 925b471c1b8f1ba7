package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefair/internal/domain"
)

func TestProfileService(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProfileRepo()
	repo.byID["u1"] = domain.NewProfile("u1", "ana@example.com", domain.RoleVisitor, "Ana", "Diaz", nil, nil)
	repo.byID["u2"] = domain.NewProfile("u2", "org@example.com", domain.RoleOrganizer, "Olga", "Ruiz", nil, nil)
	svc := NewProfileService(repo, testTimeout)

	t.Run("get missing", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update rejects blank names", func(t *testing.T) {
		blank := "  "
		_, err := svc.Update(ctx, "u1", domain.ProfileUpdate{FirstName: &blank})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("update", func(t *testing.T) {
		company := "Acme"
		p, err := svc.Update(ctx, "u1", domain.ProfileUpdate{Company: &company})
		require.NoError(t, err)
		require.NotNil(t, p.Company)
		assert.Equal(t, "Acme", *p.Company)
		assert.Equal(t, "Ana", p.FirstName)
	})

	t.Run("list by role", func(t *testing.T) {
		ps, err := svc.ListByRole(ctx, domain.RoleOrganizer)
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, "u2", ps[0].ID)

		_, err = svc.ListByRole(ctx, "admin")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("change role", func(t *testing.T) {
		p, err := svc.ChangeRole(ctx, "u1", domain.RoleSponsor)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleSponsor, p.Role)

		_, err = svc.ChangeRole(ctx, "u1", "root")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = svc.ChangeRole(ctx, "missing", domain.RoleVisitor)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
