package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefair/internal/domain"
)

func TestVenueService_CreateTimeSlot(t *testing.T) {
	ctx := context.Background()
	slots := &fakeTimeSlotRepo{}
	svc := NewVenueService(&fakeRoomRepo{}, slots, testTimeout)

	slot, err := svc.CreateTimeSlot(ctx, 2, "14:00", "15:00")
	require.NoError(t, err)
	assert.Equal(t, int64(1), slot.ID)

	_, err = svc.CreateTimeSlot(ctx, 4, "14:00", "15:00")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, slots.slots, 1)
}

func TestVenueService_CreateRoom(t *testing.T) {
	ctx := context.Background()
	svc := NewVenueService(&fakeRoomRepo{}, &fakeTimeSlotRepo{}, testTimeout)

	require.ErrorIs(t, svc.CreateRoom(ctx, &domain.Room{Name: ""}), domain.ErrInvalidInput)

	room := &domain.Room{Name: " Hall A "}
	require.NoError(t, svc.CreateRoom(ctx, room))
	assert.Equal(t, "Hall A", room.Name)
	assert.False(t, room.CreatedAt.IsZero())
}
