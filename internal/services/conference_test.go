package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradefair/internal/domain"
)

func newConferenceFixture() (*fakeConferenceRepo, domain.ConferenceService) {
	confs := newFakeConferenceRepo(threeSlots()...)
	regs := newFakeRegistrationRepo(confs)
	avail := NewAvailabilityService(confs, &fakeTimeSlotRepo{slots: threeSlots()}, testTimeout)
	return confs, NewConferenceService(confs, regs, avail, testTimeout)
}

func TestConferenceService_Create(t *testing.T) {
	ctx := context.Background()
	confs, svc := newConferenceFixture()
	confs.add("c1", 1, 1)

	tests := []struct {
		name    string
		in      domain.ConferenceInput
		wantErr error
	}{
		{name: "free slot", in: domain.ConferenceInput{Title: "Go", SpeakerID: "spk-1", RoomID: 1, TimeSlotID: 2}},
		{name: "taken slot", in: domain.ConferenceInput{Title: "Go", SpeakerID: "spk-1", RoomID: 1, TimeSlotID: 1}, wantErr: domain.ErrSlotUnavailable},
		{name: "missing title", in: domain.ConferenceInput{SpeakerID: "spk-1", RoomID: 2, TimeSlotID: 1}, wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.Create(ctx, tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, c.ID)
		})
	}
}

func TestConferenceService_Update_Permissions(t *testing.T) {
	ctx := context.Background()
	sponsor := "sponsor-1"

	tests := []struct {
		name    string
		caller  *domain.Principal
		wantErr error
	}{
		{name: "organizer", caller: &domain.Principal{UserID: "org-1", Role: domain.RoleOrganizer}},
		{name: "owning sponsor", caller: &domain.Principal{UserID: sponsor, Role: domain.RoleSponsor}},
		{name: "other sponsor", caller: &domain.Principal{UserID: "sponsor-2", Role: domain.RoleSponsor}, wantErr: domain.ErrForbidden},
		{name: "visitor", caller: &domain.Principal{UserID: "v-1", Role: domain.RoleVisitor}, wantErr: domain.ErrForbidden},
		{name: "no profile", caller: &domain.Principal{UserID: "x"}, wantErr: domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confs, svc := newConferenceFixture()
			c := confs.add("c1", 1, 1)
			c.SpeakerID = "spk-1"
			c.SponsorID = &sponsor

			other := "someone-else"
			got, err := svc.Update(ctx, tt.caller, "c1", domain.ConferenceInput{
				Title: "Renamed", SpeakerID: "spk-1", RoomID: 1, TimeSlotID: 1, SponsorID: &other,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Renamed", got.Title)
			if tt.caller.Role == domain.RoleSponsor {
				assert.Equal(t, sponsor, *got.SponsorID, "sponsors keep ownership")
			}
		})
	}
}

func TestConferenceService_Update_MoveToTakenSlot(t *testing.T) {
	ctx := context.Background()
	confs, svc := newConferenceFixture()
	confs.add("c1", 1, 1)
	confs.add("c2", 1, 2)

	organizer := &domain.Principal{UserID: "org-1", Role: domain.RoleOrganizer}
	_, err := svc.Update(ctx, organizer, "c2", domain.ConferenceInput{Title: "Moved", SpeakerID: "spk-1", RoomID: 1, TimeSlotID: 1})
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestConferenceService_ListRegistrations_UnknownConference(t *testing.T) {
	_, svc := newConferenceFixture()
	_, err := svc.ListRegistrations(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
