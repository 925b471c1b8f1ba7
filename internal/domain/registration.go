package domain

import (
	"context"
	"time"
)

// Registration is a user's seat in a conference. (UserID, ConferenceID) is unique.
// swagger:model Registration
type Registration struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	ConferenceID string      `json:"conference_id"`
	CreatedAt    time.Time   `json:"created_at"`
	Conference   *Conference `json:"conference,omitempty"`
}

// RegistrationWithProfile pairs a registration with the attendee's profile.
// swagger:model RegistrationWithProfile
type RegistrationWithProfile struct {
	Registration *Registration `json:"registration"`
	Profile      *Profile      `json:"profile,omitempty"`
}

// ConferenceWithRegistration is a conference annotated with the caller's registration state.
// swagger:model ConferenceWithRegistration
type ConferenceWithRegistration struct {
	*Conference
	IsRegistered   bool    `json:"is_registered"`
	RegistrationID *string `json:"registration_id,omitempty"`
}

// RegistrationConflict describes an existing registration that occupies the target's time slot.
// swagger:model RegistrationConflict
type RegistrationConflict struct {
	ExistingConference *Conference `json:"existing_conference"`
	NewConference      *Conference `json:"new_conference"`
	TimeSlot           *TimeSlot   `json:"time_slot"`
}

// ScheduleDay lists a user's conferences on one day ordered by start time.
// swagger:model ScheduleDay
type ScheduleDay struct {
	Day         int           `json:"day"`
	Conferences []*Conference `json:"conferences"`
}

// ReplaceStatus is the result class of a replace attempt.
type ReplaceStatus string

const (
	// ReplaceSuccess: the user holds the new registration and not the old one.
	ReplaceSuccess ReplaceStatus = "success"
	// ReplaceRolledBack: the new registration failed and the old one was restored.
	ReplaceRolledBack ReplaceStatus = "rolled_back"
	// ReplacePartialFailure: the new registration failed and the old one could not be restored.
	ReplacePartialFailure ReplaceStatus = "partial_failure"
)

// ReplacePath records which mechanism performed a replace.
type ReplacePath string

const (
	ReplacePathAtomic   ReplacePath = "atomic"
	ReplacePathDegraded ReplacePath = "degraded"
)

// ReplaceOutcome is the explicit result of Replace. Registration is set on success;
// Detail describes the failure for the other statuses.
// swagger:model ReplaceOutcome
type ReplaceOutcome struct {
	Status       ReplaceStatus `json:"status"`
	Path         ReplacePath   `json:"path"`
	Registration *Registration `json:"registration,omitempty"`
	Detail       string        `json:"detail,omitempty"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, userID, conferenceID string) (*Registration, error)
	Delete(ctx context.Context, userID, conferenceID string) error
	// ListByUser returns the user's registrations with conference, room and time slot, in creation order.
	ListByUser(ctx context.Context, userID string) ([]*Registration, error)
	ListByConference(ctx context.Context, conferenceID string) ([]*RegistrationWithProfile, error)
	ListAll(ctx context.Context) ([]*Registration, error)
	// Replace runs the replace_user_registration procedure: delete and insert in one transaction.
	Replace(ctx context.Context, userID, oldConferenceID, newConferenceID string) (*Registration, error)
}

// RegistrationService defines the visitor registration workflow.
type RegistrationService interface {
	// CheckTimeConflict returns nil when there is no conflict or the lookup failed.
	CheckTimeConflict(ctx context.Context, userID, conferenceID string) *RegistrationConflict
	// Register returns the conflict without mutating anything when one exists.
	Register(ctx context.Context, userID, conferenceID string) (*Registration, *RegistrationConflict, error)
	Unregister(ctx context.Context, userID, conferenceID string) error
	// Replace swaps oldConferenceID for newConferenceID atomically when possible. The outcome is
	// always returned; err is non-nil unless Status is ReplaceSuccess.
	Replace(ctx context.Context, userID, oldConferenceID, newConferenceID string) (*ReplaceOutcome, error)
	ListMine(ctx context.Context, userID string) ([]*Registration, error)
	ListConferencesWithStatus(ctx context.Context, userID string) ([]*ConferenceWithRegistration, error)
	PersonalSchedule(ctx context.Context, userID string) ([]*ScheduleDay, error)
}
