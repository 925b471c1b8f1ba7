package domain

import (
	"context"
	"time"
)

// AgendaFeed is a published event schedule from an external call-for-papers service.
type AgendaFeed struct {
	Sessions []AgendaSession
	Speakers []AgendaSpeaker
	Rooms    []AgendaRoom
}

// AgendaRoom is a room as named by the agenda source.
type AgendaRoom struct {
	ID   int
	Name string
}

// AgendaSpeaker is a speaker as published by the agenda source.
type AgendaSpeaker struct {
	ID       string
	FullName string
	Bio      string
	Photo    string
}

// AgendaSession is one scheduled session. Service sessions are breaks, lunches and the like.
type AgendaSession struct {
	ID             string
	Title          string
	Description    string
	StartsAt       time.Time
	EndsAt         time.Time
	SpeakerIDs     []string
	RoomID         int
	ServiceSession bool
}

// AgendaSource fetches the agenda published under sourceID.
// Transport and upstream failures wrap ErrAgendaUnavailable.
type AgendaSource interface {
	Fetch(ctx context.Context, sourceID string) (*AgendaFeed, error)
}

// ImportSkip records a session that was not imported.
type ImportSkip struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	Reason    string `json:"reason"`
}

// ImportSummary reports what an agenda import created.
// swagger:model ImportSummary
type ImportSummary struct {
	SpeakersCreated    int          `json:"speakers_created"`
	RoomsCreated       int          `json:"rooms_created"`
	TimeSlotsCreated   int          `json:"time_slots_created"`
	ConferencesCreated int          `json:"conferences_created"`
	Skipped            []ImportSkip `json:"skipped"`
}

// AgendaImportService seeds speakers, rooms, time slots and conferences from an agenda source.
// Existing entities are matched by name (speakers, rooms) or by day and start time (slots),
// so running an import twice creates nothing new.
type AgendaImportService interface {
	Import(ctx context.Context, sourceID string) (*ImportSummary, error)
}
