package sessionize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tradefair/internal/domain"
)

// DefaultBaseURL is the public Sessionize API host.
const DefaultBaseURL = "https://sessionize.com"

// Sessionize publishes local times without a zone offset.
const localTimeLayout = "2006-01-02T15:04:05"

type httpFetcher struct {
	client  *http.Client
	baseURL string
}

// NewHTTPFetcher returns an AgendaSource that reads the Sessionize "All" view.
// A nil client uses http.DefaultClient; an empty baseURL uses DefaultBaseURL.
func NewHTTPFetcher(client *http.Client, baseURL string) domain.AgendaSource {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &httpFetcher{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (f *httpFetcher) Fetch(ctx context.Context, sessionizeID string) (*domain.AgendaFeed, error) {
	endpoint := fmt.Sprintf("%s/api/v2/%s/view/All", f.baseURL, url.PathEscape(sessionizeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAgendaUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: sessionize event %q", domain.ErrNotFound, sessionizeID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: sessionize returned status %d", domain.ErrAgendaUnavailable, resp.StatusCode)
	}

	var data allResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode sessionize response: %v", domain.ErrAgendaUnavailable, err)
	}
	return data.toFeed()
}

// allResponse is the Sessionize "All" view.
type allResponse struct {
	Sessions []session `json:"sessions"`
	Speakers []speaker `json:"speakers"`
	Rooms    []room    `json:"rooms"`
}

type room struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Sort int    `json:"sort"`
}

type session struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      *string  `json:"description"`
	StartsAt         string   `json:"startsAt"`
	EndsAt           string   `json:"endsAt"`
	Speakers         []string `json:"speakers"`
	RoomID           *int     `json:"roomId"`
	IsServiceSession bool     `json:"isServiceSession"`
}

type speaker struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	FullName       string `json:"fullName"`
	Bio            string `json:"bio"`
	TagLine        string `json:"tagLine"`
	ProfilePicture string `json:"profilePicture"`
}

func (r allResponse) toFeed() (*domain.AgendaFeed, error) {
	feed := &domain.AgendaFeed{
		Rooms:    make([]domain.AgendaRoom, 0, len(r.Rooms)),
		Speakers: make([]domain.AgendaSpeaker, 0, len(r.Speakers)),
		Sessions: make([]domain.AgendaSession, 0, len(r.Sessions)),
	}
	for _, rm := range r.Rooms {
		feed.Rooms = append(feed.Rooms, domain.AgendaRoom{ID: rm.ID, Name: strings.TrimSpace(rm.Name)})
	}
	for _, sp := range r.Speakers {
		name := strings.TrimSpace(sp.FullName)
		if name == "" {
			name = strings.TrimSpace(sp.FirstName + " " + sp.LastName)
		}
		bio := sp.Bio
		if bio == "" {
			bio = sp.TagLine
		}
		feed.Speakers = append(feed.Speakers, domain.AgendaSpeaker{
			ID:       sp.ID,
			FullName: name,
			Bio:      strings.TrimSpace(bio),
			Photo:    sp.ProfilePicture,
		})
	}
	for _, s := range r.Sessions {
		starts, err := parseTime(s.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("%w: session %s startsAt: %v", domain.ErrAgendaUnavailable, s.ID, err)
		}
		ends, err := parseTime(s.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("%w: session %s endsAt: %v", domain.ErrAgendaUnavailable, s.ID, err)
		}
		out := domain.AgendaSession{
			ID:             s.ID,
			Title:          strings.TrimSpace(s.Title),
			StartsAt:       starts,
			EndsAt:         ends,
			SpeakerIDs:     s.Speakers,
			ServiceSession: s.IsServiceSession,
		}
		if s.Description != nil {
			out.Description = strings.TrimSpace(*s.Description)
		}
		if s.RoomID != nil {
			out.RoomID = *s.RoomID
		}
		feed.Sessions = append(feed.Sessions, out)
	}
	return feed, nil
}

func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(localTimeLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
