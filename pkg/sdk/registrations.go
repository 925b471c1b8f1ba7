package sdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Register books conferenceID for the caller. When the caller already attends another
// conference in the same time slot, the conflict is returned with a nil registration and
// an *APIError with code time_conflict.
func (c *Client) Register(ctx context.Context, token, conferenceID string) (*Registration, *RegistrationConflict, error) {
	body := map[string]string{"conference_id": conferenceID}
	var reg Registration
	var conflict RegistrationConflict
	err := c.do(ctx, http.MethodPost, "/registrations", token, body, &reg, &conflict)
	if err != nil {
		if ErrorCode(err) == CodeTimeConflict && conflict.ExistingConference != nil {
			return nil, &conflict, err
		}
		return nil, nil, err
	}
	return &reg, nil, nil
}

// Replace swaps the caller's registration for oldConferenceID with one for newConferenceID.
// The outcome is returned whenever the API reported one, including on error.
func (c *Client) Replace(ctx context.Context, token, oldConferenceID, newConferenceID string) (*ReplaceOutcome, error) {
	body := map[string]string{"old_conference_id": oldConferenceID, "new_conference_id": newConferenceID}
	var outcome ReplaceOutcome
	err := c.do(ctx, http.MethodPost, "/registrations/replace", token, body, &outcome, &outcome)
	if outcome.Status == "" {
		if err == nil {
			err = errors.New("sdk: replace returned no outcome")
		}
		return nil, err
	}
	return &outcome, err
}

// Unregister cancels the caller's registration for conferenceID.
func (c *Client) Unregister(ctx context.Context, token, conferenceID string) error {
	return c.do(ctx, http.MethodDelete, "/registrations/"+url.PathEscape(conferenceID), token, nil, nil, nil)
}

// CheckConflict returns the registration that would clash with conferenceID, or nil.
func (c *Client) CheckConflict(ctx context.Context, token, conferenceID string) (*RegistrationConflict, error) {
	var resp struct {
		Conflict *RegistrationConflict `json:"conflict"`
	}
	path := "/registrations/conflicts?conference_id=" + url.QueryEscape(conferenceID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Conflict, nil
}

// Registrations lists the caller's registrations in registration order.
func (c *Client) Registrations(ctx context.Context, token string) ([]*Registration, error) {
	var regs []*Registration
	if err := c.do(ctx, http.MethodGet, "/registrations", token, nil, &regs, nil); err != nil {
		return nil, err
	}
	return regs, nil
}

// Schedule returns the caller's conferences grouped by day.
func (c *Client) Schedule(ctx context.Context, token string) ([]*ScheduleDay, error) {
	var days []*ScheduleDay
	if err := c.do(ctx, http.MethodGet, "/registrations/schedule", token, nil, &days, nil); err != nil {
		return nil, err
	}
	return days, nil
}
