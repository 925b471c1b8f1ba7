package sdk

import (
	"context"
	"fmt"
	"sync"
)

// AuthEventType names a session change.
type AuthEventType string

const (
	EventSignedIn       AuthEventType = "signed_in"
	EventSignedOut      AuthEventType = "signed_out"
	EventProfileLoaded  AuthEventType = "profile_loaded"
	EventProfileUpdated AuthEventType = "profile_updated"
)

// AuthEvent is delivered to subscribers. User is nil after sign-out.
type AuthEvent struct {
	Type AuthEventType
	User *AuthUser
}

// SessionStore holds the current user and access token of one application.
type SessionStore struct {
	client *Client

	mu        sync.RWMutex
	token     string
	user      *AuthUser
	observers map[int]func(AuthEvent)
	nextID    int
}

// NewSessionStore returns a signed-out store.
func NewSessionStore(client *Client) *SessionStore {
	return &SessionStore{client: client, observers: make(map[int]func(AuthEvent))}
}

// NewSessionStoreWithToken returns a store holding a previously issued token.
// Call Bootstrap to load the user behind it.
func NewSessionStoreWithToken(client *Client, token string) *SessionStore {
	s := NewSessionStore(client)
	s.token = token
	return s
}

// Subscribe registers fn for session changes and returns a func that removes it.
func (s *SessionStore) Subscribe(fn func(AuthEvent)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// User returns a copy of the signed-in user, or nil.
func (s *SessionStore) User() *AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current access token, or "".
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Bootstrap restores the session behind the held token and loads its profile.
// An invalid or expired token signs the store out. A profile that cannot be loaded
// leaves the user signed in without one. If the store signs out or in with another
// token meanwhile, the result is discarded and ErrNotSignedIn is returned.
func (s *SessionStore) Bootstrap(ctx context.Context) (*AuthUser, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	sess, err := s.client.GetSession(ctx, token)
	if err != nil {
		if ErrorCode(err) == CodeUnauthorized {
			s.clearIf(token)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	user := &AuthUser{ID: sess.UserID, Email: sess.Email}
	if profile, err := s.client.GetProfile(ctx, token); err == nil {
		user.Profile = profile
	}
	if !s.update(token, user, EventSignedIn) {
		return nil, ErrNotSignedIn
	}
	return user, nil
}

// SignUp creates an account and signs the store in.
func (s *SessionStore) SignUp(ctx context.Context, req SignUpRequest) (*AuthUser, error) {
	tok, err := s.client.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.signedIn(ctx, tok), nil
}

// SignIn authenticates and loads the user's profile.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) (*AuthUser, error) {
	tok, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.signedIn(ctx, tok), nil
}

func (s *SessionStore) signedIn(ctx context.Context, tok *SessionToken) *AuthUser {
	user := tok.User
	if user == nil {
		user = &AuthUser{}
	}
	if user.Profile == nil {
		if profile, err := s.client.GetProfile(ctx, tok.AccessToken); err == nil {
			user.Profile = profile
		}
	}
	s.set(tok.AccessToken, user, EventSignedIn)
	return user
}

// SignOut revokes the session. Local state is cleared even when the call fails.
func (s *SessionStore) SignOut(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return nil
	}
	err := s.client.SignOut(ctx, token)
	s.clear()
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// ReloadProfile fetches the profile of the signed-in user.
func (s *SessionStore) ReloadProfile(ctx context.Context) (*Profile, error) {
	token, user := s.current()
	if token == "" || user == nil {
		return nil, ErrNotSignedIn
	}
	profile, err := s.client.GetProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	updated := *user
	updated.Profile = profile
	s.update(token, &updated, EventProfileLoaded)
	return profile, nil
}

// UpdateProfile applies upd and reloads the profile.
func (s *SessionStore) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*Profile, error) {
	token, user := s.current()
	if token == "" || user == nil {
		return nil, ErrNotSignedIn
	}
	if _, err := s.client.UpdateProfile(ctx, token, upd); err != nil {
		return nil, err
	}
	profile, err := s.client.GetProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	updated := *user
	updated.Profile = profile
	s.update(token, &updated, EventProfileUpdated)
	return profile, nil
}

// Register books conferenceID for the signed-in user. See Client.Register.
func (s *SessionStore) Register(ctx context.Context, conferenceID string) (*Registration, *RegistrationConflict, error) {
	token := s.Token()
	if token == "" {
		return nil, nil, ErrNotSignedIn
	}
	return s.client.Register(ctx, token, conferenceID)
}

// Replace swaps registrations for the signed-in user. See Client.Replace.
func (s *SessionStore) Replace(ctx context.Context, oldConferenceID, newConferenceID string) (*ReplaceOutcome, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	return s.client.Replace(ctx, token, oldConferenceID, newConferenceID)
}

// Unregister cancels a registration of the signed-in user.
func (s *SessionStore) Unregister(ctx context.Context, conferenceID string) error {
	token := s.Token()
	if token == "" {
		return ErrNotSignedIn
	}
	return s.client.Unregister(ctx, token, conferenceID)
}

// Schedule returns the signed-in user's personal schedule.
func (s *SessionStore) Schedule(ctx context.Context) ([]*ScheduleDay, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	return s.client.Schedule(ctx, token)
}

func (s *SessionStore) current() (string, *AuthUser) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.user
}

func (s *SessionStore) set(token string, user *AuthUser, ev AuthEventType) {
	s.mu.Lock()
	s.token, s.user = token, user
	observers := s.snapshot()
	s.mu.Unlock()
	notify(observers, AuthEvent{Type: ev, User: user})
}

// update stores user only while expected is still the held token, so a response that
// arrives after a sign-out or a new sign-in cannot overwrite the newer state.
func (s *SessionStore) update(expected string, user *AuthUser, ev AuthEventType) bool {
	s.mu.Lock()
	if s.token != expected {
		s.mu.Unlock()
		return false
	}
	s.user = user
	observers := s.snapshot()
	s.mu.Unlock()
	notify(observers, AuthEvent{Type: ev, User: user})
	return true
}

func (s *SessionStore) clear() {
	s.mu.Lock()
	s.token, s.user = "", nil
	observers := s.snapshot()
	s.mu.Unlock()
	notify(observers, AuthEvent{Type: EventSignedOut})
}

func (s *SessionStore) clearIf(expected string) {
	s.mu.Lock()
	if s.token != expected {
		s.mu.Unlock()
		return
	}
	s.token, s.user = "", nil
	observers := s.snapshot()
	s.mu.Unlock()
	notify(observers, AuthEvent{Type: EventSignedOut})
}

// snapshot must be called with mu held.
func (s *SessionStore) snapshot() []func(AuthEvent) {
	out := make([]func(AuthEvent), 0, len(s.observers))
	for _, fn := range s.observers {
		out = append(out, fn)
	}
	return out
}

func notify(observers []func(AuthEvent), ev AuthEvent) {
	for _, fn := range observers {
		fn(ev)
	}
}
