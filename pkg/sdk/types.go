package sdk

import "time"

// Role is a user's role: organizer, visitor or sponsor.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleVisitor   Role = "visitor"
	RoleSponsor   Role = "sponsor"
)

// Profile is the application profile of a user.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Company   *string   `json:"company,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthUser is the signed-in identity. Profile is nil when it could not be loaded.
type AuthUser struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Profile *Profile `json:"profile,omitempty"`
}

// Session is the server-side session behind an access token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionToken is returned by sign-up and sign-in.
type SessionToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *AuthUser `json:"user"`
}

// SignUpRequest holds the fields accepted at sign-up.
type SignUpRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      Role    `json:"role"`
	Company   *string `json:"company,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// ProfileUpdate holds optional profile changes. Nil fields are unchanged.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Company   *string `json:"company,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// Permissions lists the capabilities granted by the caller's role.
type Permissions struct {
	Role         Role     `json:"role"`
	Capabilities []string `json:"capabilities"`
}

// TimeSlot is one period of an event day.
type TimeSlot struct {
	ID        int64  `json:"id"`
	Day       int    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Room is a venue room.
type Room struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Speaker presents conferences.
type Speaker struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Photo *string `json:"photo,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// Conference is a talk in a room during a time slot.
type Conference struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SpeakerID   string    `json:"speaker_id"`
	RoomID      int64     `json:"room_id"`
	TimeSlotID  int64     `json:"time_slot_id"`
	SponsorID   *string   `json:"sponsor_id,omitempty"`
	Speaker     *Speaker  `json:"speaker,omitempty"`
	Room        *Room     `json:"room,omitempty"`
	TimeSlot    *TimeSlot `json:"time_slot,omitempty"`
}

// Registration is the user's seat in a conference.
type Registration struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	ConferenceID string      `json:"conference_id"`
	CreatedAt    time.Time   `json:"created_at"`
	Conference   *Conference `json:"conference,omitempty"`
}

// RegistrationConflict names the registration that already occupies a time slot.
type RegistrationConflict struct {
	ExistingConference *Conference `json:"existing_conference"`
	NewConference      *Conference `json:"new_conference"`
	TimeSlot           *TimeSlot   `json:"time_slot"`
}

// ReplaceStatus is the result class of a replace.
type ReplaceStatus string

const (
	ReplaceSuccess        ReplaceStatus = "success"
	ReplaceRolledBack     ReplaceStatus = "rolled_back"
	ReplacePartialFailure ReplaceStatus = "partial_failure"
)

// ReplaceOutcome reports what a replace left in place.
type ReplaceOutcome struct {
	Status       ReplaceStatus `json:"status"`
	Path         string        `json:"path"`
	Registration *Registration `json:"registration,omitempty"`
	Detail       string        `json:"detail,omitempty"`
}

// ScheduleDay lists the user's conferences on one day, by start time.
type ScheduleDay struct {
	Day         int           `json:"day"`
	Conferences []*Conference `json:"conferences"`
}
