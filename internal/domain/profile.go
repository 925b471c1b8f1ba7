package domain

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Role is the application role attached to a profile.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleVisitor   Role = "visitor"
	RoleSponsor   Role = "sponsor"
)

// ParseRole returns the Role for s or ErrInvalidInput.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOrganizer, RoleVisitor, RoleSponsor:
		return true
	}
	return false
}

// Capability is an action a role may perform.
type Capability string

const (
	CapManageConferences        Capability = "manage_conferences"
	CapViewAllProfiles          Capability = "view_all_profiles"
	CapViewDashboard            Capability = "view_dashboard"
	CapViewSchedule             Capability = "view_schedule"
	CapBookConferences          Capability = "book_conferences"
	CapEditSponsoredConferences Capability = "edit_sponsored_conferences"
	CapViewSponsorDashboard     Capability = "view_sponsor_dashboard"
)

// roleCapabilities is the single source of truth for role permissions.
var roleCapabilities = map[Role][]Capability{
	RoleOrganizer: {CapManageConferences, CapViewAllProfiles, CapViewDashboard, CapViewSchedule},
	RoleVisitor:   {CapViewSchedule, CapBookConferences},
	RoleSponsor:   {CapEditSponsoredConferences, CapViewSponsorDashboard},
}

// Can reports whether r grants c. An empty or unknown role grants nothing.
func (r Role) Can(c Capability) bool {
	return slices.Contains(roleCapabilities[r], c)
}

// Capabilities returns a copy of the capabilities granted to r.
func (r Role) Capabilities() []Capability {
	return slices.Clone(roleCapabilities[r])
}

// Profile is the application-side identity record of a user.
// swagger:model Profile
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

// NewProfile returns a Profile for a freshly created identity.
func NewProfile(userID, email string, role Role, firstName, lastName string, company, phone *string) *Profile {
	return &Profile{
		ID:        userID,
		Email:     email,
		Role:      role,
		FirstName: firstName,
		LastName:  lastName,
		Company:   company,
		Phone:     phone,
	}
}

// ProfileUpdate holds the user-editable profile fields. Nil fields are unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Company   *string
	Phone     *string
}

// ProfileRepository defines storage operations for profiles.
type ProfileRepository interface {
	// Create stores the profile through the create_user_profile procedure.
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*Profile, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdateRole(ctx context.Context, id string, role Role) (*Profile, error)
	List(ctx context.Context, params PaginationParams) ([]*Profile, int, error)
	ListByRole(ctx context.Context, role Role) ([]*Profile, error)
}

// ProfileService defines profile read and maintenance operations.
type ProfileService interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*Profile, error)
	List(ctx context.Context, params PaginationParams) ([]*Profile, int, error)
	ListByRole(ctx context.Context, role Role) ([]*Profile, error)
	ChangeRole(ctx context.Context, userID string, role Role) (*Profile, error)
}
