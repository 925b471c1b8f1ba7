package domain

import (
	"context"
	"time"
)

// Identity is the credential record behind a profile.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewIdentity returns a new Identity. ID is set by the repository on create.
func NewIdentity(email, passwordHash, salt string, createdAt, updatedAt time.Time) *Identity {
	return &Identity{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// AuthSession is a server-side session; its ID is the jti of the access token.
// swagger:model AuthSession
type AuthSession struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

// Active reports whether the session is usable at now.
func (s *AuthSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// AuthUser is an identity merged with its profile. Profile is nil when it could not be loaded.
// swagger:model AuthUser
type AuthUser struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Profile *Profile `json:"profile,omitempty"`
}

// SessionToken is returned by sign-up and sign-in.
// swagger:model SessionToken
type SessionToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *AuthUser `json:"user"`
}

// TokenClaims are the verified claims of an access token.
type TokenClaims struct {
	UserID    string
	SessionID string
	Email     string
	ExpiresAt time.Time
}

// Principal is the authenticated caller of a request. Role is empty for a profile-less user.
type Principal struct {
	UserID    string
	SessionID string
	Email     string
	Role      Role
}

// Can reports whether the principal's role grants c.
func (p *Principal) Can(c Capability) bool {
	return p != nil && p.Role.Can(c)
}

// SignUpInput holds the fields accepted at sign-up.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
	Company   *string
	Phone     *string
}

// UserUpdate holds the credential fields a user may change. Nil fields are unchanged.
type UserUpdate struct {
	Email    *string
	Password *string
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues access tokens bound to a session.
type TokenIssuer interface {
	Issue(userID, sessionID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies an access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// Authenticator resolves an access token into the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// IdentityRepository defines storage operations for identities.
type IdentityRepository interface {
	Create(ctx context.Context, identity *Identity) error
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	GetByID(ctx context.Context, id string) (*Identity, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash, salt string) error
	Delete(ctx context.Context, id string) error
	// DeleteAccount runs the delete_user_account procedure, removing the identity and everything it owns.
	DeleteAccount(ctx context.Context, id string) error
}

// AuthSessionRepository defines storage operations for auth sessions.
type AuthSessionRepository interface {
	Create(ctx context.Context, session *AuthSession) error
	GetByID(ctx context.Context, id string) (*AuthSession, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PasswordResetRepository defines the interface for one-time password reset code storage.
type PasswordResetRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	Consume(ctx context.Context, email, codeHash string) (consumed bool, err error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// AuthService defines sign-up, sign-in, and account maintenance.
type AuthService interface {
	Authenticator
	SignUp(ctx context.Context, in SignUpInput) (*SessionToken, error)
	SignIn(ctx context.Context, email, password string) (*SessionToken, error)
	SignOut(ctx context.Context, sessionID string) error
	GetSession(ctx context.Context, sessionID string) (*AuthSession, error)
	GetUser(ctx context.Context, userID string) (*AuthUser, error)
	UpdateUser(ctx context.Context, userID string, upd UserUpdate) (*AuthUser, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
	DeleteAccount(ctx context.Context, userID string) error
	CheckEmailExists(ctx context.Context, email string) (bool, error)
}
