package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradefair/internal/domain"
)

const (
	minPasswordLen      = 8
	resetCodeDigits     = 6
	resetCodeExpiryMins = 15
	tokenType           = "bearer"
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	resetCodeRegex = regexp.MustCompile(`^\d{6}$`)
)

type authService struct {
	identityRepo   domain.IdentityRepository
	profileRepo    domain.ProfileRepository
	sessionRepo    domain.AuthSessionRepository
	resetRepo      domain.PasswordResetRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	tokenVerifier  domain.TokenVerifier
	emailService   domain.EmailService
	logger         *slog.Logger
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

// AuthDeps groups the collaborators of the auth service.
type AuthDeps struct {
	Identities     domain.IdentityRepository
	Profiles       domain.ProfileRepository
	Sessions       domain.AuthSessionRepository
	PasswordResets domain.PasswordResetRepository
	Hasher         domain.PasswordHasher
	Issuer         domain.TokenIssuer
	Verifier       domain.TokenVerifier
	Email          domain.EmailService
	Logger         *slog.Logger
}

// NewAuthService creates an AuthService. Email may be nil, in which case no mail is sent.
func NewAuthService(deps AuthDeps, tokenExpiry, timeout time.Duration) domain.AuthService {
	return &authService{
		identityRepo:   deps.Identities,
		profileRepo:    deps.Profiles,
		sessionRepo:    deps.Sessions,
		resetRepo:      deps.PasswordResets,
		hasher:         deps.Hasher,
		tokenIssuer:    deps.Issuer,
		tokenVerifier:  deps.Verifier,
		emailService:   deps.Email,
		logger:         deps.Logger,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	return email, nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	return nil
}

// SignUp creates the identity, then its profile through create_user_profile. When the profile
// cannot be created the identity is removed again and ErrProfileCreationFailed is returned.
func (s *authService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.SessionToken, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}
	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", domain.ErrInvalidInput)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	identity := domain.NewIdentity(email, hash, salt, now, now)
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	profile := domain.NewProfile(identity.ID, email, in.Role, first, last, in.Company, in.Phone)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		cleanupCtx, cancelCleanup := compensationContext(ctx, s.contextTimeout)
		delErr := s.identityRepo.Delete(cleanupCtx, identity.ID)
		cancelCleanup()
		if delErr != nil {
			s.logger.ErrorContext(ctx, "remove identity after profile failure", "user_id", identity.ID, "err", delErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProfileCreationFailed, err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeMessageEmailData{Email: email, FirstName: profile.FirstName, Role: profile.Role}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "send welcome email", "user_id", identity.ID, "err", err)
		}
	}
	return s.openSession(ctx, identity, profile)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*domain.SessionToken, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	identity, err := s.identityRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}
	if err := s.hasher.Compare(identity.PasswordHash, identity.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	profile, err := s.optionalProfile(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, identity, profile)
}

func (s *authService) openSession(ctx context.Context, identity *domain.Identity, profile *domain.Profile) (*domain.SessionToken, error) {
	now := time.Now()
	session := &domain.AuthSession{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		Email:     identity.Email,
		ExpiresAt: now.Add(s.tokenExpiry),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	token, err := s.tokenIssuer.Issue(identity.ID, session.ID, identity.Email, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.SessionToken{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   session.ExpiresAt,
		User:        &domain.AuthUser{ID: identity.ID, Email: identity.Email, Profile: profile},
	}, nil
}

// optionalProfile returns nil without error when the user has no profile row.
func (s *authService) optionalProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// Authenticate accepts a token only while its session row is active. A user without a
// profile is authenticated with no role.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	claims, err := s.tokenVerifier.Verify(token)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != claims.UserID || !session.Active(time.Now()) {
		return nil, domain.ErrInvalidToken
	}
	principal := &domain.Principal{UserID: session.UserID, SessionID: session.ID, Email: session.Email}
	profile, err := s.optionalProfile(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		principal.Role = profile.Role
	}
	return principal, nil
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.sessionRepo.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *authService) GetSession(ctx context.Context, sessionID string) (*domain.AuthSession, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*domain.AuthUser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	identity, err := s.identityRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}
	profile, err := s.optionalProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.AuthUser{ID: identity.ID, Email: identity.Email, Profile: profile}, nil
}

// UpdateUser changes email and/or password. A new email is mirrored onto the profile.
func (s *authService) UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate) (*domain.AuthUser, error) {
	if upd.Email == nil && upd.Password == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	var email string
	if upd.Email != nil {
		var err error
		if email, err = normalizeEmail(*upd.Email); err != nil {
			return nil, err
		}
	}
	if upd.Password != nil {
		if err := checkPassword(*upd.Password); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Email != nil {
		if err := s.identityRepo.UpdateEmail(ctx, userID, email); err != nil {
			if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("update email: %w", err)
		}
		if err := s.profileRepo.UpdateEmail(ctx, userID, email); err != nil {
			return nil, fmt.Errorf("update profile email: %w", err)
		}
	}
	if upd.Password != nil {
		if err := s.setPassword(ctx, userID, *upd.Password); err != nil {
			return nil, err
		}
	}
	return s.GetUser(ctx, userID)
}

func (s *authService) setPassword(ctx context.Context, userID, password string) error {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return err
	}
	if err := s.identityRepo.UpdatePassword(ctx, userID, hash, salt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// RequestPasswordReset stores and mails a one-time code. Unknown addresses succeed silently.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.identityRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get identity: %w", err)
	}
	code, err := generateResetCode(resetCodeDigits)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	expiresAt := time.Now().Add(resetCodeExpiryMins * time.Minute)
	if err := s.resetRepo.Create(ctx, email, hashResetCode(code), expiresAt); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	if s.emailService != nil {
		data := &domain.PasswordResetEmailData{Email: email, Code: code, ExpiresInMinutes: resetCodeExpiryMins}
		if err := s.emailService.SendPasswordReset(ctx, data); err != nil {
			return fmt.Errorf("send reset email: %w", err)
		}
	}
	return nil
}

// ConfirmPasswordReset consumes the code, sets the new password and revokes every session of the user.
func (s *authService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if !resetCodeRegex.MatchString(code) {
		return domain.ErrInvalidResetCode
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	consumed, err := s.resetRepo.Consume(ctx, email, hashResetCode(code))
	if err != nil {
		return fmt.Errorf("consume reset code: %w", err)
	}
	if !consumed {
		return domain.ErrInvalidResetCode
	}
	identity, err := s.identityRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidResetCode
		}
		return fmt.Errorf("get identity: %w", err)
	}
	if err := s.setPassword(ctx, identity.ID, newPassword); err != nil {
		return err
	}
	if err := s.sessionRepo.RevokeAllForUser(ctx, identity.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// DeleteAccount removes the identity with its profile, registrations, sponsored conferences and sessions.
func (s *authService) DeleteAccount(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.identityRepo.DeleteAccount(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (s *authService) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	exists, err := s.profileRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func generateResetCode(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
