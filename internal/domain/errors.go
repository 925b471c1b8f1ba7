package domain

import "errors"

// Sentinel errors returned by repositories and services. Delivery maps them to HTTP codes.
var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateEmail        = errors.New("email already in use")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrInvalidResetCode      = errors.New("invalid or expired code")
	ErrProfileCreationFailed = errors.New("profile creation failed")
	ErrAlreadyRegistered     = errors.New("already registered for this conference")
	ErrNotRegistered         = errors.New("not registered for this conference")
	ErrSlotUnavailable       = errors.New("room is already booked for this time slot")
	ErrSpeakerInUse          = errors.New("speaker is assigned to one or more conferences")
	ErrReplaceRolledBack     = errors.New("replace failed, previous registration restored")
	ErrReplacePartialFailure = errors.New("replace failed, previous registration could not be restored")
	ErrAgendaUnavailable     = errors.New("agenda source unavailable")
)

// ErrorKind classifies storage failures independently of the database driver's error encoding.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindUniqueViolation
	KindForeignKeyViolation
	KindCheckViolation
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUniqueViolation:
		return "unique_violation"
	case KindForeignKeyViolation:
		return "foreign_key_violation"
	case KindCheckViolation:
		return "check_violation"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// StoreError is returned by the repository layer for driver-reported failures.
// Constraint names the violated constraint when the driver reports one.
type StoreError struct {
	Kind       ErrorKind
	Op         string
	Constraint string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Op == "" {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match a not-found StoreError.
func (e *StoreError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// KindOf returns the ErrorKind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindUnknown
}
