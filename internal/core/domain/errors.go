package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrCreationFailed       = errors.New("create user failed")
	ErrRoleAssignmentFailed = errors.New("role assignment failed")
	ErrRoleNotFound         = errors.New("role not found")
	ErrForbidden            = errors.New("forbidden")
	ErrBookNotFound         = errors.New("book not found")
	ErrBookExists           = errors.New("book already exists")
)

// ErrInvalidLogin is returned for an unknown e-mail and for a wrong password
// alike, so callers cannot tell which field was wrong.
var ErrInvalidLogin = WithDetail(ErrUserNotFound, "invalid email or password")

// DetailError attaches a client-facing message to one of the sentinel errors
// above. errors.Is matches the sentinel; Error returns the detail.
type DetailError struct {
	Kind   error
	Detail string
}

func (e *DetailError) Error() string { return e.Detail }

func (e *DetailError) Unwrap() error { return e.Kind }

// WithDetail wraps kind with a human-readable detail message.
func WithDetail(kind error, detail string) error {
	return &DetailError{Kind: kind, Detail: detail}
}
