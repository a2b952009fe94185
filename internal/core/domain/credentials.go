package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// PasswordPolicy is enforced by the credential store when a user is created.
type PasswordPolicy struct {
	MinLength    int
	RequireDigit bool
}

// DefaultPasswordPolicy requires six characters including a digit.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 6, RequireDigit: true}
}

// Check returns a description of the first violated rule, or nil.
func (p PasswordPolicy) Check(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("passwords must be at least %d characters", p.MinLength)
	}
	if p.RequireDigit && !strings.ContainsFunc(password, unicode.IsDigit) {
		return fmt.Errorf("passwords must have at least one digit ('0'-'9')")
	}
	return nil
}

// LockoutPolicy controls how many consecutive failed password checks lock
// an account, and for how long.
type LockoutPolicy struct {
	MaxFailedAttempts int
	Duration          time.Duration
}

// DefaultLockoutPolicy locks an account for five minutes after five failures.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxFailedAttempts: 5, Duration: 5 * time.Minute}
}

// ShouldLock reports whether failed consecutive failures trigger a lockout.
// A non-positive MaxFailedAttempts disables lockout.
func (p LockoutPolicy) ShouldLock(failed int) bool {
	return p.MaxFailedAttempts > 0 && failed >= p.MaxFailedAttempts
}
