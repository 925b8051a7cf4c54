package accounts

import (
	"errors"
	"fmt"

	"trading-journal-go/internal/journal"
)

var (
	// ErrUserNotFound matches journal.ErrNotFound so transports map both alike.
	ErrUserNotFound = fmt.Errorf("user %w", journal.ErrNotFound)

	ErrUserExists         = errors.New("user already exists")
	ErrLastAdmin          = errors.New("cannot remove the last admin user")
	ErrAlreadyAdmin       = errors.New("user is already an admin")
	ErrNotAdmin           = errors.New("user is not an admin")
	ErrCannotSuspendAdmin = errors.New("cannot suspend admin users")

	ErrSuspended           = errors.New("account is suspended, please contact support")
	ErrSubscriptionExpired = errors.New("subscription has expired, please renew to continue")
	ErrForbidden           = errors.New("admin access required")
)
