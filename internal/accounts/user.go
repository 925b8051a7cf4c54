package accounts

import (
	"strings"
	"time"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

// Role decides which endpoints a user may call.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Status is whether a user may sign in at all.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// ParseStatus accepts "active" and "suspended".
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActive, StatusSuspended:
		return st, nil
	}
	return "", &journal.ValidationError{Field: "status", Message: "Status must be active or suspended"}
}

// Tier is the subscription plan of a user.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// ParseTier accepts "free" and "premium".
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierFree, TierPremium:
		return t, nil
	}
	return "", &journal.ValidationError{Field: "tier", Message: "Subscription must be free or premium"}
}

// Period is how long one subscription term of the tier lasts.
func (t Tier) Period() time.Duration {
	if t == TierPremium {
		return 30 * 24 * time.Hour
	}
	return trialPeriod
}

const trialPeriod = 7 * 24 * time.Hour

// Subscription is the plan a user is on.
type Subscription struct {
	Tier      Tier      `json:"tier"`
	ExpiresAt time.Time `json:"expires_at"`
	AutoRenew bool      `json:"auto_renew"`
}

// User is an account of the journal service.
type User struct {
	ID           uint         `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Role         Role         `json:"role"`
	Status       Status       `json:"status"`
	Subscription Subscription `json:"subscription"`
	CreatedAt    time.Time    `json:"created_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func toUser(row models.User) User {
	return User{
		ID:     row.ID,
		Email:  row.Email,
		Name:   row.Name,
		Role:   Role(row.Role),
		Status: Status(row.Status),
		Subscription: Subscription{
			Tier:      Tier(row.SubscriptionTier),
			ExpiresAt: row.ExpiresAt,
			AutoRenew: row.AutoRenew,
		},
		CreatedAt: row.CreatedAt,
	}
}
