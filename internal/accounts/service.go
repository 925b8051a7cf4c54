// Package accounts manages the users of the journal service: their role,
// status and subscription, and whether a caller may use the journal at all.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

// DataWiper removes everything a user stored in their journal, using the
// caller's transaction.
type DataWiper interface {
	DeleteUserData(tx *gorm.DB, userID uint) error
}

// Service implements the user lifecycle on top of gorm.
type Service struct {
	db     *gorm.DB
	wiper  DataWiper
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an account service.
func NewService(db *gorm.DB, wiper DataWiper, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		wiper:  wiper,
		logger: logger,
		now:    time.Now,
	}
}

// permanent is the expiry given to admin subscriptions.
func (s *Service) permanent() time.Time {
	return s.now().AddDate(100, 0, 0)
}

// Register creates a user on a free trial. The first user becomes an admin.
func (s *Service) Register(ctx context.Context, email, name string) (User, error) {
	email, name, err := normalizeIdentity(email, name)
	if err != nil {
		return User{}, err
	}

	var row models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, email); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}

		role := RoleUser
		if count == 0 {
			role = RoleAdmin
		}
		row = models.User{
			Email:            email,
			Name:             name,
			Role:             string(role),
			Status:           string(StatusActive),
			SubscriptionTier: string(TierFree),
			ExpiresAt:        s.now().Add(trialPeriod),
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}

	s.logger.Info("Registered user", zap.Uint("id", row.ID), zap.String("role", row.Role))
	return toUser(row), nil
}

// CreateAdmin creates an admin with a permanent, auto-renewing premium plan.
func (s *Service) CreateAdmin(ctx context.Context, email, name string) (User, error) {
	email, name, err := normalizeIdentity(email, name)
	if err != nil {
		return User{}, err
	}

	var row models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, email); err != nil {
			return err
		}
		row = models.User{
			Email:            email,
			Name:             name,
			Role:             string(RoleAdmin),
			Status:           string(StatusActive),
			SubscriptionTier: string(TierPremium),
			ExpiresAt:        s.permanent(),
			AutoRenew:        true,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}

	s.logger.Info("Created admin", zap.Uint("id", row.ID))
	return toUser(row), nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id uint) (User, error) {
	row, err := findUser(s.db.WithContext(ctx), id)
	if err != nil {
		return User{}, err
	}
	return toUser(row), nil
}

// List returns every user ordered by id.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var rows []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toUser(row))
	}
	return users, nil
}

// PromoteToAdmin makes a user an active admin on a permanent premium plan.
func (s *Service) PromoteToAdmin(ctx context.Context, id uint) (User, error) {
	return s.mutate(ctx, id, func(tx *gorm.DB, row *models.User) error {
		if Role(row.Role) == RoleAdmin {
			return ErrAlreadyAdmin
		}
		row.Role = string(RoleAdmin)
		row.Status = string(StatusActive)
		row.SubscriptionTier = string(TierPremium)
		row.ExpiresAt = s.permanent()
		row.AutoRenew = true
		return nil
	})
}

// DemoteAdmin returns an admin to a regular user on a fresh free trial.
// The last admin cannot be demoted.
func (s *Service) DemoteAdmin(ctx context.Context, id uint) (User, error) {
	return s.mutate(ctx, id, func(tx *gorm.DB, row *models.User) error {
		if Role(row.Role) != RoleAdmin {
			return ErrNotAdmin
		}
		if err := ensureNotLastAdmin(tx); err != nil {
			return err
		}
		row.Role = string(RoleUser)
		row.SubscriptionTier = string(TierFree)
		row.ExpiresAt = s.now().Add(trialPeriod)
		row.AutoRenew = false
		return nil
	})
}

// UpdateSubscription starts a new term of the tier and reactivates the user.
func (s *Service) UpdateSubscription(ctx context.Context, id uint, tier Tier, autoRenew bool) (User, error) {
	return s.mutate(ctx, id, func(tx *gorm.DB, row *models.User) error {
		row.SubscriptionTier = string(tier)
		row.ExpiresAt = s.now().Add(tier.Period())
		row.AutoRenew = autoRenew
		row.Status = string(StatusActive)
		return nil
	})
}

// UpdateStatus activates or suspends a user. Admins cannot be suspended.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status Status) (User, error) {
	return s.mutate(ctx, id, func(tx *gorm.DB, row *models.User) error {
		if Role(row.Role) == RoleAdmin && status == StatusSuspended {
			return ErrCannotSuspendAdmin
		}
		row.Status = string(status)
		return nil
	})
}

// Delete removes a user and wipes their journal in one transaction. The last
// admin cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if Role(row.Role) == RoleAdmin {
			if err := ensureNotLastAdmin(tx); err != nil {
				return err
			}
		}
		if err := s.wiper.DeleteUserData(tx, id); err != nil {
			return fmt.Errorf("failed to wipe journal of user %d: %w", id, err)
		}
		if err := tx.Unscoped().Delete(&row).Error; err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Deleted user", zap.Uint("id", id))
	return nil
}

// CheckAccess admits an active user whose subscription is current. An expired
// auto-renewing plan is extended by one term; any other expired plan suspends
// the user. Admins are never suspended by expiry.
func (s *Service) CheckAccess(ctx context.Context, id uint) (User, error) {
	var (
		user    User
		expired bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if Status(row.Status) == StatusSuspended {
			return ErrSuspended
		}

		var changed bool
		changed, expired = s.applyExpiry(&row)
		if changed {
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("failed to save user %d: %w", id, err)
			}
		}
		user = toUser(row)
		return nil
	})
	if err != nil {
		return User{}, err
	}
	if expired {
		s.logger.Info("Suspended user with expired subscription", zap.Uint("id", id))
		return user, ErrSubscriptionExpired
	}
	return user, nil
}

// RequireAdmin is CheckAccess followed by a role check.
func (s *Service) RequireAdmin(ctx context.Context, id uint) (User, error) {
	user, err := s.CheckAccess(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !user.IsAdmin() {
		return User{}, ErrForbidden
	}
	return user, nil
}

// Sweep applies the expiry rule to every active user.
func (s *Service) Sweep(ctx context.Context) (renewed, suspended int, err error) {
	var rows []models.User
	err = s.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", string(StatusActive), s.now()).
		Find(&rows).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to find expired users: %w", err)
	}

	for i := range rows {
		row := &rows[i]
		changed, expired := s.applyExpiry(row)
		if !changed {
			continue
		}
		if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
			return renewed, suspended, fmt.Errorf("failed to save user %d: %w", row.ID, err)
		}
		if expired {
			suspended++
		} else {
			renewed++
		}
	}
	return renewed, suspended, nil
}

// applyExpiry mutates row when its plan has run out and reports whether it
// changed and whether the user lost access.
func (s *Service) applyExpiry(row *models.User) (changed, expired bool) {
	now := s.now()
	if !row.ExpiresAt.Before(now) {
		return false, false
	}
	if row.AutoRenew {
		row.ExpiresAt = now.Add(Tier(row.SubscriptionTier).Period())
		return true, false
	}
	if Role(row.Role) == RoleAdmin {
		return false, false
	}
	row.Status = string(StatusSuspended)
	return true, true
}

func (s *Service) mutate(ctx context.Context, id uint, fn func(tx *gorm.DB, row *models.User) error) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findUser(tx, id)
		if err != nil {
			return err
		}
		if err := fn(tx, &row); err != nil {
			return err
		}
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to save user %d: %w", id, err)
		}
		user = toUser(row)
		return nil
	})
	if err != nil {
		return User{}, err
	}
	s.logger.Debug("Updated user", zap.Uint("id", id), zap.String("role", string(user.Role)),
		zap.String("status", string(user.Status)))
	return user, nil
}

func findUser(db *gorm.DB, id uint) (models.User, error) {
	var row models.User
	err := db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return row, nil
}

func ensureEmailFree(tx *gorm.DB, email string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if count > 0 {
		return ErrUserExists
	}
	return nil
}

func ensureNotLastAdmin(tx *gorm.DB) error {
	var admins int64
	if err := tx.Model(&models.User{}).Where("role = ?", string(RoleAdmin)).Count(&admins).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func normalizeIdentity(email, name string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return "", "", &journal.ValidationError{Field: "email", Message: "Please enter a valid email"}
	}
	if name == "" {
		return "", "", &journal.ValidationError{Field: "name", Message: "Please enter a name"}
	}
	return email, name, nil
}
