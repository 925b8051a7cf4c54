// Package store persists journals in a relational database through gorm.
// Each user's trades and settings are reached through a journal.Store scoped
// to that user.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

// Store owns the database handle shared by every user's journal.
type Store struct {
	db       *gorm.DB
	defaults journal.Settings
	logger   *zap.Logger
}

// New creates a store. defaults seed a user's settings on first access and on ClearAll.
func New(db *gorm.DB, defaults journal.Settings, logger *zap.Logger) *Store {
	return &Store{
		db:       db,
		defaults: defaults,
		logger:   logger,
	}
}

// ForUser returns the journal of a single user.
func (s *Store) ForUser(userID uint) journal.Store {
	return &userStore{
		db:       s.db,
		defaults: s.defaults,
		userID:   userID,
		logger:   s.logger.With(zap.Uint("user_id", userID)),
	}
}

// DeleteUserData removes every position and the settings of a user through
// tx. When tx is already inside a transaction the deletes join it.
func (s *Store) DeleteUserData(tx *gorm.DB, userID uint) error {
	err := tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Position{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Settings{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete data of user %d: %w", userID, err)
	}
	s.logger.Info("Deleted user data", zap.Uint("user_id", userID))
	return nil
}

type userStore struct {
	db       *gorm.DB
	defaults journal.Settings
	userID   uint
	logger   *zap.Logger
}

func (u *userStore) scoped(ctx context.Context) *gorm.DB {
	return u.db.WithContext(ctx).Where("user_id = ?", u.userID)
}

func (u *userStore) ListTrades(ctx context.Context) ([]journal.Trade, error) {
	var rows []models.Position
	if err := u.scoped(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	trades := make([]journal.Trade, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, toTrade(row))
	}
	return trades, nil
}

func (u *userStore) CreateTrade(ctx context.Context, in journal.TradeInput) (journal.Trade, error) {
	row := fromTrade(u.userID, in.Normalize().WithEntryDefaults().Trade())
	if err := u.db.WithContext(ctx).Create(&row).Error; err != nil {
		return journal.Trade{}, fmt.Errorf("failed to create trade: %w", err)
	}
	u.logger.Debug("Created trade", zap.Uint("id", row.ID), zap.String("symbol", row.Symbol))
	return toTrade(row), nil
}

func (u *userStore) UpdateTrade(ctx context.Context, id uint, upd journal.TradeUpdate) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Position
		err := tx.Where("user_id = ?", u.userID).First(&row, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return journal.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load trade %d: %w", id, err)
		}

		next := fromTrade(u.userID, upd.Apply(toTrade(row)))
		next.Model = row.Model
		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("failed to update trade %d: %w", id, err)
		}
		u.logger.Debug("Updated trade", zap.Uint("id", id))
		return nil
	})
}

func (u *userStore) DeleteTrade(ctx context.Context, id uint) error {
	res := u.scoped(ctx).Unscoped().Delete(&models.Position{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete trade %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return journal.ErrNotFound
	}
	u.logger.Debug("Deleted trade", zap.Uint("id", id))
	return nil
}

func (u *userStore) ClearAll(ctx context.Context) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", u.userID).Delete(&models.Position{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", u.userID).Delete(&models.Settings{}).Error; err != nil {
			return err
		}
		row := u.settingsRow(u.defaults)
		row.SetupCompleted = false
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	u.logger.Info("Cleared journal")
	return nil
}

func (u *userStore) GetSettings(ctx context.Context) (journal.Settings, error) {
	row, err := u.loadSettings(u.db.WithContext(ctx))
	if err != nil {
		return journal.Settings{}, err
	}
	return toSettings(row), nil
}

func (u *userStore) UpdateSettings(ctx context.Context, upd journal.SettingsUpdate) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := u.loadSettings(tx)
		if err != nil {
			return err
		}
		next := u.settingsRow(upd.Apply(toSettings(row)))
		next.Model = row.Model
		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		return nil
	})
}

// loadSettings creates the default row when the user has none yet.
func (u *userStore) loadSettings(db *gorm.DB) (models.Settings, error) {
	row := u.settingsRow(u.defaults)
	if err := db.FirstOrCreate(&row, models.Settings{UserID: u.userID}).Error; err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return row, nil
}

func (u *userStore) settingsRow(s journal.Settings) models.Settings {
	return models.Settings{
		UserID:           u.userID,
		BaseAccountValue: s.BaseAccountValue,
		RiskPercentage:   s.RiskPercentage,
		ProfitRiskRatio:  s.ProfitRiskRatio,
		LossRiskRatio:    s.LossRiskRatio,
		SetupCompleted:   s.SetupCompleted,
	}
}

func toSettings(row models.Settings) journal.Settings {
	return journal.Settings{
		BaseAccountValue: row.BaseAccountValue,
		RiskPercentage:   row.RiskPercentage,
		ProfitRiskRatio:  row.ProfitRiskRatio,
		LossRiskRatio:    row.LossRiskRatio,
		SetupCompleted:   row.SetupCompleted,
		UpdatedAt:        row.UpdatedAt,
	}
}

func toTrade(row models.Position) journal.Trade {
	var valuation journal.Valuation = journal.Open{CurrentPrice: row.CurrentPrice}
	if row.ExitPrice != nil {
		valuation = journal.Closed{ExitPrice: *row.ExitPrice, LastMark: row.CurrentPrice}
	}
	return journal.Trade{
		ID:         row.ID,
		Symbol:     row.Symbol,
		Side:       journal.Side(row.Side),
		Quantity:   row.Quantity,
		EntryPrice: row.EntryPrice,
		Valuation:  valuation,
		StopLoss:   row.StopLoss,
		TakeProfit: row.TakeProfit,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func fromTrade(userID uint, t journal.Trade) models.Position {
	row := models.Position{
		UserID:       userID,
		Symbol:       t.Symbol,
		Side:         string(t.Side),
		Quantity:     t.Quantity,
		EntryPrice:   t.EntryPrice,
		CurrentPrice: t.MarkPrice(),
		StopLoss:     t.StopLoss,
		TakeProfit:   t.TakeProfit,
	}
	if exit, ok := t.ExitPrice(); ok {
		row.ExitPrice = &exit
	}
	return row
}
