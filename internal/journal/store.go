package journal

import "context"

// Store is the persistence collaborator for one user's journal.
// UpdateTrade and DeleteTrade return ErrNotFound for unknown ids.
type Store interface {
	ListTrades(ctx context.Context) ([]Trade, error)
	CreateTrade(ctx context.Context, in TradeInput) (Trade, error)
	UpdateTrade(ctx context.Context, id uint, upd TradeUpdate) error
	DeleteTrade(ctx context.Context, id uint) error
	// ClearAll removes every trade and resets settings to their defaults.
	ClearAll(ctx context.Context) error

	// GetSettings creates the default settings on first access.
	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, upd SettingsUpdate) error
}
