package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trading-journal-go/internal/accounts"
	"trading-journal-go/internal/journal"
)

// MockStore is a mock implementation of journal.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListTrades(ctx context.Context) ([]journal.Trade, error) {
	args := m.Called(ctx)
	return args.Get(0).([]journal.Trade), args.Error(1)
}

func (m *MockStore) CreateTrade(ctx context.Context, in journal.TradeInput) (journal.Trade, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(journal.Trade), args.Error(1)
}

func (m *MockStore) UpdateTrade(ctx context.Context, id uint, upd journal.TradeUpdate) error {
	return m.Called(ctx, id, upd).Error(0)
}

func (m *MockStore) DeleteTrade(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) ClearAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) GetSettings(ctx context.Context) (journal.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(journal.Settings), args.Error(1)
}

func (m *MockStore) UpdateSettings(ctx context.Context, upd journal.SettingsUpdate) error {
	return m.Called(ctx, upd).Error(0)
}

// MockJournals hands out a single journal and records who asked for it.
type MockJournals struct {
	mock.Mock
	store journal.Store
}

func (m *MockJournals) ForUser(userID uint) journal.Store {
	m.Called(userID)
	return m.store
}

// MockAccounts is a mock implementation of Accounts.
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) Register(ctx context.Context, email, name string) (accounts.User, error) {
	args := m.Called(ctx, email, name)
	return args.Get(0).(accounts.User), args.Error(1)
}

func (m *MockAccounts) CreateAdmin(ctx context.Context, email, name string) (accounts.User, error) {
	args := m.Called(ctx, email, name)
	return args.Get(0).(accounts.User), args.Error(1)
}

func (m *MockAccounts) List(ctx context.Context) ([]accounts.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]accounts.User), args.Error(1)
}

func (m *MockAccounts) PromoteToAdmin(ctx context.Context, id uint) (accounts.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(accounts.User), args.Error(1)
}

func (m *MockAccounts) DemoteAdmin(ctx context.Context, id uint) (accounts.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(accounts.User), args.Error(1)
}

func (m *MockAccounts) UpdateSubscription(ctx context.Context, id uint, tier accounts.Tier, autoRenew bool) (accounts.User, error) {
	args := m.Called(ctx, id, tier, autoRenew)
	return args.Get(0).(accounts.User), args.Error(1)
}

func (m *MockAccounts) UpdateStatus(ctx context.Context, id uint, status accounts.Status) (accounts.User, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(accounts.User), args.Error(1)
}

func (m *MockAccounts) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAccounts) CheckAccess(ctx context.Context, id uint) (accounts.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(accounts.User), args.Error(1)
}

func (m *MockAccounts) RequireAdmin(ctx context.Context, id uint) (accounts.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(accounts.User), args.Error(1)
}
