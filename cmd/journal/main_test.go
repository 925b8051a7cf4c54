package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trading-journal-go/internal/accounts"
	"trading-journal-go/internal/api"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/store"
)

// setupTestServer runs the journal API on an in-memory database.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Database.DSN = ":memory:"
	db, err := database.NewDatabase(&cfg)
	require.NoError(t, err)

	journals := store.New(db, journal.DefaultSettings(), zap.NewNop())
	users := accounts.NewService(db, journals, zap.NewNop())
	srv := httptest.NewServer(api.NewServer(&cfg, journals, users, zap.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// run executes the CLI against srv as user 1 and returns its output.
func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config-dir", t.TempDir(), "--url", srv.URL, "--user", "1"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, srv *httptest.Server, args ...string) string {
	t.Helper()
	out, err := run(t, srv, args...)
	require.NoError(t, err, out)
	return out
}

func TestJournalCLI(t *testing.T) {
	srv := setupTestServer(t)

	out := mustRun(t, srv, "register", "--email", "alice@example.com", "--name", "Alice")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "admin")

	out = mustRun(t, srv, "trades", "add", "aapl", "--qty", "10", "--entry", "100", "--stop", "98", "--target", "104")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "open")

	out = mustRun(t, srv, "trades", "close", "1", "104")
	assert.Contains(t, out, "closed")
	assert.Contains(t, out, "$40.00")

	out = mustRun(t, srv, "trades", "list", "--status", "closed")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "Page 1 of 1 (1 trades)")

	out = mustRun(t, srv, "overview")
	assert.Contains(t, out, "$100,040.00")
	assert.Contains(t, out, "Closed positions")

	out = mustRun(t, srv, "stats", "--tz", "UTC")
	assert.Contains(t, out, "Win rate")
	assert.Contains(t, out, "100.00%")

	out = mustRun(t, srv, "size", "--entry", "100", "--stop", "98")
	assert.Regexp(t, `Shares\s+500\n`, out)
	assert.Contains(t, out, "$104.00")

	out = mustRun(t, srv, "suggest", "--entry", "100", "--side", "short")
	assert.Regexp(t, `Stop loss\s+\$101\.00`, out)

	out = mustRun(t, srv, "settings", "set", "--base", "50000")
	assert.Contains(t, out, "$50,000.00")

	out = mustRun(t, srv, "export", "-o", "-")
	assert.True(t, strings.HasPrefix(out, "Symbol,Type,Quantity"), out)
	assert.Contains(t, out, "AAPL,long,10")
}

func TestJournalCLI_Import(t *testing.T) {
	srv := setupTestServer(t)
	mustRun(t, srv, "register", "--email", "alice@example.com", "--name", "Alice")

	path := filepath.Join(t.TempDir(), "trades.csv")
	csv := "Symbol,Type,Quantity,Entry Price,Current Price,Exit Price,Stop Loss,Take Profit\n" +
		"MSFT,long,2,200,230,,190,260\n" +
		"BAD,sideways,1,1,1,,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out := mustRun(t, srv, "import", path)
	assert.Contains(t, out, "imported 1 trades, 1 failed")
	assert.Contains(t, out, "line 3: side:")

	out = mustRun(t, srv, "trades", "list")
	assert.Contains(t, out, "MSFT")
}

func TestJournalCLI_Errors(t *testing.T) {
	srv := setupTestServer(t)
	mustRun(t, srv, "register", "--email", "alice@example.com", "--name", "Alice")

	_, err := run(t, srv, "trades", "show", "42")
	assert.ErrorIs(t, err, journal.ErrNotFound)

	_, err = run(t, srv, "trades", "add", "AAPL", "--qty", "10", "--entry", "100", "--stop", "101", "--target", "104")
	assert.ErrorIs(t, err, journal.ErrInvalidInput)

	_, err = run(t, srv, "trades", "clear")
	assert.ErrorContains(t, err, "--yes")

	_, err = run(t, srv, "trades", "delete", "abc")
	assert.ErrorContains(t, err, "invalid trade id")
}

func TestConfigInit(t *testing.T) {
	srv := setupTestServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	out := mustRun(t, srv, "config", "init", "-o", path)
	assert.Contains(t, out, path)

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = run(t, srv, "config", "init", "-o", path)
	assert.ErrorContains(t, err, "already exists")
}

func TestMoney(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234.5, "$1,234.50"},
		{-40, "-$40.00"},
		{100040, "$100,040.00"},
		{0.005, "$0.01"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, money(tc.in), "%v", tc.in)
	}
	assert.Equal(t, "12.35%", percent(12.345))
	assert.Equal(t, "-", ago(time.Time{}))
}
