package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-journal-go/internal/accounts"
	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/tabular"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		userID:  7,
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
		backoff: time.Millisecond,
	}
	return c, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNew(t *testing.T) {
	cfg := config.Default().Client
	c := New(&cfg, zap.NewNop())

	assert.Equal(t, cfg.BaseURL, c.client.BaseURL)
	assert.Equal(t, uint(1), c.userID)
	assert.Equal(t, rate.Limit(20), c.limiter.Limit())
	assert.Equal(t, 5, c.limiter.Burst())
}

func TestCreateTrade(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/trades", r.URL.Path)
		assert.Equal(t, "7", r.Header.Get(headerUserID))

		var in journal.TradeInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "AAPL", in.Symbol)

		tr := in.Normalize().WithEntryDefaults().Trade()
		tr.ID = 3
		writeJSON(t, w, http.StatusCreated, tr)
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	tr, err := c.CreateTrade(context.Background(), journal.TradeInput{
		Symbol: "AAPL", Side: journal.Long, Quantity: 10, EntryPrice: 100, StopLoss: 98, TakeProfit: 104,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), tr.ID)
	assert.Equal(t, journal.Open{CurrentPrice: 100}, tr.Valuation)
}

func TestListTrades_Query(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/trades", r.URL.Path)
		assert.Equal(t, "aap", q.Get("symbol"))
		assert.Equal(t, "closed", q.Get("status"))
		assert.Equal(t, "pnl", q.Get("sort"))
		assert.Equal(t, "asc", q.Get("order"))
		assert.Equal(t, "2", q.Get("page"))
		assert.False(t, q.Has("side"))
		assert.False(t, q.Has("per_page"))

		writeJSON(t, w, http.StatusOK, TradePage{Trades: []analytics.RankedTrade{}, Page: 2, Total: 0})
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	page, err := c.ListTrades(context.Background(), ListOptions{
		Symbol: "aap", Status: journal.StatusClosed, Sort: analytics.SortByPnL, Ascending: true, Page: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Empty(t, page.Trades)
}

func TestAPIError(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		target error
		field  string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error":"not found"}`, target: journal.ErrNotFound},
		{name: "validation", status: http.StatusBadRequest, body: `{"error":"Please enter a symbol","field":"symbol"}`, target: journal.ErrInvalidInput, field: "symbol"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"forbidden"}`, target: accounts.ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			c, server := setupTestServer(handler)
			defer server.Close()

			_, err := c.GetTrade(context.Background(), 9)

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.field, apiErr.Field)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "client errors are not retried")
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusConflict}))
}

func TestDoRequest_RetriesServerErrors(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, http.StatusOK, journal.DefaultSettings())
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	s, err := c.Settings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 100000.0, s.BaseAccountValue)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoRequest_RetriesRateLimit(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoRequest_GivesUp(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	_, err := c.Overview(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed after 3 attempts")
	assert.Contains(t, err.Error(), "internal error")
	assert.Equal(t, int32(maxRetries), atomic.LoadInt32(&calls))
}

func TestDoRequest_ContextCancelled(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Health(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImport_ResendsBodyOnRetry(t *testing.T) {
	const csv = "symbol,type,quantity,entry price\nAAPL,long,10,100\n"
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/import", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("strict"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, csv, string(body))

		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(t, w, http.StatusOK, tabular.Report{BatchID: "01HX", Applied: 1})
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	strict := false
	rep, err := c.Import(context.Background(), strings.NewReader(csv), &strict)

	require.NoError(t, err)
	assert.Equal(t, "01HX", rep.BatchID)
	assert.Equal(t, 1, rep.Applied)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestExport(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/export", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="trades_2024-03-04.csv"`)
		_, _ = w.Write([]byte("Symbol\nAAPL\n"))
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	var buf strings.Builder
	name, err := c.Export(context.Background(), &buf)

	require.NoError(t, err)
	assert.Equal(t, "trades_2024-03-04.csv", name)
	assert.Equal(t, "Symbol\nAAPL\n", buf.String())
}

func TestCloseTrade(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/trades/4/close", r.URL.Path)
		var body map[string]float64
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 104.0, body["exit_price"])

		writeJSON(t, w, http.StatusOK, journal.Trade{
			ID: 4, Symbol: "AAPL", Side: journal.Long, Quantity: 10, EntryPrice: 100,
			Valuation: journal.Closed{ExitPrice: 104, LastMark: 101}, StopLoss: 98, TakeProfit: 106,
		})
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	tr, err := c.CloseTrade(context.Background(), 4, 104)

	require.NoError(t, err)
	assert.Equal(t, journal.Closed{ExitPrice: 104, LastMark: 101}, tr.Valuation)
}

func TestAdminEndpoints(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "PATCH /api/admin/users/2/subscription":
			var body struct {
				Tier      string `json:"tier"`
				AutoRenew bool   `json:"auto_renew"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "premium", body.Tier)
			assert.True(t, body.AutoRenew)
			writeJSON(t, w, http.StatusOK, accounts.User{ID: 2, Subscription: accounts.Subscription{Tier: accounts.TierPremium, AutoRenew: true}})
		case "DELETE /api/admin/users/2":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	u, err := c.UpdateSubscription(context.Background(), 2, accounts.TierPremium, true)
	require.NoError(t, err)
	assert.Equal(t, accounts.TierPremium, u.Subscription.Tier)

	assert.NoError(t, c.DeleteUser(context.Background(), 2))
}
