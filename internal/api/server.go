// Package api exposes the journal, its analytics and account administration over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trading-journal-go/internal/accounts"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/journal"
)

// Journals hands out the journal of one user.
type Journals interface {
	ForUser(userID uint) journal.Store
}

// Accounts is the user lifecycle the server relies on.
type Accounts interface {
	Register(ctx context.Context, email, name string) (accounts.User, error)
	CreateAdmin(ctx context.Context, email, name string) (accounts.User, error)
	List(ctx context.Context) ([]accounts.User, error)
	PromoteToAdmin(ctx context.Context, id uint) (accounts.User, error)
	DemoteAdmin(ctx context.Context, id uint) (accounts.User, error)
	UpdateSubscription(ctx context.Context, id uint, tier accounts.Tier, autoRenew bool) (accounts.User, error)
	UpdateStatus(ctx context.Context, id uint, status accounts.Status) (accounts.User, error)
	Delete(ctx context.Context, id uint) error
	CheckAccess(ctx context.Context, id uint) (accounts.User, error)
	RequireAdmin(ctx context.Context, id uint) (accounts.User, error)
}

// Server provides the HTTP interface of the journal service.
type Server struct {
	server   *http.Server
	journals Journals
	accounts Accounts
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics
	now      func() time.Time

	defaultUserID uint
	importStrict  bool
}

// NewServer creates a new Server listening on the configured port.
func NewServer(cfg *config.Config, journals Journals, users Accounts, logger *zap.Logger) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		journals:      journals,
		accounts:      users,
		logger:        logger.Named("api"),
		registry:      registry,
		metrics:       newMetrics(registry),
		now:           time.Now,
		defaultUserID: cfg.Server.DefaultUserID,
		importStrict:  cfg.Import.Strict,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/users", s.registerHandler)
	mux.HandleFunc("GET /api/me", s.user(s.meHandler))

	mux.HandleFunc("GET /api/trades", s.user(s.listTradesHandler))
	mux.HandleFunc("POST /api/trades", s.user(s.createTradeHandler))
	mux.HandleFunc("DELETE /api/trades", s.user(s.clearTradesHandler))
	mux.HandleFunc("GET /api/trades/{id}", s.user(s.getTradeHandler))
	mux.HandleFunc("PATCH /api/trades/{id}", s.user(s.updateTradeHandler))
	mux.HandleFunc("DELETE /api/trades/{id}", s.user(s.deleteTradeHandler))
	mux.HandleFunc("POST /api/trades/{id}/close", s.user(s.closeTradeHandler))

	mux.HandleFunc("GET /api/settings", s.user(s.getSettingsHandler))
	mux.HandleFunc("PATCH /api/settings", s.user(s.updateSettingsHandler))

	mux.HandleFunc("GET /api/analytics/overview", s.user(s.overviewHandler))
	mux.HandleFunc("GET /api/analytics/series", s.user(s.seriesHandler))
	mux.HandleFunc("GET /api/analytics/risk", s.user(s.riskHandler))
	mux.HandleFunc("GET /api/analytics/stats", s.user(s.statsHandler))
	mux.HandleFunc("GET /api/analytics/today", s.user(s.todayHandler))

	mux.HandleFunc("POST /api/sizing", s.user(s.sizingHandler))
	mux.HandleFunc("POST /api/sizing/suggest", s.user(s.suggestHandler))

	mux.HandleFunc("POST /api/import", s.user(s.importHandler))
	mux.HandleFunc("GET /api/export", s.user(s.exportHandler))

	mux.HandleFunc("GET /api/admin/users", s.admin(s.listUsersHandler))
	mux.HandleFunc("POST /api/admin/users", s.admin(s.createAdminHandler))
	mux.HandleFunc("PATCH /api/admin/users/{id}/status", s.admin(s.updateStatusHandler))
	mux.HandleFunc("PATCH /api/admin/users/{id}/subscription", s.admin(s.updateSubscriptionHandler))
	mux.HandleFunc("POST /api/admin/users/{id}/promote", s.admin(s.promoteHandler))
	mux.HandleFunc("POST /api/admin/users/{id}/demote", s.admin(s.demoteHandler))
	mux.HandleFunc("DELETE /api/admin/users/{id}", s.admin(s.deleteUserHandler))

	return s.withRequestID(s.observe(mux))
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}
