package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trading-journal-go/internal/accounts"
	"trading-journal-go/internal/journal"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	userKey
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// observe records metrics and an access log line per request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		} else if i := strings.IndexByte(route, ' '); i >= 0 {
			route = route[i+1:]
		}
		elapsed := time.Since(start)
		s.metrics.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		s.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", requestID(r.Context())),
		)
	})
}

// user admits callers whose account passes the access check.
func (s *Server) user(next http.HandlerFunc) http.HandlerFunc {
	return s.authorize(s.accounts.CheckAccess, next)
}

// admin admits only admins.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return s.authorize(s.accounts.RequireAdmin, next)
}

func (s *Server) authorize(check func(context.Context, uint) (accounts.User, error), next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.callerID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		u, err := check(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	}
}

func (s *Server) callerID(r *http.Request) (uint, error) {
	raw := strings.TrimSpace(r.Header.Get(headerUserID))
	if raw == "" {
		return s.defaultUserID, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &journal.ValidationError{Field: "user", Message: "X-User-ID must be a positive integer"}
	}
	return uint(id), nil
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func currentUser(ctx context.Context) accounts.User {
	u, _ := ctx.Value(userKey).(accounts.User)
	return u
}

// journalOf returns the journal of the authenticated caller.
func (s *Server) journalOf(r *http.Request) journal.Store {
	return s.journals.ForUser(currentUser(r.Context()).ID)
}
