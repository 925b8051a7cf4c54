package api

import (
	"net/http"
	"time"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/journal"
)

// snapshot loads the caller's trades and settings in one go.
func (s *Server) snapshot(r *http.Request) ([]journal.Trade, journal.Settings, error) {
	store := s.journalOf(r)
	trades, err := store.ListTrades(r.Context())
	if err != nil {
		return nil, journal.Settings{}, err
	}
	settings, err := store.GetSettings(r.Context())
	if err != nil {
		return nil, journal.Settings{}, err
	}
	return trades, settings, nil
}

func (s *Server) overviewHandler(w http.ResponseWriter, r *http.Request) {
	trades, settings, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.Summarize(trades, settings))
}

func (s *Server) seriesHandler(w http.ResponseWriter, r *http.Request) {
	trades, settings, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	base := settings.BaseAccountValue
	s.writeJSON(w, http.StatusOK, analytics.ProjectValueSeries(trades, base, analytics.CurrentAccountValue(base, trades)))
}

func (s *Server) riskHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := s.journalOf(r).ListTrades(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.AnalyzeRisk(trades))
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	loc, err := location(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trades, err := s.journalOf(r).ListTrades(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.ComputeStats(trades, loc))
}

type todayResponse struct {
	Date   string                  `json:"date"`
	Trades []analytics.RankedTrade `json:"trades"`
	PnL    float64                 `json:"pnl"`
}

func (s *Server) todayHandler(w http.ResponseWriter, r *http.Request) {
	loc, err := location(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trades, err := s.journalOf(r).ListTrades(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now().In(loc)
	today := analytics.TodaysTrades(trades, now)
	resp := todayResponse{
		Date:   analytics.DayLabel(now),
		Trades: make([]analytics.RankedTrade, 0, len(today)),
		PnL:    analytics.TotalPnL(today),
	}
	for _, t := range today {
		resp.Trades = append(resp.Trades, analytics.RankedTrade{Trade: t, PnL: analytics.PnL(t)})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// location reads the optional tz query parameter. The server's zone is the default.
func location(r *http.Request) (*time.Location, error) {
	name := r.URL.Query().Get("tz")
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &journal.ValidationError{Field: "tz", Message: "unknown time zone"}
	}
	return loc, nil
}
