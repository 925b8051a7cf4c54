package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/journal"
)

// tradePage is the journal listing with each trade's P&L attached.
type tradePage struct {
	Trades     []analytics.RankedTrade `json:"trades"`
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	Total      int                     `json:"total"`
	TotalPages int                     `json:"total_pages"`
}

func (s *Server) listTradesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	trades, err := s.journalOf(r).ListTrades(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	field := analytics.SortField(q.Get("sort"))
	if field == "" {
		field = analytics.SortByDate
	}
	desc := q.Get("order") != "asc"
	page := analytics.Paginate(
		analytics.SortTrades(filter.Apply(trades), field, desc),
		queryInt(q, "page"), queryInt(q, "per_page"),
	)

	resp := tradePage{
		Trades:     make([]analytics.RankedTrade, 0, len(page.Trades)),
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
	for _, t := range page.Trades {
		resp.Trades = append(resp.Trades, analytics.RankedTrade{Trade: t, PnL: analytics.PnL(t)})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) createTradeHandler(w http.ResponseWriter, r *http.Request) {
	var in journal.TradeInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	in = in.Normalize().WithEntryDefaults()
	if err := in.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.journalOf(r).CreateTrade(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

func (s *Server) getTradeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := findTrade(r, s.journalOf(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, analytics.RankedTrade{Trade: t, PnL: analytics.PnL(t)})
}

func (s *Server) updateTradeHandler(w http.ResponseWriter, r *http.Request) {
	var upd journal.TradeUpdate
	if err := decodeJSON(r, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.applyUpdate(w, r, upd)
}

type closeRequest struct {
	ExitPrice    *float64 `json:"exit_price"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
}

func (s *Server) closeTradeHandler(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ExitPrice == nil {
		s.writeError(w, r, &journal.ValidationError{Field: "exit_price", Message: "Please enter a valid exit price"})
		return
	}
	s.applyUpdate(w, r, journal.TradeUpdate{ExitPrice: req.ExitPrice, CurrentPrice: req.CurrentPrice})
}

func (s *Server) applyUpdate(w http.ResponseWriter, r *http.Request, upd journal.TradeUpdate) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := upd.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	store := s.journalOf(r)
	if err := store.UpdateTrade(r.Context(), id, upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := findTrade(r, store, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTradeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.journalOf(r).DeleteTrade(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearTradesHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.journalOf(r).ClearAll(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := s.journalOf(r).GetSettings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var upd journal.SettingsUpdate
	if err := decodeJSON(r, &upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := upd.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	store := s.journalOf(r)
	if err := store.UpdateSettings(r.Context(), upd); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.getSettingsHandler(w, r)
}

func findTrade(r *http.Request, store journal.Store, id uint) (journal.Trade, error) {
	trades, err := store.ListTrades(r.Context())
	if err != nil {
		return journal.Trade{}, err
	}
	for _, t := range trades {
		if t.ID == id {
			return t, nil
		}
	}
	return journal.Trade{}, journal.ErrNotFound
}

func parseFilter(q url.Values) (analytics.Filter, error) {
	f := analytics.Filter{
		Symbol:        q.Get("symbol"),
		Status:        strings.ToLower(q.Get("status")),
		Profitability: analytics.Profitability(strings.ToLower(q.Get("profitability"))),
	}
	if raw := q.Get("side"); raw != "" {
		side, err := journal.ParseSide(raw)
		if err != nil {
			return f, err
		}
		f.Side = side
	}
	switch f.Status {
	case "", journal.StatusOpen, journal.StatusClosed:
	default:
		return f, &journal.ValidationError{Field: "status", Message: "status must be open or closed"}
	}

	var err error
	if f.From, err = parseTime(q.Get("from"), "from", false); err != nil {
		return f, err
	}
	if f.To, err = parseTime(q.Get("to"), "to", true); err != nil {
		return f, err
	}
	return f, nil
}

// parseTime accepts RFC 3339 or a bare date. A bare "to" date covers the whole day.
func parseTime(raw, field string, endOfDay bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, &journal.ValidationError{Field: field, Message: "expected YYYY-MM-DD or RFC 3339 time"}
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return d, nil
}

func queryInt(q url.Values, key string) int {
	n, _ := strconv.Atoi(q.Get(key))
	return n
}
