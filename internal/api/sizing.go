package api

import (
	"math"
	"net/http"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/journal"
)

// sizingRequest leaves account value, risk and ratio to the caller's settings when omitted.
type sizingRequest struct {
	AccountValue    *float64     `json:"account_value,omitempty"`
	RiskPercentage  *float64     `json:"risk_percentage,omitempty"`
	ProfitRiskRatio *float64     `json:"profit_risk_ratio,omitempty"`
	EntryPrice      float64      `json:"entry_price"`
	StopLoss        float64      `json:"stop_loss"`
	Side            journal.Side `json:"side"`
}

type sizingResponse struct {
	analytics.Sizing
	TakeProfit float64 `json:"take_profit"`
}

func (s *Server) resolveSizing(r *http.Request) (sizingRequest, error) {
	var req sizingRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	if req.Side == "" {
		req.Side = journal.Long
	}
	side, err := journal.ParseSide(string(req.Side))
	if err != nil {
		return req, err
	}
	req.Side = side
	if !(req.EntryPrice > 0) || math.IsInf(req.EntryPrice, 0) {
		return req, &journal.ValidationError{Field: "entry_price", Message: "Please enter a valid entry price"}
	}

	settings, err := s.journalOf(r).GetSettings(r.Context())
	if err != nil {
		return req, err
	}
	if req.AccountValue == nil {
		req.AccountValue = &settings.BaseAccountValue
	}
	if req.RiskPercentage == nil {
		req.RiskPercentage = &settings.RiskPercentage
	}
	if req.ProfitRiskRatio == nil {
		req.ProfitRiskRatio = &settings.ProfitRiskRatio
	}
	return req, nil
}

func (s *Server) sizingHandler(w http.ResponseWriter, r *http.Request) {
	req, err := s.resolveSizing(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sizingResponse{
		Sizing:     analytics.SizePosition(*req.AccountValue, *req.RiskPercentage, req.EntryPrice, req.StopLoss),
		TakeProfit: analytics.TargetFromStop(req.EntryPrice, req.StopLoss, req.Side, *req.ProfitRiskRatio),
	})
}

func (s *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	req, err := s.resolveSizing(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK,
		analytics.SuggestLevels(*req.AccountValue, *req.RiskPercentage, req.EntryPrice, req.Side, *req.ProfitRiskRatio))
}
