package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"trading-journal-go/internal/accounts"
	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/tabular"
)

// ListOptions narrows and orders a trade listing. Zero values are omitted.
type ListOptions struct {
	Symbol        string
	Side          journal.Side
	Status        string
	From          string
	To            string
	Profitability analytics.Profitability
	Sort          analytics.SortField
	Ascending     bool
	Page          int
	PerPage       int
}

func (o ListOptions) query() map[string]string {
	q := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			q[k] = v
		}
	}
	set("symbol", o.Symbol)
	set("side", string(o.Side))
	set("status", o.Status)
	set("from", o.From)
	set("to", o.To)
	set("profitability", string(o.Profitability))
	set("sort", string(o.Sort))
	if o.Ascending {
		q["order"] = "asc"
	}
	if o.Page > 0 {
		q["page"] = strconv.Itoa(o.Page)
	}
	if o.PerPage > 0 {
		q["per_page"] = strconv.Itoa(o.PerPage)
	}
	return q
}

// TradePage is one page of a trade listing.
type TradePage struct {
	Trades     []analytics.RankedTrade `json:"trades"`
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	Total      int                     `json:"total"`
	TotalPages int                     `json:"total_pages"`
}

// Today is the caller's trading activity for the current calendar day.
type Today struct {
	Date   string                  `json:"date"`
	Trades []analytics.RankedTrade `json:"trades"`
	PnL    float64                 `json:"pnl"`
}

// SizingRequest asks the service to size a position. Nil fields fall back to the
// caller's settings.
type SizingRequest struct {
	AccountValue    *float64     `json:"account_value,omitempty"`
	RiskPercentage  *float64     `json:"risk_percentage,omitempty"`
	ProfitRiskRatio *float64     `json:"profit_risk_ratio,omitempty"`
	EntryPrice      float64      `json:"entry_price"`
	StopLoss        float64      `json:"stop_loss,omitempty"`
	Side            journal.Side `json:"side,omitempty"`
}

// SizingResult is a position size plus the take-profit implied by the reward ratio.
type SizingResult struct {
	analytics.Sizing
	TakeProfit float64 `json:"take_profit"`
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	req := c.request(ctx).SetQueryParams(query).SetResult(out)
	_, err := c.doRequest(ctx, http.MethodGet, path, req)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.request(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	_, err := c.doRequest(ctx, method, path, req)
	return err
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, id)
}

// Health checks the service is up.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/health", c.request(ctx))
	return err
}

// ListTrades returns one page of the caller's trades.
func (c *Client) ListTrades(ctx context.Context, opts ListOptions) (TradePage, error) {
	var page TradePage
	err := c.get(ctx, "/api/trades", opts.query(), &page)
	return page, err
}

// CreateTrade records a new trade.
func (c *Client) CreateTrade(ctx context.Context, in journal.TradeInput) (journal.Trade, error) {
	var t journal.Trade
	err := c.send(ctx, http.MethodPost, "/api/trades", in, &t)
	return t, err
}

// GetTrade returns a trade together with its P&L.
func (c *Client) GetTrade(ctx context.Context, id uint) (analytics.RankedTrade, error) {
	var t analytics.RankedTrade
	err := c.get(ctx, idPath("/api/trades/%d", id), nil, &t)
	return t, err
}

// UpdateTrade applies a partial update to a trade.
func (c *Client) UpdateTrade(ctx context.Context, id uint, upd journal.TradeUpdate) (journal.Trade, error) {
	var t journal.Trade
	err := c.send(ctx, http.MethodPatch, idPath("/api/trades/%d", id), upd, &t)
	return t, err
}

// CloseTrade records an exit price for a trade.
func (c *Client) CloseTrade(ctx context.Context, id uint, exitPrice float64) (journal.Trade, error) {
	var t journal.Trade
	body := map[string]float64{"exit_price": exitPrice}
	err := c.send(ctx, http.MethodPost, idPath("/api/trades/%d/close", id), body, &t)
	return t, err
}

// DeleteTrade removes a trade.
func (c *Client) DeleteTrade(ctx context.Context, id uint) error {
	return c.send(ctx, http.MethodDelete, idPath("/api/trades/%d", id), nil, nil)
}

// ClearTrades removes every trade and resets the caller's settings.
func (c *Client) ClearTrades(ctx context.Context) error {
	return c.send(ctx, http.MethodDelete, "/api/trades", nil, nil)
}

// Settings returns the caller's account settings.
func (c *Client) Settings(ctx context.Context) (journal.Settings, error) {
	var s journal.Settings
	err := c.get(ctx, "/api/settings", nil, &s)
	return s, err
}

// UpdateSettings changes the caller's account settings.
func (c *Client) UpdateSettings(ctx context.Context, upd journal.SettingsUpdate) (journal.Settings, error) {
	var s journal.Settings
	err := c.send(ctx, http.MethodPatch, "/api/settings", upd, &s)
	return s, err
}

// Overview returns the portfolio summary.
func (c *Client) Overview(ctx context.Context) (analytics.Overview, error) {
	var ov analytics.Overview
	err := c.get(ctx, "/api/analytics/overview", nil, &ov)
	return ov, err
}

// Series returns the account value series.
func (c *Client) Series(ctx context.Context) (analytics.ValueSeries, error) {
	var vs analytics.ValueSeries
	err := c.get(ctx, "/api/analytics/series", nil, &vs)
	return vs, err
}

// Risk returns the portfolio risk report.
func (c *Client) Risk(ctx context.Context) (analytics.RiskReport, error) {
	var rep analytics.RiskReport
	err := c.get(ctx, "/api/analytics/risk", nil, &rep)
	return rep, err
}

// Stats returns the performance statistics, bucketed in the named time zone.
// An empty tz uses the server's zone.
func (c *Client) Stats(ctx context.Context, tz string) (analytics.Statistics, error) {
	var st analytics.Statistics
	err := c.get(ctx, "/api/analytics/stats", tzQuery(tz), &st)
	return st, err
}

// Today returns the trades opened today in the named time zone.
func (c *Client) Today(ctx context.Context, tz string) (Today, error) {
	var today Today
	err := c.get(ctx, "/api/analytics/today", tzQuery(tz), &today)
	return today, err
}

func tzQuery(tz string) map[string]string {
	if tz == "" {
		return nil
	}
	return map[string]string{"tz": tz}
}

// Size computes a position size from an entry and stop.
func (c *Client) Size(ctx context.Context, req SizingRequest) (SizingResult, error) {
	var res SizingResult
	err := c.send(ctx, http.MethodPost, "/api/sizing", req, &res)
	return res, err
}

// Suggest derives stop and target levels from an entry price.
func (c *Client) Suggest(ctx context.Context, req SizingRequest) (analytics.Suggestion, error) {
	var sug analytics.Suggestion
	err := c.send(ctx, http.MethodPost, "/api/sizing/suggest", req, &sug)
	return sug, err
}

// Import uploads a CSV file of trades. A nil strict uses the server default.
func (c *Client) Import(ctx context.Context, r io.Reader, strict *bool) (tabular.Report, error) {
	// Buffered so retries can resend the body.
	data, err := io.ReadAll(r)
	if err != nil {
		return tabular.Report{}, fmt.Errorf("read import file: %w", err)
	}

	var rep tabular.Report
	req := c.request(ctx).
		SetHeader("Content-Type", "text/csv").
		SetBody(data).
		SetResult(&rep)
	if strict != nil {
		req.SetQueryParam("strict", strconv.FormatBool(*strict))
	}
	_, err = c.doRequest(ctx, http.MethodPost, "/api/import", req)
	return rep, err
}

// Export writes the caller's trades as CSV to w and returns the suggested file name.
func (c *Client) Export(ctx context.Context, w io.Writer) (string, error) {
	req := c.request(ctx).SetHeader("Accept", "text/csv")
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/export", req)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(w, bytes.NewReader(resp.Body())); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	name := "trades.csv"
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return name, nil
}

// Register creates a user account. The first account becomes an admin.
func (c *Client) Register(ctx context.Context, email, name string) (accounts.User, error) {
	var u accounts.User
	err := c.send(ctx, http.MethodPost, "/api/users", identity(email, name), &u)
	return u, err
}

// Me returns the calling user.
func (c *Client) Me(ctx context.Context) (accounts.User, error) {
	var u accounts.User
	err := c.get(ctx, "/api/me", nil, &u)
	return u, err
}

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]accounts.User, error) {
	var users []accounts.User
	err := c.get(ctx, "/api/admin/users", nil, &users)
	return users, err
}

// CreateAdmin creates an admin account. Admin only.
func (c *Client) CreateAdmin(ctx context.Context, email, name string) (accounts.User, error) {
	var u accounts.User
	err := c.send(ctx, http.MethodPost, "/api/admin/users", identity(email, name), &u)
	return u, err
}

// UpdateStatus suspends or reactivates a user. Admin only.
func (c *Client) UpdateStatus(ctx context.Context, id uint, status accounts.Status) (accounts.User, error) {
	var u accounts.User
	body := map[string]string{"status": string(status)}
	err := c.send(ctx, http.MethodPatch, idPath("/api/admin/users/%d/status", id), body, &u)
	return u, err
}

// UpdateSubscription moves a user onto a tier. Admin only.
func (c *Client) UpdateSubscription(ctx context.Context, id uint, tier accounts.Tier, autoRenew bool) (accounts.User, error) {
	var u accounts.User
	body := map[string]interface{}{"tier": string(tier), "auto_renew": autoRenew}
	err := c.send(ctx, http.MethodPatch, idPath("/api/admin/users/%d/subscription", id), body, &u)
	return u, err
}

// Promote grants a user the admin role. Admin only.
func (c *Client) Promote(ctx context.Context, id uint) (accounts.User, error) {
	var u accounts.User
	err := c.send(ctx, http.MethodPost, idPath("/api/admin/users/%d/promote", id), nil, &u)
	return u, err
}

// Demote removes the admin role. Admin only.
func (c *Client) Demote(ctx context.Context, id uint) (accounts.User, error) {
	var u accounts.User
	err := c.send(ctx, http.MethodPost, idPath("/api/admin/users/%d/demote", id), nil, &u)
	return u, err
}

// DeleteUser removes a user and all of their journal data. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.send(ctx, http.MethodDelete, idPath("/api/admin/users/%d", id), nil, nil)
}

func identity(email, name string) map[string]string {
	return map[string]string{"email": email, "name": name}
}
