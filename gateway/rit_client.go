package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rit-maker-go/market"
)

// Client talks to the simulated exchange's REST API. Every request
// carries the X-API-Key header; a 401 maps to ErrUnauthorized, any
// other transport or parse failure to ErrUnavailable. HTTPClient is
// injectable so tests can point it at httptest.
type Client struct {
	BaseURL    string // e.g. http://localhost:9999/v1
	APIKey     string
	HTTPClient *http.Client
	Limiter    RateLimiter
}

// NewDefaultHTTPClient returns an http.Client with a sane timeout.
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// OpenOrder is the wire view of a working order as the exchange
// reports it.
type OpenOrder struct {
	ID       string
	Ticker   string
	Side     string
	Price    float64
	Quantity int
	Status   string
}

type caseResp struct {
	Tick *int `json:"tick"`
}

type rawLevel struct {
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	TraderID string  `json:"trader_id"`
}

type bookResp struct {
	Bids *[]rawLevel `json:"bids"`
	Asks *[]rawLevel `json:"asks"`
}

type securityResp struct {
	Ticker   string  `json:"ticker"`
	Position int     `json:"position"`
	Last     float64 `json:"last"`
}

type historyResp struct {
	Close float64 `json:"close"`
}

type orderResp struct {
	OrderID  int     `json:"order_id"`
	Ticker   string  `json:"ticker"`
	Action   string  `json:"action"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Status   string  `json:"status"`
}

// Tick reads the case clock.
func (c *Client) Tick(ctx context.Context) (int, error) {
	var cr caseResp
	if err := c.do(ctx, http.MethodGet, "/case", nil, &cr); err != nil {
		return 0, err
	}
	if cr.Tick == nil {
		return 0, fmt.Errorf("%w: case response missing tick", ErrUnavailable)
	}
	return *cr.Tick, nil
}

// Book fetches one ticker's order book up to depth levels per side.
// An empty side is legal; a response missing either key is not.
func (c *Client) Book(ctx context.Context, ticker string, depth int) (market.Snapshot, error) {
	params := url.Values{"ticker": {ticker}}
	if depth > 0 {
		params.Set("limit", strconv.Itoa(depth))
	}
	var br bookResp
	if err := c.do(ctx, http.MethodGet, "/securities/book", params, &br); err != nil {
		return market.Snapshot{}, err
	}
	if br.Bids == nil || br.Asks == nil {
		return market.Snapshot{}, fmt.Errorf("%w: book response missing bids/asks", ErrUnavailable)
	}
	return market.NewSnapshot(ticker, toLevels(*br.Bids), toLevels(*br.Asks), depth), nil
}

func toLevels(raw []rawLevel) []market.Level {
	out := make([]market.Level, len(raw))
	for i, r := range raw {
		out[i] = market.Level{Price: r.Price, Quantity: r.Quantity, TraderID: r.TraderID}
	}
	return out
}

// Position reads the signed share position for a ticker.
func (c *Client) Position(ctx context.Context, ticker string) (int, error) {
	var secs []securityResp
	if err := c.do(ctx, http.MethodGet, "/securities", url.Values{"ticker": {ticker}}, &secs); err != nil {
		return 0, err
	}
	if len(secs) == 0 {
		return 0, fmt.Errorf("%w: no security %s", ErrUnavailable, ticker)
	}
	return secs[0].Position, nil
}

// LastPrice returns the close of the most recent completed tick.
func (c *Client) LastPrice(ctx context.Context, ticker string) (float64, error) {
	params := url.Values{"ticker": {ticker}, "limit": {"1"}}
	var hist []historyResp
	if err := c.do(ctx, http.MethodGet, "/securities/history", params, &hist); err != nil {
		return 0, err
	}
	if len(hist) == 0 {
		return 0, fmt.Errorf("%w: no history for %s", ErrUnavailable, ticker)
	}
	return hist[0].Close, nil
}

// OpenOrders lists this trader's resting orders for one ticker.
func (c *Client) OpenOrders(ctx context.Context, ticker string) ([]OpenOrder, error) {
	var raw []orderResp
	if err := c.do(ctx, http.MethodGet, "/orders", url.Values{"status": {"OPEN"}}, &raw); err != nil {
		return nil, err
	}
	out := make([]OpenOrder, 0, len(raw))
	for _, o := range raw {
		if ticker != "" && o.Ticker != ticker {
			continue
		}
		out = append(out, OpenOrder{
			ID:       strconv.Itoa(o.OrderID),
			Ticker:   o.Ticker,
			Side:     o.Action,
			Price:    o.Price,
			Quantity: o.Quantity,
			Status:   o.Status,
		})
	}
	return out, nil
}

// Submit posts one order. price is ignored for MARKET orders. A non-2xx
// response that is not an auth failure maps to ErrRejected.
func (c *Client) Submit(ctx context.Context, ticker, side, otype string, price float64, qty int) (string, error) {
	params := url.Values{
		"ticker":   {ticker},
		"type":     {otype},
		"quantity": {strconv.Itoa(qty)},
		"action":   {side},
	}
	if otype != "MARKET" {
		params.Set("price", strconv.FormatFloat(price, 'f', -1, 64))
	}
	var or orderResp
	if err := c.post(ctx, "/orders", params, &or, ErrRejected); err != nil {
		return "", err
	}
	return strconv.Itoa(or.OrderID), nil
}

// Cancel pulls a single order by ID.
func (c *Client) Cancel(ctx context.Context, orderID string) error {
	params := url.Values{"all": {"0"}, "ids": {orderID}}
	return c.post(ctx, "/commands/cancel", params, nil, ErrUnavailable)
}

// CancelAll pulls every resting order for the ticker, or every order
// outright when ticker is empty.
func (c *Client) CancelAll(ctx context.Context, ticker string) error {
	params := url.Values{}
	if ticker == "" {
		params.Set("all", "1")
	} else {
		params.Set("all", "0")
		params.Set("ticker", ticker)
	}
	return c.post(ctx, "/commands/cancel", params, nil, ErrUnavailable)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	return c.request(ctx, method, path, params, out, ErrUnavailable)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, out any, failure error) error {
	return c.request(ctx, http.MethodPost, path, params, out, failure)
}

func (c *Client) request(ctx context.Context, method, path string, params url.Values, out any, failure error) error {
	if c.HTTPClient == nil {
		return fmt.Errorf("%w: http client not set", ErrUnavailable)
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	endpoint := c.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s %s", ErrUnauthorized, method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s status %d", failure, method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
		}
	}
	return nil
}
