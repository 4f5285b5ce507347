// Package gmo is a GMO Coin REST client covering the endpoints the trading
// bot needs. It signs private calls with HMAC-SHA256 and tracks consecutive
// transport failures for the risk gate.
package gmo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gmocoin-trader/market"
)

// DefaultEndpoint is the production GMO Coin API host.
const DefaultEndpoint = "https://api.coin.z.com"

// requestTimeout bounds every round-trip; no call may hang indefinitely.
const requestTimeout = 10 * time.Second

// Client talks to the GMO Coin REST API. It is used from a single goroutine
// per run and is not goroutine safe.
type Client struct {
	endpoint   string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	logger     *zap.Logger

	consecutiveErrors int
}

// NewClient returns a client against endpoint (DefaultEndpoint if empty).
// Public endpoints work without credentials; private ones require both.
func NewClient(apiKey, apiSecret, endpoint string, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:  endpoint,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

// ConsecutiveErrors returns the number of transport failures since the last
// successful call. It satisfies risk.ErrorCounter.
func (c *Client) ConsecutiveErrors() int { return c.consecutiveErrors }

// sign computes the GMO request signature:
// hex(HMAC-SHA256(secret, timestamp + method + path + body)).
func (c *Client) sign(timestamp, method, path, body string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(timestamp + method + path + body))
	return hex.EncodeToString(mac.Sum(nil))
}

func timestampMillis() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// do performs one request and unwraps the response envelope. Any failure,
// whether network, HTTP status, or API status, bumps the consecutive-error
// counter; success resets it.
func (c *Client) do(ctx context.Context, method, scope, path string, params url.Values, body any) (json.RawMessage, error) {
	data, err := c.doOnce(ctx, method, scope, path, params, body)
	if err != nil {
		c.consecutiveErrors++
		c.logger.Error("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("consecutive_errors", c.consecutiveErrors),
			zap.Error(err))
		return nil, err
	}
	c.consecutiveErrors = 0
	return data, nil
}

func (c *Client) doOnce(ctx context.Context, method, scope, path string, params url.Values, body any) (json.RawMessage, error) {
	var bodyStr string
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		bodyStr = string(b)
	}

	apiURL := c.endpoint + scope + path
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	var reader io.Reader
	if bodyStr != "" {
		reader = bytes.NewReader([]byte(bodyStr))
	}
	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if scope == "/private" {
		ts := timestampMillis()
		req.Header.Set("API-KEY", c.apiKey)
		req.Header.Set("API-TIMESTAMP", ts)
		req.Header.Set("API-SIGN", c.sign(ts, method, path, bodyStr))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := env.err(); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Status returns the exchange status: OPEN, PREOPEN, or MAINTENANCE.
func (c *Client) Status(ctx context.Context) (string, error) {
	data, err := c.do(ctx, http.MethodGet, "/public", "/v1/status", nil, nil)
	if err != nil {
		return "", err
	}
	var s struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("decode status: %w", err)
	}
	return s.Status, nil
}

// Ticker returns the latest rate for symbol.
func (c *Client) Ticker(ctx context.Context, symbol string) (Ticker, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	data, err := c.do(ctx, http.MethodGet, "/public", "/v1/ticker", params, nil)
	if err != nil {
		return Ticker{}, err
	}
	return normalizeTicker(data)
}

// Klines returns the raw candles for symbol at interval on the given date
// (YYYYMMDD). An empty list is a legitimate response for dates without data.
func (c *Client) Klines(ctx context.Context, symbol, interval, date string) ([]market.RawCandle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("date", date)
	data, err := c.do(ctx, http.MethodGet, "/public", "/v1/klines", params, nil)
	if err != nil {
		return nil, err
	}
	var raw []market.RawCandle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	return raw, nil
}

// Assets returns the account balances.
func (c *Client) Assets(ctx context.Context) ([]Asset, error) {
	data, err := c.do(ctx, http.MethodGet, "/private", "/v1/account/assets", nil, nil)
	if err != nil {
		return nil, err
	}
	var assets []Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	return assets, nil
}

// OpenPositions returns the open leveraged positions for symbol.
func (c *Client) OpenPositions(ctx context.Context, symbol string) ([]Position, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	data, err := c.do(ctx, http.MethodGet, "/private", "/v1/openPositions", params, nil)
	if err != nil {
		return nil, err
	}
	return normalizePositions(data)
}

// ActiveOrders returns the resting orders for symbol.
func (c *Client) ActiveOrders(ctx context.Context, symbol string) ([]Order, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	data, err := c.do(ctx, http.MethodGet, "/private", "/v1/activeOrders", params, nil)
	if err != nil {
		return nil, err
	}
	var ol orderList
	if err := json.Unmarshal(data, &ol); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return ol.List, nil
}

// PlaceOrder submits a new order and returns the exchange order id.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/private", "/v1/order", nil, req)
	if err != nil {
		return "", err
	}
	// The order endpoint returns the id as a bare JSON string or number.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("decode order id: %w", err)
	}
	return n.String(), nil
}
