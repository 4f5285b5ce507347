package gmo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gmocoin-trader/market"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", "test-secret", srv.URL, zap.NewNop())
}

func okEnvelope(data string) string {
	return `{"status":0,"data":` + data + `,"responsetime":"2026-08-29T00:00:00.000Z"}`
}

func TestStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/v1/status", r.URL.Path)
		io.WriteString(w, okEnvelope(`{"status":"OPEN"}`))
	})

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OPEN", status)
}

func TestTicker_ListShape(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTC_JPY", r.URL.Query().Get("symbol"))
		io.WriteString(w, okEnvelope(`[{"symbol":"BTC_JPY","last":"5000123","bid":"5000000","ask":"5000250"}]`))
	})

	tk, err := c.Ticker(context.Background(), "BTC_JPY")
	require.NoError(t, err)
	assert.Equal(t, 5_000_123.0, tk.Last)
	assert.Equal(t, 5_000_000.0, tk.Bid)
}

func TestTicker_ObjectShape(t *testing.T) {
	t.Parallel()

	// Some deployments return a single object instead of a list.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, okEnvelope(`{"symbol":"BTC_JPY","last":"4999999","bid":"","ask":""}`))
	})

	tk, err := c.Ticker(context.Background(), "BTC_JPY")
	require.NoError(t, err)
	assert.Equal(t, 4_999_999.0, tk.Last)
	assert.Zero(t, tk.Bid)
}

func TestKlines(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/v1/klines", r.URL.Path)
		assert.Equal(t, "5min", r.URL.Query().Get("interval"))
		assert.Equal(t, "20260829", r.URL.Query().Get("date"))
		io.WriteString(w, okEnvelope(`[{"openTime":"1000","open":"1","high":"2","low":"0.5","close":"1.5","volume":"7"}]`))
	})

	raw, err := c.Klines(context.Background(), "BTC_JPY", "5min", "20260829")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, market.RawCandle{
		OpenTime: "1000", Open: "1", High: "2", Low: "0.5", Close: "1.5", Volume: "7",
	}, raw[0])
}

func TestKlines_EmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, okEnvelope(`[]`))
	})

	raw, err := c.Klines(context.Background(), "BTC_JPY", "5min", "20260829")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestPlaceOrder_SignsRequest(t *testing.T) {
	t.Parallel()

	var gotKey, gotTS, gotSign, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("API-KEY")
		gotTS = r.Header.Get("API-TIMESTAMP")
		gotSign = r.Header.Get("API-SIGN")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, okEnvelope(`"637000"`))
	})

	orderID, err := c.PlaceOrder(context.Background(), OrderRequest{
		Symbol:        "BTC_JPY",
		Side:          market.Buy,
		ExecutionType: "MARKET",
		Size:          "0.001",
	})
	require.NoError(t, err)
	assert.Equal(t, "637000", orderID)

	assert.Equal(t, "test-key", gotKey)
	require.NotEmpty(t, gotTS)

	// The signature covers timestamp + method + path + body with the secret.
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte(gotTS + "POST" + "/v1/order" + gotBody))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSign)

	var req OrderRequest
	require.NoError(t, json.Unmarshal([]byte(gotBody), &req))
	assert.Equal(t, market.Buy, req.Side)
	assert.Equal(t, "0.001", req.Size)
	assert.Empty(t, req.Price) // market orders carry no price
}

func TestOpenPositions(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("API-SIGN"))
		io.WriteString(w, okEnvelope(`{"list":[{"positionId":12345,"side":"BUY","size":"0.01","price":"5000000"}]}`))
	})

	positions, err := c.OpenPositions(context.Background(), "BTC_JPY")
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "12345", positions[0].PositionID)
	assert.Equal(t, market.Buy, positions[0].Side)
	assert.Equal(t, 0.01, positions[0].Size)
	assert.Equal(t, 5_000_000.0, positions[0].EntryPrice)
}

func TestAPIStatusErrorBumpsCounter(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":1,"messages":[{"message_code":"ERR-5106","message_string":"Invalid request parameter"}]}`)
	})

	_, err := c.Ticker(context.Background(), "BTC_JPY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR-5106")
	assert.Equal(t, 1, c.ConsecutiveErrors())

	_, err = c.Ticker(context.Background(), "BTC_JPY")
	require.Error(t, err)
	assert.Equal(t, 2, c.ConsecutiveErrors())
}

func TestSuccessResetsCounter(t *testing.T) {
	t.Parallel()

	fail := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, okEnvelope(`{"status":"OPEN"}`))
	})

	_, err := c.Status(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, c.ConsecutiveErrors())

	fail = false
	_, err = c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, c.ConsecutiveErrors())
}

func TestHTTPErrorSurfacesStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "maintenance")
	})

	_, err := c.Status(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
