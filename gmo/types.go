package gmo

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gmocoin-trader/market"
)

// envelope is the wrapper every GMO Coin endpoint returns. A status other
// than zero means the API rejected the call; the message code says why.
type envelope struct {
	Status       int             `json:"status"`
	Data         json.RawMessage `json:"data"`
	Messages     []apiMessage    `json:"messages"`
	ResponseTime string          `json:"responsetime"`
}

type apiMessage struct {
	MessageCode   string `json:"message_code"`
	MessageString string `json:"message_string"`
}

func (e *envelope) err() error {
	if e.Status == 0 {
		return nil
	}
	code := "unknown error"
	if len(e.Messages) > 0 {
		code = e.Messages[0].MessageCode
		if e.Messages[0].MessageString != "" {
			code += ": " + e.Messages[0].MessageString
		}
	}
	return fmt.Errorf("API error (status %d): %s", e.Status, code)
}

// Ticker is the normalized latest-rate snapshot for one symbol.
type Ticker struct {
	Symbol string
	Last   float64
	Bid    float64
	Ask    float64
}

type rawTicker struct {
	Symbol string `json:"symbol"`
	Last   string `json:"last"`
	Bid    string `json:"bid"`
	Ask    string `json:"ask"`
}

// normalizeTicker tolerates both shapes the ticker endpoint produces: an
// array of per-symbol objects, or a single object.
func normalizeTicker(data json.RawMessage) (Ticker, error) {
	var list []rawTicker
	if err := json.Unmarshal(data, &list); err != nil {
		var single rawTicker
		if err := json.Unmarshal(data, &single); err != nil {
			return Ticker{}, fmt.Errorf("unexpected ticker shape: %w", err)
		}
		list = []rawTicker{single}
	}
	if len(list) == 0 {
		return Ticker{}, fmt.Errorf("empty ticker response")
	}

	rt := list[0]
	last, err := strconv.ParseFloat(rt.Last, 64)
	if err != nil {
		return Ticker{}, fmt.Errorf("parse last price %q: %w", rt.Last, err)
	}

	t := Ticker{Symbol: rt.Symbol, Last: last}
	// Bid/ask are informational; a parse failure leaves them zero.
	t.Bid, _ = strconv.ParseFloat(rt.Bid, 64)
	t.Ask, _ = strconv.ParseFloat(rt.Ask, 64)
	return t, nil
}

// Position is one normalized open leveraged position.
type Position struct {
	PositionID string
	Side       market.Side
	Size       float64
	EntryPrice float64
}

type rawPosition struct {
	PositionID json.Number `json:"positionId"`
	Side       string      `json:"side"`
	Size       string      `json:"size"`
	Price      string      `json:"price"`
}

type positionList struct {
	List []rawPosition `json:"list"`
}

func normalizePositions(data json.RawMessage) ([]Position, error) {
	var pl positionList
	if err := json.Unmarshal(data, &pl); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}

	out := make([]Position, 0, len(pl.List))
	for _, rp := range pl.List {
		size, err := strconv.ParseFloat(rp.Size, 64)
		if err != nil {
			return nil, fmt.Errorf("parse position size %q: %w", rp.Size, err)
		}
		price, err := strconv.ParseFloat(rp.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("parse position price %q: %w", rp.Price, err)
		}
		out = append(out, Position{
			PositionID: rp.PositionID.String(),
			Side:       market.Side(rp.Side),
			Size:       size,
			EntryPrice: price,
		})
	}
	return out, nil
}

// Asset is one currency balance on the account.
type Asset struct {
	Symbol    string `json:"symbol"`
	Amount    string `json:"amount"`
	Available string `json:"available"`
}

// Order is one active (resting) order.
type Order struct {
	OrderID       json.Number `json:"orderId"`
	Symbol        string      `json:"symbol"`
	Side          string      `json:"side"`
	ExecutionType string      `json:"executionType"`
	Size          string      `json:"size"`
	Price         string      `json:"price"`
	Status        string      `json:"status"`
}

type orderList struct {
	List []Order `json:"list"`
}

// OrderRequest describes one new order.
type OrderRequest struct {
	Symbol        string      `json:"symbol"`
	Side          market.Side `json:"side"`
	ExecutionType string      `json:"executionType"`
	Size          string      `json:"size"`
	Price         string      `json:"price,omitempty"`
}
