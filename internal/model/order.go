package model

import (
	"time"

	"chatledger/internal/types"

	"github.com/shopspring/decimal"
)

// Order is a single labeled leg of a position. Index is the position of the
// source message in the chat transcript and totally orders the legs; it is
// not guaranteed to follow Timestamp order.
type Order struct {
	Index     int             `json:"index"`
	Timestamp time.Time       `json:"timestamp"`
	Direction types.Direction `json:"direction"`
	Type      types.TradeType `json:"type"`
	Risky     bool            `json:"risky"`
	Ticker    string          `json:"ticker"`
	Fill      decimal.Decimal `json:"fill"`
	Expiry    string          `json:"expiry"`
	Strike    string          `json:"strike"`
	Matched   bool            `json:"matched"`
	Message   string          `json:"message,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// Trade pairs an opening order with the closing order that realized it.
// Synthetic marks closes fabricated for positions that were never closed.
type Trade struct {
	Entry     *Order `json:"entry"`
	Close     *Order `json:"close"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

// Profit is the realized close fill minus the entry fill.
func (t Trade) Profit() decimal.Decimal {
	return t.Close.Fill.Sub(t.Entry.Fill)
}
