package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitRow is one line of the chronological ledger: a realized trade plus
// the running aggregates at the point it closed.
type ProfitRow struct {
	Index        int             `json:"index"`
	OpenedAt     time.Time       `json:"opened_at"`
	ClosedAt     time.Time       `json:"closed_at"`
	Ticker       string          `json:"ticker"`
	Entry        decimal.Decimal `json:"entry"`
	Close        decimal.Decimal `json:"close"`
	Factor       decimal.Decimal `json:"factor"`
	Profit       decimal.Decimal `json:"profit"`
	GlobalFactor decimal.Decimal `json:"global_factor"`
	Balance      decimal.Decimal `json:"balance"`
	DurationDays int             `json:"duration_days"`
	Message      string          `json:"message,omitempty"`
}
