package labels

import "github.com/shopspring/decimal"

// Label is one confirmed annotation of a chat message. Timestamp stays in the
// annotation layer's YYYY/MM/DD form; parsing happens during normalization.
type Label struct {
	Index     int             `json:"index"`
	UserID    string          `json:"user_id"`
	Timestamp string          `json:"timestamp"`
	Direction string          `json:"direction"`
	Type      string          `json:"type"`
	Risky     bool            `json:"risky"`
	Ticker    string          `json:"ticker"`
	Fill      decimal.Decimal `json:"fill"`
	Expiry    string          `json:"expiry"`
	Strike    string          `json:"strike"`
	Message   string          `json:"message,omitempty"`
}
