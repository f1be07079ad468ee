package matching

import (
	"chatledger/internal/model"
	"chatledger/internal/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultHoldDays is the horizon after which a position that never recorded
// an exit is assumed abandoned and force-closed.
const DefaultHoldDays = 45

// Engine pairs closing orders with opening orders and resolves positions
// that were never closed. It mutates only the Matched flag on the orders it
// is given; a recompute always starts from a fresh snapshot.
type Engine struct {
	policy   types.MatchPolicy
	holdDays int
	log      *zap.Logger
}

func NewEngine(policy types.MatchPolicy, holdDays int, log *zap.Logger) *Engine {
	if holdDays <= 0 {
		holdDays = DefaultHoldDays
	}
	return &Engine{policy: policy, holdDays: holdDays, log: log}
}

// findEntry returns the best opening order for a closing order: same ticker,
// expiry and strike, opened strictly earlier in message order, most recent
// entry winning. Under the exclusive policy entries already consumed by an
// earlier close are not candidates.
func (e *Engine) findEntry(orders []*model.Order, closing *model.Order) *model.Order {
	var best *model.Order
	for _, o := range orders {
		if o.Direction != types.DirectionIn ||
			o.Ticker != closing.Ticker ||
			o.Expiry != closing.Expiry ||
			o.Strike != closing.Strike ||
			o.Index >= closing.Index {
			continue
		}
		if e.policy == types.MatchPolicyExclusive && o.Matched {
			continue
		}
		if best == nil || o.Index > best.Index {
			best = o
		}
	}
	return best
}

// Compose walks the orders in their given order and pairs every closing
// order with its entry. Closes with no eligible entry are logged and dropped.
func (e *Engine) Compose(orders []*model.Order) []*model.Trade {
	var trades []*model.Trade
	for _, closing := range orders {
		if closing.Direction != types.DirectionOut {
			continue
		}
		entry := e.findEntry(orders, closing)
		if entry == nil {
			e.log.Info("no matching entry for close",
				zap.Int("index", closing.Index),
				zap.String("ticker", closing.Ticker),
				zap.String("strike", closing.Strike))
			continue
		}
		trades = append(trades, &model.Trade{Entry: entry, Close: closing})
		entry.Matched = true
		closing.Matched = true
	}
	return trades
}

// ResolveAbandoned synthesizes a closing order for every order that survived
// composition unmatched, so each position resolves to a profit or loss. The
// synthetic close lands holdDays after the entry at half its fill, with
// indices continuing past the highest real index. Returns the trade list with
// the synthetic trades appended and the number synthesized.
func (e *Engine) ResolveAbandoned(orders []*model.Order, trades []*model.Trade) ([]*model.Trade, int) {
	lastIndex := 0
	for _, o := range orders {
		if o.Index > lastIndex {
			lastIndex = o.Index
		}
	}

	two := decimal.NewFromInt(2)
	count := 0
	for _, open := range orders {
		if open.Matched {
			continue
		}
		lastIndex++
		count++

		close := &model.Order{
			Index:     lastIndex,
			Timestamp: open.Timestamp.AddDate(0, 0, e.holdDays),
			Direction: types.DirectionOut,
			Type:      types.TradeTypeSwing,
			Ticker:    open.Ticker,
			Expiry:    open.Expiry,
			Strike:    open.Strike,
			Fill:      open.Fill.Div(two),
			Matched:   true,
			Notes:     "unclosed order",
		}
		open.Matched = true
		trades = append(trades, &model.Trade{Entry: open, Close: close, Synthetic: true})
	}
	return trades, count
}
