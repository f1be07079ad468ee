package matching

import (
	"time"

	"chatledger/internal/labels"
	"chatledger/internal/model"
	"chatledger/internal/types"

	"go.uber.org/zap"
)

// DateLayout is the calendar-date form used by the annotation layer.
const DateLayout = "2006/01/02"

// FromLabels converts a label snapshot into orders, preserving input order.
// Labels typed SKIP are dropped, as are labels whose timestamp does not parse;
// neither aborts the batch. Retained orders start unmatched.
func FromLabels(in []labels.Label, log *zap.Logger) []*model.Order {
	out := make([]*model.Order, 0, len(in))
	for _, l := range in {
		if types.TradeType(l.Type) == types.TradeTypeSkip {
			continue
		}
		ts, err := time.Parse(DateLayout, l.Timestamp)
		if err != nil {
			log.Warn("dropping label with malformed timestamp",
				zap.Int("index", l.Index),
				zap.String("timestamp", l.Timestamp))
			continue
		}
		out = append(out, &model.Order{
			Index:     l.Index,
			Timestamp: ts,
			Direction: types.Direction(l.Direction),
			Type:      types.TradeType(l.Type),
			Risky:     l.Risky,
			Ticker:    l.Ticker,
			Fill:      l.Fill,
			Expiry:    l.Expiry,
			Strike:    l.Strike,
			Message:   l.Message,
		})
	}
	return out
}
