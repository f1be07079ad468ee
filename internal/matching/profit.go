package matching

import (
	"sort"

	"chatledger/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// startingBalance is an arbitrary unit of starting capital for the running
// balance column.
var startingBalance = decimal.NewFromInt(10)

// ComputeProfits realizes trades in chronological close order and emits the
// ledger rows. sizing scales how much of each trade's return moves the
// running balance. A trade whose entry fill is zero cannot produce a return
// factor; it is logged, counted, and excluded so it never poisons the running
// aggregates. The input slice is not reordered.
func (e *Engine) ComputeProfits(trades []*model.Trade, sizing decimal.Decimal) ([]model.ProfitRow, int) {
	sorted := make([]*model.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Close.Timestamp.Before(sorted[j].Close.Timestamp)
	})

	balance := startingBalance
	globalFactor := decimal.NewFromInt(1)
	one := decimal.NewFromInt(1)
	failed := 0

	rows := make([]model.ProfitRow, 0, len(sorted))
	for _, t := range sorted {
		if t.Entry.Fill.IsZero() {
			failed++
			e.log.Error("entry fill is zero, excluding trade from aggregates",
				zap.Int("entry_index", t.Entry.Index),
				zap.Int("close_index", t.Close.Index),
				zap.String("ticker", t.Entry.Ticker))
			continue
		}

		profit := t.Profit()
		factor := profit.Div(t.Entry.Fill)
		globalFactor = globalFactor.Mul(one.Add(factor))
		balance = balance.Add(sizing.Mul(factor))
		duration := int(t.Close.Timestamp.Sub(t.Entry.Timestamp).Hours() / 24)

		rows = append(rows, model.ProfitRow{
			Index:        t.Close.Index,
			OpenedAt:     t.Entry.Timestamp,
			ClosedAt:     t.Close.Timestamp,
			Ticker:       t.Entry.Ticker,
			Entry:        t.Entry.Fill,
			Close:        t.Close.Fill,
			Factor:       factor,
			Profit:       profit,
			GlobalFactor: globalFactor,
			Balance:      balance,
			DurationDays: duration,
			Message:      t.Entry.Message,
		})
	}
	return rows, failed
}
