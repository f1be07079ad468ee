package matching

import (
	"testing"

	"chatledger/internal/model"
	"chatledger/internal/types"

	"github.com/shopspring/decimal"
)

func TestComputeProfitsChronology(t *testing.T) {
	e := newTestEngine(types.MatchPolicyExclusive)
	// Second trade in input order closes first by date.
	late := &model.Trade{
		Entry: order(t, 1, "2024/01/01", types.DirectionIn, "$AAPL", "1/19", "150C", 2),
		Close: order(t, 4, "2024/03/01", types.DirectionOut, "$AAPL", "1/19", "150C", 3),
	}
	early := &model.Trade{
		Entry: order(t, 2, "2024/01/02", types.DirectionIn, "$MSFT", "2/16", "400C", 4),
		Close: order(t, 3, "2024/02/01", types.DirectionOut, "$MSFT", "2/16", "400C", 5),
	}
	rows, failed := e.ComputeProfits([]*model.Trade{late, early}, decimal.NewFromInt(1))
	if failed != 0 {
		t.Fatalf("unexpected failed trades: %d", failed)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Ticker != "$MSFT" || rows[1].Ticker != "$AAPL" {
		t.Fatalf("rows out of chronological order: %s, %s", rows[0].Ticker, rows[1].Ticker)
	}

	// factor(MSFT) = 1/4, factor(AAPL) = 1/2
	wantFirst := decimal.NewFromFloat(1.25)
	if !rows[0].GlobalFactor.Equal(wantFirst) {
		t.Fatalf("global factor after first = %s, want %s", rows[0].GlobalFactor, wantFirst)
	}
	wantSecond := rows[0].GlobalFactor.Mul(decimal.NewFromInt(1).Add(rows[1].Factor))
	if !rows[1].GlobalFactor.Equal(wantSecond) {
		t.Fatalf("global factor after second = %s, want %s", rows[1].GlobalFactor, wantSecond)
	}

	// balance = 10 + 0.25 + 0.5
	if want := decimal.NewFromFloat(10.75); !rows[1].Balance.Equal(want) {
		t.Fatalf("final balance = %s, want %s", rows[1].Balance, want)
	}
}

func TestComputeProfitsZeroEntryFill(t *testing.T) {
	e := newTestEngine(types.MatchPolicyExclusive)
	bad := &model.Trade{
		Entry: order(t, 1, "2024/01/01", types.DirectionIn, "$AAPL", "1/19", "150C", 0),
		Close: order(t, 2, "2024/01/05", types.DirectionOut, "$AAPL", "1/19", "150C", 3),
	}
	good := &model.Trade{
		Entry: order(t, 3, "2024/01/06", types.DirectionIn, "$MSFT", "2/16", "400C", 4),
		Close: order(t, 4, "2024/02/01", types.DirectionOut, "$MSFT", "2/16", "400C", 6),
	}
	rows, failed := e.ComputeProfits([]*model.Trade{bad, good}, decimal.NewFromInt(1))
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	// The bad trade must not have touched the aggregates.
	if want := decimal.NewFromFloat(1.5); !rows[0].GlobalFactor.Equal(want) {
		t.Fatalf("global factor = %s, want %s", rows[0].GlobalFactor, want)
	}
	if want := decimal.NewFromFloat(10.5); !rows[0].Balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", rows[0].Balance, want)
	}
}

func TestComputeProfitsSizing(t *testing.T) {
	e := newTestEngine(types.MatchPolicyExclusive)
	tr := &model.Trade{
		Entry: order(t, 1, "2024/01/01", types.DirectionIn, "$AAPL", "1/19", "150C", 2),
		Close: order(t, 2, "2024/01/11", types.DirectionOut, "$AAPL", "1/19", "150C", 3),
	}
	rows, _ := e.ComputeProfits([]*model.Trade{tr}, decimal.NewFromFloat(0.5))
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	// balance = 10 + 0.5 * 0.5
	if want := decimal.NewFromFloat(10.25); !rows[0].Balance.Equal(want) {
		t.Fatalf("balance = %s, want %s", rows[0].Balance, want)
	}
	if rows[0].DurationDays != 10 {
		t.Fatalf("duration = %d days, want 10", rows[0].DurationDays)
	}
}

func TestComputeProfitsDoesNotReorderInput(t *testing.T) {
	e := newTestEngine(types.MatchPolicyExclusive)
	a := &model.Trade{
		Entry: order(t, 1, "2024/01/01", types.DirectionIn, "$AAPL", "1/19", "150C", 2),
		Close: order(t, 4, "2024/03/01", types.DirectionOut, "$AAPL", "1/19", "150C", 3),
	}
	b := &model.Trade{
		Entry: order(t, 2, "2024/01/02", types.DirectionIn, "$MSFT", "2/16", "400C", 4),
		Close: order(t, 3, "2024/02/01", types.DirectionOut, "$MSFT", "2/16", "400C", 5),
	}
	in := []*model.Trade{a, b}
	e.ComputeProfits(in, decimal.NewFromInt(1))
	if in[0] != a || in[1] != b {
		t.Fatal("input slice was reordered")
	}
}
