package extract

import "testing"

func TestDirection(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"In $AAPL 150C @ 2.50", "IN"},
		{"out here, swing trade", "OUT"},
		{"watching the open", "SKIP"},
	}
	for _, tt := range tests {
		var ents []Entity
		if got := Direction(tt.text, &ents); got != tt.want {
			t.Errorf("Direction(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTicker(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"IN - aapl - 150C", "$AAPL"},
		{"grabbed $tsla calls", "$TSLA"},
		{"no symbol here", ""},
	}
	for _, tt := range tests {
		var ents []Entity
		if got := Ticker(tt.text, &ents); got != tt.want {
			t.Errorf("Ticker(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExpiryTakesLastDate(t *testing.T) {
	var ents []Entity
	if got := Expiry("idea from 1/2, buying the 2/16 expiry", &ents); got != "2/16" {
		t.Fatalf("Expiry = %q, want 2/16", got)
	}
	if len(ents) != 2 {
		t.Fatalf("expected both date spans recorded, got %d", len(ents))
	}
}

func TestStrike(t *testing.T) {
	var ents []Entity
	if got := Strike("IN $AAPL 150c @ 2.50", &ents); got != "150C" {
		t.Fatalf("Strike = %q, want 150C", got)
	}
	var ents2 []Entity
	if got := Strike("no contract", &ents2); got != "" {
		t.Fatalf("Strike = %q, want empty", got)
	}
}

func TestFillPicksSmallestNumber(t *testing.T) {
	var ents []Entity
	Strike("IN $AAPL 150C @ 2.50, stop 1.80", &ents)
	if got := Fill("IN $AAPL 150C @ 2.50, stop 1.80", &ents); got != "1.80" {
		t.Fatalf("Fill = %q, want 1.80", got)
	}
}

func TestFillLeadingDot(t *testing.T) {
	var ents []Entity
	if got := Fill("out at .85", &ents); got != ".85" {
		t.Fatalf("Fill = %q, want .85", got)
	}
}

func TestRisky(t *testing.T) {
	if !Risky("small size, risky play") {
		t.Fatal("expected risky")
	}
	if Risky("normal size") {
		t.Fatal("expected not risky")
	}
}

func TestEntitySpansRecorded(t *testing.T) {
	text := "IN $AAPL 150C 2/16 @ 2.50 SCALP"
	var ents []Entity
	Direction(text, &ents)
	TradeType(text, &ents)
	Ticker(text, &ents)
	Expiry(text, &ents)
	Strike(text, &ents)
	Fill(text, &ents)
	if len(ents) < 5 {
		t.Fatalf("expected at least 5 entity spans, got %d", len(ents))
	}
	for _, e := range ents {
		if e.Start < 0 || e.End > len(text) || e.Start >= e.End {
			t.Fatalf("bad span %+v", e)
		}
	}
}
