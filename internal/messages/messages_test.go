package messages

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	data := `[{"timestamp":"2024-01-01T09:30:00","content":"IN $AAPL 150C @ 2.50"},{"timestamp":"2024-01-02T10:00:00","content":"OUT $AAPL 150C @ 3.10"}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	m, err := c.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if m.Content != "OUT $AAPL 150C @ 3.10" {
		t.Fatalf("unexpected content %q", m.Content)
	}
	if _, err := c.Get(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestClamp(t *testing.T) {
	c := &Corpus{msgs: make([]Message, 3)}
	tests := []struct{ in, want int }{
		{-1, 0},
		{0, 0},
		{2, 2},
		{7, 2},
	}
	for _, tt := range tests {
		if got := c.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTrim(t *testing.T) {
	if got := Trim("  @everyone IN $AAPL  "); got != "IN $AAPL" {
		t.Fatalf("Trim = %q", got)
	}
}
