package config

import (
	"strings"
	"testing"

	"chatledger/internal/types"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_DSN", "postgres://localhost/chatledger")
	t.Setenv("JWT_ISSUER", "chatledger")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("MESSAGES_FILE", "data/messages.json")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.HoldDays != 45 {
		t.Fatalf("HoldDays = %d, want 45", c.HoldDays)
	}
	if c.Sizing != "1" {
		t.Fatalf("Sizing = %q, want 1", c.Sizing)
	}
	if c.MatchPolicy != types.MatchPolicyExclusive {
		t.Fatalf("MatchPolicy = %q, want exclusive", c.MatchPolicy)
	}
	if c.WebSocketOrigin != "*" {
		t.Fatalf("WebSocketOrigin = %q, want *", c.WebSocketOrigin)
	}
}

func TestLoadMissingEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DSN", "")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DB_DSN") {
		t.Fatalf("expected missing DB_DSN error, got %v", err)
	}
}

func TestLoadBadPolicy(t *testing.T) {
	setRequired(t)
	t.Setenv("MATCH_POLICY", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid MATCH_POLICY error")
	}
}
