package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"chatledger/internal/types"
)

type Config struct {
	HTTPAddr        string
	DBDSN           string
	JWTIssuer       string
	JWTSecret       string
	JWTTTL          time.Duration
	WebSocketOrigin string
	MessagesFile    string
	Sizing          string
	HoldDays        int
	MatchPolicy     types.MatchPolicy
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.DBDSN = os.Getenv("DB_DSN")
	if c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		missing = append(missing, "JWT_TTL")
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, err
		}
		c.JWTTTL = d
	}
	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")
	if c.WebSocketOrigin == "" {
		c.WebSocketOrigin = "*"
	}
	c.MessagesFile = os.Getenv("MESSAGES_FILE")
	if c.MessagesFile == "" {
		missing = append(missing, "MESSAGES_FILE")
	}
	c.Sizing = os.Getenv("SIZING")
	if c.Sizing == "" {
		c.Sizing = "1"
	}
	holdDays := os.Getenv("HOLD_DAYS")
	if holdDays == "" {
		c.HoldDays = 45
	} else {
		n, err := strconv.Atoi(holdDays)
		if err != nil || n <= 0 {
			return c, errors.New("invalid HOLD_DAYS")
		}
		c.HoldDays = n
	}
	policy := os.Getenv("MATCH_POLICY")
	switch types.MatchPolicy(policy) {
	case "":
		c.MatchPolicy = types.MatchPolicyExclusive
	case types.MatchPolicyExclusive, types.MatchPolicyReuse:
		c.MatchPolicy = types.MatchPolicy(policy)
	default:
		return c, errors.New("invalid MATCH_POLICY: use exclusive or reuse")
	}
	if len(missing) > 0 {
		return c, errors.New("missing required env: " + join(missing))
	}
	return c, nil
}

func join(items []string) string {
	if len(items) == 0 {
		return ""
	}
	out := items[0]
	for i := 1; i < len(items); i++ {
		out += "," + items[i]
	}
	return out
}
