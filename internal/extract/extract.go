// Package extract suggests order fields from raw chat text. Suggestions are
// confirmed by an annotator before they become labels; the matching pipeline
// never consumes them directly.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Entity marks the character span a suggestion was lifted from, for
// highlighting in the annotation UI.
type Entity struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"entity"`
}

var (
	directionRe = regexp.MustCompile(`\b(OUT|IN)\b`)
	typeRe      = regexp.MustCompile(`\b(SCALP|SWING)\b`)
	riskyRe     = regexp.MustCompile(`\b(RISKY)\b`)
	calloutRe   = regexp.MustCompile(`(IN|OUT) - ([a-zA-Z]+) -`)
	dollarRe    = regexp.MustCompile(`\$\w+`)
	expiryRe    = regexp.MustCompile(`\b(0?[1-9]|1[0-2])/(0?[1-9]|[12][0-9]|3[01])\b`)
	strikeRe    = regexp.MustCompile(`\b\d+(\.\d{0,2})?[CP]\b`)
	numberRe    = regexp.MustCompile(`\$?\d+(\.\d+)?\b|\$?\.\d+\b`)
)

func overlaps(start, end int, entities []Entity) bool {
	for _, e := range entities {
		if start >= e.Start && end <= e.End {
			return true
		}
	}
	return false
}

// Direction suggests IN or OUT from the message text, SKIP when neither
// appears.
func Direction(text string, entities *[]Entity) string {
	loc := directionRe.FindStringIndex(strings.ToUpper(text))
	if loc == nil {
		return "SKIP"
	}
	*entities = append(*entities, Entity{Start: loc[0], End: loc[1], Label: "in_out"})
	return strings.ToUpper(text[loc[0]:loc[1]])
}

// TradeType suggests SCALP or SWING, empty when absent.
func TradeType(text string, entities *[]Entity) string {
	loc := typeRe.FindStringIndex(strings.ToUpper(text))
	if loc == nil {
		return ""
	}
	*entities = append(*entities, Entity{Start: loc[0], End: loc[1], Label: "type"})
	return strings.ToUpper(text[loc[0]:loc[1]])
}

// Risky reports whether the message carries the RISKY marker.
func Risky(text string) bool {
	return riskyRe.MatchString(strings.ToUpper(text))
}

// Ticker suggests the underlying symbol, uppercased and $-prefixed. Callout
// form ("IN - TICKER -") wins over a bare $WORD.
func Ticker(text string, entities *[]Entity) string {
	upper := strings.ToUpper(text)
	if m := calloutRe.FindStringSubmatchIndex(upper); m != nil {
		start, end := m[4], m[5]
		*entities = append(*entities, Entity{Start: start, End: end, Label: "ticker"})
		return "$" + strings.TrimLeft(upper[start:end], "$")
	}
	if loc := dollarRe.FindStringIndex(text); loc != nil {
		*entities = append(*entities, Entity{Start: loc[0], End: loc[1], Label: "ticker"})
		return "$" + strings.ToUpper(strings.TrimLeft(text[loc[0]:loc[1]], "$"))
	}
	return ""
}

// Expiry suggests the contract expiration as M/D, taking the last date-like
// token in the message.
func Expiry(text string, entities *[]Entity) string {
	out := ""
	for _, loc := range expiryRe.FindAllStringIndex(text, -1) {
		*entities = append(*entities, Entity{Start: loc[0], End: loc[1], Label: "expiry"})
		out = text[loc[0]:loc[1]]
	}
	return out
}

// Strike suggests the strike-plus-side token (e.g. "150C"), skipping spans
// already claimed by another entity.
func Strike(text string, entities *[]Entity) string {
	out := ""
	upper := strings.ToUpper(text)
	for i, loc := range strikeRe.FindAllStringIndex(upper, -1) {
		if overlaps(loc[0], loc[1], *entities) {
			continue
		}
		label := "strike"
		if i > 0 {
			label = "strike2"
		}
		*entities = append(*entities, Entity{Start: loc[0], End: loc[1], Label: label})
		out = upper[loc[0]:loc[1]]
	}
	return out
}

// Fill suggests the execution price: the smallest dollar-ish number in the
// message, strikes and expiries excluded. Mid-message prices like ".85" count.
func Fill(text string, entities *[]Entity) string {
	type match struct {
		start, end int
		value      float64
	}
	var matches []match
	for _, loc := range numberRe.FindAllStringIndex(text, -1) {
		raw := strings.TrimLeft(text[loc[0]:loc[1]], "$")
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, ".") {
			raw = "0" + raw
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		matches = append(matches, match{start: loc[0], end: loc[1], value: v})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].value < matches[j].value })

	out := ""
	for i, m := range matches {
		if overlaps(m.start, m.end, *entities) {
			continue
		}
		label := "fill"
		if i > 0 {
			label = "fill2"
		}
		*entities = append(*entities, Entity{Start: m.start, End: m.end, Label: label})
		if out == "" {
			out = strings.TrimLeft(text[m.start:m.end], "$")
		}
	}
	return out
}
