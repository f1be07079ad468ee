package annotate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"chatledger/internal/events"
	"chatledger/internal/extract"
	"chatledger/internal/labels"
	"chatledger/internal/matching"
	"chatledger/internal/messages"
	"chatledger/internal/model"
	"chatledger/internal/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the label repository the service reads and mutates.
type Store interface {
	Upsert(ctx context.Context, l labels.Label) error
	ListOrdered(ctx context.Context) ([]labels.Label, error)
	Get(ctx context.Context, index int) (labels.Label, bool, error)
	UpdateFill(ctx context.Context, index int, fill decimal.Decimal) error
	Cursor(ctx context.Context, userID string) (int, error)
	SetCursor(ctx context.Context, userID string, index int) error
}

// Service drives the annotation workflow: serve messages with suggested
// fields, persist confirmed labels, and recompute the trade ledger from the
// label snapshot. Label mutation and recompute run under one lock, so a
// recompute never observes a half-applied change.
type Service struct {
	store  Store
	corpus *messages.Corpus
	engine *matching.Engine
	sizing decimal.Decimal
	bus    *events.Bus
	log    *zap.Logger
	mu     sync.Mutex
}

func NewService(store Store, corpus *messages.Corpus, engine *matching.Engine, sizing decimal.Decimal, bus *events.Bus, log *zap.Logger) *Service {
	return &Service{store: store, corpus: corpus, engine: engine, sizing: sizing, bus: bus, log: log}
}

type Stats struct {
	Labeled   int `json:"labeled"`
	Trades    int `json:"trades"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Abandoned int `json:"abandoned"`
	Failed    int `json:"failed"`
}

// Snapshot is the full derived state for one label snapshot.
type Snapshot struct {
	Orders []*model.Order    `json:"orders"`
	Trades []*model.Trade    `json:"trades"`
	Report []model.ProfitRow `json:"report"`
	Stats  Stats             `json:"stats"`
}

type Suggestion struct {
	Direction string `json:"direction"`
	Type      string `json:"type"`
	Ticker    string `json:"ticker"`
	Expiry    string `json:"expiry"`
	Strike    string `json:"strike"`
	Fill      string `json:"fill"`
	Risky     bool   `json:"risky"`
}

// MessageView is everything the annotation UI needs to render one message.
type MessageView struct {
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	Date      string           `json:"date"`
	Raw       string           `json:"raw"`
	Text      string           `json:"text"`
	Entities  []extract.Entity `json:"entities"`
	Suggested Suggestion       `json:"suggested"`
	Saved     bool             `json:"saved"`
	Orders    []*model.Order   `json:"orders"`
	Stats     Stats            `json:"stats"`
}

// Recompute rebuilds orders, trades and the profit report from the current
// label snapshot. It is a pure function of the snapshot and safe to call on
// every change.
func (s *Service) Recompute(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeLocked(ctx)
}

func (s *Service) recomputeLocked(ctx context.Context) (Snapshot, error) {
	lbls, err := s.store.ListOrdered(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list labels: %w", err)
	}

	orders := matching.FromLabels(lbls, s.log)
	trades := s.engine.Compose(orders)
	trades, abandoned := s.engine.ResolveAbandoned(orders, trades)
	report, failed := s.engine.ComputeProfits(trades, s.sizing)

	stats := Stats{Labeled: len(lbls), Trades: len(trades), Abandoned: abandoned, Failed: failed}
	for _, t := range trades {
		switch t.Profit().Sign() {
		case 1:
			stats.Wins++
		case -1:
			stats.Losses++
		}
	}
	return Snapshot{Orders: orders, Trades: trades, Report: report, Stats: stats}, nil
}

// MessageView loads one transcript message with extraction suggestions, any
// saved label overlaid, and the current order table and stats.
func (s *Service) MessageView(ctx context.Context, index int) (MessageView, error) {
	msg, err := s.corpus.Get(index)
	if err != nil {
		return MessageView{}, err
	}
	text := messages.Trim(msg.Content)

	var ents []extract.Entity
	sug := Suggestion{
		Direction: extract.Direction(text, &ents),
		Type:      extract.TradeType(text, &ents),
		Ticker:    extract.Ticker(text, &ents),
		Expiry:    extract.Expiry(text, &ents),
		Strike:    extract.Strike(text, &ents),
		Fill:      extract.Fill(text, &ents),
		Risky:     extract.Risky(text),
	}

	saved, found, err := s.store.Get(ctx, index)
	if err != nil {
		return MessageView{}, err
	}
	if found {
		sug.Ticker = saved.Ticker
		sug.Fill = saved.Fill.String()
		sug.Type = saved.Type
	}

	snap, err := s.Recompute(ctx)
	if err != nil {
		return MessageView{}, err
	}

	date := msg.Timestamp
	if len(date) > 10 {
		date = date[:10]
	}
	return MessageView{
		Index:     index,
		Total:     s.corpus.Len(),
		Date:      date,
		Raw:       msg.Content,
		Text:      text,
		Entities:  ents,
		Suggested: sug,
		Saved:     found,
		Orders:    snap.Orders,
		Stats:     snap.Stats,
	}, nil
}

type SaveRequest struct {
	Index     int    `json:"index"`
	Direction string `json:"direction"`
	Type      string `json:"type"`
	Risky     bool   `json:"risky"`
	Ticker    string `json:"ticker"`
	Fill      string `json:"fill"`
	Expiry    string `json:"expiry"`
	Strike    string `json:"strike"`
}

// SaveLabel normalizes and persists one confirmed label, advances the
// annotator's cursor, recomputes the ledger and broadcasts the new stats.
// Returns the next message index to annotate.
func (s *Service) SaveLabel(ctx context.Context, userID string, req SaveRequest) (int, error) {
	msg, err := s.corpus.Get(req.Index)
	if err != nil {
		return 0, err
	}

	fill := decimal.Zero
	if raw := strings.TrimSpace(strings.TrimPrefix(req.Fill, "$")); raw != "" {
		fill, err = decimal.NewFromString(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid fill %q: %w", req.Fill, err)
		}
	}

	direction := strings.ToUpper(strings.TrimSpace(req.Direction))
	tradeType := strings.ToUpper(strings.TrimSpace(req.Type))
	if direction == "SKIP" {
		// A skipped message must never surface as an order.
		tradeType = string(types.TradeTypeSkip)
	}

	l := labels.Label{
		Index:     req.Index,
		UserID:    userID,
		Timestamp: NormalizeDate(msg.Timestamp),
		Direction: direction,
		Type:      tradeType,
		Risky:     req.Risky,
		Ticker:    NormalizeTicker(req.Ticker),
		Fill:      fill,
		Expiry:    strings.TrimSpace(req.Expiry),
		Strike:    strings.ToUpper(strings.TrimSpace(req.Strike)),
		Message:   messages.Trim(msg.Content),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Upsert(ctx, l); err != nil {
		return 0, fmt.Errorf("save label: %w", err)
	}
	if err := s.store.SetCursor(ctx, userID, req.Index); err != nil {
		return 0, fmt.Errorf("advance cursor: %w", err)
	}
	s.log.Info("label saved",
		zap.String("user", userID),
		zap.Int("index", req.Index),
		zap.String("direction", l.Direction),
		zap.String("ticker", l.Ticker),
		zap.String("strike", l.Strike))

	s.publishStats(ctx)
	return s.corpus.Clamp(req.Index + 1), nil
}

type FillPatch struct {
	Index int    `json:"index"`
	Fill  string `json:"fill"`
}

// UpdateFills applies fill edits from the order grid, skipping rows whose
// value did not change.
func (s *Service) UpdateFills(ctx context.Context, patches []FillPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, p := range patches {
		fill, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(p.Fill), "$"))
		if err != nil {
			return fmt.Errorf("invalid fill for index %d: %w", p.Index, err)
		}
		current, found, err := s.store.Get(ctx, p.Index)
		if err != nil {
			return err
		}
		if !found || current.Fill.Equal(fill) {
			continue
		}
		if err := s.store.UpdateFill(ctx, p.Index, fill); err != nil {
			return err
		}
		s.log.Info("fill updated",
			zap.Int("index", p.Index),
			zap.String("from", current.Fill.String()),
			zap.String("to", fill.String()))
		changed = true
	}
	if changed {
		s.publishStats(ctx)
	}
	return nil
}

// Cursor returns the annotator's last saved position.
func (s *Service) Cursor(ctx context.Context, userID string) (int, error) {
	return s.store.Cursor(ctx, userID)
}

func (s *Service) publishStats(ctx context.Context) {
	if s.bus == nil {
		return
	}
	snap, err := s.recomputeLocked(ctx)
	if err != nil {
		s.log.Warn("recompute after save failed", zap.Error(err))
		return
	}
	s.bus.Publish(events.Event{Type: "stats", Data: snap.Stats})
}

// NormalizeTicker uppercases a symbol and forces the $ prefix.
func NormalizeTicker(t string) string {
	t = strings.TrimSpace(strings.TrimPrefix(t, "$"))
	if t == "" {
		return ""
	}
	return "$" + strings.ToUpper(t)
}

// NormalizeDate reduces a transcript timestamp to the YYYY/MM/DD form the
// matcher parses, accepting ISO-dash dates too.
func NormalizeDate(ts string) string {
	if len(ts) > 10 {
		ts = ts[:10]
	}
	return strings.ReplaceAll(ts, "-", "/")
}
