package labels

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store owns the mutable label state. Everything downstream (orders, trades,
// the profit report) is recomputed from snapshots read here.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		create table if not exists labeled_messages (
			message_index integer primary key,
			user_id text not null default '',
			label_ts text not null,
			direction text not null,
			trade_type text not null,
			risky boolean not null default false,
			ticker text not null default '',
			fill numeric not null default 0,
			expiry text not null default '',
			strike text not null default '',
			message text not null default '',
			updated_at timestamptz not null default now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		create table if not exists annotators (
			user_id text primary key,
			last_index integer not null default 0,
			updated_at timestamptz not null default now()
		)
	`)
	return err
}

func (s *Store) Upsert(ctx context.Context, l Label) error {
	_, err := s.pool.Exec(ctx, `
		insert into labeled_messages (message_index, user_id, label_ts, direction, trade_type, risky, ticker, fill, expiry, strike, message, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now())
		on conflict (message_index) do update set
			user_id = excluded.user_id,
			label_ts = excluded.label_ts,
			direction = excluded.direction,
			trade_type = excluded.trade_type,
			risky = excluded.risky,
			ticker = excluded.ticker,
			fill = excluded.fill,
			expiry = excluded.expiry,
			strike = excluded.strike,
			message = excluded.message,
			updated_at = now()
	`, l.Index, l.UserID, l.Timestamp, l.Direction, l.Type, l.Risky, l.Ticker, l.Fill, l.Expiry, l.Strike, l.Message)
	return err
}

// ListOrdered returns every label sorted by message index, the order the
// matching pipeline expects.
func (s *Store) ListOrdered(ctx context.Context) ([]Label, error) {
	rows, err := s.pool.Query(ctx, `
		select message_index, user_id, label_ts, direction, trade_type, risky, ticker, fill, expiry, strike, message
		from labeled_messages order by message_index asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Label
	for rows.Next() {
		var l Label
		if err := rows.Scan(&l.Index, &l.UserID, &l.Timestamp, &l.Direction, &l.Type, &l.Risky, &l.Ticker, &l.Fill, &l.Expiry, &l.Strike, &l.Message); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, index int) (Label, bool, error) {
	var l Label
	err := s.pool.QueryRow(ctx, `
		select message_index, user_id, label_ts, direction, trade_type, risky, ticker, fill, expiry, strike, message
		from labeled_messages where message_index = $1
	`, index).Scan(&l.Index, &l.UserID, &l.Timestamp, &l.Direction, &l.Type, &l.Risky, &l.Ticker, &l.Fill, &l.Expiry, &l.Strike, &l.Message)
	if errors.Is(err, pgx.ErrNoRows) {
		return Label{}, false, nil
	}
	if err != nil {
		return Label{}, false, err
	}
	return l, true, nil
}

// UpdateFill patches a single fill price, used by the editable order grid.
func (s *Store) UpdateFill(ctx context.Context, index int, fill decimal.Decimal) error {
	tag, err := s.pool.Exec(ctx, "update labeled_messages set fill = $1, updated_at = now() where message_index = $2", fill, index)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("label not found")
	}
	return nil
}

// Cursor returns the annotator's last visited message index, 0 for a new
// annotator.
func (s *Store) Cursor(ctx context.Context, userID string) (int, error) {
	var idx int
	err := s.pool.QueryRow(ctx, "select last_index from annotators where user_id = $1", userID).Scan(&idx)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return idx, err
}

func (s *Store) SetCursor(ctx context.Context, userID string, index int) error {
	_, err := s.pool.Exec(ctx, `
		insert into annotators (user_id, last_index, updated_at) values ($1, $2, now())
		on conflict (user_id) do update set last_index = $2, updated_at = now()
	`, userID, index)
	return err
}
