package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"mc-exchange-api/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteExchangeRepository implements ExchangeRepository using SQLite.
// Thread-safe with WAL mode for high-concurrency reads.
type SQLiteExchangeRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteExchangeRepository creates a new SQLite exchange repository.
// dbPath is the path to the SQLite database file (e.g., "./data/exchange.db")
func NewSQLiteExchangeRepository(dbPath string) (*SQLiteExchangeRepository, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createExchangeTableSQLite(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteExchangeRepository] Initialized with database: %s", dbPath)
	return &SQLiteExchangeRepository{db: db}, nil
}

func createExchangeTableSQLite(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS shop_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash_id TEXT NOT NULL UNIQUE,
		ts DATETIME NOT NULL,
		player TEXT NOT NULL,
		x INTEGER,
		y INTEGER,
		z INTEGER,
		dimension TEXT NOT NULL,
		loc_src TEXT NOT NULL DEFAULT 'manual',
		input_item_id TEXT NOT NULL,
		input_qty INTEGER NOT NULL,
		output_item_id TEXT NOT NULL,
		output_qty INTEGER NOT NULL,
		exchange_possible INTEGER,
		compacted_input INTEGER NOT NULL DEFAULT 0,
		compacted_output INTEGER NOT NULL DEFAULT 0,
		input_enchantments TEXT,
		output_enchantments TEXT,
		raw TEXT NOT NULL,
		shop TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_shop_events_ts ON shop_events(ts);
	CREATE INDEX IF NOT EXISTS idx_shop_events_shop ON shop_events(shop);
	CREATE INDEX IF NOT EXISTS idx_shop_events_player ON shop_events(player);
	`
	_, err := db.Exec(query)
	return err
}

const exchangeColumns = `hash_id, ts, player, x, y, z, dimension, loc_src,
	input_item_id, input_qty, output_item_id, output_qty, exchange_possible,
	compacted_input, compacted_output, input_enchantments, output_enchantments,
	raw, shop`

// Upsert persists the event with ON CONFLICT on hash_id (last write wins).
func (r *SQLiteExchangeRepository) Upsert(ctx context.Context, ev *model.ExchangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inEnch, err := marshalStrings(ev.InputEnchants)
	if err != nil {
		return err
	}
	outEnch, err := marshalStrings(ev.OutputEnchants)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO shop_events (` + exchangeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash_id) DO UPDATE SET
			ts = excluded.ts,
			player = excluded.player,
			x = excluded.x, y = excluded.y, z = excluded.z,
			dimension = excluded.dimension,
			loc_src = excluded.loc_src,
			input_item_id = excluded.input_item_id,
			input_qty = excluded.input_qty,
			output_item_id = excluded.output_item_id,
			output_qty = excluded.output_qty,
			exchange_possible = excluded.exchange_possible,
			compacted_input = excluded.compacted_input,
			compacted_output = excluded.compacted_output,
			input_enchantments = excluded.input_enchantments,
			output_enchantments = excluded.output_enchantments,
			raw = excluded.raw,
			shop = excluded.shop`

	_, err = r.db.ExecContext(ctx, query,
		ev.HashID, ev.TS.UTC(), ev.Player,
		nullableInt(ev.X), nullableInt(ev.Y), nullableInt(ev.Z),
		ev.Dimension, ev.LocSrc,
		ev.InputItemID, ev.InputQty, ev.OutputItemID, ev.OutputQty,
		nullableInt(ev.ExchangePossible),
		ev.CompactedInput, ev.CompactedOutput,
		inEnch, outEnch, ev.Raw, nullableString(ev.Shop))
	if err != nil {
		return fmt.Errorf("failed to upsert exchange event: %w", err)
	}
	return nil
}

// ListByShop returns a shop's events, newest first.
func (r *SQLiteExchangeRepository) ListByShop(ctx context.Context, shopID string) ([]model.ExchangeEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT id, ` + exchangeColumns + ` FROM shop_events WHERE shop = ? ORDER BY ts DESC`
	rows, err := r.db.QueryContext(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop events: %w", err)
	}
	defer rows.Close()

	return scanExchangeRows(rows)
}

// List returns filtered events, newest first.
func (r *SQLiteExchangeRepository) List(ctx context.Context, f model.ExchangeFilter) ([]model.ExchangeEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	where, args := buildExchangeFilter(f, func(int) string { return "?" })

	query := `SELECT id, ` + exchangeColumns + ` FROM shop_events` + where + ` ORDER BY ts DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange events: %w", err)
	}
	defer rows.Close()

	return scanExchangeRows(rows)
}

// ListAll returns every event, newest first.
func (r *SQLiteExchangeRepository) ListAll(ctx context.Context) ([]model.ExchangeEvent, error) {
	return r.List(ctx, model.ExchangeFilter{})
}

// Count returns the total number of stored events.
func (r *SQLiteExchangeRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shop_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count exchange events: %w", err)
	}
	return count, nil
}

// CountSince returns the number of events with ts at or after the cutoff.
func (r *SQLiteExchangeRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shop_events WHERE ts >= ?", since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent exchange events: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes events with ts before the cutoff.
func (r *SQLiteExchangeRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.ExecContext(ctx, "DELETE FROM shop_events WHERE ts < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old exchange events: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		log.Printf("[SQLite] Purged %d exchange events older than %v", deleted, cutoff)
	}

	return deleted, nil
}

// Close closes the database connection.
func (r *SQLiteExchangeRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLiteExchangeRepository implements ExchangeRepository
var _ ExchangeRepository = (*SQLiteExchangeRepository)(nil)
