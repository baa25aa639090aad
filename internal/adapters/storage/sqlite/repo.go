// Package sqlite implements the card registry on an in-memory SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Goldanik/canban/internal/app"
	"github.com/Goldanik/canban/internal/domain"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// defaultEventLimit caps ListChangeEvents when no limit is given.
const defaultEventLimit = 50

// Repository represents repository data used by this package.
type Repository struct {
	db *sql.DB
}

// OpenInMemory opens a private in-memory database. Nothing is written to disk
// and the data is gone once the repository is closed.
func OpenInMemory() (*Repository, error) {
	dsn := fmt.Sprintf("file:canban-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// A shared-cache memory database lives as long as one connection does.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			owner TEXT NOT NULL DEFAULT '',
			ord INTEGER NOT NULL DEFAULT 0,
			pos_x INTEGER NOT NULL DEFAULT 0,
			pos_y INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_owner ON cards(owner, ord);`,
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id TEXT NOT NULL,
			operation TEXT NOT NULL,
			metadata_json TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_card ON change_events(card_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateCard inserts a card and its create event.
func (r *Repository) CreateCard(ctx context.Context, c domain.Card) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cards(id, text, owner, ord, pos_x, pos_y, width, height, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.Text,
		string(c.Owner),
		c.Order,
		c.Position.X,
		c.Position.Y,
		c.Footprint.W,
		c.Footprint.H,
		ts(c.CreatedAt),
		ts(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", app.ErrDuplicateID, c.ID)
		}
		return err
	}
	if err = insertChangeEvent(ctx, tx, domain.CreatedEvent(c)); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// UpdateCard rewrites a card and records the classified change in the same transaction.
func (r *Repository) UpdateCard(ctx context.Context, c domain.Card) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	prev, err := getCardByID(ctx, tx, c.ID)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE cards
		SET text = ?, owner = ?, ord = ?, pos_x = ?, pos_y = ?, width = ?, height = ?, updated_at = ?
		WHERE id = ?
	`,
		c.Text,
		string(c.Owner),
		c.Order,
		c.Position.X,
		c.Position.Y,
		c.Footprint.W,
		c.Footprint.H,
		ts(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return err
	}
	if err = translateNoRows(res); err != nil {
		return err
	}
	if err = insertChangeEvent(ctx, tx, domain.ClassifyCardChange(prev, c)); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// GetCard returns card.
func (r *Repository) GetCard(ctx context.Context, id string) (domain.Card, error) {
	return getCardByID(ctx, r.db, id)
}

// ListCards returns every card in creation order.
func (r *Repository) ListCards(ctx context.Context) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, owner, ord, pos_x, pos_y, width, height, created_at, updated_at
		FROM cards
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListCardsByOwner returns the cards owned by a container in stack order.
func (r *Repository) ListCardsByOwner(ctx context.Context, owner domain.ContainerID) ([]domain.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, owner, ord, pos_x, pos_y, width, height, created_at, updated_at
		FROM cards
		WHERE owner = ?
		ORDER BY ord ASC, rowid ASC
	`, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

// ListChangeEvents returns the newest events first.
func (r *Repository) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, card_id, operation, metadata_json, created_at
		FROM change_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event       domain.ChangeEvent
			opRaw       string
			metadataRaw string
			createdRaw  string
		)
		if err := rows.Scan(&event.ID, &event.CardID, &opRaw, &metadataRaw, &createdRaw); err != nil {
			return nil, err
		}
		event.Operation = domain.NormalizeChangeOperation(opRaw)
		event.OccurredAt = parseTS(createdRaw)
		if strings.TrimSpace(metadataRaw) == "" {
			metadataRaw = "{}"
		}
		if err := json.Unmarshal([]byte(metadataRaw), &event.Metadata); err != nil {
			return nil, fmt.Errorf("decode change_events.metadata_json: %w", err)
		}
		if event.Metadata == nil {
			event.Metadata = map[string]string{}
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

// queryRower represents a query-only DB contract used by DB and Tx implementations.
type queryRower interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// getCardByID loads one card.
func getCardByID(ctx context.Context, q queryRower, id string) (domain.Card, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, text, owner, ord, pos_x, pos_y, width, height, created_at, updated_at
		FROM cards
		WHERE id = ?
	`, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Card{}, app.ErrNotFound
	}
	return c, err
}

// execerContext represents a write-only DB contract used by DB and Tx implementations.
type execerContext interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

// insertChangeEvent inserts a change-event ledger record.
func insertChangeEvent(ctx context.Context, execer execerContext, event domain.ChangeEvent) error {
	if event.Metadata == nil {
		event.Metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("encode change event metadata: %w", err)
	}
	_, err = execer.ExecContext(ctx, `
		INSERT INTO change_events(card_id, operation, metadata_json, created_at)
		VALUES (?, ?, ?, ?)
	`,
		event.CardID,
		string(event.Operation),
		string(metadataJSON),
		ts(normalizeEventTS(event.OccurredAt)),
	)
	if err != nil {
		return fmt.Errorf("insert change event: %w", err)
	}
	return nil
}

// normalizeEventTS ensures event timestamps are always populated and UTC-normalized.
func normalizeEventTS(in time.Time) time.Time {
	if in.IsZero() {
		return time.Now().UTC()
	}
	return in.UTC()
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanCard handles scan card.
func scanCard(s scanner) (domain.Card, error) {
	var (
		c          domain.Card
		owner      string
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(
		&c.ID,
		&c.Text,
		&owner,
		&c.Order,
		&c.Position.X,
		&c.Position.Y,
		&c.Footprint.W,
		&c.Footprint.H,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return domain.Card{}, err
	}
	c.Owner = domain.ContainerID(owner)
	c.CreatedAt = parseTS(createdRaw)
	c.UpdatedAt = parseTS(updatedRaw)
	return c, nil
}

// scanCards drains rows into cards.
func scanCards(rows *sql.Rows) ([]domain.Card, error) {
	out := make([]domain.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

// isUniqueViolation reports whether the expected condition is satisfied.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
