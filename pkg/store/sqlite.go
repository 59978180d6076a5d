package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-settingsgen/internal/logger"
	"github.com/goliatone/go-settingsgen/pkg/model"
)

const (
	settingsTable = "settings"

	createSettingsTable = `CREATE TABLE IF NOT EXISTS settings (
		scope      TEXT NOT NULL,
		name       TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (scope, name)
	);`

	upsertSuffix = "ON CONFLICT (scope, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// SQLite stores each key of the record as one row of the settings table,
// with the value JSON-encoded. Several records can share a database through
// distinct scopes.
type SQLite struct {
	db     *sql.DB
	scope  string
	logger *logger.Logger
	now    func() time.Time
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens dsn with the pure-Go modernc.org/sqlite driver and
// creates the settings table when missing.
func NewSQLite(ctx context.Context, dsn, scope string, opts ...Option) (*SQLite, error) {
	cfg := newOptions(opts)
	log := cfg.logger.Component("sqlite")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewSQLite").Msg("error opening database")
		return nil, fmt.Errorf("store: open sqlite %s: %w", dsn, err)
	}
	// A single connection keeps ":memory:" databases coherent and serialises
	// writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite %s: %w", dsn, err)
	}
	if _, err := db.ExecContext(ctx, createSettingsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create settings table: %w", err)
	}
	log.Debug().Str("scope", scope).Msg("connected to database successfully")

	return &SQLite{db: db, scope: scope, logger: log, now: time.Now}, nil
}

func (s *SQLite) Load(ctx context.Context) (model.Record, error) {
	query, args, err := buildLoadQuery(s.scope)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: load settings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	record := model.Record{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("store: scan settings row: %w", err)
		}
		value, err := decodeValue(key, []byte(raw))
		if err != nil {
			return nil, err
		}
		record[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate settings rows: %w", err)
	}
	return record, nil
}

func (s *SQLite) Save(ctx context.Context, record model.Record) error {
	if len(record) == 0 {
		return ctx.Err()
	}
	query, args, err := buildUpsertQuery(s.scope, record, s.now().UTC())
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("store: save settings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit settings: %w", err)
	}

	s.logger.Debug().Str("scope", s.scope).Int("keys", len(record)).Msg("settings saved")
	return nil
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return ctx.Err()
	}
	query, args, err := psql.Delete(settingsTable).
		Where(sq.Eq{"scope": s.scope, "name": keys}).
		ToSql()
	if err != nil {
		return fmt.Errorf("store: build delete query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: delete settings: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func buildLoadQuery(scope string) (string, []any, error) {
	query, args, err := psql.Select("name", "value").
		From(settingsTable).
		Where(sq.Eq{"scope": scope}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("store: build load query: %w", err)
	}
	return query, args, nil
}

// buildUpsertQuery writes every key of record in one statement. Keys are
// sorted so the generated SQL is stable.
func buildUpsertQuery(scope string, record model.Record, now time.Time) (string, []any, error) {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	stamp := now.Format(time.RFC3339)
	insert := psql.Insert(settingsTable).Columns("scope", "name", "value", "updated_at")
	for _, key := range keys {
		data, err := encodeValue(key, record[key])
		if err != nil {
			return "", nil, err
		}
		insert = insert.Values(scope, key, string(data), stamp)
	}

	query, args, err := insert.Suffix(upsertSuffix).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("store: build upsert query: %w", err)
	}
	return query, args, nil
}
