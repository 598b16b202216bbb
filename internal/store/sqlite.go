// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/migrations"
	"github.com/MKhiriev/go-content-vault/models"
)

// SQLiteStore persists the item catalog, the quarantine event log and the
// audit trail in one embedded sqlite database. It implements
// [CatalogStore], [EventStore] and the audit sink.
type SQLiteStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// NewSQLiteStore opens (or creates) the database at dsn, runs the embedded
// goose migrations and returns the store. Use ":memory:" for an ephemeral
// database.
func NewSQLiteStore(ctx context.Context, dsn string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error connecting database (ping): %w", err)
	}

	if err := migrations.Migrate(db); err != nil {
		return nil, err
	}
	log.Info().Str("dsn", dsn).Msg("connected to database successfully")

	return &SQLiteStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  log,
	}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveItem(ctx context.Context, item models.VaultItem) error {
	metadata, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("marshal item metadata: %w", err)
	}

	query, args, err := s.builder.
		Insert("vault_items").
		Columns("id", "name", "nonce", "sealed_size", "metadata",
			"added_at", "last_accessed_at", "quarantined", "quarantine_reason", "risk_tier").
		Values(item.ID, item.Name, item.Nonce, item.SealedSize, string(metadata),
			item.AddedAt.UnixNano(), item.LastAccessedAt.UnixNano(),
			item.Quarantined, item.QuarantineReason, string(item.RiskTier)).
		ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Join(ErrExecutingQuery, err)
	}
	return nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (models.VaultItem, error) {
	query, args, err := s.itemSelect().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.VaultItem{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VaultItem{}, ErrItemNotFound
		}
		return models.VaultItem{}, err
	}
	return item, nil
}

func (s *SQLiteStore) UpdateItem(ctx context.Context, item models.VaultItem) error {
	metadata, err := json.Marshal(item.Metadata)
	if err != nil {
		return fmt.Errorf("marshal item metadata: %w", err)
	}

	query, args, err := s.builder.
		Update("vault_items").
		Set("name", item.Name).
		Set("metadata", string(metadata)).
		Set("last_accessed_at", item.LastAccessedAt.UnixNano()).
		Set("quarantined", item.Quarantined).
		Set("quarantine_reason", item.QuarantineReason).
		Set("risk_tier", string(item.RiskTier)).
		Where(sq.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Join(ErrExecutingQuery, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	query, args, err := s.builder.Delete("vault_items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Join(ErrExecutingQuery, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *SQLiteStore) ListItems(ctx context.Context) ([]models.VaultItem, error) {
	query, args, err := s.itemSelect().OrderBy("added_at ASC").ToSql()
	if err != nil {
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []models.VaultItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) itemSelect() sq.SelectBuilder {
	return s.builder.
		Select("id", "name", "nonce", "sealed_size", "metadata",
			"added_at", "last_accessed_at", "quarantined", "quarantine_reason", "risk_tier").
		From("vault_items")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.VaultItem, error) {
	var (
		item           models.VaultItem
		metadata       string
		addedAt        int64
		lastAccessedAt int64
		riskTier       string
	)
	err := row.Scan(&item.ID, &item.Name, &item.Nonce, &item.SealedSize, &metadata,
		&addedAt, &lastAccessedAt, &item.Quarantined, &item.QuarantineReason, &riskTier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VaultItem{}, err
		}
		return models.VaultItem{}, errors.Join(ErrScanningRow, err)
	}

	if err := json.Unmarshal([]byte(metadata), &item.Metadata); err != nil {
		return models.VaultItem{}, fmt.Errorf("unmarshal item metadata: %w", err)
	}
	item.AddedAt = time.Unix(0, addedAt)
	item.LastAccessedAt = time.Unix(0, lastAccessedAt)
	item.RiskTier = models.RiskTier(riskTier)
	return item, nil
}

func (s *SQLiteStore) AppendEvent(ctx context.Context, event models.QuarantineEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	query, args, err := s.builder.
		Insert("quarantine_events").
		Columns("id", "created_at", "item_id", "action", "payload").
		Values(event.ID, event.Timestamp.UnixNano(), event.ItemID, string(event.Action), string(payload)).
		ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Join(ErrExecutingQuery, err)
	}
	return nil
}

func (s *SQLiteStore) GetEvent(ctx context.Context, id string) (models.QuarantineEvent, error) {
	query, args, err := s.builder.
		Select("payload").From("quarantine_events").Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.QuarantineEvent{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	var payload string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QuarantineEvent{}, ErrEventNotFound
		}
		return models.QuarantineEvent{}, errors.Join(ErrScanningRow, err)
	}

	var event models.QuarantineEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return models.QuarantineEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}

func (s *SQLiteStore) UpdateEvent(ctx context.Context, event models.QuarantineEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	query, args, err := s.builder.
		Update("quarantine_events").
		Set("action", string(event.Action)).
		Set("payload", string(payload)).
		Where(sq.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Join(ErrExecutingQuery, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (s *SQLiteStore) ListEvents(ctx context.Context, limit int) ([]models.QuarantineEvent, error) {
	builder := s.builder.
		Select("payload").From("quarantine_events").OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var events []models.QuarantineEvent
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Join(ErrScanningRow, err)
		}
		var event models.QuarantineEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// AppendAudit implements the audit sink: committed ledger entries are
// mirrored into the audit_log table for durability.
func (s *SQLiteStore) AppendAudit(ctx context.Context, entry models.AuditEntry) error {
	query, args, err := s.builder.
		Insert("audit_log").
		Columns("sequence", "created_at", "action", "item_id", "success", "reason", "prev_hash", "hash").
		Values(entry.Sequence, entry.Timestamp.UnixNano(), entry.Action, entry.ItemID,
			entry.Success, entry.Reason, entry.PrevHash, entry.Hash).
		ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Join(ErrExecutingQuery, err)
	}
	return nil
}

// LastAuditSequence returns the highest sequence persisted in audit_log, or
// -1 when the table is empty. The ledger seeds its numbering from it on
// startup.
func (s *SQLiteStore) LastAuditSequence(ctx context.Context) (int64, error) {
	query, args, err := s.builder.
		Select("COALESCE(MAX(sequence), -1)").
		From("audit_log").
		ToSql()
	if err != nil {
		return 0, errors.Join(ErrBuildingSQLQuery, err)
	}

	var last int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&last); err != nil {
		return 0, errors.Join(ErrExecutingQuery, err)
	}
	return last, nil
}
