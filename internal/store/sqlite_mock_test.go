package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/models"
)

// newMockedStore обходит конструктор (и миграции) и подставляет sqlmock.
func newMockedStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &SQLiteStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  logger.Nop(),
	}, mock
}

func TestSQLiteStore_SaveItem_ExecError(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectExec("INSERT INTO vault_items").
		WillReturnError(errors.New("disk I/O error"))

	err := s.SaveItem(context.Background(), models.VaultItem{ID: "item-1", AddedAt: time.Now()})
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLiteStore_UpdateItem_ZeroRowsAffected(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectExec("UPDATE vault_items").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateItem(context.Background(), models.VaultItem{ID: "ghost"})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestSQLiteStore_GetItem_ScanError(t *testing.T) {
	s, mock := newMockedStore(t)

	// одна колонка вместо десяти ломает Scan
	rows := sqlmock.NewRows([]string{"id"}).AddRow("item-1")
	mock.ExpectQuery("SELECT .* FROM vault_items").WillReturnRows(rows)

	_, err := s.GetItem(context.Background(), "item-1")
	if !errors.Is(err, ErrScanningRow) {
		t.Fatalf("expected ErrScanningRow, got %v", err)
	}
}

func TestSQLiteStore_UpdateEvent_ZeroRowsAffected(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectExec("UPDATE quarantine_events").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateEvent(context.Background(), models.QuarantineEvent{ID: "ghost"})
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestSQLiteStore_AppendAudit_ExecError(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectExec("INSERT INTO audit_log").
		WillReturnError(errors.New("database is locked"))

	err := s.AppendAudit(context.Background(), models.AuditEntry{Sequence: 1, Timestamp: time.Now()})
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}
