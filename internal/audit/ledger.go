// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package audit implements the append-only, hash-chained audit log every
// vault, quarantine and deletion state transition is recorded in. Each
// entry binds the hash of its predecessor, so rewriting history breaks
// chain verification.
package audit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/utils"
	"github.com/MKhiriev/go-content-vault/models"
)

const genesisHash = "0000000000000000"

// ErrChainBroken is returned by [Ledger.Verify] when an entry's hash does
// not match its recomputed value or its predecessor link.
var ErrChainBroken = errors.New("audit chain broken")

// Sink receives every committed entry for durable persistence. The ledger
// keeps the authoritative in-memory chain; a sink failure is logged and
// never blocks the recording path. LastAuditSequence reports the highest
// sequence already persisted, or -1 for an empty sink, so a restarted
// ledger continues the numbering instead of colliding with old rows.
type Sink interface {
	AppendAudit(ctx context.Context, entry models.AuditEntry) error
	LastAuditSequence(ctx context.Context) (int64, error)
}

// Ledger is the append-only audit log.
type Ledger struct {
	mu      sync.RWMutex
	entries []models.AuditEntry

	sink   Sink
	logger *logger.Logger
}

// NewLedger constructs a [Ledger] seeded with a genesis entry. sink may be
// nil for purely in-memory operation (tests, ephemeral vaults). With a sink
// the genesis takes over the highest persisted sequence, so entries recorded
// after a restart keep extending the durable log.
func NewLedger(sink Sink, log *logger.Logger) *Ledger {
	l := &Ledger{sink: sink, logger: log}

	var seq int64
	if sink != nil {
		last, err := sink.LastAuditSequence(context.Background())
		switch {
		case err != nil:
			log.Err(err).Msg("audit sink sequence lookup failed, numbering from zero")
		case last >= 0:
			seq = last
		}
	}

	genesis := models.AuditEntry{
		Sequence:  seq,
		Timestamp: time.Now(),
		Action:    "genesis",
		Success:   true,
		Reason:    "audit ledger initialized",
		PrevHash:  genesisHash,
	}
	genesis.Hash = entryHash(genesis)
	l.entries = append(l.entries, genesis)

	return l
}

// Record appends one entry to the chain. It never fails: audit recording
// must not be able to veto the operation it describes.
func (l *Ledger) Record(ctx context.Context, action, itemID string, success bool, reason string) {
	l.mu.Lock()

	prev := l.entries[len(l.entries)-1]
	entry := models.AuditEntry{
		Sequence:  prev.Sequence + 1,
		Timestamp: time.Now(),
		Action:    action,
		ItemID:    itemID,
		Success:   success,
		Reason:    reason,
		PrevHash:  prev.Hash,
	}
	entry.Hash = entryHash(entry)
	l.entries = append(l.entries, entry)

	l.mu.Unlock()

	if l.sink != nil {
		if err := l.sink.AppendAudit(ctx, entry); err != nil {
			l.logger.Err(err).Int64("sequence", entry.Sequence).Msg("audit sink append failed")
		}
	}
}

// List returns entries most-recent-first. limit <= 0 returns the whole
// chain. The genesis entry is included last.
func (l *Ledger) List(limit int) []models.AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]models.AuditEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of entries including genesis.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Verify walks the whole chain and recomputes every link. It returns
// [ErrChainBroken] wrapped with the offending sequence number on the first
// mismatch.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	prevHash := genesisHash
	for _, entry := range l.entries {
		if entry.PrevHash != prevHash {
			return fmt.Errorf("%w: entry %d predecessor link", ErrChainBroken, entry.Sequence)
		}
		if entryHash(entry) != entry.Hash {
			return fmt.Errorf("%w: entry %d hash mismatch", ErrChainBroken, entry.Sequence)
		}
		prevHash = entry.Hash
	}

	return nil
}

// entryHash computes the chain hash over the canonical byte layout of the
// entry, excluding the Hash field itself.
func entryHash(e models.AuditEntry) string {
	return utils.ChainHash(
		[]byte(strconv.FormatInt(e.Sequence, 10)),
		[]byte(strconv.FormatInt(e.Timestamp.UnixNano(), 10)),
		[]byte(e.Action),
		[]byte(e.ItemID),
		[]byte(strconv.FormatBool(e.Success)),
		[]byte(e.Reason),
		[]byte(e.PrevHash),
	)
}
