// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package quarantine implements the risk-evaluation engine: the fixed
// precedence decision over classifier verdicts and safety policies, the
// append-only quarantine event log, human review of engine decisions and
// the retroactive rescan over admitted content.
package quarantine

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-content-vault/internal/classifier"
	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/store"
	"github.com/MKhiriev/go-content-vault/internal/utils"
	"github.com/MKhiriev/go-content-vault/internal/vault"
	"github.com/MKhiriev/go-content-vault/models"
)

// Review outcomes accepted by ReviewEvent.
const (
	OutcomeRelease = "release"
	OutcomeUphold  = "uphold"
)

// Config tunes the engine's built-in checks. Pattern lists match item names
// as path globs and tags verbatim.
type Config struct {
	AllowPatterns []string
	DenyPatterns  []string

	// QuarantineThreshold is the confidence at or above which an unsafe
	// verdict quarantines the item.
	QuarantineThreshold float64

	// HighRiskThreshold upgrades quarantine to destruction when
	// AutoDeleteHighRisk is set.
	HighRiskThreshold  float64
	AutoDeleteHighRisk bool
}

// ScanParams carries one ingest request through the engine.
type ScanParams struct {
	Name        string
	ContentType string
	Tags        []string
	Content     []byte

	// Scan controls whether the classifier runs. Without it the decision
	// falls through to the allow/deny lists alone.
	Scan bool
}

// decision is the outcome of one precedence walk.
type decision struct {
	action models.QuarantineAction
	reason string
	tier   models.RiskTier
}

// Engine owns the safety policy set and the quarantine event log. All
// vault mutations go through the vault's public boundary; the engine never
// touches catalog or blob storage directly.
type Engine struct {
	vault      vault.Vault
	classifier classifier.Classifier
	events     store.EventStore
	outbox     chan<- models.QuarantineEvent
	logger     *logger.Logger

	cfg Config

	mu       sync.RWMutex
	policies []models.SafetyPolicy

	// reviewMu serializes the read-check-update of a review, so two
	// concurrent reviews of one event cannot both pass the reviewed check.
	reviewMu sync.Mutex
}

// NewEngine constructs the quarantine engine with the default policy set.
// outbox may be nil when no audit worker is attached.
func NewEngine(v vault.Vault, cls classifier.Classifier, events store.EventStore, outbox chan<- models.QuarantineEvent, cfg Config, log *logger.Logger) *Engine {
	if cfg.QuarantineThreshold <= 0 {
		cfg.QuarantineThreshold = 0.7
	}
	if cfg.HighRiskThreshold <= 0 {
		cfg.HighRiskThreshold = 0.9
	}

	return &Engine{
		vault:      v,
		classifier: cls,
		events:     events,
		outbox:     outbox,
		logger:     log,
		cfg:        cfg,
		policies:   DefaultPolicies(),
	}
}

// ScanAndStore classifies the content, walks the decision precedence and
// stores the item with the decided state applied. The quarantine event is
// appended for every evaluation, pass-through included. Classifier failure
// degrades to "no verdict available" instead of failing the ingest.
func (e *Engine) ScanAndStore(ctx context.Context, params ScanParams) (models.VaultItem, models.QuarantineEvent, error) {
	var verdict *models.Verdict
	if params.Scan && e.classifier != nil {
		v, err := e.classifier.Analyze(ctx, params.Content, params.Name)
		if err != nil {
			e.logger.Warn().Err(err).Str("name", params.Name).Msg("classifier failed, proceeding without verdict")
		} else {
			verdict = &v
		}
	}

	dec := e.decide(params.Name, params.Tags, verdict)

	add := vault.AddParams{
		Name:        params.Name,
		ContentType: params.ContentType,
		Tags:        params.Tags,
		Content:     params.Content,
	}
	if dec.action == models.ActionQuarantined || dec.action == models.ActionDeleted {
		// stored already quarantined so the item is never readable
		add.Verdict = verdict
		add.QuarantineReason = dec.reason
		add.QuarantineTier = dec.tier
	}

	item, err := e.vault.AddItem(ctx, add)
	if err != nil {
		return models.VaultItem{}, models.QuarantineEvent{}, err
	}

	// verdicts kept out of AddItem (allow-listed or flag-only decisions)
	// are recorded after the fact so rescans still see them
	if add.Verdict == nil && verdict != nil {
		if err := e.vault.UpdateVerdict(ctx, item.ID, *verdict); err != nil {
			e.logger.Error().Err(err).Str("item_id", item.ID).Msg("record verdict")
		}
	}

	event := e.newEvent(item.ID, item.Name, dec, verdict)
	if dec.action == models.ActionDeleted {
		if _, err := e.vault.RemoveItem(ctx, item.ID, true); err != nil {
			e.logger.Error().Err(err).Str("item_id", item.ID).Msg("apply destruction decision")
			event.ApplyFailed = true
		}
	}

	e.commit(ctx, &event)

	if item.Quarantined {
		item.QuarantineReason = dec.reason
	}
	return item, event, nil
}

// RescanItem re-evaluates one admitted item against the current policy set
// using its recorded verdict. Quarantined items are never re-evaluated.
// The returned event is zero-valued when the item passed again.
func (e *Engine) RescanItem(ctx context.Context, item models.VaultItem) (models.QuarantineEvent, error) {
	if item.Quarantined {
		return models.QuarantineEvent{}, nil
	}

	dec := e.decide(item.Name, item.Metadata.Tags, item.Metadata.LastVerdict)
	if dec.action == models.ActionPassed {
		return models.QuarantineEvent{}, nil
	}

	event := e.newEvent(item.ID, item.Name, dec, item.Metadata.LastVerdict)
	event.Reason = "rescan: " + event.Reason

	switch dec.action {
	case models.ActionQuarantined:
		if err := e.vault.QuarantineItem(ctx, item.ID, event.Reason, dec.tier); err != nil {
			event.ApplyFailed = true
			e.logger.Error().Err(err).Str("item_id", item.ID).Msg("apply rescan quarantine")
		}
	case models.ActionDeleted:
		if _, err := e.vault.RemoveItem(ctx, item.ID, true); err != nil {
			event.ApplyFailed = true
			e.logger.Error().Err(err).Str("item_id", item.ID).Msg("apply rescan destruction")
		}
	}

	e.commit(ctx, &event)
	return event, nil
}

// Rescan sweeps all non-quarantined items, one at a time. It stops early
// only on context cancellation; per-item failures are logged and the sweep
// moves on.
func (e *Engine) Rescan(ctx context.Context) (int, error) {
	items, err := e.vault.ListItems(ctx, "")
	if err != nil {
		return 0, err
	}

	actioned := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return actioned, err
		}
		event, err := e.RescanItem(ctx, item)
		if err != nil {
			e.logger.Error().Err(err).Str("item_id", item.ID).Msg("rescan item")
			continue
		}
		if event.ID != "" {
			actioned++
		}
	}
	return actioned, nil
}

// ReviewEvent attaches a human review outcome to an event. A release
// outcome clears the item's quarantine flag and rewrites the event's action;
// an uphold leaves the action in place. Reviewing twice is rejected.
func (e *Engine) ReviewEvent(ctx context.Context, eventID, reviewer, outcome, notes string) (models.QuarantineEvent, error) {
	if outcome != OutcomeRelease && outcome != OutcomeUphold {
		return models.QuarantineEvent{}, fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}

	e.reviewMu.Lock()
	defer e.reviewMu.Unlock()

	event, err := e.events.GetEvent(ctx, eventID)
	if err != nil {
		return models.QuarantineEvent{}, err
	}
	if event.Review != nil && event.Review.Reviewed {
		return models.QuarantineEvent{}, ErrAlreadyReviewed
	}

	if outcome == OutcomeRelease {
		if err := e.vault.ReleaseItem(ctx, event.ItemID); err != nil {
			return models.QuarantineEvent{}, fmt.Errorf("release item: %w", err)
		}
		event.Action = models.ActionReleased
	}

	event.Review = &models.ReviewState{
		Reviewed:   true,
		Reviewer:   reviewer,
		ReviewedAt: time.Now(),
		Notes:      notes,
	}
	if err := e.events.UpdateEvent(ctx, event); err != nil {
		return models.QuarantineEvent{}, fmt.Errorf("update event: %w", err)
	}

	e.send(event)
	return event, nil
}

// Events returns quarantine events most-recent-first; limit <= 0 means all.
func (e *Engine) Events(ctx context.Context, limit int) ([]models.QuarantineEvent, error) {
	return e.events.ListEvents(ctx, limit)
}

// Event returns one event by id.
func (e *Engine) Event(ctx context.Context, id string) (models.QuarantineEvent, error) {
	return e.events.GetEvent(ctx, id)
}

// Policies returns the current policy set, highest priority first.
func (e *Engine) Policies() []models.SafetyPolicy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.SafetyPolicy, len(e.policies))
	copy(out, e.policies)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// UpsertPolicy replaces the policy with the same id or appends a new one.
func (e *Engine) UpsertPolicy(policy models.SafetyPolicy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, existing := range e.policies {
		if existing.ID == policy.ID {
			e.policies[i] = policy
			return
		}
	}
	e.policies = append(e.policies, policy)
}

// SetPolicyEnabled toggles one policy without touching its rules.
func (e *Engine) SetPolicyEnabled(policyID string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.policies {
		if e.policies[i].ID == policyID {
			e.policies[i].Enabled = enabled
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrPolicyNotFound, policyID)
}

// decide walks the fixed precedence: allow-list, deny-list, classifier
// threshold, policy rules, pass-through. First match wins.
func (e *Engine) decide(name string, tags []string, verdict *models.Verdict) decision {
	if pattern, ok := matchList(e.cfg.AllowPatterns, name, tags); ok {
		return decision{action: models.ActionPassed, reason: fmt.Sprintf("matches allow pattern %q", pattern)}
	}
	if _, ok := matchList(e.cfg.DenyPatterns, name, tags); ok {
		return decision{action: models.ActionQuarantined, reason: "matches deny pattern", tier: models.RiskTierHigh}
	}

	if verdict != nil && verdict.IsUnsafe && verdict.Confidence >= e.cfg.QuarantineThreshold {
		if e.cfg.AutoDeleteHighRisk && verdict.Confidence >= e.cfg.HighRiskThreshold {
			return decision{
				action: models.ActionDeleted,
				reason: fmt.Sprintf("high-risk verdict at confidence %.2f", verdict.Confidence),
				tier:   verdict.RiskTier,
			}
		}
		return decision{
			action: models.ActionQuarantined,
			reason: fmt.Sprintf("unsafe verdict at confidence %.2f", verdict.Confidence),
			tier:   verdict.RiskTier,
		}
	}

	if verdict != nil {
		if rule, policy, ok := e.matchRule(*verdict); ok {
			dec := decision{reason: fmt.Sprintf("policy %s, rule %s", policy, rule.Name), tier: verdict.RiskTier}
			switch rule.Action {
			case models.PolicyActionDelete:
				dec.action = models.ActionDeleted
			case models.PolicyActionFlag:
				dec.action = models.ActionFlagged
			default:
				dec.action = models.ActionQuarantined
			}
			return dec
		}
	}

	return decision{action: models.ActionPassed, reason: "no rule matched"}
}

// matchRule finds the first matching enabled rule across enabled policies in
// descending priority order.
func (e *Engine) matchRule(verdict models.Verdict) (models.SafetyRule, string, bool) {
	for _, policy := range e.Policies() {
		if !policy.Enabled {
			continue
		}
		for _, rule := range policy.Rules {
			if rule.Matches(verdict) {
				return rule, policy.Name, true
			}
		}
	}
	return models.SafetyRule{}, "", false
}

func (e *Engine) newEvent(itemID, itemName string, dec decision, verdict *models.Verdict) models.QuarantineEvent {
	event := models.QuarantineEvent{
		ID:        utils.NewID(),
		Timestamp: time.Now(),
		ItemID:    itemID,
		ItemName:  itemName,
		Action:    dec.action,
		Reason:    dec.reason,
		RiskTier:  dec.tier,
		Actor:     "automated",
	}
	if verdict != nil {
		event.Confidence = verdict.Confidence
		event.Categories = verdict.Categories
		if event.RiskTier == "" {
			event.RiskTier = verdict.RiskTier
		}
	}
	return event
}

// commit appends the event to the log and hands it to the audit worker.
// Append failures are logged, never propagated: a decision that was applied
// must not be rolled back because bookkeeping failed.
func (e *Engine) commit(ctx context.Context, event *models.QuarantineEvent) {
	if err := e.events.AppendEvent(ctx, *event); err != nil {
		e.logger.Error().Err(err).Str("event_id", event.ID).Msg("append quarantine event")
	}
	e.send(*event)
}

// send hands an event to the audit worker without ever blocking decision
// flow. A full outbox drops the notification; the event log itself remains
// the source of truth.
func (e *Engine) send(event models.QuarantineEvent) {
	if e.outbox == nil {
		return
	}
	select {
	case e.outbox <- event:
	default:
		e.logger.Warn().Str("event_id", event.ID).Msg("audit outbox full, notification dropped")
	}
}

// matchList reports the first pattern matching the item name (as a path
// glob) or any tag (verbatim).
func matchList(patterns []string, name string, tags []string) (string, bool) {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return pattern, true
		}
		for _, tag := range tags {
			if tag == pattern {
				return pattern, true
			}
		}
	}
	return "", false
}
