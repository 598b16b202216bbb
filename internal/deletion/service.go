// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package deletion implements the certified secure-erasure service: named
// multi-pass overwrite methods executed against a target item's storage,
// verified unrecoverability and tamper-evident destruction certificates.
package deletion

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MKhiriev/go-content-vault/internal/audit"
	"github.com/MKhiriev/go-content-vault/internal/logger"
	"github.com/MKhiriev/go-content-vault/internal/store"
	"github.com/MKhiriev/go-content-vault/internal/utils"
	"github.com/MKhiriev/go-content-vault/models"
)

// overwriteChunkSize is the unit of one overwrite write. Pattern generation
// is CPU-bound; chunking keeps progress reporting granular on large extents.
const overwriteChunkSize = 64 * 1024

// Config tunes the deletion service.
type Config struct {
	// DefaultMethod is used when CreateJob gets an empty method id.
	DefaultMethod string

	// MaxConcurrentJobs bounds executing jobs; jobs beyond the bound stay
	// Pending until a slot frees.
	MaxConcurrentJobs int64

	// Retention is how long finished jobs are kept in history before the
	// prune sweep drops them. Zero disables pruning.
	Retention time.Duration
}

type jobState struct {
	mu        sync.Mutex
	job       models.DeletionJob
	cancelled bool
	executing bool
}

// Service owns deletion jobs from creation to their move into the immutable
// history list.
type Service struct {
	blobs   store.BlobStore
	ledger  *audit.Ledger
	logger  *logger.Logger
	methods map[string]models.DeletionMethod

	defaultMethod string
	retention     time.Duration
	sem           *semaphore.Weighted

	mu      sync.Mutex
	active  map[string]*jobState
	history []models.DeletionJob
}

// NewService constructs the deletion service over the given blob store.
func NewService(blobs store.BlobStore, ledger *audit.Ledger, cfg Config, log *logger.Logger) *Service {
	if cfg.DefaultMethod == "" {
		cfg.DefaultMethod = DefaultMethodID
	}
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = 2
	}

	return &Service{
		blobs:         blobs,
		ledger:        ledger,
		logger:        log,
		methods:       Methods(),
		defaultMethod: cfg.DefaultMethod,
		retention:     cfg.Retention,
		sem:           semaphore.NewWeighted(cfg.MaxConcurrentJobs),
		active:        make(map[string]*jobState),
	}
}

// ListMethods returns the method catalog sorted by id.
func (s *Service) ListMethods() []models.DeletionMethod {
	out := make([]models.DeletionMethod, 0, len(s.methods))
	for _, m := range s.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateJob records a pre-deletion content hash of the target and creates a
// Pending job using the named method, or the configured default when
// methodID is empty.
func (s *Service) CreateJob(ctx context.Context, targetID, methodID string) (models.DeletionJob, error) {
	if methodID == "" {
		methodID = s.defaultMethod
	}
	method, ok := s.methods[methodID]
	if !ok {
		return models.DeletionJob{}, fmt.Errorf("%w: %q", ErrUnknownMethod, methodID)
	}

	data, err := s.blobs.Read(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrBlobNotFound) {
			return models.DeletionJob{}, ErrTargetNotFound
		}
		return models.DeletionJob{}, fmt.Errorf("read target: %w", err)
	}

	job := models.DeletionJob{
		ID:        utils.NewID(),
		TargetID:  targetID,
		MethodID:  method.ID,
		Status:    models.JobPending,
		CreatedAt: time.Now(),
		PreHash:   utils.ContentHash(data),
		Trail:     []string{fmt.Sprintf("job created with method %s (%d passes)", method.ID, len(method.Passes))},
	}

	s.mu.Lock()
	s.active[job.ID] = &jobState{job: job}
	s.mu.Unlock()

	s.ledger.Record(ctx, "deletion_job_created", targetID, true, "method "+method.ID)
	return job, nil
}

// ExecuteJob runs a Pending job to a terminal state and returns the final
// record. Jobs beyond the concurrency bound block here in Pending until a
// slot frees. Returns ErrInvalidState when the job is not Pending.
func (s *Service) ExecuteJob(ctx context.Context, jobID string) (models.DeletionJob, error) {
	st, err := s.jobState(jobID)
	if err != nil {
		if job, histErr := s.Job(jobID); histErr == nil {
			return models.DeletionJob{}, fmt.Errorf("%w: job is %s", ErrInvalidState, job.Status)
		}
		return models.DeletionJob{}, err
	}

	st.mu.Lock()
	if st.job.Status != models.JobPending || st.executing {
		status := st.job.Status
		st.mu.Unlock()
		return models.DeletionJob{}, fmt.Errorf("%w: job is %s", ErrInvalidState, status)
	}
	st.executing = true
	st.mu.Unlock()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return s.finalize(ctx, st, models.JobFailed, fmt.Errorf("acquire execution slot: %w", err)), nil
	}
	defer s.sem.Release(1)

	st.mu.Lock()
	if st.cancelled {
		st.mu.Unlock()
		return s.finalize(ctx, st, models.JobCancelled, nil), nil
	}
	st.job.Status = models.JobInProgress
	st.job.StartedAt = time.Now()
	st.job.Trail = append(st.job.Trail, "execution started")
	st.mu.Unlock()

	if err := s.runPasses(ctx, st); err != nil {
		if errors.Is(err, ErrCancelled) {
			return s.finalize(ctx, st, models.JobCancelled, nil), nil
		}
		return s.finalize(ctx, st, models.JobFailed, err), nil
	}

	if err := s.verify(ctx, st); err != nil {
		return s.finalize(ctx, st, models.JobFailed, err), nil
	}

	return s.finalize(ctx, st, models.JobCompleted, nil), nil
}

// CancelJob requests cancellation. A Pending job is finalized immediately;
// a job mid-pass finishes the current pass's flush first, so no half-written
// pass is left on durable media. Terminal jobs return ErrInvalidState.
func (s *Service) CancelJob(ctx context.Context, jobID string) error {
	st, err := s.jobState(jobID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	if st.job.Status.Terminal() {
		st.mu.Unlock()
		return fmt.Errorf("%w: job is %s", ErrInvalidState, st.job.Status)
	}
	st.cancelled = true
	executing := st.executing
	st.mu.Unlock()

	if !executing {
		s.finalize(ctx, st, models.JobCancelled, nil)
	}
	return nil
}

// Destroy is the synchronous create-and-execute path used by the vault's
// secure remove and by the quarantine engine's delete action.
func (s *Service) Destroy(ctx context.Context, targetID, methodID string) (models.DeletionJob, error) {
	job, err := s.CreateJob(ctx, targetID, methodID)
	if err != nil {
		return models.DeletionJob{}, err
	}

	final, err := s.ExecuteJob(ctx, job.ID)
	if err != nil {
		return models.DeletionJob{}, err
	}
	if final.Status != models.JobCompleted {
		return final, fmt.Errorf("destruction did not complete: %s", final.Error)
	}
	return final, nil
}

// Job returns a snapshot of an active or historical job.
func (s *Service) Job(jobID string) (models.DeletionJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.active[jobID]; ok {
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.job, nil
	}
	for _, job := range s.history {
		if job.ID == jobID {
			return job, nil
		}
	}
	return models.DeletionJob{}, ErrJobNotFound
}

// ListActive returns snapshots of all non-terminal jobs.
func (s *Service) ListActive() []models.DeletionJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DeletionJob, 0, len(s.active))
	for _, st := range s.active {
		st.mu.Lock()
		out = append(out, st.job)
		st.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// History returns the immutable list of finished jobs, oldest first.
func (s *Service) History() []models.DeletionJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DeletionJob, len(s.history))
	copy(out, s.history)
	return out
}

// PruneHistory drops finished jobs older than the configured retention
// period and returns how many were removed.
func (s *Service) PruneHistory(now time.Time) int {
	if s.retention <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.retention)
	kept := s.history[:0]
	pruned := 0
	for _, job := range s.history {
		if job.FinishedAt.Before(cutoff) {
			pruned++
			continue
		}
		kept = append(kept, job)
	}
	s.history = kept
	return pruned
}

func (s *Service) jobState(jobID string) (*jobState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.active[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return st, nil
}

// runPasses executes every pass of the job's method in declared order,
// flushing to durable storage after each pass before the next one starts.
// Cancellation is honored only at pass boundaries, after the flush.
func (s *Service) runPasses(ctx context.Context, st *jobState) error {
	st.mu.Lock()
	jobID := st.job.ID
	targetID := st.job.TargetID
	method := s.methods[st.job.MethodID]
	st.mu.Unlock()

	size, err := s.blobs.Size(ctx, targetID)
	if err != nil {
		return fmt.Errorf("size target: %w", err)
	}

	totalPasses := len(method.Passes)
	chunk := make([]byte, overwriteChunkSize)

	for passIdx, pattern := range method.Passes {
		var offset int64
		for offset < size {
			n := int64(len(chunk))
			if size-offset < n {
				n = size - offset
			}
			if err := fillChunk(pattern, chunk[:n], offset); err != nil {
				return fmt.Errorf("pass %d: %w", passIdx+1, err)
			}
			if err := s.blobs.Overwrite(ctx, targetID, offset, chunk[:n]); err != nil {
				return fmt.Errorf("pass %d overwrite at %d: %w", passIdx+1, offset, err)
			}
			offset += n

			s.setProgress(st, passIdx, offset, size, totalPasses)
		}

		// durable flush boundary between passes: a crash must never
		// leave a later pass committed while an earlier one is not
		if err := s.blobs.Sync(ctx, targetID); err != nil {
			return fmt.Errorf("pass %d sync: %w", passIdx+1, err)
		}

		st.mu.Lock()
		st.job.Trail = append(st.job.Trail, fmt.Sprintf("pass %d/%d (%s) flushed", passIdx+1, totalPasses, pattern.Kind))
		cancelled := st.cancelled
		st.mu.Unlock()

		s.logger.Debug().Str("job_id", jobID).Int("pass", passIdx+1).Msg("overwrite pass flushed")

		if cancelled {
			return ErrCancelled
		}
		if err := ctx.Err(); err != nil {
			return ErrCancelled
		}
	}

	return nil
}

// verify removes the storage object and asserts the target is gone: a read
// must fail with "not found", any other outcome is a verification failure.
func (s *Service) verify(ctx context.Context, st *jobState) error {
	st.mu.Lock()
	targetID := st.job.TargetID
	st.mu.Unlock()

	if err := s.blobs.Remove(ctx, targetID); err != nil {
		return fmt.Errorf("remove target: %w", err)
	}

	_, err := s.blobs.Read(ctx, targetID)
	if err == nil {
		return fmt.Errorf("%w: target still readable", ErrVerificationFailed)
	}
	if !errors.Is(err, store.ErrBlobNotFound) {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	token := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, token); err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	st.mu.Lock()
	st.job.PostHash = "not found"
	st.job.VerificationToken = hex.EncodeToString(token)
	st.job.Trail = append(st.job.Trail, "verification passed: target unreadable")
	st.mu.Unlock()

	return nil
}

// finalize moves a job to a terminal state, attaches the certificate and
// compliance report, records the audit entry and shifts the record into
// history.
func (s *Service) finalize(ctx context.Context, st *jobState, status models.JobStatus, cause error) models.DeletionJob {
	now := time.Now()

	st.mu.Lock()
	method := s.methods[st.job.MethodID]

	st.job.Status = status
	st.job.FinishedAt = now
	if st.job.StartedAt.IsZero() {
		st.job.StartedAt = now
	}
	if cause != nil {
		st.job.Error = cause.Error()
		st.job.Trail = append(st.job.Trail, "failed: "+cause.Error())
	}

	switch status {
	case models.JobCompleted:
		st.job.Progress = 100
		st.job.Trail = append(st.job.Trail, "completed")
		st.job.Certificate = buildCertificate(st.job, method, now)
	case models.JobCancelled:
		st.job.Trail = append(st.job.Trail, "cancelled")
	}
	st.job.Report = buildReport(st.job, method, now)

	final := st.job
	st.mu.Unlock()

	s.mu.Lock()
	delete(s.active, final.ID)
	s.history = append(s.history, final)
	s.mu.Unlock()

	reason := "method " + final.MethodID
	if final.Error != "" {
		reason = final.Error
	}
	s.ledger.Record(ctx, "deletion_job_"+string(status), final.TargetID, status == models.JobCompleted, reason)
	return final
}

// setProgress reports a monotonically increasing percentage combining pass
// index and intra-pass byte offset. The final step to 100 happens only on
// completion.
func (s *Service) setProgress(st *jobState, passIdx int, offset, size int64, totalPasses int) {
	if size <= 0 || totalPasses <= 0 {
		return
	}

	intra := float64(offset) / float64(size)
	progress := int((float64(passIdx) + intra) / float64(totalPasses) * 100)
	if progress > 99 {
		progress = 99
	}

	st.mu.Lock()
	if progress > st.job.Progress {
		st.job.Progress = progress
	}
	st.mu.Unlock()
}

// fillChunk writes the pass pattern into buf. offset is the absolute extent
// offset of buf, used to keep fixed byte sequences phase-aligned across
// chunk boundaries.
func fillChunk(pattern models.PassPattern, buf []byte, offset int64) error {
	switch pattern.Kind {
	case models.PassZeros:
		for i := range buf {
			buf[i] = 0x00
		}
	case models.PassOnes:
		for i := range buf {
			buf[i] = 0xFF
		}
	case models.PassRandom:
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return fmt.Errorf("generate random pass data: %w", err)
		}
	case models.PassBytes:
		if len(pattern.Bytes) == 0 {
			return fmt.Errorf("empty byte pattern")
		}
		seq := int64(len(pattern.Bytes))
		for i := range buf {
			buf[i] = pattern.Bytes[(offset+int64(i))%seq]
		}
	default:
		return fmt.Errorf("unknown pass kind %q", pattern.Kind)
	}
	return nil
}
