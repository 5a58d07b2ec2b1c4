package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/errors"
	"github.com/AkashicRecords/SecureVideoSummarizer-sub001/models"
)

// Store is the single owned job table. All access goes through synchronized
// methods; no caller ever holds a reference to a stored Job, only snapshots.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*entry
	order    []string // creation order, for eviction
	capacity int
}

type entry struct {
	job             *models.Job
	cancel          context.CancelFunc
	cancelRequested bool
}

func NewStore(capacity int) *Store {
	return &Store{
		entries:  make(map[string]*entry),
		capacity: capacity,
	}
}

// Add inserts a pending job and evicts the oldest terminal job if the
// store is over capacity.
func (s *Store) Add(job *models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[job.ID] = &entry{job: job}
	s.order = append(s.order, job.ID)
	s.evictLocked()
}

// Claim atomically transitions pending -> running. Exactly one caller wins;
// a second claim, or a claim on a terminal job, returns false.
func (s *Store) Claim(id string, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.job.Status != models.JobStatusPending {
		return false
	}
	e.job.Status = models.JobStatusRunning
	e.job.StartedAt = time.Now()
	e.cancel = cancel
	return true
}

// SetProgress publishes a progress checkpoint. Progress is monotonically
// non-decreasing; stale updates are dropped.
func (s *Store) SetProgress(id string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.job.Status != models.JobStatusRunning {
		return
	}
	if progress > e.job.Progress {
		e.job.Progress = progress
	}
}

// Complete moves a running job to its terminal completed state.
func (s *Store) Complete(id string, result *models.JobResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.job.IsTerminal() {
		return
	}
	e.job.Status = models.JobStatusCompleted
	e.job.Progress = 100
	e.job.Result = result
	if !e.job.StartedAt.IsZero() {
		e.job.Duration = time.Since(e.job.StartedAt)
	}
	e.cancel = nil
}

// Fail moves a job to its terminal failed state with the taxonomy code and
// message callers will render.
func (s *Store) Fail(id string, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.job.IsTerminal() {
		return
	}
	e.job.Status = models.JobStatusFailed
	e.job.Error = &models.JobError{Code: code, Message: message}
	if !e.job.StartedAt.IsZero() {
		e.job.Duration = time.Since(e.job.StartedAt)
	}
	e.cancel = nil
}

// RequestCancel marks a job for cancellation. Pending jobs never start;
// running jobs get their context cancelled and the worker aborts at the
// next stage boundary. Terminal jobs return false.
func (s *Store) RequestCancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.job.IsTerminal() {
		return false
	}

	e.cancelRequested = true
	if e.job.Status == models.JobStatusPending {
		e.job.Status = models.JobStatusFailed
		e.job.Error = &models.JobError{Code: errors.CodeCancelled, Message: "Job cancelled before it started"}
		return true
	}
	if e.cancel != nil {
		e.cancel()
	}
	return true
}

// CancelRequested reports whether a cancellation is pending for the job.
func (s *Store) CancelRequested(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	return ok && e.cancelRequested
}

// Get returns a snapshot of the job. Terminal snapshots are stable across
// repeated calls.
func (s *Store) Get(id string) (*models.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.job.Clone(), true
}

// Remove deletes a job outright. Used when a submission could not be
// queued; the record must not linger where callers can poll it.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	for i, jid := range s.order {
		if jid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of retained jobs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictLocked drops the oldest terminal jobs until the store fits its
// capacity. Active jobs are never evicted.
func (s *Store) evictLocked() {
	for len(s.entries) > s.capacity {
		evicted := false
		for i, id := range s.order {
			e, ok := s.entries[id]
			if !ok {
				s.order = append(s.order[:i], s.order[i+1:]...)
				evicted = true
				break
			}
			if e.job.IsTerminal() {
				delete(s.entries, id)
				s.order = append(s.order[:i], s.order[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			return
		}
	}
}
