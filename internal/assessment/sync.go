package assessment

import (
	"context"
	"log"

	"github.com/complyx/complyx/internal/api"
)

// SyncService is the backend surface the synchronizer depends on.
// Satisfied by *api.Client.
type SyncService interface {
	CalculateProgress(ctx context.Context, standard api.Standard, phase api.Phase, assessmentID string, answered []string) (*api.Progress, error)
	CalculateScores(ctx context.Context, standard api.Standard, assessmentID string, answers []api.Answer) (*api.Score, error)
}

// Syncer keeps the assessment store's progress and scores in sync with the
// backend. Both operations read the current store state at call time rather
// than captured arguments, so repeated or reordered calls converge on the
// latest answers.
type Syncer struct {
	svc   SyncService
	store *Store
	logf  func(format string, args ...any)
}

// NewSyncer creates a Syncer bound to the store.
func NewSyncer(svc SyncService, store *Store) *Syncer {
	return &Syncer{svc: svc, store: store, logf: log.Printf}
}

// SetLogf overrides the diagnostic logger (tests).
func (s *Syncer) SetLogf(logf func(string, ...any)) {
	s.logf = logf
}

// UpdateProgress recomputes progress from the full answered set via the
// backend and stores the result. No-op when the standard or phase is unset.
// Idempotent: with no intervening answers, repeated calls store identical
// values.
func (s *Syncer) UpdateProgress(ctx context.Context) error {
	snap := s.store.Snapshot()
	if snap.Standard == "" || snap.Phase == "" {
		return nil
	}

	ids := make([]string, len(snap.Answers))
	for i, a := range snap.Answers {
		ids[i] = a.QuestionID
	}
	p, err := s.svc.CalculateProgress(ctx, snap.Standard, snap.Phase, snap.AssessmentID, ids)
	if err != nil {
		return err
	}
	s.store.SetProgress(*p)
	return nil
}

// RecalculateScores fetches fresh scores from the full answer list. Callers
// treat this as fire-and-forget: failures are logged here and never surface
// as blocking UI errors, since score display is secondary to conversation
// flow. The returned error exists for tests.
func (s *Syncer) RecalculateScores(ctx context.Context) error {
	snap := s.store.Snapshot()
	if snap.Standard == "" || snap.AssessmentID == "" {
		return nil
	}

	score, err := s.svc.CalculateScores(ctx, snap.Standard, snap.AssessmentID, snap.Answers)
	if err != nil {
		s.logf("syncer: score recomputation failed: %v", err)
		return err
	}
	s.store.SetScores(score)
	return nil
}
