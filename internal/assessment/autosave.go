package assessment

import (
	"context"
	"log"
	"time"

	"github.com/complyx/complyx/internal/api"
)

// SaveService is the backend surface the auto-saver depends on.
// Satisfied by *api.Client.
type SaveService interface {
	AutoSave(ctx context.Context, assessmentID string, answers []api.Answer, progress api.Progress) error
}

// AutoSaver periodically persists the in-progress assessment to the
// backend. It is the only recurring background task; its lifetime is the
// context passed to Run, so teardown is structural — cancel the context and
// the goroutine exits, no timer bookkeeping.
type AutoSaver struct {
	svc      SaveService
	store    *Store
	interval time.Duration
	logf     func(format string, args ...any)
}

// NewAutoSaver creates an AutoSaver with the given save interval.
func NewAutoSaver(svc SaveService, store *Store, interval time.Duration) *AutoSaver {
	return &AutoSaver{svc: svc, store: store, interval: interval, logf: log.Printf}
}

// SetLogf overrides the diagnostic logger (tests).
func (a *AutoSaver) SetLogf(logf func(string, ...any)) {
	a.logf = logf
}

// Run blocks, saving every interval while an assessment is active, until
// ctx is cancelled. Saves are best effort: failures are logged, never
// surfaced. Run in its own goroutine:
//
//	ctx, cancel := context.WithCancel(ctx)
//	go saver.Run(ctx)
//	defer cancel()
func (a *AutoSaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.SaveOnce(ctx)
		}
	}
}

// SaveOnce persists the current snapshot if an assessment is active. The
// snapshot is taken at save time, so a save fired just before teardown never
// writes against a stale assessment id.
func (a *AutoSaver) SaveOnce(ctx context.Context) bool {
	snap := a.store.Snapshot()
	if !snap.Active() {
		return false
	}

	if err := a.svc.AutoSave(ctx, snap.AssessmentID, snap.Answers, snap.Progress); err != nil {
		a.logf("autosave: %v", err)
		return false
	}
	return true
}
