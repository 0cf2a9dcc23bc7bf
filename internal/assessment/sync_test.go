package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/complyx/complyx/internal/api"
)

type fakeSyncService struct {
	progressCalls int
	lastAnswered  []string
	progress      api.Progress
	progressErr   error

	scoreCalls  int
	lastAnswers []api.Answer
	score       *api.Score
	scoreErr    error
}

func (f *fakeSyncService) CalculateProgress(ctx context.Context, standard api.Standard, phase api.Phase, assessmentID string, answered []string) (*api.Progress, error) {
	f.progressCalls++
	f.lastAnswered = answered
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	p := f.progress
	return &p, nil
}

func (f *fakeSyncService) CalculateScores(ctx context.Context, standard api.Standard, assessmentID string, answers []api.Answer) (*api.Score, error) {
	f.scoreCalls++
	f.lastAnswers = answers
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	return f.score, nil
}

func activeStore() *Store {
	s := NewStore()
	s.SetAssessmentID("a1")
	s.SetStandard(api.StandardS1)
	s.SetPhase(api.PhaseQuick)
	s.SetStatus(StatusInProgress)
	return s
}

func TestSyncer_UpdateProgressNoOpWhenUnconfigured(t *testing.T) {
	svc := &fakeSyncService{}
	syncer := NewSyncer(svc, NewStore())

	if err := syncer.UpdateProgress(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.progressCalls != 0 {
		t.Fatalf("backend called with no standard/phase: %d", svc.progressCalls)
	}
}

func TestSyncer_UpdateProgressIdempotent(t *testing.T) {
	svc := &fakeSyncService{progress: api.Progress{Percentage: 50, Answered: 1, Total: 2}}
	store := activeStore()
	store.AddAnswer("q1", "yes")
	syncer := NewSyncer(svc, store)

	for i := 0; i < 3; i++ {
		if err := syncer.UpdateProgress(context.Background()); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	if got := store.Progress(); got.Percentage != 50 || got.Answered != 1 {
		t.Fatalf("progress = %+v", got)
	}
	if len(svc.lastAnswered) != 1 || svc.lastAnswered[0] != "q1" {
		t.Fatalf("answered set sent: %v", svc.lastAnswered)
	}
}

func TestSyncer_UpdateProgressReadsStateAtCallTime(t *testing.T) {
	svc := &fakeSyncService{progress: api.Progress{Percentage: 100, Answered: 2, Total: 2}}
	store := activeStore()
	store.AddAnswer("q1", "yes")
	syncer := NewSyncer(svc, store)

	store.AddAnswer("q2", "no")
	if err := syncer.UpdateProgress(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.lastAnswered) != 2 {
		t.Fatalf("expected the full answered set, got %v", svc.lastAnswered)
	}
}

func TestSyncer_RecalculateScoresFailureLoggedOnly(t *testing.T) {
	svc := &fakeSyncService{scoreErr: errors.New("backend down")}
	store := activeStore()
	syncer := NewSyncer(svc, store)

	var logged bool
	syncer.SetLogf(func(string, ...any) { logged = true })

	if err := syncer.RecalculateScores(context.Background()); err == nil {
		t.Fatal("expected error for tests")
	}
	if !logged {
		t.Fatal("failure not logged")
	}
	if store.Scores() != nil {
		t.Fatal("failed recompute stored a score")
	}
}

func TestSyncer_RecalculateScoresStoresResult(t *testing.T) {
	svc := &fakeSyncService{score: &api.Score{Overall: 72}}
	store := activeStore()
	store.AddAnswer("q1", "yes")
	syncer := NewSyncer(svc, store)

	if err := syncer.RecalculateScores(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.Scores(); got == nil || got.Overall != 72 {
		t.Fatalf("scores = %+v", got)
	}
	if len(svc.lastAnswers) != 1 {
		t.Fatalf("answers sent: %v", svc.lastAnswers)
	}
}
