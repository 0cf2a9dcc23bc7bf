package assessment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/complyx/complyx/internal/api"
)

type fakeSaveService struct {
	mu    sync.Mutex
	calls int
	err   error

	lastID      string
	lastAnswers []api.Answer
}

func (f *fakeSaveService) AutoSave(ctx context.Context, assessmentID string, answers []api.Answer, progress api.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastID = assessmentID
	f.lastAnswers = answers
	return f.err
}

func (f *fakeSaveService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestAutoSaver_SaveOnceSkipsInactive(t *testing.T) {
	svc := &fakeSaveService{}
	saver := NewAutoSaver(svc, NewStore(), time.Second)

	if saver.SaveOnce(context.Background()) {
		t.Fatal("saved with no active assessment")
	}
	if svc.callCount() != 0 {
		t.Fatalf("backend called: %d", svc.callCount())
	}
}

func TestAutoSaver_SaveOncePersistsSnapshot(t *testing.T) {
	svc := &fakeSaveService{}
	store := activeStore()
	store.AddAnswer("q1", "yes")
	saver := NewAutoSaver(svc, store, time.Second)

	if !saver.SaveOnce(context.Background()) {
		t.Fatal("save refused")
	}
	if svc.lastID != "a1" || len(svc.lastAnswers) != 1 {
		t.Fatalf("saved id=%s answers=%v", svc.lastID, svc.lastAnswers)
	}
}

func TestAutoSaver_SaveOnceFailureLoggedOnly(t *testing.T) {
	svc := &fakeSaveService{err: errors.New("backend down")}
	saver := NewAutoSaver(svc, activeStore(), time.Second)

	var logged bool
	saver.SetLogf(func(string, ...any) { logged = true })

	if saver.SaveOnce(context.Background()) {
		t.Fatal("failed save reported success")
	}
	if !logged {
		t.Fatal("failure not logged")
	}
}

func TestAutoSaver_RunSavesOnIntervalUntilCancelled(t *testing.T) {
	svc := &fakeSaveService{}
	saver := NewAutoSaver(svc, activeStore(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		saver.Run(ctx)
		close(done)
	}()

	// Wait for at least two ticks.
	deadline := time.After(2 * time.Second)
	for svc.callCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("auto-save never fired")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after cancel")
	}

	// No further saves once the goroutine has exited.
	settled := svc.callCount()
	time.Sleep(25 * time.Millisecond)
	if svc.callCount() != settled {
		t.Fatal("saves continued after cancel")
	}
}

func TestAutoSaver_RunSkipsWhileInactive(t *testing.T) {
	svc := &fakeSaveService{}
	store := NewStore() // never becomes active
	saver := NewAutoSaver(svc, store, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		saver.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	if svc.callCount() != 0 {
		t.Fatalf("inactive assessment saved %d times", svc.callCount())
	}
}
