package assessment

import (
	"context"
	"fmt"
	"log"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/chat"
)

// State is the per-phase orchestration state.
type State int

const (
	// StateNoPhase — no phase selected yet.
	StateNoPhase State = iota
	// StateReady — phase selected and assessment initialized, no question
	// outstanding.
	StateReady
	// StateOutstanding — exactly one question awaiting an answer.
	StateOutstanding
	// StatePhaseComplete — terminal for the phase; AdvancePhase re-enters
	// StateReady for the next phase with the same assessment id.
	StatePhaseComplete
)

// QuestionService is the backend surface the orchestrator depends on.
// Satisfied by *api.Client.
type QuestionService interface {
	StartAssessment(ctx context.Context, standard api.Standard, phase api.Phase) (*api.StartAssessmentResult, error)
	NextQuestion(ctx context.Context, standard api.Standard, phase api.Phase, assessmentID string, answered []string) (*api.NextQuestion, error)
}

// Orchestrator drives the question flow: fetch the next unanswered question,
// surface it, record submitted answers into both stores. Exactly one
// question is outstanding at a time; a new one is not fetched until the
// previous is answered or skipped. Runs on the UI loop except for FetchNext,
// which is called from an async command; stale completions are dropped by
// sequence number.
type Orchestrator struct {
	svc      QuestionService
	store    *Store
	messages *chat.MessageStore
	logf     func(format string, args ...any)

	state       State
	outstanding *api.Question
	fetchSeq    uint64 // latest issued fetch, 0 = none
	inFlight    bool
}

// NewOrchestrator wires the orchestrator to its stores and backend service.
func NewOrchestrator(svc QuestionService, store *Store, messages *chat.MessageStore) *Orchestrator {
	return &Orchestrator{
		svc:      svc,
		store:    store,
		messages: messages,
		logf:     log.Printf,
	}
}

// SetLogf overrides the diagnostic logger (tests).
func (o *Orchestrator) SetLogf(logf func(string, ...any)) {
	o.logf = logf
}

// State returns the current orchestration state.
func (o *Orchestrator) State() State {
	return o.state
}

// Outstanding returns the question awaiting an answer, nil if none.
func (o *Orchestrator) Outstanding() *api.Question {
	return o.outstanding
}

// SelectPhase enters a phase, lazily creating the assessment on first
// selection. Re-selecting with an existing assessment id keeps it and only
// switches the phase.
func (o *Orchestrator) SelectPhase(ctx context.Context, standard api.Standard, phase api.Phase) error {
	if !standard.Valid() {
		return fmt.Errorf("unknown standard %q", standard)
	}

	if o.store.AssessmentID() == "" {
		result, err := o.svc.StartAssessment(ctx, standard, phase)
		if err != nil {
			return err
		}
		o.store.SetAssessmentID(result.AssessmentID)
		if result.Status != "" {
			o.store.SetStatus(result.Status)
		} else {
			o.store.SetStatus(StatusInProgress)
		}
	}

	o.store.SetStandard(standard)
	o.store.SetPhase(phase)
	o.state = StateReady
	o.outstanding = nil
	return nil
}

// BeginFetch reserves the next question fetch and returns its sequence
// number. Returns ok=false while a question is outstanding, a fetch is
// already in flight, or no phase is selected — the single-outstanding
// invariant and the in-flight guard.
func (o *Orchestrator) BeginFetch() (seq uint64, ok bool) {
	if o.state != StateReady || o.inFlight {
		return 0, false
	}
	o.fetchSeq++
	o.inFlight = true
	o.messages.SetTyping(true)
	return o.fetchSeq, true
}

// FetchResult carries a completed next-question fetch back to the UI loop.
type FetchResult struct {
	Seq  uint64
	Next *api.NextQuestion
	Err  error
}

// FetchNext performs the backend call for a fetch reserved by BeginFetch.
// Safe to call off the UI loop; it touches no orchestrator state.
func (o *Orchestrator) FetchNext(ctx context.Context, seq uint64) FetchResult {
	snap := o.store.Snapshot()
	next, err := o.svc.NextQuestion(ctx, snap.Standard, snap.Phase, snap.AssessmentID, o.answeredIDs(snap))
	return FetchResult{Seq: seq, Next: next, Err: err}
}

func (o *Orchestrator) answeredIDs(snap Snapshot) []string {
	ids := make([]string, len(snap.Answers))
	for i, a := range snap.Answers {
		ids[i] = a.QuestionID
	}
	return ids
}

// Outcome reports what ApplyFetch did with a result.
type Outcome int

const (
	OutcomeStale Outcome = iota // superseded or duplicate result, dropped
	OutcomeQuestion
	OutcomePhaseComplete
	OutcomeError
)

// ApplyFetch applies a fetch result on the UI loop. Stale results (an older
// sequence, or arriving after the guard was released) are dropped so
// out-of-order completions never clobber newer state. The typing flag is
// cleared on every non-stale path, success or failure.
func (o *Orchestrator) ApplyFetch(res FetchResult) Outcome {
	if !o.inFlight || res.Seq != o.fetchSeq {
		return OutcomeStale
	}
	o.inFlight = false
	o.messages.SetTyping(false)

	if res.Err != nil {
		return OutcomeError
	}

	if res.Next.PhaseComplete || res.Next.Question == nil {
		o.state = StatePhaseComplete
		o.outstanding = nil
		o.messages.SetCurrentQuestion("")
		return OutcomePhaseComplete
	}

	q := res.Next.Question
	if o.store.Answered(q.ID) {
		// Backend returned an already-answered question; treat as a logic
		// error and keep waiting rather than double-prompting.
		o.logf("orchestrator: backend returned answered question %s", q.ID)
		o.state = StateReady
		return OutcomeError
	}

	o.state = StateOutstanding
	o.outstanding = q
	o.messages.SetCurrentQuestion(q.ID)
	return OutcomeQuestion
}

// SubmitAnswer records an answer for the outstanding question in both the
// message store and the assessment store, then returns to StateReady. A
// question id mismatch is a logic error reported via diagnostics, not an
// exception; the chat flow continues.
func (o *Orchestrator) SubmitAnswer(questionID, value string) bool {
	if o.outstanding == nil || o.outstanding.ID != questionID {
		got := "<none>"
		if o.outstanding != nil {
			got = o.outstanding.ID
		}
		o.logf("orchestrator: answer for %s but outstanding question is %s", questionID, got)
		return false
	}

	o.store.AddAnswer(questionID, value)
	o.messages.MarkAnswered(questionID)
	o.outstanding = nil
	o.state = StateReady
	return true
}

// Skip abandons the outstanding question without recording an answer,
// allowing the next fetch.
func (o *Orchestrator) Skip() {
	if o.outstanding == nil {
		return
	}
	o.messages.SetCurrentQuestion("")
	o.outstanding = nil
	o.state = StateReady
}

// AdvancePhase moves to the next phase after completion, preserving the
// assessment id. Returns the new phase, or "" when there is none.
func (o *Orchestrator) AdvancePhase() api.Phase {
	if o.state != StatePhaseComplete {
		return ""
	}
	next := o.store.Phase().Next()
	if next == "" {
		o.store.SetStatus(StatusCompleted)
		return ""
	}
	o.store.SetPhase(next)
	o.state = StateReady
	return next
}
