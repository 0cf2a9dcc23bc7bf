package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/chat"
)

// fakeQuestionService serves canned next-question responses and records
// calls.
type fakeQuestionService struct {
	startCalls int
	startErr   error

	nextCalls    int
	nextResults  []nextResult
	lastAnswered []string
}

type nextResult struct {
	next *api.NextQuestion
	err  error
}

func (f *fakeQuestionService) StartAssessment(ctx context.Context, standard api.Standard, phase api.Phase) (*api.StartAssessmentResult, error) {
	f.startCalls++
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &api.StartAssessmentResult{AssessmentID: "a1", Status: StatusInProgress}, nil
}

func (f *fakeQuestionService) NextQuestion(ctx context.Context, standard api.Standard, phase api.Phase, assessmentID string, answered []string) (*api.NextQuestion, error) {
	f.lastAnswered = answered
	res := f.nextResults[f.nextCalls%len(f.nextResults)]
	f.nextCalls++
	return res.next, res.err
}

func question(id string) *api.NextQuestion {
	return &api.NextQuestion{Question: &api.Question{ID: id, Text: "Q " + id}}
}

func newTestOrchestrator(svc QuestionService) (*Orchestrator, *Store, *chat.MessageStore) {
	store := NewStore()
	messages := chat.NewMessageStore()
	o := NewOrchestrator(svc, store, messages)
	o.SetLogf(func(string, ...any) {})
	return o, store, messages
}

func selectQuickS1(t *testing.T, o *Orchestrator) {
	t.Helper()
	if err := o.SelectPhase(context.Background(), api.StandardS1, api.PhaseQuick); err != nil {
		t.Fatalf("select phase: %v", err)
	}
}

func fetchAndApply(t *testing.T, o *Orchestrator) Outcome {
	t.Helper()
	seq, ok := o.BeginFetch()
	if !ok {
		t.Fatal("BeginFetch refused")
	}
	return o.ApplyFetch(o.FetchNext(context.Background(), seq))
}

func TestOrchestrator_SelectPhaseLazyStart(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{{next: question("q1")}}}
	o, store, _ := newTestOrchestrator(svc)

	selectQuickS1(t, o)
	if store.AssessmentID() != "a1" {
		t.Fatalf("assessment id = %q", store.AssessmentID())
	}
	if svc.startCalls != 1 {
		t.Fatalf("start calls = %d", svc.startCalls)
	}

	// Re-selecting a phase keeps the assessment id, no second start.
	if err := o.SelectPhase(context.Background(), api.StandardS1, api.PhaseDetailed); err != nil {
		t.Fatalf("re-select: %v", err)
	}
	if svc.startCalls != 1 {
		t.Fatalf("start called again: %d", svc.startCalls)
	}
}

func TestOrchestrator_SingleOutstandingQuestion(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{{next: question("q1")}}}
	o, _, messages := newTestOrchestrator(svc)
	selectQuickS1(t, o)

	if outcome := fetchAndApply(t, o); outcome != OutcomeQuestion {
		t.Fatalf("outcome = %v", outcome)
	}
	if o.Outstanding() == nil || o.Outstanding().ID != "q1" {
		t.Fatalf("outstanding = %+v", o.Outstanding())
	}
	if messages.CurrentQuestion() != "q1" {
		t.Fatal("message store not pointed at q1")
	}

	// A second fetch while one question is outstanding is refused.
	if _, ok := o.BeginFetch(); ok {
		t.Fatal("BeginFetch allowed with a question outstanding")
	}
}

func TestOrchestrator_NoRepeatedQuestionAfterAnswer(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{
		{next: question("q1")},
		{next: question("q2")},
	}}
	o, store, _ := newTestOrchestrator(svc)
	selectQuickS1(t, o)

	fetchAndApply(t, o)
	if !o.SubmitAnswer("q1", "yes") {
		t.Fatal("submit failed")
	}

	fetchAndApply(t, o)
	if got := o.Outstanding().ID; got != "q2" {
		t.Fatalf("outstanding = %s, want q2", got)
	}
	if len(svc.lastAnswered) != 1 || svc.lastAnswered[0] != "q1" {
		t.Fatalf("answered set sent to backend: %v", svc.lastAnswered)
	}
	if !store.Answered("q1") {
		t.Fatal("answer not recorded")
	}
}

func TestOrchestrator_AnswerMismatchLoggedNotFatal(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{{next: question("q1")}}}
	o, store, _ := newTestOrchestrator(svc)

	var logged bool
	o.SetLogf(func(string, ...any) { logged = true })

	selectQuickS1(t, o)
	fetchAndApply(t, o)

	if o.SubmitAnswer("q99", "yes") {
		t.Fatal("mismatched submit should return false")
	}
	if !logged {
		t.Fatal("mismatch not logged")
	}
	if store.Answered("q99") {
		t.Fatal("mismatched answer recorded")
	}
	if o.Outstanding() == nil {
		t.Fatal("outstanding question dropped by failed submit")
	}
}

func TestOrchestrator_StaleFetchDropped(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{{next: question("q1")}}}
	o, _, _ := newTestOrchestrator(svc)
	selectQuickS1(t, o)

	seq, ok := o.BeginFetch()
	if !ok {
		t.Fatal("BeginFetch refused")
	}
	res := o.FetchNext(context.Background(), seq)

	// A result with an outdated sequence number must be ignored.
	stale := FetchResult{Seq: seq - 1, Next: question("q0")}
	if outcome := o.ApplyFetch(stale); outcome != OutcomeStale {
		t.Fatalf("stale outcome = %v", outcome)
	}
	if o.Outstanding() != nil {
		t.Fatal("stale result installed a question")
	}

	if outcome := o.ApplyFetch(res); outcome != OutcomeQuestion {
		t.Fatalf("fresh outcome = %v", outcome)
	}

	// Replaying the already-applied result is also stale.
	if outcome := o.ApplyFetch(res); outcome != OutcomeStale {
		t.Fatalf("replay outcome = %v", outcome)
	}
}

func TestOrchestrator_TypingClearedOnFailure(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{{err: errors.New("boom")}}}
	o, _, messages := newTestOrchestrator(svc)
	selectQuickS1(t, o)

	seq, _ := o.BeginFetch()
	if !messages.Typing() {
		t.Fatal("typing not set during fetch")
	}

	if outcome := o.ApplyFetch(o.FetchNext(context.Background(), seq)); outcome != OutcomeError {
		t.Fatalf("outcome = %v", outcome)
	}
	if messages.Typing() {
		t.Fatal("typing not cleared on failure")
	}

	// The error path releases the guard; the next fetch can start.
	if _, ok := o.BeginFetch(); !ok {
		t.Fatal("fetch guard stuck after failure")
	}
}

func TestOrchestrator_PhaseCompleteAndAdvance(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{
		{next: &api.NextQuestion{PhaseComplete: true}},
	}}
	o, store, _ := newTestOrchestrator(svc)
	selectQuickS1(t, o)

	if outcome := fetchAndApply(t, o); outcome != OutcomePhaseComplete {
		t.Fatalf("outcome = %v", outcome)
	}
	if o.State() != StatePhaseComplete {
		t.Fatalf("state = %v", o.State())
	}

	if next := o.AdvancePhase(); next != api.PhaseDetailed {
		t.Fatalf("next phase = %s", next)
	}
	if store.AssessmentID() != "a1" {
		t.Fatal("assessment id lost across phases")
	}
	if o.State() != StateReady {
		t.Fatalf("state after advance = %v", o.State())
	}
}

func TestOrchestrator_AdvancePastLastPhaseCompletes(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{
		{next: &api.NextQuestion{PhaseComplete: true}},
	}}
	o, store, _ := newTestOrchestrator(svc)

	if err := o.SelectPhase(context.Background(), api.StandardS1, api.PhaseFollowup); err != nil {
		t.Fatalf("select phase: %v", err)
	}
	fetchAndApply(t, o)

	if next := o.AdvancePhase(); next != "" {
		t.Fatalf("expected no next phase, got %s", next)
	}
	if store.Status() != StatusCompleted {
		t.Fatalf("status = %s", store.Status())
	}
}

func TestOrchestrator_AlreadyAnsweredQuestionRejected(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{{next: question("q1")}}}
	o, store, _ := newTestOrchestrator(svc)
	selectQuickS1(t, o)
	store.AddAnswer("q1", "yes")

	if outcome := fetchAndApply(t, o); outcome != OutcomeError {
		t.Fatalf("outcome = %v", outcome)
	}
	if o.Outstanding() != nil {
		t.Fatal("answered question installed as outstanding")
	}
}

func TestOrchestrator_SkipReleasesGuard(t *testing.T) {
	svc := &fakeQuestionService{nextResults: []nextResult{
		{next: question("q1")},
		{next: question("q2")},
	}}
	o, _, messages := newTestOrchestrator(svc)
	selectQuickS1(t, o)
	fetchAndApply(t, o)

	o.Skip()
	if o.Outstanding() != nil || messages.CurrentQuestion() != "" {
		t.Fatal("skip left question state behind")
	}

	fetchAndApply(t, o)
	if o.Outstanding().ID != "q2" {
		t.Fatal("fetch after skip did not proceed")
	}
}
