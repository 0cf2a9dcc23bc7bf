package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/assessment"
	chatstate "github.com/complyx/complyx/internal/chat"
)

// fakeBackend implements the orchestrator and syncer service surfaces with a
// scripted queue of next-question results. An empty queue reports the phase
// complete.
type fakeBackend struct {
	queue      []nextResult
	nextCalls  int
	startCalls int
}

type nextResult struct {
	next *api.NextQuestion
	err  error
}

func (f *fakeBackend) StartAssessment(_ context.Context, _ api.Standard, _ api.Phase) (*api.StartAssessmentResult, error) {
	f.startCalls++
	return &api.StartAssessmentResult{AssessmentID: "assessment-1", Status: "in_progress"}, nil
}

func (f *fakeBackend) NextQuestion(_ context.Context, _ api.Standard, _ api.Phase, _ string, _ []string) (*api.NextQuestion, error) {
	f.nextCalls++
	if len(f.queue) == 0 {
		return &api.NextQuestion{PhaseComplete: true}, nil
	}
	r := f.queue[0]
	f.queue = f.queue[1:]
	return r.next, r.err
}

func (f *fakeBackend) CalculateProgress(_ context.Context, _ api.Standard, _ api.Phase, _ string, answered []string) (*api.Progress, error) {
	return &api.Progress{Answered: len(answered), Total: 10, Percentage: float64(len(answered)) * 10}, nil
}

func (f *fakeBackend) CalculateScores(_ context.Context, _ api.Standard, _ string, _ []api.Answer) (*api.Score, error) {
	return &api.Score{Overall: 42}, nil
}

// fakeCompleter scripts free-form completion replies.
type fakeCompleter struct {
	replies []string
	err     error
	calls   int
	lastReq api.ChatRequest
}

func (f *fakeCompleter) Chat(_ context.Context, req api.ChatRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

// fakeSessionRepo is an in-memory store.SessionRepo.
type fakeSessionRepo struct {
	sessions []chatstate.Session
	messages map[string][]chatstate.Message
	deleted  []string
}

func (f *fakeSessionRepo) SaveSession(_ context.Context, sess chatstate.Session) error {
	for i, s := range f.sessions {
		if s.ID == sess.ID {
			f.sessions[i] = sess
			return nil
		}
	}
	f.sessions = append(f.sessions, sess)
	return nil
}

func (f *fakeSessionRepo) Sessions(_ context.Context) ([]chatstate.Session, error) {
	return f.sessions, nil
}

func (f *fakeSessionRepo) SaveMessage(_ context.Context, sessionID string, msg chatstate.Message) error {
	if f.messages == nil {
		f.messages = make(map[string][]chatstate.Message)
	}
	f.messages[sessionID] = append(f.messages[sessionID], msg)
	return nil
}

func (f *fakeSessionRepo) DeleteMessage(_ context.Context, messageID string) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeSessionRepo) Messages(_ context.Context, sessionID string) ([]chatstate.Message, error) {
	return f.messages[sessionID], nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func testChatScreen(backend *fakeBackend, completer *fakeCompleter, deps func(*Deps)) *ChatScreen {
	messages := chatstate.NewMessageStore()
	sessions := chatstate.NewSessionStore()
	assess := assessment.NewStore()

	d := Deps{
		Completer:    completer,
		Orchestrator: assessment.NewOrchestrator(backend, assess, messages),
		Syncer:       assessment.NewSyncer(backend, assess),
		Assessment:   assess,
		Messages:     messages,
		Sessions:     sessions,
		Standard:     api.StandardS1,
	}
	if deps != nil {
		deps(&d)
	}

	d.Orchestrator.SetLogf(func(string, ...any) {})
	d.Syncer.SetLogf(func(string, ...any) {})
	return New(d)
}

// collect runs a command tree and flattens the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver runs a command and feeds its messages back through Update until
// the screen settles. Animation messages are dropped so ticks do not recurse.
func deliver(t *testing.T, s *ChatScreen, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case phaseStartedMsg, questionFetchedMsg, chatReplyMsg,
			progressUpdatedMsg, scoresUpdatedMsg, messagesLoadedMsg:
			_, next := s.Update(msg)
			deliver(t, s, next)
		}
	}
}

func lastMessage(t *testing.T, s *ChatScreen) chatstate.Message {
	t.Helper()
	msgs := s.deps.Messages.Messages()
	if len(msgs) == 0 {
		t.Fatal("no messages")
	}
	return msgs[len(msgs)-1]
}

func containsMessage(s *ChatScreen, substr string) bool {
	for _, m := range s.deps.Messages.Messages() {
		if strings.Contains(m.Content, substr) {
			return true
		}
	}
	return false
}

func TestChatScreen_Title(t *testing.T) {
	s := testChatScreen(&fakeBackend{}, &fakeCompleter{}, nil)
	if s.Title() != "Assessment · IFRS S1" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestChatScreen_QuickPhaseToCompletionInvite(t *testing.T) {
	backend := &fakeBackend{queue: []nextResult{
		{next: &api.NextQuestion{Question: &api.Question{ID: "q1", Text: "Does a board committee oversee sustainability risks?"}}},
	}}
	s := testChatScreen(backend, &fakeCompleter{}, nil)
	_ = s.Init()

	// Select the quick phase; the first question arrives.
	_, cmd := s.Update(keyPress('1'))
	deliver(t, s, cmd)

	if backend.startCalls != 1 {
		t.Fatalf("start calls = %d, want 1", backend.startCalls)
	}
	q := s.deps.Orchestrator.Outstanding()
	if q == nil || q.ID != "q1" {
		t.Fatalf("outstanding = %+v, want q1", q)
	}
	if !containsMessage(s, "board committee") {
		t.Error("question text not surfaced in the conversation")
	}

	// Answer it; the queue is empty, so the phase completes.
	s.input.SetValue("Yes, the audit committee.")
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	deliver(t, s, cmd)

	if s.deps.Orchestrator.State() != assessment.StatePhaseComplete {
		t.Fatalf("state = %v, want phase complete", s.deps.Orchestrator.State())
	}
	if got := s.deps.Assessment.Answers(); len(got) != 1 || got[0].QuestionID != "q1" {
		t.Fatalf("answers = %+v", got)
	}
	if !containsMessage(s, "Press Ctrl+N to continue with the detailed assessment") {
		t.Error("expected an invite to the next phase")
	}
	if s.deps.Messages.Typing() {
		t.Error("typing indicator left on after phase completion")
	}

	// Ctrl+N enters the next phase and fetches again.
	calls := backend.nextCalls
	_, cmd = s.Update(ctrlKey('n'))
	deliver(t, s, cmd)
	if backend.nextCalls != calls+1 {
		t.Errorf("next calls = %d, want %d", backend.nextCalls, calls+1)
	}
	if !containsMessage(s, "Starting the detailed assessment") {
		t.Error("expected a note announcing the next phase")
	}
}

func TestChatScreen_RetryAfterFailedFetch(t *testing.T) {
	backend := &fakeBackend{queue: []nextResult{
		{err: errors.New("connection reset")},
		{next: &api.NextQuestion{Question: &api.Question{ID: "q1", Text: "First question"}}},
	}}
	s := testChatScreen(backend, &fakeCompleter{}, nil)
	_ = s.Init()

	_, cmd := s.Update(keyPress('1'))
	deliver(t, s, cmd)

	if backend.nextCalls != 1 {
		t.Fatalf("next calls = %d, want 1", backend.nextCalls)
	}
	if !containsMessage(s, "Press Enter to try the next question again") {
		t.Fatal("expected a retry hint after the failed fetch")
	}
	if s.deps.Messages.Typing() {
		t.Error("typing indicator left on after fetch failure")
	}

	hints := s.KeyHints()
	if len(hints) == 0 || hints[0].Description != "Retry" {
		t.Errorf("key hints = %+v, want retry first", hints)
	}

	// Enter on an empty input re-fetches instead of stalling.
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	deliver(t, s, cmd)

	if backend.nextCalls != 2 {
		t.Fatalf("next calls = %d, want 2 after retry", backend.nextCalls)
	}
	q := s.deps.Orchestrator.Outstanding()
	if q == nil || q.ID != "q1" {
		t.Fatalf("outstanding after retry = %+v, want q1", q)
	}
	if s.retryPending {
		t.Error("retry flag not cleared by the successful fetch")
	}
}

func TestChatScreen_ChatFailureApology(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("bad gateway")}
	s := testChatScreen(&fakeBackend{}, completer, nil)
	_ = s.Init()

	s.input.SetValue("What does S1 require for governance?")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	deliver(t, s, cmd)

	if completer.calls != 1 {
		t.Fatalf("completion calls = %d, want exactly 1", completer.calls)
	}
	last := lastMessage(t, s)
	if last.Role != chatstate.RoleAssistant || !strings.Contains(last.Content, "I'm sorry") {
		t.Errorf("last message = %+v, want an apology", last)
	}
	if s.deps.Messages.Typing() {
		t.Error("typing indicator left on after completion failure")
	}
	if s.chatInFlight {
		t.Error("in-flight flag left set after completion failure")
	}
}

func TestChatScreen_ChatRoundTrip(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"S1 asks for board-level oversight."}}
	s := testChatScreen(&fakeBackend{}, completer, nil)
	_ = s.Init()

	s.input.SetValue("What does S1 require?")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	deliver(t, s, cmd)

	if completer.calls != 1 {
		t.Fatalf("completion calls = %d, want 1", completer.calls)
	}
	if completer.lastReq.Message != "What does S1 require?" {
		t.Errorf("request message = %q", completer.lastReq.Message)
	}
	for _, m := range completer.lastReq.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			t.Errorf("system note leaked into completion history: %+v", m)
		}
	}
	if got := lastMessage(t, s).Content; got != "S1 asks for board-level oversight." {
		t.Errorf("reply = %q", got)
	}
	if s.deps.Messages.Typing() {
		t.Error("typing indicator left on after reply")
	}
}

func TestChatScreen_EditTruncateResubmit(t *testing.T) {
	completer := &fakeCompleter{replies: []string{"first reply", "second reply"}}
	s := testChatScreen(&fakeBackend{}, completer, nil)
	_ = s.Init()

	s.input.SetValue("hello")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	deliver(t, s, cmd)

	// Ctrl+E loads the last user message for editing.
	_, _ = s.Update(ctrlKey('e'))
	if s.input.Value() != "hello" {
		t.Fatalf("input after edit = %q, want original text", s.input.Value())
	}

	s.input.SetValue("hello, revised")
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	deliver(t, s, cmd)

	if completer.calls != 2 {
		t.Fatalf("completion calls = %d, want 2", completer.calls)
	}
	if completer.lastReq.Message != "hello, revised" {
		t.Errorf("resubmitted message = %q", completer.lastReq.Message)
	}

	msgs := s.deps.Messages.Messages()
	// Welcome note, edited user message, fresh reply — the first reply is gone.
	if len(msgs) != 3 {
		t.Fatalf("message count = %d, want 3: %+v", len(msgs), msgs)
	}
	if msgs[1].Content != "hello, revised" || !msgs[1].IsUser() {
		t.Errorf("edited message = %+v", msgs[1])
	}
	if msgs[2].Content != "second reply" {
		t.Errorf("reply after edit = %q", msgs[2].Content)
	}
	if containsMessage(s, "first reply") {
		t.Error("stale reply survived the edit truncation")
	}
}

func TestChatScreen_ResumeRestoresHistory(t *testing.T) {
	now := time.Now()
	repo := &fakeSessionRepo{
		sessions: []chatstate.Session{{ID: "sess-1", Preview: "earlier talk", MessageCount: 2}},
		messages: map[string][]chatstate.Message{
			"sess-1": {
				{ID: "m1", Role: chatstate.RoleUser, Content: "earlier question", Status: chatstate.StatusSent, Timestamp: now.Add(-time.Hour)},
				{ID: "m2", Role: chatstate.RoleAssistant, Content: "earlier answer", Status: chatstate.StatusDelivered, Timestamp: now.Add(-time.Hour)},
			},
		},
	}

	s := testChatScreen(&fakeBackend{}, &fakeCompleter{}, func(d *Deps) {
		d.History = repo
		d.Resume = &chatstate.Session{ID: "sess-1", Preview: "earlier talk", MessageCount: 2}
	})
	deliver(t, s, s.Init())

	if s.sessionID != "sess-1" {
		t.Fatalf("session id = %q, want resumed id", s.sessionID)
	}
	msgs := s.deps.Messages.Messages()
	if len(msgs) != 3 { // two restored plus the resumed note
		t.Fatalf("message count = %d: %+v", len(msgs), msgs)
	}
	if msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Errorf("restored ids = %q, %q; want originals preserved", msgs[0].ID, msgs[1].ID)
	}
	if !containsMessage(s, "Conversation resumed") {
		t.Error("expected a resumed note")
	}
	if s.deps.Sessions.ActiveID() != "sess-1" {
		t.Errorf("active session = %q", s.deps.Sessions.ActiveID())
	}

	// New turns keep writing into the resumed session.
	s.input.SetValue("continuing on")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	deliver(t, s, cmd)

	stored := repo.messages["sess-1"]
	if len(stored) < 3 {
		t.Fatalf("persisted messages = %d, want new turns appended", len(stored))
	}
}
