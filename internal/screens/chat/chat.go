package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/assessment"
	chatstate "github.com/complyx/complyx/internal/chat"
	"github.com/complyx/complyx/internal/config"
	"github.com/complyx/complyx/internal/screen"
	"github.com/complyx/complyx/internal/store"
	"github.com/complyx/complyx/internal/ui/components"
	"github.com/complyx/complyx/internal/ui/layout"
)

// Completer is the free-form chat completion surface. Satisfied by
// *api.Client.
type Completer interface {
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
}

// Deps wires the chat screen to its collaborators. Everything is injected;
// the screen owns no global state.
type Deps struct {
	Completer    Completer
	Orchestrator *assessment.Orchestrator
	Syncer       *assessment.Syncer
	AutoSaver    *assessment.AutoSaver
	Assessment   *assessment.Store
	Messages     *chatstate.MessageStore
	Sessions     *chatstate.SessionStore
	History      store.SessionRepo // nil disables persistence
	Standard     api.Standard
	RAG          config.RAGConfig

	// Resume restores a persisted conversation instead of creating a new
	// one. Requires History.
	Resume *chatstate.Session
}

// ChatScreen is the conversation page: message history, the active question
// card when one is outstanding, and a free-form chat input otherwise.
// Exactly one of the two input modes is active at a time.
type ChatScreen struct {
	deps  Deps
	input components.TextInput

	sessionID string
	frame     int
	scroll    int

	// chatSeq correlates free-form completion requests; replies with an
	// older sequence are dropped.
	chatSeq      uint64
	chatInFlight bool

	editingID string // user message being edited, "" when not editing

	// retryPending marks a failed next-question fetch; Enter on an empty
	// input re-fetches instead of sending a chat message.
	retryPending bool

	autosaveCancel context.CancelFunc
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.Teardowner = (*ChatScreen)(nil)

// New creates the chat screen.
func New(deps Deps) *ChatScreen {
	return &ChatScreen{
		deps:  deps,
		input: components.NewTextInput("Ask anything about IFRS "+string(deps.Standard)+"…", 500),
	}
}

func (s *ChatScreen) Title() string {
	return "Assessment · IFRS " + string(s.deps.Standard)
}

func (s *ChatScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.input.Init(), typingTick()}

	if s.deps.Resume != nil && s.deps.History != nil {
		s.sessionID = s.deps.Resume.ID
		s.deps.Sessions.Restore(*s.deps.Resume)
		s.deps.Sessions.SetActive(s.sessionID)

		history := s.deps.History
		id := s.sessionID
		cmds = append(cmds, func() tea.Msg {
			msgs, err := history.Messages(context.Background(), id)
			return messagesLoadedMsg{Messages: msgs, Err: err}
		})
		return tea.Batch(cmds...)
	}

	s.sessionID = s.deps.Sessions.Create()
	s.deps.Sessions.SetActive(s.sessionID)
	s.persistSession()

	s.appendSystem(fmt.Sprintf(
		"Welcome to the IFRS %s readiness assessment. Press 1 for a quick scan, 2 for a detailed assessment, 3 for follow-up questions — or just ask a question.",
		s.deps.Standard))

	return tea.Batch(cmds...)
}

// Teardown cancels the auto-save task. Called when the screen leaves the
// stack or the app quits.
func (s *ChatScreen) Teardown() {
	s.stopAutoSave()
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if s.retryPending {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if s.deps.Orchestrator.Outstanding() != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Answer"},
			{Key: "Ctrl+K", Description: "Skip"},
			{Key: "Esc", Description: "Back"},
		}
	}
	if s.deps.Orchestrator.State() == assessment.StatePhaseComplete {
		return []layout.KeyHint{
			{Key: "Ctrl+N", Description: "Next phase"},
			{Key: "Enter", Description: "Send"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+E", Description: "Edit last"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case phaseStartedMsg:
		return s.handlePhaseStarted(msg)

	case questionFetchedMsg:
		return s.handleQuestionFetched(msg)

	case chatReplyMsg:
		return s.handleChatReply(msg)

	case progressUpdatedMsg:
		if msg.Err != nil {
			log.Printf("chat: progress update failed: %v", msg.Err)
		}
		return s, nil

	case scoresUpdatedMsg:
		// Failures already logged by the syncer; nothing to surface.
		return s, nil

	case messagesLoadedMsg:
		// These notes are local chrome; they are not written to history so
		// resuming twice does not pile them up.
		if msg.Err != nil {
			log.Printf("chat: load messages: %v", msg.Err)
			s.deps.Messages.Add(chatstate.RoleSystem, "Could not load this conversation's history.", chatstate.StatusDelivered, "")
			return s, nil
		}
		for _, m := range msg.Messages {
			s.deps.Messages.Restore(m)
		}
		s.deps.Messages.Add(chatstate.RoleSystem,
			"Conversation resumed. Ask a question or press 1, 2 or 3 to start an assessment phase.",
			chatstate.StatusDelivered, "")
		return s, nil

	case typingTickMsg:
		s.frame++
		return s, typingTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3":
		// Digits select a phase only before any phase is active; afterwards
		// they are ordinary input.
		if s.deps.Orchestrator.State() == assessment.StateNoPhase && s.input.Value() == "" {
			phase := map[string]api.Phase{
				"1": api.PhaseQuick,
				"2": api.PhaseDetailed,
				"3": api.PhaseFollowup,
			}[msg.String()]
			return s, s.selectPhase(phase)
		}

	case "enter":
		if s.retryPending && s.input.Value() == "" {
			return s, s.fetchNext()
		}
		return s.submit()

	case "ctrl+e":
		s.beginEdit()
		return s, nil

	case "ctrl+k":
		if s.deps.Orchestrator.Outstanding() != nil {
			s.deps.Orchestrator.Skip()
			s.appendSystem("Question skipped.")
			return s, s.fetchNext()
		}
		return s, nil

	case "ctrl+n":
		return s.advancePhase()

	case "up":
		s.scroll++
		return s, nil

	case "down":
		if s.scroll > 0 {
			s.scroll--
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit routes the input: an outstanding question consumes it as an
// answer, an in-progress edit resubmits, anything else goes to the
// completion endpoint.
func (s *ChatScreen) submit() (screen.Screen, tea.Cmd) {
	text := s.input.Value()
	if text == "" {
		return s, nil
	}

	if s.editingID != "" {
		return s.applyEdit(text)
	}

	if q := s.deps.Orchestrator.Outstanding(); q != nil {
		return s.submitAnswer(q, text)
	}

	return s.sendChat(text)
}

func (s *ChatScreen) submitAnswer(q *api.Question, value string) (screen.Screen, tea.Cmd) {
	m := s.deps.Messages.Add(chatstate.RoleUser, value, chatstate.StatusSent, q.ID)
	s.persistMessage(m)
	s.input.Reset()

	if !s.deps.Orchestrator.SubmitAnswer(q.ID, value) {
		return s, nil
	}
	s.syncSession(value)

	// Progress and scores are background syncs; the next question fetch is
	// the critical path and never waits for them.
	return s, tea.Batch(s.updateProgress(), s.recalculateScores(), s.fetchNext())
}

func (s *ChatScreen) sendChat(text string) (screen.Screen, tea.Cmd) {
	if s.chatInFlight {
		return s, nil
	}

	m := s.deps.Messages.Add(chatstate.RoleUser, text, chatstate.StatusSent, "")
	s.persistMessage(m)
	s.syncSession(text)
	s.input.Reset()

	s.chatSeq++
	s.chatInFlight = true
	s.deps.Messages.SetTyping(true)

	seq := s.chatSeq
	history := s.completionHistory()
	req := api.ChatRequest{
		Message:  text,
		Messages: history,
		UseRAG:   s.deps.RAG.Enabled,
		RAGTopK:  s.deps.RAG.TopK,
		RAGMin:   s.deps.RAG.MinScore,
	}
	completer := s.deps.Completer
	return s, func() tea.Msg {
		reply, err := completer.Chat(context.Background(), req)
		return chatReplyMsg{Seq: seq, Reply: reply, Err: err}
	}
}

func (s *ChatScreen) handleChatReply(msg chatReplyMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.chatSeq {
		return s, nil // superseded by a newer send
	}
	s.chatInFlight = false
	s.deps.Messages.SetTyping(false)

	if msg.Err != nil {
		log.Printf("chat: completion failed: %v", msg.Err)
		s.appendAssistant(apology(msg.Err), "")
		return s, nil
	}

	s.appendAssistant(msg.Reply, "")
	return s, nil
}

func (s *ChatScreen) selectPhase(phase api.Phase) tea.Cmd {
	orch := s.deps.Orchestrator
	standard := s.deps.Standard
	return func() tea.Msg {
		err := orch.SelectPhase(context.Background(), standard, phase)
		return phaseStartedMsg{Phase: phase, Err: err}
	}
}

func (s *ChatScreen) handlePhaseStarted(msg phaseStartedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		log.Printf("chat: phase start failed: %v", msg.Err)
		s.appendAssistant(apology(msg.Err), "")
		return s, nil
	}

	s.startAutoSave()
	s.appendSystem(fmt.Sprintf("Starting the %s assessment for IFRS %s.", msg.Phase, s.deps.Standard))
	return s, s.fetchNext()
}

// fetchNext reserves and runs a next-question fetch. The reservation fails
// while a question is outstanding or a fetch is in flight.
func (s *ChatScreen) fetchNext() tea.Cmd {
	seq, ok := s.deps.Orchestrator.BeginFetch()
	if !ok {
		return nil
	}
	s.retryPending = false
	orch := s.deps.Orchestrator
	return func() tea.Msg {
		return questionFetchedMsg{Result: orch.FetchNext(context.Background(), seq)}
	}
}

func (s *ChatScreen) handleQuestionFetched(msg questionFetchedMsg) (screen.Screen, tea.Cmd) {
	switch s.deps.Orchestrator.ApplyFetch(msg.Result) {
	case assessment.OutcomeStale:
		return s, nil

	case assessment.OutcomeQuestion:
		q := s.deps.Orchestrator.Outstanding()
		m := s.deps.Messages.Add(chatstate.RoleAssistant, q.Text, chatstate.StatusDelivered, q.ID)
		s.persistMessage(m)
		s.syncSession(q.Text)
		return s, nil

	case assessment.OutcomePhaseComplete:
		phase := s.deps.Assessment.Phase()
		if next := phase.Next(); next != "" {
			s.appendSystem(fmt.Sprintf(
				"The %s phase is complete. Press Ctrl+N to continue with the %s assessment.", phase, next))
		} else {
			s.appendSystem("All assessment phases are complete. Check the dashboard for your readiness report.")
		}
		return s, tea.Batch(s.updateProgress(), s.recalculateScores())

	default: // OutcomeError
		if msg.Result.Err != nil {
			log.Printf("chat: question fetch failed: %v", msg.Result.Err)
		}
		s.retryPending = true
		s.appendAssistant(apology(msg.Result.Err), "")
		s.appendSystem("Press Enter to try the next question again.")
		return s, nil
	}
}

func (s *ChatScreen) advancePhase() (screen.Screen, tea.Cmd) {
	if s.deps.Orchestrator.State() != assessment.StatePhaseComplete {
		return s, nil
	}
	next := s.deps.Orchestrator.AdvancePhase()
	if next == "" {
		s.stopAutoSave()
		return s, nil
	}
	s.appendSystem(fmt.Sprintf("Starting the %s assessment for IFRS %s.", next, s.deps.Standard))
	return s, s.fetchNext()
}

// beginEdit loads the most recent user message into the input.
func (s *ChatScreen) beginEdit() {
	if s.deps.Orchestrator.Outstanding() != nil || s.chatInFlight {
		return
	}
	msgs := s.deps.Messages.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsUser() {
			s.editingID = msgs[i].ID
			s.input.SetValue(msgs[i].Content)
			return
		}
	}
}

// applyEdit replaces the edited message's content, drops the assistant
// replies it produced, and resubmits it as a fresh completion.
func (s *ChatScreen) applyEdit(text string) (screen.Screen, tea.Cmd) {
	id := s.editingID
	s.editingID = ""

	content := text
	s.deps.Messages.Update(id, chatstate.MessagePatch{Content: &content})
	dropped := s.droppedByTruncate(id)
	s.deps.Messages.TruncateAfter(id)
	for _, droppedID := range dropped {
		s.unpersistMessage(droppedID)
	}
	if m, ok := s.deps.Messages.Get(id); ok {
		s.persistMessage(m)
	}
	s.input.Reset()

	s.chatSeq++
	s.chatInFlight = true
	s.deps.Messages.SetTyping(true)

	seq := s.chatSeq
	req := api.ChatRequest{
		Message:  text,
		Messages: s.completionHistory(),
		UseRAG:   s.deps.RAG.Enabled,
		RAGTopK:  s.deps.RAG.TopK,
		RAGMin:   s.deps.RAG.MinScore,
	}
	completer := s.deps.Completer
	return s, func() tea.Msg {
		reply, err := completer.Chat(context.Background(), req)
		return chatReplyMsg{Seq: seq, Reply: reply, Err: err}
	}
}

// droppedByTruncate lists the assistant message ids TruncateAfter(id) will
// remove, for history persistence cleanup.
func (s *ChatScreen) droppedByTruncate(id string) []string {
	msgs := s.deps.Messages.Messages()
	var out []string
	found := false
	for _, m := range msgs {
		if m.ID == id {
			found = true
			continue
		}
		if !found {
			continue
		}
		if m.IsUser() {
			break
		}
		out = append(out, m.ID)
	}
	return out
}

func (s *ChatScreen) updateProgress() tea.Cmd {
	syncer := s.deps.Syncer
	return func() tea.Msg {
		return progressUpdatedMsg{Err: syncer.UpdateProgress(context.Background())}
	}
}

func (s *ChatScreen) recalculateScores() tea.Cmd {
	syncer := s.deps.Syncer
	return func() tea.Msg {
		return scoresUpdatedMsg{Err: syncer.RecalculateScores(context.Background())}
	}
}

func (s *ChatScreen) startAutoSave() {
	if s.autosaveCancel != nil || s.deps.AutoSaver == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.autosaveCancel = cancel
	go s.deps.AutoSaver.Run(ctx)
}

func (s *ChatScreen) stopAutoSave() {
	if s.autosaveCancel != nil {
		s.autosaveCancel()
		s.autosaveCancel = nil
	}
}

func (s *ChatScreen) appendSystem(text string) {
	m := s.deps.Messages.Add(chatstate.RoleSystem, text, chatstate.StatusDelivered, "")
	s.persistMessage(m)
}

func (s *ChatScreen) appendAssistant(text, questionID string) {
	m := s.deps.Messages.Add(chatstate.RoleAssistant, text, chatstate.StatusDelivered, questionID)
	s.persistMessage(m)
	s.syncSession(text)
}

// completionHistory converts the visible conversation into completion
// context. System notes are local UI chrome and excluded.
func (s *ChatScreen) completionHistory() []api.ChatMessage {
	msgs := s.deps.Messages.Messages()
	out := make([]api.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case chatstate.RoleUser:
			out = append(out, api.ChatMessage{Role: "user", Content: m.Content})
		case chatstate.RoleAssistant:
			out = append(out, api.ChatMessage{Role: "assistant", Content: m.Content})
		}
	}
	return out
}

// persistMessage and syncSession are best-effort; chat flow never blocks on
// local history writes.
func (s *ChatScreen) persistMessage(m chatstate.Message) {
	if s.deps.History == nil {
		return
	}
	if err := s.deps.History.SaveMessage(context.Background(), s.sessionID, m); err != nil {
		log.Printf("chat: persist message: %v", err)
	}
}

func (s *ChatScreen) unpersistMessage(id string) {
	if s.deps.History == nil {
		return
	}
	if err := s.deps.History.DeleteMessage(context.Background(), id); err != nil {
		log.Printf("chat: delete message: %v", err)
	}
}

func (s *ChatScreen) persistSession() {
	if s.deps.History == nil {
		return
	}
	if sess, ok := s.deps.Sessions.Get(s.sessionID); ok {
		if err := s.deps.History.SaveSession(context.Background(), sess); err != nil {
			log.Printf("chat: persist session: %v", err)
		}
	}
}

func (s *ChatScreen) syncSession(latest string) {
	s.deps.Sessions.UpdatePreview(s.sessionID, latest)
	s.deps.Sessions.UpdateMessageCount(s.sessionID, s.deps.Messages.Len())
	s.persistSession()
}

// apology renders a backend failure as an inline assistant message instead
// of blocking the conversation.
func apology(err error) string {
	switch api.Classify(err) {
	case api.KindAuth:
		return "I couldn't reach your account — please log in again with `complyx login` and retry."
	case api.KindRateLimit:
		return "I'm receiving too many requests right now. Please wait a moment and try again."
	default:
		return "I'm sorry, I ran into a problem processing that. Please try again."
	}
}

func typingTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return typingTickMsg(t)
	})
}
