package history

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/complyx/complyx/internal/chat"
	"github.com/complyx/complyx/internal/router"
	"github.com/complyx/complyx/internal/screen"
)

// fakeSessionRepo is an in-memory store.SessionRepo; only Sessions matters
// here.
type fakeSessionRepo struct {
	sessions []chat.Session
	err      error
}

func (f *fakeSessionRepo) SaveSession(context.Context, chat.Session) error { return nil }
func (f *fakeSessionRepo) Sessions(context.Context) ([]chat.Session, error) {
	return f.sessions, f.err
}
func (f *fakeSessionRepo) SaveMessage(context.Context, string, chat.Message) error { return nil }
func (f *fakeSessionRepo) DeleteMessage(context.Context, string) error             { return nil }
func (f *fakeSessionRepo) Messages(context.Context, string) ([]chat.Message, error) {
	return nil, nil
}

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                              { return nil }
func (stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd)    { return stubScreen{}, nil }
func (stubScreen) View(int, int) string                       { return "" }
func (stubScreen) Title() string                              { return "stub" }

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func loadedScreen(t *testing.T, repo *fakeSessionRepo, resume func(chat.Session) screen.Screen) *HistoryScreen {
	t.Helper()
	s := New(Deps{History: repo, Resume: resume})
	msg := s.Init()()
	scr, _ := s.Update(msg)
	return scr.(*HistoryScreen)
}

func TestHistoryScreen_ListsNewestFirst(t *testing.T) {
	repo := &fakeSessionRepo{sessions: []chat.Session{
		{ID: "old", Preview: "first talk", MessageCount: 4},
		{ID: "new", Preview: "second talk", MessageCount: 2},
	}}
	s := loadedScreen(t, repo, nil)

	if len(s.sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(s.sessions))
	}
	if s.sessions[0].ID != "new" || s.sessions[1].ID != "old" {
		t.Errorf("order = %s, %s; want newest first", s.sessions[0].ID, s.sessions[1].ID)
	}
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty view")
	}
}

func TestHistoryScreen_EnterResumesSelected(t *testing.T) {
	repo := &fakeSessionRepo{sessions: []chat.Session{
		{ID: "old", Preview: "first talk"},
		{ID: "new", Preview: "second talk"},
	}}

	var resumed string
	s := loadedScreen(t, repo, func(sess chat.Session) screen.Screen {
		resumed = sess.ID
		return stubScreen{}
	})

	// Move to the second (older) entry and resume it.
	scr, _ := s.Update(specialKey(tea.KeyDown))
	_, cmd := scr.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}

	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("message = %T, want a screen replace", cmd())
	}
	if _, ok := msg.Screen.(stubScreen); !ok {
		t.Fatalf("screen = %T, want the resumed screen", msg.Screen)
	}
	if resumed != "old" {
		t.Errorf("resumed = %q, want the selected session", resumed)
	}
}

func TestHistoryScreen_EmptyAndError(t *testing.T) {
	s := loadedScreen(t, &fakeSessionRepo{}, nil)
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("enter on an empty list should be a no-op")
	}
	if view := s.View(80, 24); view == "" {
		t.Error("expected an empty-state view")
	}

	s = loadedScreen(t, &fakeSessionRepo{err: errors.New("disk gone")}, nil)
	if s.errMsg == "" {
		t.Error("load failure not surfaced")
	}
	if view := s.View(80, 24); view == "" {
		t.Error("expected an error view")
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := loadedScreen(t, &fakeSessionRepo{}, nil)
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop the screen")
	}
}
