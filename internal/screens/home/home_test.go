package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/router"
	chatscreen "github.com/complyx/complyx/internal/screens/chat"
	"github.com/complyx/complyx/internal/screens/dashboard"
	"github.com/complyx/complyx/internal/store"
)

// fakePrefs is an in-memory store.PreferenceRepo.
type fakePrefs struct {
	values map[string]string
}

func (f *fakePrefs) Set(_ context.Context, key, value string) error {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
	return nil
}

func (f *fakePrefs) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestHomeScreen_PreselectsPersistedStandard(t *testing.T) {
	s := New(Deps{Standard: api.StandardS2})
	if s.menu.Selected() != itemAssessS2 {
		t.Errorf("cursor = %d, want the S2 entry", s.menu.Selected())
	}

	s = New(Deps{})
	if s.menu.Selected() != itemAssessS1 {
		t.Errorf("cursor = %d, want the S1 default", s.menu.Selected())
	}

	s = New(Deps{Standard: api.Standard("bogus")})
	if s.standard != api.StandardS1 {
		t.Errorf("standard = %q, want S1 fallback", s.standard)
	}
}

func TestHomeScreen_SelectionPersistsStandard(t *testing.T) {
	prefs := &fakePrefs{}
	s := New(Deps{Prefs: prefs})

	// Move to the S2 assessment and select it.
	_, _ = s.Update(keyPress('j'))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}

	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("message = %T, want a screen push", cmd())
	}
	if _, ok := msg.Screen.(*chatscreen.ChatScreen); !ok {
		t.Fatalf("pushed screen = %T, want the chat screen", msg.Screen)
	}

	if got := prefs.values[store.StandardPreferenceKey]; got != "S2" {
		t.Errorf("persisted standard = %q, want S2", got)
	}
	if s.standard != api.StandardS2 {
		t.Errorf("screen standard = %q, want S2", s.standard)
	}
}

func TestHomeScreen_DashboardOpensOnPreferredStandard(t *testing.T) {
	s := New(Deps{Standard: api.StandardS2})

	// Cursor starts on S2; move down to the dashboard entry.
	_, _ = s.Update(keyPress('j'))
	_, cmd := s.Update(specialKey(tea.KeyEnter))

	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("message = %T, want a screen push", cmd())
	}
	dash, ok := msg.Screen.(*dashboard.DashboardScreen)
	if !ok {
		t.Fatalf("pushed screen = %T, want the dashboard", msg.Screen)
	}
	if dash.Title() != "Dashboard · IFRS S2" {
		t.Errorf("dashboard title = %q", dash.Title())
	}
}

func TestHomeScreen_HistoryDisabledWithoutStore(t *testing.T) {
	s := New(Deps{})
	s.menu.Select(itemDashboard)
	s.menu.Down()
	if s.menu.Selected() != itemQuit {
		t.Errorf("cursor = %d, want history skipped when no store", s.menu.Selected())
	}
}

func TestHomeScreen_SelectionWithoutPrefsIsSafe(t *testing.T) {
	s := New(Deps{})
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatal("S1 selection should still push the chat screen")
	}
}
