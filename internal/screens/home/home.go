package home

import (
	"context"
	"log"

	tea "charm.land/bubbletea/v2"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/assessment"
	chatstate "github.com/complyx/complyx/internal/chat"
	"github.com/complyx/complyx/internal/config"
	"github.com/complyx/complyx/internal/router"
	"github.com/complyx/complyx/internal/screen"
	chatscreen "github.com/complyx/complyx/internal/screens/chat"
	"github.com/complyx/complyx/internal/screens/dashboard"
	"github.com/complyx/complyx/internal/screens/history"
	"github.com/complyx/complyx/internal/store"
	"github.com/complyx/complyx/internal/ui/components"
	"github.com/complyx/complyx/internal/ui/layout"
	"github.com/complyx/complyx/internal/ui/theme"
)

// Deps is everything the home screen needs to spawn the other screens.
type Deps struct {
	Client  *api.Client
	Store   *store.Store         // nil when local persistence is unavailable
	Prefs   store.PreferenceRepo // nil when local persistence is unavailable
	Config  config.Config
	User    *api.User // nil when anonymous
	Version string

	// Standard is the persisted IFRS standard selection; empty defaults
	// to S1.
	Standard api.Standard
}

// HomeScreen is the landing menu.
type HomeScreen struct {
	deps     Deps
	menu     components.Menu
	standard api.Standard
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

const (
	itemAssessS1 = iota
	itemAssessS2
	itemDashboard
	itemHistory
	itemQuit
)

// New creates the home screen. The cursor starts on the persisted standard's
// assessment entry.
func New(deps Deps) *HomeScreen {
	standard := deps.Standard
	if !standard.Valid() {
		standard = api.StandardS1
	}

	menu := components.NewMenu([]components.MenuItem{
		{Label: "IFRS S1 Assessment", Description: "General sustainability-related disclosures"},
		{Label: "IFRS S2 Assessment", Description: "Climate-related disclosures"},
		{Label: "Dashboard", Description: "Readiness score, gaps and compliance matrix"},
		{Label: "History", Description: "Resume a saved conversation", Disabled: deps.Store == nil},
		{Label: "Quit", Description: ""},
	})
	if standard == api.StandardS2 {
		menu.Select(itemAssessS2)
	}

	return &HomeScreen{deps: deps, menu: menu, standard: standard}
}

func (s *HomeScreen) Title() string { return "Home" }

func (s *HomeScreen) Init() tea.Cmd { return nil }

func (s *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑/↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.String() {
	case "up", "k":
		s.menu.Up()
	case "down", "j":
		s.menu.Down()
	case "q":
		return s, tea.Quit
	case "enter":
		return s, s.choose()
	}
	return s, nil
}

func (s *HomeScreen) choose() tea.Cmd {
	switch s.menu.Selected() {
	case itemAssessS1:
		s.setStandard(api.StandardS1)
		return push(s.newChatScreen(api.StandardS1, nil))
	case itemAssessS2:
		s.setStandard(api.StandardS2)
		return push(s.newChatScreen(api.StandardS2, nil))
	case itemDashboard:
		return push(dashboard.New(dashboard.Deps{
			Client:   s.deps.Client,
			User:     s.deps.User,
			Standard: s.standard,
		}))
	case itemHistory:
		if s.deps.Store == nil {
			return nil
		}
		return push(history.New(history.Deps{
			History: s.deps.Store.Sessions(),
			Resume: func(sess chatstate.Session) screen.Screen {
				return s.newChatScreen(s.standard, &sess)
			},
		}))
	default:
		return tea.Quit
	}
}

// setStandard records the chosen standard and persists it so the next launch
// starts there. The write is best effort.
func (s *HomeScreen) setStandard(standard api.Standard) {
	s.standard = standard
	if s.deps.Prefs == nil {
		return
	}
	if err := s.deps.Prefs.Set(context.Background(), store.StandardPreferenceKey, string(standard)); err != nil {
		log.Printf("home: save standard preference: %v", err)
	}
}

// newChatScreen assembles a fresh assessment pipeline. Stores, orchestrator
// and auto-saver are scoped to one conversation. A non-nil resume session
// reopens a persisted conversation instead of starting a new one.
func (s *HomeScreen) newChatScreen(standard api.Standard, resume *chatstate.Session) screen.Screen {
	messages := chatstate.NewMessageStore()
	sessions := chatstate.NewSessionStore()
	assess := assessment.NewStore()

	var repo store.SessionRepo
	if s.deps.Store != nil {
		repo = s.deps.Store.Sessions()
	}

	return chatscreen.New(chatscreen.Deps{
		Completer:    s.deps.Client,
		Orchestrator: assessment.NewOrchestrator(s.deps.Client, assess, messages),
		Syncer:       assessment.NewSyncer(s.deps.Client, assess),
		AutoSaver:    assessment.NewAutoSaver(s.deps.Client, assess, s.deps.Config.AutoSaveInterval),
		Assessment:   assess,
		Messages:     messages,
		Sessions:     sessions,
		History:      repo,
		Standard:     standard,
		RAG:          s.deps.Config.RAG,
		Resume:       resume,
	})
}

func push(next screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (s *HomeScreen) View(width, height int) string {
	greeting := "Welcome to ComplyX — your IFRS S1/S2 readiness companion."
	if s.deps.User != nil {
		greeting = "Welcome back, " + s.deps.User.Name + "."
	}

	body := theme.Body.Render(greeting) + "\n\n" + s.menu.View()
	if s.deps.User == nil {
		body += "\n\n" + theme.Hint.Render("Not signed in — run `complyx login` to sync assessments across devices.")
	}
	if s.deps.Version != "" {
		body += "\n\n" + theme.Hint.Render("complyx " + s.deps.Version)
	}

	return theme.Card.Width(width - 8).Render(body)
}
