package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/config"
	"github.com/complyx/complyx/internal/router"
	"github.com/complyx/complyx/internal/screen"
	"github.com/complyx/complyx/internal/screens/home"
	"github.com/complyx/complyx/internal/store"
	"github.com/complyx/complyx/internal/ui/layout"
)

// Options carries the dependencies the TUI needs.
type Options struct {
	Client  *api.Client
	Store   *store.Store // nil when local persistence is unavailable
	Config  config.Config
	User    *api.User // nil when anonymous
	Version string

	// Standard is the persisted IFRS standard selection, empty when unset.
	Standard api.Standard
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	account string
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	var prefs store.PreferenceRepo
	if opts.Store != nil {
		prefs = opts.Store.Preferences()
	}

	homeScreen := home.New(home.Deps{
		Client:   opts.Client,
		Store:    opts.Store,
		Prefs:    prefs,
		Config:   opts.Config,
		User:     opts.User,
		Version:  opts.Version,
		Standard: opts.Standard,
	})

	account := ""
	if opts.User != nil {
		account = opts.User.Email
	}

	return AppModel{
		router:  router.New(homeScreen),
		account: account,
	}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.account, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hinted, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hinted.KeyHints(), footerHints...)
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program. Background tasks owned by stacked
// screens (auto-save, in-flight fetches) are torn down before returning.
func Run(opts Options) error {
	model := newAppModel(opts)
	defer model.router.TeardownAll()

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
