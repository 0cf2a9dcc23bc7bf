package dashboard

import (
	"context"
	"errors"
	"log"

	tea "charm.land/bubbletea/v2"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/screen"
	"github.com/complyx/complyx/internal/ui/layout"
)

// Deps wires the dashboard to the backend.
type Deps struct {
	Client *api.Client
	User   *api.User // nil when anonymous
	// AssessmentID scopes gap analysis and the compliance matrix. Empty
	// means the backend resolves the user's latest assessment.
	AssessmentID string
	// Standard is the initial standard to show; S1 when unset.
	Standard api.Standard
}

// scoreLoadedMsg carries the readiness score fetch result.
type scoreLoadedMsg struct {
	Standard api.Standard
	Score    *api.Score
	Err      error
}

// gapLoadedMsg carries the gap analysis fetch result.
type gapLoadedMsg struct {
	Seq  uint64
	Gaps *api.GapAnalysis
	Err  error
}

// matrixLoadedMsg carries the compliance matrix fetch result.
type matrixLoadedMsg struct {
	Seq    uint64
	Matrix *api.ComplianceMatrix
	Err    error
}

// DashboardScreen shows readiness score, gap analysis and the compliance
// matrix for one standard at a time. Switching standards cancels any fetch
// for the previous standard so a slow response never overwrites newer data.
type DashboardScreen struct {
	deps     Deps
	standard api.Standard

	score   *api.Score
	gaps    *api.GapAnalysis
	matrix  *api.ComplianceMatrix
	loading bool
	loadErr error

	// fetchSeq tags in-flight gap/matrix fetches; fetchCancel aborts the
	// superseded ones on standard change.
	fetchSeq    uint64
	fetchCancel context.CancelFunc

	scroll int
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Teardowner = (*DashboardScreen)(nil)

// New creates the dashboard, opening on the preferred standard; Tab toggles
// between S1 and S2.
func New(deps Deps) *DashboardScreen {
	standard := deps.Standard
	if !standard.Valid() {
		standard = api.StandardS1
	}
	return &DashboardScreen{deps: deps, standard: standard}
}

func (s *DashboardScreen) Title() string {
	return "Dashboard · IFRS " + string(s.standard)
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.reload()
}

// Teardown aborts any in-flight fetch.
func (s *DashboardScreen) Teardown() {
	if s.fetchCancel != nil {
		s.fetchCancel()
		s.fetchCancel = nil
	}
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch standard"},
		{Key: "R", Description: "Refresh"},
		{Key: "↑/↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

// reload cancels the previous fetch round and starts a fresh one for the
// current standard.
func (s *DashboardScreen) reload() tea.Cmd {
	s.Teardown()

	ctx, cancel := context.WithCancel(context.Background())
	s.fetchCancel = cancel
	s.fetchSeq++

	seq := s.fetchSeq
	std := s.standard
	client := s.deps.Client
	assessmentID := s.deps.AssessmentID
	userID := ""
	if s.deps.User != nil {
		userID = s.deps.User.ID
	}

	s.loading = true
	s.loadErr = nil

	return tea.Batch(
		func() tea.Msg {
			score, err := client.ReadinessScore(ctx, userID, std)
			return scoreLoadedMsg{Standard: std, Score: score, Err: err}
		},
		func() tea.Msg {
			gaps, err := client.GapAnalysis(ctx, assessmentID, std)
			return gapLoadedMsg{Seq: seq, Gaps: gaps, Err: err}
		},
		func() tea.Msg {
			matrix, err := client.ComplianceMatrix(ctx, assessmentID, std)
			return matrixLoadedMsg{Seq: seq, Matrix: matrix, Err: err}
		},
	)
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case scoreLoadedMsg:
		if msg.Standard != s.standard {
			return s, nil
		}
		if msg.Err != nil {
			s.noteError(msg.Err)
			return s, nil
		}
		s.score = msg.Score
		return s, nil

	case gapLoadedMsg:
		if msg.Seq != s.fetchSeq {
			return s, nil
		}
		s.loading = false
		if msg.Err != nil {
			s.noteError(msg.Err)
			return s, nil
		}
		s.gaps = msg.Gaps
		return s, nil

	case matrixLoadedMsg:
		if msg.Seq != s.fetchSeq {
			return s, nil
		}
		if msg.Err != nil {
			s.noteError(msg.Err)
			return s, nil
		}
		s.matrix = msg.Matrix
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			if s.standard == api.StandardS1 {
				s.standard = api.StandardS2
			} else {
				s.standard = api.StandardS1
			}
			s.score, s.gaps, s.matrix = nil, nil, nil
			s.scroll = 0
			return s, s.reload()
		case "r":
			return s, s.reload()
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

// noteError keeps the first failure of a fetch round. Cancellation of a
// superseded round is expected and not an error.
func (s *DashboardScreen) noteError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	log.Printf("dashboard: fetch failed: %v", err)
	if s.loadErr == nil {
		s.loadErr = err
	}
	s.loading = false
}
