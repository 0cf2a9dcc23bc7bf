package assessment

import (
	"sync"
	"time"

	"github.com/complyx/complyx/internal/api"
)

// Status values mirror the backend's assessment lifecycle.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Store caches the last known server state for one assessment: identity,
// submitted answers, progress and scores. No network calls originate here.
// Guarded by a mutex because the auto-save goroutine reads snapshots while
// the UI loop writes.
type Store struct {
	mu sync.Mutex

	assessmentID string
	standard     api.Standard
	phase        api.Phase
	status       string

	answers  []api.Answer
	answered map[string]int // question id → index in answers

	progress api.Progress
	scores   *api.Score
}

// NewStore creates an empty assessment store.
func NewStore() *Store {
	return &Store{answered: make(map[string]int)}
}

// SetAssessmentID records the backend-assigned assessment id.
func (s *Store) SetAssessmentID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessmentID = id
}

// AssessmentID returns the assessment id, "" before initialization.
func (s *Store) AssessmentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assessmentID
}

// SetStandard records the IFRS standard under assessment.
func (s *Store) SetStandard(std api.Standard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standard = std
}

// Standard returns the IFRS standard, "" when unset.
func (s *Store) Standard() api.Standard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standard
}

// SetPhase records the current phase.
func (s *Store) SetPhase(p api.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

// Phase returns the current phase, "" when unset.
func (s *Store) Phase() api.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SetStatus records the assessment status.
func (s *Store) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Status returns the assessment status.
func (s *Store) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// AddAnswer appends an answer. A duplicate question id overwrites the
// earlier value in place (last write wins), keeping the answer list and the
// answered set consistent: every answered question id appears exactly once.
func (s *Store) AddAnswer(questionID, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := api.Answer{QuestionID: questionID, Value: value, AnsweredAt: time.Now()}
	if idx, ok := s.answered[questionID]; ok {
		s.answers[idx] = a
		return
	}
	s.answered[questionID] = len(s.answers)
	s.answers = append(s.answers, a)
}

// Answered reports whether the question id has a recorded answer.
func (s *Store) Answered(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.answered[questionID]
	return ok
}

// Answers returns a copy of the answer list in submission order.
func (s *Store) Answers() []api.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// AnsweredIDs returns the answered question ids in submission order.
func (s *Store) AnsweredIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.answers))
	for i, a := range s.answers {
		out[i] = a.QuestionID
	}
	return out
}

// SetProgress records server-computed progress.
func (s *Store) SetProgress(p api.Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = p
}

// Progress returns the last fetched progress.
func (s *Store) Progress() api.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// SetScores records server-computed scores.
func (s *Store) SetScores(score *api.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = score
}

// Scores returns the last fetched scores, nil before first computation.
func (s *Store) Scores() *api.Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores
}

// Snapshot is a consistent read of the state the auto-saver persists.
type Snapshot struct {
	AssessmentID string
	Standard     api.Standard
	Phase        api.Phase
	Status       string
	Answers      []api.Answer
	Progress     api.Progress
}

// Active reports whether the snapshot describes a running assessment.
func (s Snapshot) Active() bool {
	return s.AssessmentID != "" && s.Status == StatusInProgress
}

// Snapshot returns a consistent copy of the persistable state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := make([]api.Answer, len(s.answers))
	copy(answers, s.answers)
	return Snapshot{
		AssessmentID: s.assessmentID,
		Standard:     s.standard,
		Phase:        s.phase,
		Status:       s.status,
		Answers:      answers,
		Progress:     s.progress,
	}
}

// Reset clears all assessment state, e.g. when switching standards.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessmentID = ""
	s.standard = ""
	s.phase = ""
	s.status = ""
	s.answers = nil
	s.answered = make(map[string]int)
	s.progress = api.Progress{}
	s.scores = nil
}
