package assessment

import (
	"testing"

	"github.com/complyx/complyx/internal/api"
)

func TestStore_AddAnswerLastWriteWins(t *testing.T) {
	s := NewStore()
	s.AddAnswer("q1", "first")
	s.AddAnswer("q2", "other")
	s.AddAnswer("q1", "second")

	answers := s.Answers()
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[0].QuestionID != "q1" || answers[0].Value != "second" {
		t.Fatalf("duplicate answer did not overwrite in place: %+v", answers[0])
	}
	if answers[1].QuestionID != "q2" {
		t.Fatalf("order broken: %+v", answers)
	}

	ids := s.AnsweredIDs()
	if len(ids) != 2 || ids[0] != "q1" || ids[1] != "q2" {
		t.Fatalf("answered ids: %v", ids)
	}
}

func TestStore_SnapshotIsConsistentCopy(t *testing.T) {
	s := NewStore()
	s.SetAssessmentID("a1")
	s.SetStandard(api.StandardS1)
	s.SetPhase(api.PhaseQuick)
	s.SetStatus(StatusInProgress)
	s.AddAnswer("q1", "yes")

	snap := s.Snapshot()
	if !snap.Active() {
		t.Fatal("expected active snapshot")
	}

	// Later writes must not leak into the taken snapshot.
	s.AddAnswer("q2", "no")
	if len(snap.Answers) != 1 {
		t.Fatalf("snapshot mutated after write: %d answers", len(snap.Answers))
	}
}

func TestStore_SnapshotInactiveStates(t *testing.T) {
	s := NewStore()
	if s.Snapshot().Active() {
		t.Fatal("empty store should be inactive")
	}

	s.SetAssessmentID("a1")
	s.SetStatus(StatusCompleted)
	if s.Snapshot().Active() {
		t.Fatal("completed assessment should be inactive")
	}
}

func TestStore_ResetClearsEverything(t *testing.T) {
	s := NewStore()
	s.SetAssessmentID("a1")
	s.SetStandard(api.StandardS2)
	s.SetPhase(api.PhaseDetailed)
	s.SetStatus(StatusInProgress)
	s.AddAnswer("q1", "yes")
	s.SetProgress(api.Progress{Percentage: 50, Answered: 1, Total: 2})
	s.SetScores(&api.Score{Overall: 40})

	s.Reset()

	if s.AssessmentID() != "" || s.Standard() != "" || s.Phase() != "" {
		t.Fatal("identity not cleared")
	}
	if len(s.Answers()) != 0 || s.Answered("q1") {
		t.Fatal("answers not cleared")
	}
	if s.Progress().Total != 0 || s.Scores() != nil {
		t.Fatal("progress/scores not cleared")
	}
}
