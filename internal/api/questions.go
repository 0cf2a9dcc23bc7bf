package api

import (
	"context"
	"fmt"
)

// Phases returns the available assessment phases for a standard.
func (c *Client) Phases(ctx context.Context, standard Standard) ([]PhaseInfo, error) {
	var phases []PhaseInfo
	path := fmt.Sprintf("/api/questions/%s/phases", standard)
	if err := c.get(ctx, path, nil, schemaPhaseInfoList, &phases); err != nil {
		return nil, err
	}
	return phases, nil
}

// PhaseQuestions returns the full question list for a standard and phase.
// Callers refetch this on every answered-question change rather than caching
// it, so a question list updated server-side is picked up mid-assessment.
func (c *Client) PhaseQuestions(ctx context.Context, standard Standard, phase Phase) ([]Question, error) {
	var questions []Question
	path := fmt.Sprintf("/api/questions/%s/%s", standard, phase)
	if err := c.get(ctx, path, nil, schemaQuestionList, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// nextQuestionRequest identifies the assessment so the backend can exclude
// already-answered questions.
type nextQuestionRequest struct {
	Standard     Standard `json:"ifrsStandard"`
	Phase        Phase    `json:"phase"`
	AssessmentID string   `json:"assessmentId"`
	Answered     []string `json:"answeredQuestions"`
}

// NextQuestion asks the backend to select the next unanswered question for
// the phase. A nil Question with PhaseComplete set means the phase is done.
func (c *Client) NextQuestion(ctx context.Context, standard Standard, phase Phase, assessmentID string, answered []string) (*NextQuestion, error) {
	req := nextQuestionRequest{
		Standard:     standard,
		Phase:        phase,
		AssessmentID: assessmentID,
		Answered:     answered,
	}
	var next NextQuestion
	if err := c.post(ctx, "/api/questions/next", req, schemaNextQuestion, &next); err != nil {
		return nil, err
	}
	return &next, nil
}
