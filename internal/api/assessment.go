package api

import "context"

// StartAssessmentResult is returned when an assessment is lazily created on
// first phase selection.
type StartAssessmentResult struct {
	AssessmentID string `json:"assessmentId"`
	Status       string `json:"status"`
}

type startAssessmentRequest struct {
	Standard Standard `json:"ifrsStandard"`
	Phase    Phase    `json:"phase"`
}

// StartAssessment creates (or resumes) an assessment for the standard.
func (c *Client) StartAssessment(ctx context.Context, standard Standard, phase Phase) (*StartAssessmentResult, error) {
	var result StartAssessmentResult
	req := startAssessmentRequest{Standard: standard, Phase: phase}
	if err := c.post(ctx, "/api/assessment/start", req, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type progressRequest struct {
	Answered     []string `json:"answeredQuestions"`
	Standard     Standard `json:"ifrsStandard"`
	Phase        Phase    `json:"phase"`
	AssessmentID string   `json:"assessmentId"`
}

// CalculateProgress recomputes progress from the answered-question set,
// filtered server-side by the current phase's question ids.
func (c *Client) CalculateProgress(ctx context.Context, standard Standard, phase Phase, assessmentID string, answered []string) (*Progress, error) {
	req := progressRequest{
		Answered:     answered,
		Standard:     standard,
		Phase:        phase,
		AssessmentID: assessmentID,
	}
	var p Progress
	if err := c.post(ctx, "/api/assessment/progress", req, schemaProgress, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type scoresRequest struct {
	Answers      []Answer `json:"answers"`
	Standard     Standard `json:"ifrsStandard"`
	AssessmentID string   `json:"assessmentId"`
}

// CalculateScores computes readiness scores from the full answer list.
func (c *Client) CalculateScores(ctx context.Context, standard Standard, assessmentID string, answers []Answer) (*Score, error) {
	req := scoresRequest{Answers: answers, Standard: standard, AssessmentID: assessmentID}
	var s Score
	if err := c.post(ctx, "/api/assessment/scores", req, schemaScore, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type autoSaveRequest struct {
	AssessmentID string   `json:"assessmentId"`
	Answers      []Answer `json:"answers"`
	Progress     Progress `json:"progress"`
}

// AutoSave persists the in-progress assessment. Best effort; callers log
// failures and never surface them.
func (c *Client) AutoSave(ctx context.Context, assessmentID string, answers []Answer, progress Progress) error {
	req := autoSaveRequest{AssessmentID: assessmentID, Answers: answers, Progress: progress}
	return c.post(ctx, "/api/assessment/autosave", req, "", nil)
}
