package api

import (
	"context"
	"net/url"
)

// ReadinessScore fetches the latest readiness score for a user and standard.
func (c *Client) ReadinessScore(ctx context.Context, userID string, standard Standard) (*Score, error) {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("ifrsStandard", string(standard))
	var s Score
	if err := c.get(ctx, "/api/dashboard/readiness", q, schemaScore, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AssessmentProgress fetches the saved progress for an assessment.
func (c *Client) AssessmentProgress(ctx context.Context, assessmentID string) (*Progress, error) {
	q := url.Values{}
	q.Set("assessmentId", assessmentID)
	var p Progress
	if err := c.get(ctx, "/api/dashboard/progress", q, schemaProgress, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GapAnalysis fetches the gap analysis for an assessment. Pass a cancellable
// context: a refetch triggered by changed parameters must abort the
// superseded request so stale data never lands in the UI.
func (c *Client) GapAnalysis(ctx context.Context, assessmentID string, standard Standard) (*GapAnalysis, error) {
	q := url.Values{}
	q.Set("assessmentId", assessmentID)
	q.Set("ifrsStandard", string(standard))
	var ga GapAnalysis
	if err := c.get(ctx, "/api/dashboard/gap-analysis", q, schemaGapAnalysis, &ga); err != nil {
		return nil, err
	}
	return &ga, nil
}

// ComplianceMatrix fetches the compliance matrix for an assessment.
func (c *Client) ComplianceMatrix(ctx context.Context, assessmentID string, standard Standard) (*ComplianceMatrix, error) {
	q := url.Values{}
	q.Set("assessmentId", assessmentID)
	q.Set("ifrsStandard", string(standard))
	var m ComplianceMatrix
	if err := c.get(ctx, "/api/dashboard/compliance-matrix", q, schemaComplianceMatrix, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
