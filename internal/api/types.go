package api

import "time"

// Standard identifies an IFRS sustainability disclosure standard.
type Standard string

const (
	StandardS1 Standard = "S1"
	StandardS2 Standard = "S2"
)

// Valid reports whether s is a known standard.
func (s Standard) Valid() bool {
	return s == StandardS1 || s == StandardS2
}

// Phase is an assessment phase. Phases run quick → detailed → followup.
type Phase string

const (
	PhaseQuick    Phase = "quick"
	PhaseDetailed Phase = "detailed"
	PhaseFollowup Phase = "followup"
)

// Next returns the phase after p, or "" when p is the last phase.
func (p Phase) Next() Phase {
	switch p {
	case PhaseQuick:
		return PhaseDetailed
	case PhaseDetailed:
		return PhaseFollowup
	}
	return ""
}

// Question is a single assessment question served by the backend.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Guidance string `json:"guidance,omitempty"`
}

// NextQuestion is the result of a next-question selection. When the phase
// has no unanswered questions left, Question is nil and PhaseComplete is set.
type NextQuestion struct {
	Question      *Question `json:"question"`
	PhaseComplete bool      `json:"phaseComplete"`
	Remaining     int       `json:"remaining"`
}

// PhaseInfo describes one assessment phase for a standard.
type PhaseInfo struct {
	Phase         Phase  `json:"phase"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
}

// Answer is a submitted answer in backend wire form.
type Answer struct {
	QuestionID string    `json:"questionId"`
	Value      string    `json:"value"`
	AnsweredAt time.Time `json:"timestamp"`
}

// Progress is the server-computed assessment progress.
type Progress struct {
	Percentage float64 `json:"percentage"`
	Answered   int     `json:"answeredCount"`
	Total      int     `json:"totalCount"`
}

// CategoryScore is a per-category readiness score.
type CategoryScore struct {
	Category   string  `json:"category"`
	Percentage float64 `json:"percentage"`
	Answered   int     `json:"answeredCount"`
	Total      int     `json:"totalCount"`
}

// Score is the server-computed readiness score. The client never derives
// these values; it only caches and displays them.
type Score struct {
	Overall    float64         `json:"overallScore"`
	Categories []CategoryScore `json:"categoryScores"`
}

// GapItem is one identified compliance gap.
type GapItem struct {
	Requirement    string `json:"requirement"`
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Status         string `json:"status"`
	Recommendation string `json:"recommendation,omitempty"`
}

// GapAnalysis is the server-computed gap analysis for a standard.
type GapAnalysis struct {
	Standard    Standard  `json:"ifrsStandard"`
	Items       []GapItem `json:"items"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// MatrixRow is one requirement row of the compliance matrix.
type MatrixRow struct {
	Requirement string  `json:"requirement"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Coverage    float64 `json:"coverage"`
}

// ComplianceMatrix is the server-computed compliance matrix.
type ComplianceMatrix struct {
	Standard Standard    `json:"ifrsStandard"`
	Rows     []MatrixRow `json:"rows"`
}

// ChatMessage is a prior conversation turn sent as completion context.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Tokens is an access/refresh token pair.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// User is the authenticated account.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Organization  string    `json:"organization,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	Tokens
	User User `json:"user"`
}

// UserPage is a page of users from the admin API.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
}

// AdminStats summarizes platform activity.
type AdminStats struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveAssessments int `json:"activeAssessments"`
	CompletedToday    int `json:"completedToday"`
	Organizations     int `json:"organizations"`
}

// AuditEntry is one admin audit log record.
type AuditEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Organization is a tenant on the platform.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserCount int       `json:"userCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// VersionInfo advertises backend compatibility requirements for clients.
type VersionInfo struct {
	MinClientVersion string `json:"minClientVersion"`
	LatestVersion    string `json:"latestVersion"`
}
