package ai

import (
	"context"
)

// Generator sends a system instruction and a user message to an LLM and
// returns its textual answer.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Recommendation is a position suggested for an employee.
type Recommendation struct {
	JobID              string `json:"jobId" mapstructure:"jobId"`
	JobName            string `json:"jobName" mapstructure:"jobName"`
	CompatibilityScore int    `json:"compatibilityScore" mapstructure:"compatibilityScore"`
	Explanation        string `json:"explanation" mapstructure:"explanation"`
}

// BiasReport is the outcome of a bias audit over a ranked shortlist.
type BiasReport struct {
	AuditID            string `json:"auditId,omitempty"`
	BiasDetected       bool   `json:"biasDetected"`
	MitigationStrategy string `json:"biasMitigationStrategy"`
	// AdjustedScores is a JSON document as returned by the model.
	AdjustedScores string `json:"adjustedScores"`
	Raw            string `json:"-"`
}

// Explanation is a free-text justification of a compatibility score.
type Explanation struct {
	Text string `json:"explanation"`
	Raw  string `json:"-"`
}

// JobBrief is the part of a job shown to the model.
type JobBrief struct {
	ID             string   `json:"id_jabatan"`
	Name           string   `json:"nama_jabatan"`
	Department     string   `json:"dinas"`
	RequiredSkills []string `json:"required_skill"`
	Level          string   `json:"level"`
}

// RecommendationInput describes an employee and the positions to consider.
type RecommendationInput struct {
	EmployeeID       string
	Skills           []string
	ExperienceYears  float64
	SKPScore         float64
	DailyPerformance float64
	Jobs             []JobBrief
}

// BiasInput carries the shortlist as JSON documents.
type BiasInput struct {
	EmployeeData        string
	PositionData        string
	CompatibilityScores string
}

// ExplainInput asks for a justification of a score from its factor contributions.
type ExplainInput struct {
	EmployeeID string
	JobID      string
	Score      int
	// Factors is a JSON document with per-factor contributions.
	Factors string
}

// Advisor runs the LLM flows used by the matching service.
type Advisor interface {
	RecommendPositions(ctx context.Context, in RecommendationInput) ([]Recommendation, error)
	AuditBias(ctx context.Context, in BiasInput) (*BiasReport, error)
	ExplainScore(ctx context.Context, in ExplainInput) (*Explanation, error)
}
