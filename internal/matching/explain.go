package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/logger"
	"github.com/spigell/nawasena/internal/roster"
	"github.com/spigell/nawasena/internal/scoring"
)

// CompatibilityExplanation justifies how well an employee fits a job.
type CompatibilityExplanation struct {
	EmployeeID  string            `json:"employeeId"`
	JobID       string            `json:"jobId"`
	Score       int               `json:"score"`
	CosineScore int               `json:"cosineScore"`
	Breakdown   scoring.Breakdown `json:"breakdown"`
	Profile     []roster.Axis     `json:"profile"`
	Explanation string            `json:"explanation"`
	Source      string            `json:"source"`
}

// ExplainCompatibility explains the weighted score of the pair from its
// factor contributions.
func (s *Service) ExplainCompatibility(ctx context.Context, employeeID, jobID string) (*CompatibilityExplanation, error) {
	e, err := s.employee(employeeID)
	if err != nil {
		return nil, err
	}
	j, err := s.job(jobID)
	if err != nil {
		return nil, err
	}

	b := scoring.Weighted(e, j, s.scorer.Weights())
	out := &CompatibilityExplanation{
		EmployeeID:  e.ID,
		JobID:       j.ID,
		Score:       b.Score,
		CosineScore: s.scorer.Score(scoring.MethodCosine, e, j).Score,
		Breakdown:   b,
		Profile:     e.ProfileAxes(),
		Explanation: ExplanationUnavailable,
		Source:      SourceLocal,
	}

	if s.advisor == nil {
		s.stats.IncFallback()
		return out, nil
	}

	factors, err := json.Marshal(b.Components)
	if err != nil {
		return nil, fmt.Errorf("marshal factors: %w", err)
	}

	start := time.Now()
	explanation, err := s.advisor.ExplainScore(ctx, ai.ExplainInput{
		EmployeeID: e.ID,
		JobID:      j.ID,
		Score:      b.Score,
		Factors:    string(factors),
	})
	s.observe(flowExplain, start, err)
	if err != nil {
		s.logger.Warn("ai explanation failed",
			append(logger.FlowFields(flowExplain, e.ID, j.ID), zap.Error(err))...)
		out.Explanation = ExplanationFailed
		return out, nil
	}

	if explanation != nil && explanation.Text != "" {
		out.Explanation = explanation.Text
		out.Source = SourceAI
	}
	return out, nil
}
