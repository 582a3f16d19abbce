package matching

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/logger"
	"github.com/spigell/nawasena/internal/roster"
)

// Prospect is a position suggested for an employee.
type Prospect struct {
	JobID              string `json:"jobId"`
	JobName            string `json:"jobName"`
	CompatibilityScore int    `json:"compatibilityScore"`
	Explanation        string `json:"explanation"`
	Source             string `json:"source"`
}

// FindJobProspects recommends positions for the employee, best first.
// When the model call fails the result is empty rather than an error.
func (s *Service) FindJobProspects(ctx context.Context, employeeID string) ([]Prospect, error) {
	e, err := s.employee(employeeID)
	if err != nil {
		return nil, err
	}

	if s.advisor == nil {
		s.stats.IncFallback()
		return s.localProspects(e), nil
	}

	start := time.Now()
	recs, err := s.advisor.RecommendPositions(ctx, recommendationInput(e, s.roster.Jobs()...))
	s.observe(flowProspects, start, err)
	if err != nil {
		s.logger.Error("finding job prospects failed",
			append(logger.FlowFields(flowProspects, e.ID, ""), zap.Error(err))...)
		return []Prospect{}, nil
	}

	seen := make(map[string]struct{}, len(recs))
	out := make([]Prospect, 0, len(recs))
	for _, rec := range recs {
		j := s.recommendedJob(rec.JobID)
		if j == nil {
			s.logger.Debug("dropping recommendation for unknown job",
				logger.FlowFields(flowProspects, e.ID, rec.JobID)...)
			continue
		}
		if _, dup := seen[j.ID]; dup {
			continue
		}
		seen[j.ID] = struct{}{}

		name := strings.TrimSpace(rec.JobName)
		if name == "" {
			name = j.Name
		}
		explanation := rec.Explanation
		if explanation == "" {
			explanation = ExplanationUnavailable
		}
		out = append(out, Prospect{
			JobID:              j.ID,
			JobName:            name,
			CompatibilityScore: rec.CompatibilityScore,
			Explanation:        explanation,
			Source:             SourceAI,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CompatibilityScore > out[b].CompatibilityScore
	})
	return out, nil
}

func (s *Service) localProspects(e *roster.Employee) []Prospect {
	scored := s.scorer.ScoreJobs(e)

	out := make([]Prospect, 0, len(scored))
	for _, sj := range scored {
		out = append(out, Prospect{
			JobID:              sj.Job.ID,
			JobName:            sj.Job.Name,
			CompatibilityScore: sj.Score,
			Explanation:        ExplanationUnavailable,
			Source:             SourceLocal,
		})
	}
	return out
}
