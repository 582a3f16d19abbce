package matching

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/nawasena/internal/filtering"
	"github.com/spigell/nawasena/internal/logger"
	"github.com/spigell/nawasena/internal/roster"
	"github.com/spigell/nawasena/internal/scoring"
)

// Candidate is a ranked employee for a position.
type Candidate struct {
	Rank        int                `json:"rank"`
	Employee    *roster.Employee   `json:"employee"`
	Score       int                `json:"score"`
	Method      scoring.Method     `json:"method"`
	Breakdown   *scoring.Breakdown `json:"breakdown,omitempty"`
	Explanation string             `json:"explanation"`
}

// FindCompatibleCandidates ranks every eligible employee for the job and
// explains the top ones in parallel. An empty method uses the configured default.
func (s *Service) FindCompatibleCandidates(ctx context.Context, jobID string, method scoring.Method) ([]Candidate, error) {
	j, err := s.job(jobID)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = s.defaultMethod
	}

	ranked, err := s.rank(ctx, j, method)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, len(ranked))
	for i, r := range ranked {
		out[i] = Candidate{
			Rank:      i + 1,
			Employee:  r.Employee,
			Score:     r.Score,
			Method:    method,
			Breakdown: r.Breakdown,
		}
	}

	if s.advisor == nil {
		for i := range out {
			out[i].Explanation = ExplanationUnavailable
		}
		s.stats.IncFallback()
		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range out {
		g.Go(func() error {
			out[i].Explanation = s.explainCandidate(ctx, out[i].Employee, j)
			return nil
		})
	}
	_ = g.Wait()

	return out, nil
}

// rank scores all employees against the job, applies the pool filters and
// keeps the top k.
func (s *Service) rank(ctx context.Context, j *roster.Job, method scoring.Method) ([]scoring.Scored, error) {
	pool := filtering.NewPool(s.scorer.ScoreEmployees(method, j))

	cfg := s.filters
	pool, err := filtering.Run(ctx, &cfg, filtering.Deps{Logger: s.logger}, s.filterSteps(), pool)
	if err != nil {
		return nil, fmt.Errorf("filter candidates: %w", err)
	}

	return scoring.Rank(pool.Items, s.topK), nil
}

func (s *Service) explainCandidate(ctx context.Context, e *roster.Employee, j *roster.Job) string {
	start := time.Now()
	recs, err := s.advisor.RecommendPositions(ctx, recommendationInput(e, j))
	s.observe(flowCandidates, start, err)
	if err != nil {
		s.logger.Warn("ai explanation failed",
			append(logger.FlowFields(flowCandidates, e.ID, j.ID), zap.Error(err))...)
		return ExplanationFailed
	}

	for _, rec := range recs {
		if s.recommendedJob(rec.JobID) == j && rec.Explanation != "" {
			return rec.Explanation
		}
	}
	return ExplanationUnavailable
}
