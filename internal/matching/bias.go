package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/logger"
	"github.com/spigell/nawasena/internal/roster"
)

// BiasCandidate is one scored employee submitted for a bias audit.
type BiasCandidate struct {
	EmployeeID string `json:"employeeId"`
	Score      int    `json:"score"`
}

// BiasResult is the audit outcome for a job shortlist.
type BiasResult struct {
	JobID      string          `json:"jobId"`
	Candidates []BiasCandidate `json:"candidates"`
	ai.BiasReport
}

type biasEmployee struct {
	ID         string `json:"id"`
	Age        int    `json:"usia"`
	Department string `json:"dinas"`
}

type biasPosition struct {
	ID         string `json:"id"`
	Department string `json:"dinas"`
	Level      string `json:"level"`
}

type biasScore struct {
	EmployeeID string `json:"employeeId"`
	JobID      string `json:"jobId"`
	Score      int    `json:"score"`
}

// CheckBias audits the shortlist for the job. Without candidates the
// current top candidates are used.
func (s *Service) CheckBias(ctx context.Context, jobID string, candidates []BiasCandidate) (*BiasResult, error) {
	j, err := s.job(jobID)
	if err != nil {
		return nil, err
	}
	if s.advisor == nil {
		return nil, ErrAIDisabled
	}

	candidates = append([]BiasCandidate(nil), candidates...)
	if len(candidates) == 0 {
		ranked, err := s.rank(ctx, j, s.defaultMethod)
		if err != nil {
			return nil, err
		}
		for _, r := range ranked {
			candidates = append(candidates, BiasCandidate{EmployeeID: r.Employee.ID, Score: r.Score})
		}
	}

	employees := make([]*roster.Employee, 0, len(candidates))
	for i, c := range candidates {
		e := s.roster.EmployeeByID(c.EmployeeID)
		if e == nil {
			return nil, fmt.Errorf("%w: pegawai %q tidak ditemukan", ErrInvalidArgument, c.EmployeeID)
		}
		if c.Score < 0 || c.Score > 100 {
			return nil, fmt.Errorf("%w: skor %d untuk %q di luar rentang 0-100", ErrInvalidArgument, c.Score, c.EmployeeID)
		}
		candidates[i].EmployeeID = e.ID
		employees = append(employees, e)
	}

	in, err := biasInput(j, employees, candidates)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := s.advisor.AuditBias(ctx, in)
	s.observe(flowBias, start, err)
	if err != nil {
		s.logger.Error("bias check failed",
			append(logger.FlowFields(flowBias, "", j.ID), zap.Error(err))...)
		return nil, fmt.Errorf("%w: %w", ErrBiasCheck, err)
	}

	result := &BiasResult{
		JobID:      j.ID,
		Candidates: candidates,
		BiasReport: *report,
	}
	result.AuditID = uuid.NewString()
	result.MitigationStrategy = strings.TrimSpace(result.MitigationStrategy)

	s.logger.Info("bias check completed",
		append(logger.FlowFields(flowBias, "", j.ID),
			zap.String("audit_id", result.AuditID),
			zap.Bool("bias_detected", result.BiasDetected),
			zap.Int("candidates", len(candidates)),
		)...)

	return result, nil
}

func biasInput(j *roster.Job, employees []*roster.Employee, candidates []BiasCandidate) (ai.BiasInput, error) {
	people := make([]biasEmployee, 0, len(employees))
	for _, e := range employees {
		people = append(people, biasEmployee{ID: e.ID, Age: e.Age, Department: e.Department})
	}

	scores := make([]biasScore, 0, len(candidates))
	for _, c := range candidates {
		scores = append(scores, biasScore{EmployeeID: c.EmployeeID, JobID: j.ID, Score: c.Score})
	}

	employeeData, err := json.Marshal(people)
	if err != nil {
		return ai.BiasInput{}, fmt.Errorf("marshal employee data: %w", err)
	}
	positionData, err := json.Marshal(biasPosition{ID: j.ID, Department: j.Department, Level: j.Level})
	if err != nil {
		return ai.BiasInput{}, fmt.Errorf("marshal position data: %w", err)
	}
	scoreData, err := json.Marshal(scores)
	if err != nil {
		return ai.BiasInput{}, fmt.Errorf("marshal compatibility scores: %w", err)
	}

	return ai.BiasInput{
		EmployeeData:        string(employeeData),
		PositionData:        string(positionData),
		CompatibilityScores: string(scoreData),
	}, nil
}
