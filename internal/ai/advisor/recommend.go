package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/logger"
)

type rawRecommendation struct {
	JobID              string  `mapstructure:"jobId"`
	JobName            string  `mapstructure:"jobName"`
	CompatibilityScore float64 `mapstructure:"compatibilityScore"`
	Explanation        string  `mapstructure:"explanation"`
}

// RecommendPositions asks the model which of in.Jobs suit the employee.
func (a *Advisor) RecommendPositions(ctx context.Context, in ai.RecommendationInput) ([]ai.Recommendation, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, fmt.Errorf("employee id is required")
	}
	if len(in.Jobs) == 0 {
		return nil, fmt.Errorf("at least one job is required")
	}

	jobID := ""
	if len(in.Jobs) == 1 {
		jobID = in.Jobs[0].ID
	}
	fields := logger.FlowFields(FlowRecommend, in.EmployeeID, jobID)
	fields = append(fields, zap.Int("jobs", len(in.Jobs)))

	raw, err := a.generate(ctx, buildRecommendPrompt(in), fields)
	if err != nil {
		return nil, err
	}

	return parseRecommendations(raw)
}

func buildRecommendPrompt(in ai.RecommendationInput) string {
	var jobs strings.Builder
	for _, job := range in.Jobs {
		fmt.Fprintf(&jobs, "  - ID Jabatan: %s, Nama: %s, Dinas: %s, Skill yang Dibutuhkan: %s, Level: %s\n",
			job.ID, job.Name, job.Department, strings.Join(job.RequiredSkills, ", "), job.Level)
	}

	return fill(recommendTemplate, map[string]string{
		"EMPLOYEE_ID":       in.EmployeeID,
		"EMPLOYEE_SKILLS":   strings.Join(in.Skills, ", "),
		"EXPERIENCE_YEARS":  formatNumber(in.ExperienceYears),
		"SKP_SCORE":         formatNumber(in.SKPScore),
		"DAILY_PERFORMANCE": formatNumber(in.DailyPerformance),
		"JOB_LIST":          strings.TrimRight(jobs.String(), "\n"),
	})
}

func parseRecommendations(raw string) ([]ai.Recommendation, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	var items any
	switch doc := data.(type) {
	case map[string]any:
		items = doc["recommendations"]
	case []any:
		items = doc
	default:
		return nil, fmt.Errorf("unexpected model response shape %T", data)
	}
	if items == nil {
		return nil, fmt.Errorf("model response has no recommendations")
	}

	var decoded []rawRecommendation
	if err := weakDecode(items, &decoded); err != nil {
		return nil, err
	}

	out := make([]ai.Recommendation, 0, len(decoded))
	for _, rec := range decoded {
		id := strings.TrimSpace(rec.JobID)
		if id == "" {
			continue
		}
		out = append(out, ai.Recommendation{
			JobID:              id,
			JobName:            strings.TrimSpace(rec.JobName),
			CompatibilityScore: clampScore(rec.CompatibilityScore),
			Explanation:        strings.TrimSpace(rec.Explanation),
		})
	}

	return out, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
