package advisor

import (
	"context"
	"strconv"
	"strings"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/logger"
)

// ExplainScore turns factor contributions into a short justification.
func (a *Advisor) ExplainScore(ctx context.Context, in ai.ExplainInput) (*ai.Explanation, error) {
	prompt := fill(explainTemplate, map[string]string{
		"EMPLOYEE_ID": in.EmployeeID,
		"JOB_ID":      in.JobID,
		"SCORE":       strconv.Itoa(in.Score),
		"FACTORS":     in.Factors,
	})

	raw, err := a.generate(ctx, prompt, logger.FlowFields(FlowExplain, in.EmployeeID, in.JobID))
	if err != nil {
		return nil, err
	}

	return &ai.Explanation{Text: parseExplanation(raw), Raw: raw}, nil
}

// parseExplanation accepts either {"explanation": "..."} or plain prose.
func parseExplanation(raw string) string {
	data, err := decodeObject(raw)
	if err != nil {
		return extractJSON(raw)
	}

	var decoded struct {
		Explanation any `mapstructure:"explanation"`
	}
	if doc, ok := data.(map[string]any); ok {
		if err := weakDecode(doc, &decoded); err == nil && decoded.Explanation != nil {
			return coerceString(decoded.Explanation)
		}
	}
	if s, ok := data.(string); ok {
		return strings.TrimSpace(s)
	}
	return coerceString(data)
}
