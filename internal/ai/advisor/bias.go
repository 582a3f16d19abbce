package advisor

import (
	"context"
	"fmt"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/logger"
)

type rawBiasReport struct {
	BiasDetected       bool   `mapstructure:"biasDetected"`
	MitigationStrategy string `mapstructure:"biasMitigationStrategy"`
	AdjustedScores     any    `mapstructure:"adjustedScores"`
}

// AuditBias asks the model to review a shortlist for bias on sensitive
// attributes such as age or department.
func (a *Advisor) AuditBias(ctx context.Context, in ai.BiasInput) (*ai.BiasReport, error) {
	prompt := fill(biasTemplate, map[string]string{
		"EMPLOYEE_DATA":        in.EmployeeData,
		"POSITION_DATA":        in.PositionData,
		"COMPATIBILITY_SCORES": in.CompatibilityScores,
	})

	raw, err := a.generate(ctx, prompt, logger.FlowFields(FlowBias, "", ""))
	if err != nil {
		return nil, err
	}

	report, err := parseBiasReport(raw)
	if err != nil {
		return nil, err
	}
	report.Raw = raw
	return report, nil
}

func parseBiasReport(raw string) (*ai.BiasReport, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := data.(map[string]any); !ok {
		return nil, fmt.Errorf("unexpected model response shape %T", data)
	}

	var decoded rawBiasReport
	if err := weakDecode(data, &decoded); err != nil {
		return nil, err
	}

	return &ai.BiasReport{
		BiasDetected:       decoded.BiasDetected,
		MitigationStrategy: decoded.MitigationStrategy,
		AdjustedScores:     coerceString(decoded.AdjustedScores),
	}, nil
}
