package advisor

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/logger"
	"github.com/spigell/nawasena/internal/utils"
)

const (
	defaultMaxLogLength = 200

	FlowRecommend = "recommend-positions"
	FlowBias      = "audit-bias"
	FlowExplain   = "explain-score"
)

var (
	//go:embed prompts/system.md
	systemPrompt string
	//go:embed prompts/recommend.md
	recommendTemplate string
	//go:embed prompts/bias.md
	biasTemplate string
	//go:embed prompts/explain.md
	explainTemplate string
)

// Advisor runs the recommendation, bias audit and explanation flows on top
// of a Generator.
type Advisor struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Advisor = (*Advisor)(nil)

func New(generator ai.Generator, log *zap.Logger, maxLogLength int) (*Advisor, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Advisor{
		generator: generator,
		logger:    logger.WithFields(log),
		maxLogLen: maxLogLength,
	}, nil
}

func (a *Advisor) generate(ctx context.Context, prompt string, fields []zap.Field) (string, error) {
	a.logger.Debug("generate content request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)...)

	raw, err := a.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		a.logger.Warn("generate content failed", append(fields, zap.Error(err))...)
		return "", err
	}

	a.logger.Debug("generate content response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)...)

	return raw, nil
}

func fill(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
