package matching

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/ai"
	"github.com/spigell/nawasena/internal/filtering"
	"github.com/spigell/nawasena/internal/observability"
	"github.com/spigell/nawasena/internal/roster"
	"github.com/spigell/nawasena/internal/scoring"
)

const (
	defaultTopK        = 5
	defaultConcurrency = 4

	// ExplanationUnavailable is shown when the model gave no usable explanation.
	ExplanationUnavailable = "Penjelasan tidak dapat dibuat oleh AI saat ini."
	// ExplanationFailed is shown when the model call itself failed.
	ExplanationFailed = "Gagal mendapatkan penjelasan dari AI karena terjadi kesalahan."

	SourceAI    = "ai"
	SourceLocal = "local"

	flowProspects  = "prospects"
	flowCandidates = "candidate-explanation"
	flowBias       = "bias-check"
	flowExplain    = "explain-compatibility"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAIDisabled      = errors.New("ai is disabled")
	ErrBiasCheck       = errors.New("Gagal melakukan pengecekan bias.")
)

// Options tunes the Service. Zero values fall back to defaults.
type Options struct {
	TopK          int
	Concurrency   int
	DefaultMethod scoring.Method
	Filters       *filtering.Config
	// SkipFilters names pool steps that stay disabled.
	SkipFilters []string
	Stats         *observability.Stats
	Logger        *zap.Logger
}

// Service matches employees and positions. A nil advisor means AI is
// disabled and every flow answers from local scores only.
type Service struct {
	roster  *roster.Roster
	scorer  *scoring.Scorer
	advisor ai.Advisor

	topK          int
	concurrency   int
	defaultMethod scoring.Method
	filters       filtering.Config
	skipFilters   []string
	stats         *observability.Stats
	logger        *zap.Logger
}

func New(r *roster.Roster, scorer *scoring.Scorer, advisor ai.Advisor, opts Options) (*Service, error) {
	if r == nil {
		return nil, errors.New("roster is required")
	}
	if scorer == nil {
		scorer = scoring.NewScorer(r, scoring.DefaultWeights())
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.DefaultMethod == "" {
		opts.DefaultMethod = scoring.MethodCosine
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	known := make(map[string]struct{})
	for _, step := range filtering.Default() {
		known[step.Name()] = struct{}{}
	}
	skip := make([]string, 0, len(opts.SkipFilters))
	for _, name := range opts.SkipFilters {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalidArgument, name)
		}
		skip = append(skip, name)
	}

	s := &Service{
		roster:        r,
		scorer:        scorer,
		advisor:       advisor,
		topK:          opts.TopK,
		concurrency:   opts.Concurrency,
		defaultMethod: opts.DefaultMethod,
		skipFilters:   skip,
		stats:         opts.Stats,
		logger:        opts.Logger,
	}
	if opts.Filters != nil {
		s.filters = *opts.Filters
	}
	return s, nil
}

func (s *Service) Roster() *roster.Roster { return s.roster }

// AIEnabled reports whether model calls are made.
func (s *Service) AIEnabled() bool { return s.advisor != nil }

// FilterStatus describes the candidate pool steps as configured.
func (s *Service) FilterStatus() []filtering.Status {
	steps := s.filterSteps()
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(&s.filters); err != nil {
			step.Disable(err.Error())
		}
	}
	return filtering.Describe(steps)
}

// filterSteps returns fresh pool steps with the skipped ones disabled.
func (s *Service) filterSteps() []filtering.Filter {
	steps := filtering.Default()
	for _, name := range s.skipFilters {
		filtering.DisableByName(steps, name, "skipped by configuration")
	}
	return steps
}

func (s *Service) employee(id string) (*roster.Employee, error) {
	e := s.roster.EmployeeByID(id)
	if e == nil {
		return nil, fmt.Errorf("%w: pegawai %q tidak ditemukan", ErrNotFound, id)
	}
	return e, nil
}

func (s *Service) job(id string) (*roster.Job, error) {
	j := s.roster.JobByID(id)
	if j == nil {
		return nil, fmt.Errorf("%w: jabatan %q tidak ditemukan", ErrNotFound, id)
	}
	return j, nil
}

// recommendedJob resolves a job ID returned by the model, ignoring case and
// surrounding blanks.
func (s *Service) recommendedJob(id string) *roster.Job {
	id = strings.TrimSpace(id)
	if j := s.roster.JobByID(id); j != nil {
		return j
	}
	for _, j := range s.roster.Jobs() {
		if strings.EqualFold(j.ID, id) {
			return j
		}
	}
	return nil
}

func (s *Service) observe(flow string, start time.Time, err error) {
	s.stats.ObserveAICall(flow, time.Since(start), err)
}

func jobBrief(j *roster.Job) ai.JobBrief {
	return ai.JobBrief{
		ID:             j.ID,
		Name:           j.Name,
		Department:     j.Department,
		RequiredSkills: j.RequiredSkills,
		Level:          j.Level,
	}
}

func recommendationInput(e *roster.Employee, jobs ...*roster.Job) ai.RecommendationInput {
	in := ai.RecommendationInput{
		EmployeeID:       e.ID,
		Skills:           e.Skills,
		ExperienceYears:  e.ExperienceYears,
		SKPScore:         e.SKPScore,
		DailyPerformance: e.DailyPerformance,
		Jobs:             make([]ai.JobBrief, 0, len(jobs)),
	}
	for _, j := range jobs {
		in.Jobs = append(in.Jobs, jobBrief(j))
	}
	return in
}
