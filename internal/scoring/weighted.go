package scoring

import (
	"fmt"
	"math"

	"github.com/spigell/nawasena/internal/roster"
)

const (
	ComponentSkill       = "skillMatch"
	ComponentExperience  = "experience"
	ComponentEducation   = "education"
	ComponentPerformance = "performance"
	ComponentCompetency  = "competency"

	// noCompetencyScore is used when an employee has no competency assessment.
	noCompetencyScore = 60
)

// Weights sets the relative importance of every weighted component.
// Values are relative; they are normalized by their sum.
type Weights struct {
	Skill       float64 `mapstructure:"skill" json:"skill"`
	Experience  float64 `mapstructure:"experience" json:"experience"`
	Education   float64 `mapstructure:"education" json:"education"`
	Performance float64 `mapstructure:"performance" json:"performance"`
	Competency  float64 `mapstructure:"competency" json:"competency"`
}

// DefaultWeights favours skills, then performance and competencies.
func DefaultWeights() Weights {
	return Weights{
		Skill:       35,
		Experience:  15,
		Education:   10,
		Performance: 20,
		Competency:  20,
	}
}

// Validate rejects negative weights and an all-zero set.
func (w Weights) Validate() error {
	for name, v := range w.byKey() {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weight %s must not be negative", name)
		}
	}
	if w.total() == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}
	return nil
}

func (w Weights) total() float64 {
	return w.Skill + w.Experience + w.Education + w.Performance + w.Competency
}

func (w Weights) byKey() map[string]float64 {
	return map[string]float64{
		ComponentSkill:       w.Skill,
		ComponentExperience:  w.Experience,
		ComponentEducation:   w.Education,
		ComponentPerformance: w.Performance,
		ComponentCompetency:  w.Competency,
	}
}

// Component is one weighted sub-score of a Breakdown.
type Component struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Breakdown explains a weighted score component by component.
type Breakdown struct {
	Score      int         `json:"score"`
	Components []Component `json:"components"`
}

// Weighted scores the employee against the job as a linear combination of
// sub-scores. Invalid weights fall back to DefaultWeights.
func Weighted(e *roster.Employee, j *roster.Job, w Weights) Breakdown {
	if w.Validate() != nil {
		w = DefaultWeights()
	}
	total := w.total()

	parts := []struct {
		key    string
		label  string
		score  float64
		weight float64
	}{
		{ComponentSkill, "Kecocokan Skill", skillMatch(e, j), w.Skill},
		{ComponentExperience, "Pengalaman", experienceScore(e.ExperienceYears), w.Experience},
		{ComponentEducation, "Pendidikan", educationScore(e.Education), w.Education},
		{ComponentPerformance, "Kinerja", (e.SKPScore + e.DailyPerformance) / 2, w.Performance},
		{ComponentCompetency, "Kompetensi", competencyFit(e, j), w.Competency},
	}

	b := Breakdown{Components: make([]Component, 0, len(parts))}
	var sum float64
	for _, p := range parts {
		share := p.weight / total
		contribution := clamp(p.score) * share
		sum += contribution
		b.Components = append(b.Components, Component{
			Key:          p.key,
			Label:        p.label,
			Score:        round1(clamp(p.score)),
			Weight:       round1(share * 100),
			Contribution: round1(contribution),
		})
	}

	b.Score = int(math.Round(sum))
	return b
}

// skillMatch is the share of the job's required skills the employee holds.
func skillMatch(e *roster.Employee, j *roster.Job) float64 {
	required := j.LowerRequiredSkills()
	if len(required) == 0 {
		return 100
	}

	held := make(map[string]struct{})
	for _, s := range e.LowerSkills() {
		held[s] = struct{}{}
	}

	matched := 0
	for _, s := range required {
		if _, ok := held[s]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(required)) * 100
}

// competencyFit is 100 minus the mean shortfall below the job's ideal levels.
// Exceeding an ideal level is not rewarded.
func competencyFit(e *roster.Employee, j *roster.Job) float64 {
	if !e.HasCompetencies() {
		return noCompetencyScore
	}

	have := e.Competencies().Map()
	ideal := j.IdealCompetencies().Map()

	var shortfall float64
	for k, want := range ideal {
		if gap := want - have[k]; gap > 0 {
			shortfall += gap
		}
	}

	return 100 - shortfall/float64(len(ideal))
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
