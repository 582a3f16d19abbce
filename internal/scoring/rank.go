package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/nawasena/internal/roster"
)

// Method selects the scoring function used to rank candidates.
type Method string

const (
	MethodCosine   Method = "cosine"
	MethodWeighted Method = "weighted"
)

// ParseMethod accepts an empty string as the cosine default.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodCosine:
		return MethodCosine, nil
	case MethodWeighted:
		return MethodWeighted, nil
	default:
		return "", fmt.Errorf("unknown scoring method %q (expected %q or %q)", s, MethodCosine, MethodWeighted)
	}
}

// Scored pairs an employee with a score for one job.
type Scored struct {
	Employee  *roster.Employee
	Score     int
	Breakdown *Breakdown
}

// ScoredJob pairs a job with a score for one employee.
type ScoredJob struct {
	Job   *roster.Job
	Score int
}

// Scorer computes similarity scores against a fixed roster.
type Scorer struct {
	roster   *roster.Roster
	universe []string
	weights  Weights
}

func NewScorer(r *roster.Roster, w Weights) *Scorer {
	if w.Validate() != nil {
		w = DefaultWeights()
	}
	return &Scorer{
		roster:   r,
		universe: SkillUniverse(r),
		weights:  w,
	}
}

func (s *Scorer) Weights() Weights { return s.weights }

// Score scores a single employee against a job with the given method.
func (s *Scorer) Score(method Method, e *roster.Employee, j *roster.Job) Scored {
	if method == MethodWeighted {
		b := Weighted(e, j, s.weights)
		return Scored{Employee: e, Score: b.Score, Breakdown: &b}
	}
	return Scored{Employee: e, Score: Cosine(EmployeeVector(e, s.universe), JobVector(j, s.universe))}
}

// ScoreEmployees scores every employee of the roster against the job, in roster order.
func (s *Scorer) ScoreEmployees(method Method, j *roster.Job) []Scored {
	jobVec := JobVector(j, s.universe)

	out := make([]Scored, 0, len(s.roster.Employees()))
	for _, e := range s.roster.Employees() {
		if method == MethodWeighted {
			b := Weighted(e, j, s.weights)
			out = append(out, Scored{Employee: e, Score: b.Score, Breakdown: &b})
			continue
		}
		out = append(out, Scored{Employee: e, Score: Cosine(EmployeeVector(e, s.universe), jobVec)})
	}
	return out
}

// ScoreJobs scores the employee against every job using cosine similarity.
func (s *Scorer) ScoreJobs(e *roster.Employee) []ScoredJob {
	empVec := EmployeeVector(e, s.universe)

	out := make([]ScoredJob, 0, len(s.roster.Jobs()))
	for _, j := range s.roster.Jobs() {
		out = append(out, ScoredJob{Job: j, Score: Cosine(empVec, JobVector(j, s.universe))})
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

// Rank sorts candidates by score, highest first, breaking ties by employee
// id, and keeps the first k. k <= 0 keeps everything.
func Rank(scored []Scored, k int) []Scored {
	ranked := make([]Scored, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Score != ranked[b].Score {
			return ranked[a].Score > ranked[b].Score
		}
		return ranked[a].Employee.ID < ranked[b].Employee.ID
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
