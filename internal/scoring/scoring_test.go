package scoring

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spigell/nawasena/internal/roster"
)

func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   Vector
		expect int
	}{
		{
			name:   "identical",
			a:      Vector{"x": 3, "y": 4},
			b:      Vector{"x": 3, "y": 4},
			expect: 100,
		},
		{
			name:   "orthogonal",
			a:      Vector{"x": 1},
			b:      Vector{"y": 1},
			expect: 0,
		},
		{
			name:   "zero vector",
			a:      Vector{},
			b:      Vector{"x": 1},
			expect: 0,
		},
		{
			name:   "missing keys count as zero",
			a:      Vector{"x": 1, "y": 1},
			b:      Vector{"x": 1},
			expect: 71,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Cosine(tt.a, tt.b); got != tt.expect {
				t.Fatalf("expected %d, got %d", tt.expect, got)
			}
		})
	}
}

func TestEmployeeVector(t *testing.T) {
	e := &roster.Employee{
		ExperienceYears: 10,
		Education:       roster.EducationMaster,
		Skills:          []string{"Go"},
		SKPScore:        88,
		Leadership:      80,
	}

	got := EmployeeVector(e, []string{"go", "sql"})
	want := Vector{
		"pengalaman":         50,
		"pendidikan":         85,
		"leadership":         80,
		"analyticalThinking": 0,
		"publicService":      0,
		"digitalLiteracy":    0,
		"collaboration":      0,
		"integrity":          0,
		"kinerja":            88,
		"skill_go":           100,
		"skill_sql":          0,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected vector (-want +got):\n%s", diff)
	}
}

func TestEmployeeVectorWithoutCompetencies(t *testing.T) {
	e := &roster.Employee{ExperienceYears: 40, Education: "D4", SKPScore: 70}

	got := EmployeeVector(e, nil)
	want := Vector{
		"pengalaman":         100,
		"pendidikan":         60,
		"leadership":         72,
		"analyticalThinking": 68,
		"publicService":      68,
		"digitalLiteracy":    64,
		"collaboration":      68,
		"integrity":          72,
		"kinerja":            90,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected vector (-want +got):\n%s", diff)
	}
}

func TestJobVector(t *testing.T) {
	j := &roster.Job{RequiredSkills: []string{"SQL"}, Level: roster.LevelEselon2}

	got := JobVector(j, []string{"go", "sql"})
	want := Vector{
		"skill_go":           0,
		"skill_sql":          100,
		"leadership":         90,
		"analyticalThinking": 85,
		"publicService":      85,
		"digitalLiteracy":    80,
		"collaboration":      85,
		"integrity":          90,
		"kinerja":            90,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected vector (-want +got):\n%s", diff)
	}
}

func TestSkillUniverse(t *testing.T) {
	r, err := roster.New(
		[]*roster.Employee{{ID: "E1", Skills: []string{"Go", "sql"}}},
		[]*roster.Job{{ID: "J1", RequiredSkills: []string{"SQL", "Audit"}}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"audit", "go", "sql"}, SkillUniverse(r)); diff != "" {
		t.Fatalf("unexpected universe (-want +got):\n%s", diff)
	}
}

func TestWeighted(t *testing.T) {
	e := &roster.Employee{
		ExperienceYears:  10,
		Education:        roster.EducationBachelor,
		Skills:           []string{"go", "SQL"},
		SKPScore:         80,
		DailyPerformance: 90,
	}
	j := &roster.Job{RequiredSkills: []string{"Go", "SQL", "Audit", "K8s"}, Level: roster.LevelEselon3}

	b := Weighted(e, j, Weights{Skill: 1, Experience: 1, Education: 1, Performance: 1, Competency: 1})

	// skill 50, experience 50, education 70, performance 85, competency 60 → mean 63.
	if b.Score != 63 {
		t.Fatalf("expected score 63, got %d", b.Score)
	}

	if len(b.Components) != 5 {
		t.Fatalf("expected 5 components, got %d", len(b.Components))
	}

	var weights float64
	for _, c := range b.Components {
		weights += c.Weight
	}
	if math.Abs(weights-100) > 0.5 {
		t.Fatalf("expected weights to total 100, got %v", weights)
	}
}

func TestWeightedCompetencyShortfall(t *testing.T) {
	j := &roster.Job{Level: roster.LevelEselon2}
	e := &roster.Employee{
		Leadership:         80, // 10 short
		AnalyticalThinking: 85,
		PublicService:      95,
		DigitalLiteracy:    60, // 20 short
		Collaboration:      85,
		Integrity:          90,
	}

	b := Weighted(e, j, Weights{Competency: 1})
	if b.Score != 95 {
		t.Fatalf("expected competency-only score 95, got %d", b.Score)
	}
}

func TestWeightedInvalidWeightsFallBack(t *testing.T) {
	e := &roster.Employee{Skills: []string{"go"}}
	j := &roster.Job{RequiredSkills: []string{"go"}}

	got := Weighted(e, j, Weights{Skill: -1})
	want := Weighted(e, j, DefaultWeights())
	if got.Score != want.Score {
		t.Fatalf("expected default weights to be used: %d != %d", got.Score, want.Score)
	}
}

func TestWeightsValidate(t *testing.T) {
	if err := (Weights{}).Validate(); err == nil {
		t.Fatalf("expected error for all-zero weights")
	}
	if err := (Weights{Skill: 1, Education: -2}).Validate(); err == nil {
		t.Fatalf("expected error for negative weight")
	}
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRank(t *testing.T) {
	scored := []Scored{
		{Employee: &roster.Employee{ID: "c"}, Score: 70},
		{Employee: &roster.Employee{ID: "b"}, Score: 90},
		{Employee: &roster.Employee{ID: "a"}, Score: 70},
		{Employee: &roster.Employee{ID: "d"}, Score: 10},
	}

	top := Rank(scored, 3)
	ids := make([]string, 0, len(top))
	for _, s := range top {
		ids = append(ids, s.Employee.ID)
	}

	if diff := cmp.Diff([]string{"b", "a", "c"}, ids); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	if scored[0].Employee.ID != "c" {
		t.Fatalf("expected input slice to be left untouched")
	}

	if all := Rank(scored, 0); len(all) != 4 {
		t.Fatalf("expected k <= 0 to keep all, got %d", len(all))
	}
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{"": MethodCosine, "Cosine": MethodCosine, " weighted ": MethodWeighted} {
		got, err := ParseMethod(in)
		if err != nil || got != want {
			t.Fatalf("ParseMethod(%q) = %q, %v", in, got, err)
		}
	}

	if _, err := ParseMethod("euclid"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}

func TestScorerAgainstDefaultRoster(t *testing.T) {
	r, err := roster.Default()
	if err != nil {
		t.Fatalf("loading roster: %v", err)
	}

	s := NewScorer(r, DefaultWeights())
	job := r.JobByID("J002")

	ranked := Rank(s.ScoreEmployees(MethodCosine, job), 5)
	if len(ranked) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(ranked))
	}
	if ranked[0].Employee.ID != "P002" {
		t.Fatalf("expected the statistics specialist to rank first, got %s", ranked[0].Employee.ID)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Score < ranked[i].Score {
			t.Fatalf("ranking not sorted at %d", i)
		}
	}

	weighted := s.ScoreEmployees(MethodWeighted, job)
	for _, c := range weighted {
		if c.Breakdown == nil {
			t.Fatalf("expected weighted breakdown for %s", c.Employee.ID)
		}
		if c.Score < 0 || c.Score > 100 {
			t.Fatalf("score out of range for %s: %d", c.Employee.ID, c.Score)
		}
	}

	jobs := s.ScoreJobs(r.EmployeeByID("P004"))
	if jobs[0].Job.ID != "J003" {
		t.Fatalf("expected the digital transformation post first, got %s", jobs[0].Job.ID)
	}
}

func TestEmployeeWithoutCompetenciesStillScores(t *testing.T) {
	r, err := roster.Default()
	if err != nil {
		t.Fatalf("loading roster: %v", err)
	}

	s := NewScorer(r, DefaultWeights())
	e := r.EmployeeByID("P012")
	if e.HasCompetencies() {
		t.Fatalf("expected P012 to have no assessed competencies")
	}

	for id, want := range map[string]int{"J001": 52, "J002": 51, "J005": 55, "J006": 80} {
		if got := s.Score(MethodCosine, e, r.JobByID(id)).Score; got != want {
			t.Fatalf("cosine P012/%s = %d, want %d", id, got, want)
		}
	}

	ranked := Rank(s.ScoreEmployees(MethodCosine, r.JobByID("J006")), 2)
	if ranked[1].Employee.ID != "P012" {
		t.Fatalf("expected P012 second for J006, got %s", ranked[1].Employee.ID)
	}
}
