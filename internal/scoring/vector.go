package scoring

import (
	"math"
	"sort"

	"github.com/spigell/nawasena/internal/roster"
)

const (
	skillPresent = 100
	// expectedPerformance is the kinerja level every position asks for.
	expectedPerformance = 90
	experienceCapYears  = 20
)

// Vector is a sparse feature vector keyed by feature name.
type Vector map[string]float64

// SkillUniverse is the lowercased union of every job requirement and employee skill.
func SkillUniverse(r *roster.Roster) []string {
	set := make(map[string]struct{})
	for _, j := range r.Jobs() {
		for _, s := range j.LowerRequiredSkills() {
			set[s] = struct{}{}
		}
	}
	for _, e := range r.Employees() {
		for _, s := range e.LowerSkills() {
			set[s] = struct{}{}
		}
	}

	skills := make([]string, 0, len(set))
	for s := range set {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}

// EmployeeVector builds the employee side of the similarity comparison.
func EmployeeVector(e *roster.Employee, universe []string) Vector {
	v := Vector{
		"pengalaman": experienceScore(e.ExperienceYears),
		"pendidikan": educationScore(e.Education),
	}

	if e.HasCompetencies() {
		for k, val := range e.Competencies().Map() {
			v[k] = val
		}
		v["kinerja"] = e.SKPScore
	} else {
		for k, val := range roster.PlaceholderCompetencies().Map() {
			v[k] = val
		}
		v["kinerja"] = expectedPerformance
	}

	addSkills(v, e.LowerSkills(), universe)
	return v
}

// JobVector builds the ideal profile of a position.
func JobVector(j *roster.Job, universe []string) Vector {
	v := Vector{}
	addSkills(v, j.LowerRequiredSkills(), universe)

	for k, val := range j.IdealCompetencies().Map() {
		v[k] = val
	}
	v["kinerja"] = expectedPerformance
	return v
}

func addSkills(v Vector, held, universe []string) {
	has := make(map[string]struct{}, len(held))
	for _, s := range held {
		has[s] = struct{}{}
	}

	for _, s := range universe {
		if _, ok := has[s]; ok {
			v["skill_"+s] = skillPresent
			continue
		}
		v["skill_"+s] = 0
	}
}

func experienceScore(years float64) float64 {
	return math.Min(years/experienceCapYears, 1) * 100
}

func educationScore(level string) float64 {
	switch level {
	case roster.EducationBachelor:
		return 70
	case roster.EducationMaster:
		return 85
	case roster.EducationDoctor:
		return 100
	default:
		return 60
	}
}

// Cosine returns the cosine similarity of a and b as a rounded percentage.
// Keys missing from one side count as zero; a zero vector yields 0.
func Cosine(a, b Vector) int {
	seen := make(map[string]struct{}, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for _, v := range []Vector{a, b} {
		for k := range v {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	// fixed summation order keeps the rounded result stable across runs
	sort.Strings(keys)

	var dot, magA, magB float64
	for _, k := range keys {
		va, vb := a[k], b[k]
		dot += va * vb
		magA += va * va
		magB += vb * vb
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)
	if magA == 0 || magB == 0 {
		return 0
	}

	return int(math.Round(dot / (magA * magB) * 100))
}
