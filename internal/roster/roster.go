package roster

import (
	"fmt"
	"math"
	"strings"
)

const (
	EducationBachelor = "S1"
	EducationMaster   = "S2"
	EducationDoctor   = "S3"

	LevelEselon2 = "Eselon 2"
	LevelEselon3 = "Eselon 3"

	placeholderAvatar = "https://picsum.photos/seed/placeholder/100/100"
)

// Employee is a civil servant that can be rotated into a position.
type Employee struct {
	ID                 string   `json:"id_pegawai" yaml:"id_pegawai"`
	Name               string   `json:"nama" yaml:"nama"`
	Age                int      `json:"usia" yaml:"usia"`
	Education          string   `json:"pendidikan" yaml:"pendidikan"`
	ExperienceYears    float64  `json:"pengalaman_tahun" yaml:"pengalaman_tahun"`
	Skills             []string `json:"skill" yaml:"skill"`
	SKPScore           float64  `json:"skp_skor" yaml:"skp_skor"`
	DailyPerformance   float64  `json:"kinerja_harian_rata" yaml:"kinerja_harian_rata"`
	Department         string   `json:"dinas" yaml:"dinas"`
	Avatar             string   `json:"avatar" yaml:"avatar"`
	Leadership         float64  `json:"leadership,omitempty" yaml:"leadership,omitempty"`
	AnalyticalThinking float64  `json:"analyticalThinking,omitempty" yaml:"analyticalThinking,omitempty"`
	PublicService      float64  `json:"publicService,omitempty" yaml:"publicService,omitempty"`
	DigitalLiteracy    float64  `json:"digitalLiteracy,omitempty" yaml:"digitalLiteracy,omitempty"`
	Collaboration      float64  `json:"collaboration,omitempty" yaml:"collaboration,omitempty"`
	Integrity          float64  `json:"integrity,omitempty" yaml:"integrity,omitempty"`
}

// Job is an open position.
type Job struct {
	ID             string   `json:"id_jabatan" yaml:"id_jabatan"`
	Name           string   `json:"nama_jabatan" yaml:"nama_jabatan"`
	Department     string   `json:"dinas" yaml:"dinas"`
	RequiredSkills []string `json:"required_skill" yaml:"required_skill"`
	Level          string   `json:"level" yaml:"level"`
}

// Competencies holds the six competency levels on a 0-100 scale.
type Competencies struct {
	Leadership         float64 `json:"leadership"`
	AnalyticalThinking float64 `json:"analyticalThinking"`
	PublicService      float64 `json:"publicService"`
	DigitalLiteracy    float64 `json:"digitalLiteracy"`
	Collaboration      float64 `json:"collaboration"`
	Integrity          float64 `json:"integrity"`
}

// Axis is a single labelled value of an employee profile.
type Axis struct {
	Subject string  `json:"subject"`
	Value   float64 `json:"value"`
}

// Roster is the in-memory catalogue of employees and open positions.
type Roster struct {
	employees []*Employee
	jobs      []*Job

	employeeIdx map[string]*Employee
	jobIdx      map[string]*Job
}

// New indexes the given employees and jobs. Duplicate IDs are rejected.
func New(employees []*Employee, jobs []*Job) (*Roster, error) {
	r := &Roster{
		employees:   make([]*Employee, 0, len(employees)),
		jobs:        make([]*Job, 0, len(jobs)),
		employeeIdx: make(map[string]*Employee, len(employees)),
		jobIdx:      make(map[string]*Job, len(jobs)),
	}

	for _, e := range employees {
		if e == nil {
			continue
		}
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			return nil, fmt.Errorf("employee %q has empty id", e.Name)
		}
		if _, ok := r.employeeIdx[e.ID]; ok {
			return nil, fmt.Errorf("duplicate employee id %q", e.ID)
		}
		if strings.TrimSpace(e.Avatar) == "" {
			e.Avatar = placeholderAvatar
		}
		r.employeeIdx[e.ID] = e
		r.employees = append(r.employees, e)
	}

	for _, j := range jobs {
		if j == nil {
			continue
		}
		j.ID = strings.TrimSpace(j.ID)
		if j.ID == "" {
			return nil, fmt.Errorf("job %q has empty id", j.Name)
		}
		if _, ok := r.jobIdx[j.ID]; ok {
			return nil, fmt.Errorf("duplicate job id %q", j.ID)
		}
		r.jobIdx[j.ID] = j
		r.jobs = append(r.jobs, j)
	}

	return r, nil
}

func (r *Roster) Employees() []*Employee { return r.employees }

func (r *Roster) Jobs() []*Job { return r.jobs }

// EmployeeByID returns nil when the employee is unknown.
func (r *Roster) EmployeeByID(id string) *Employee {
	return r.employeeIdx[strings.TrimSpace(id)]
}

// JobByID returns nil when the job is unknown.
func (r *Roster) JobByID(id string) *Job {
	return r.jobIdx[strings.TrimSpace(id)]
}

// HasCompetencies reports whether any competency level was recorded for the employee.
func (e *Employee) HasCompetencies() bool {
	c := e.Competencies()
	return c.Leadership != 0 || c.AnalyticalThinking != 0 || c.PublicService != 0 ||
		c.DigitalLiteracy != 0 || c.Collaboration != 0 || c.Integrity != 0
}

func (e *Employee) Competencies() Competencies {
	return Competencies{
		Leadership:         e.Leadership,
		AnalyticalThinking: e.AnalyticalThinking,
		PublicService:      e.PublicService,
		DigitalLiteracy:    e.DigitalLiteracy,
		Collaboration:      e.Collaboration,
		Integrity:          e.Integrity,
	}
}

// ProfileAxes summarises the employee on four 0-100 axes.
func (e *Employee) ProfileAxes() []Axis {
	education := map[string]float64{
		EducationBachelor: 60,
		EducationMaster:   80,
		EducationDoctor:   100,
	}

	edu, ok := education[e.Education]
	if !ok {
		edu = 50
	}

	return []Axis{
		{Subject: "Pengalaman", Value: math.Min(e.ExperienceYears/20*100, 100)},
		{Subject: "SKP", Value: e.SKPScore},
		{Subject: "Kinerja", Value: e.DailyPerformance},
		{Subject: "Pendidikan", Value: edu},
	}
}

// LowerSkills returns the employee skills lowercased and trimmed.
func (e *Employee) LowerSkills() []string {
	return lowerAll(e.Skills)
}

// LevelMultiplier scales ideal competencies: Eselon 2 expects full levels.
func (j *Job) LevelMultiplier() float64 {
	if j.Level == LevelEselon2 {
		return 1.0
	}
	return 0.8
}

// IdealCompetencies returns the competency levels expected for the job level.
func (j *Job) IdealCompetencies() Competencies {
	return idealCompetencies(j.LevelMultiplier())
}

// PlaceholderCompetencies stands in for an employee without assessed
// competencies: the ideal levels at the non Eselon 2 multiplier.
func PlaceholderCompetencies() Competencies {
	return idealCompetencies((&Job{}).LevelMultiplier())
}

func idealCompetencies(m float64) Competencies {
	return Competencies{
		Leadership:         90 * m,
		AnalyticalThinking: 85 * m,
		PublicService:      85 * m,
		DigitalLiteracy:    80 * m,
		Collaboration:      85 * m,
		Integrity:          90 * m,
	}
}

// LowerRequiredSkills returns the job skills lowercased and trimmed.
func (j *Job) LowerRequiredSkills() []string {
	return lowerAll(j.RequiredSkills)
}

// Map returns competencies keyed by their vector names.
func (c Competencies) Map() map[string]float64 {
	return map[string]float64{
		"leadership":         c.Leadership,
		"analyticalThinking": c.AnalyticalThinking,
		"publicService":      c.PublicService,
		"digitalLiteracy":    c.DigitalLiteracy,
		"collaboration":      c.Collaboration,
		"integrity":          c.Integrity,
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
