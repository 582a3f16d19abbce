package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultRoster(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("loading default roster: %v", err)
	}

	if len(r.Employees()) == 0 || len(r.Jobs()) == 0 {
		t.Fatalf("expected embedded dataset to be populated")
	}

	e := r.EmployeeByID("P001")
	if e == nil {
		t.Fatalf("expected employee P001")
	}
	if e.Avatar == "" {
		t.Fatalf("expected placeholder avatar to be set")
	}

	if r.JobByID(" J001 ") == nil {
		t.Fatalf("expected lookup to trim the id")
	}

	if r.EmployeeByID("missing") != nil {
		t.Fatalf("expected nil for unknown employee")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]*Employee{{ID: "A"}, {ID: "A"}}, nil)
	if err == nil || !strings.Contains(err.Error(), "duplicate employee id") {
		t.Fatalf("expected duplicate employee error, got %v", err)
	}

	_, err = New(nil, []*Job{{ID: "J"}, {ID: "J"}})
	if err == nil || !strings.Contains(err.Error(), "duplicate job id") {
		t.Fatalf("expected duplicate job error, got %v", err)
	}

	_, err = New([]*Employee{{ID: "  ", Name: "nobody"}}, nil)
	if err == nil {
		t.Fatalf("expected empty id error")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	employees := filepath.Join(dir, "employees.yaml")
	jobs := filepath.Join(dir, "jobs.yml")

	writeFile(t, employees, `
- id_pegawai: E1
  nama: Tester
  usia: 30
  pendidikan: S1
  pengalaman_tahun: 4
  skill: [Go, SQL]
  skp_skor: 80
  kinerja_harian_rata: 82
  dinas: Dinas Uji
`)
	writeFile(t, jobs, `
- id_jabatan: J1
  nama_jabatan: Kepala Seksi
  dinas: Dinas Uji
  required_skill: [go]
  level: Eselon 3
`)

	r, err := Load(employees, jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := r.EmployeeByID("E1")
	if e == nil || e.SKPScore != 80 || len(e.Skills) != 2 {
		t.Fatalf("unexpected employee: %+v", e)
	}
	if e.HasCompetencies() {
		t.Fatalf("expected employee without competencies")
	}

	if j := r.JobByID("J1"); j == nil || j.Level != LevelEselon3 {
		t.Fatalf("unexpected job: %+v", j)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json"), ""); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestIdealCompetencies(t *testing.T) {
	senior := (&Job{Level: LevelEselon2}).IdealCompetencies()
	if senior.Leadership != 90 || senior.DigitalLiteracy != 80 {
		t.Fatalf("unexpected eselon 2 ideals: %+v", senior)
	}

	middle := (&Job{Level: LevelEselon3}).IdealCompetencies()
	if middle.Leadership != 72 || middle.Integrity != 72 {
		t.Fatalf("unexpected eselon 3 ideals: %+v", middle)
	}

	if placeholder := PlaceholderCompetencies(); placeholder != middle {
		t.Fatalf("expected placeholder competencies %+v, got %+v", middle, placeholder)
	}
}

func TestProfileAxes(t *testing.T) {
	e := &Employee{ExperienceYears: 30, SKPScore: 91, DailyPerformance: 88, Education: "D3"}
	axes := e.ProfileAxes()

	want := map[string]float64{"Pengalaman": 100, "SKP": 91, "Kinerja": 88, "Pendidikan": 50}
	for _, a := range axes {
		if want[a.Subject] != a.Value {
			t.Fatalf("axis %s: expected %v, got %v", a.Subject, want[a.Subject], a.Value)
		}
	}
}

func TestLowerSkills(t *testing.T) {
	e := &Employee{Skills: []string{" Go ", "", "SQL"}}
	got := e.LowerSkills()
	if len(got) != 2 || got[0] != "go" || got[1] != "sql" {
		t.Fatalf("unexpected skills: %v", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
