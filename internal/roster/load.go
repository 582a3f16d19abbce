package roster

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/employees.json data/jobs.json
var defaultData embed.FS

// Load reads employees and jobs from the given files. An empty path falls back
// to the embedded dataset. Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON.
func Load(employeesPath, jobsPath string) (*Roster, error) {
	var employees []*Employee
	if err := loadFile(employeesPath, "data/employees.json", &employees); err != nil {
		return nil, fmt.Errorf("loading employees: %w", err)
	}

	var jobs []*Job
	if err := loadFile(jobsPath, "data/jobs.json", &jobs); err != nil {
		return nil, fmt.Errorf("loading jobs: %w", err)
	}

	return New(employees, jobs)
}

// Default returns the roster built from the embedded dataset.
func Default() (*Roster, error) {
	return Load("", "")
}

func loadFile(path, fallback string, target any) error {
	path = strings.TrimSpace(path)

	var (
		data []byte
		err  error
		name = path
	)

	if path == "" {
		name = fallback
		data, err = defaultData.ReadFile(fallback)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	return decode(name, data, target)
}

func decode(name string, data []byte, target any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("decode yaml %q: %w", name, err)
		}
	default:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(target); err != nil {
			return fmt.Errorf("decode json %q: %w", name, err)
		}
	}
	return nil
}
