package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/scoring"
)

type departmentsFilter struct {
	disabled    bool
	reason      string
	departments []string
}

// NewDepartments creates a filter that removes employees from excluded departments (dinas).
func NewDepartments() Filter {
	return &departmentsFilter{}
}

func (f *departmentsFilter) Name() string { return "departments" }

func (f *departmentsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *departmentsFilter) IsEnabled() bool { return !f.disabled }

func (f *departmentsFilter) Validate(cfg *Config) error {
	f.departments = nil
	if cfg == nil {
		return nil
	}
	for _, d := range cfg.Departments {
		if d = strings.TrimSpace(d); d != "" {
			f.departments = append(f.departments, d)
		}
	}
	return nil
}

func (f *departmentsFilter) Apply(_ context.Context, deps Deps, p *Pool) (*Pool, Step, error) {
	initial := p.Len()
	if len(f.departments) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	excluded := p.Exclude(func(s scoring.Scored) bool {
		for _, d := range f.departments {
			if strings.EqualFold(strings.TrimSpace(s.Employee.Department), d) {
				return true
			}
		}
		return false
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding employees by department",
			zap.Strings("excluded_departments", f.departments),
			zap.Strings("excluded_employees", excluded),
			zap.Int("employees_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *departmentsFilter) Status() Status {
	details := map[string]string{}
	if len(f.departments) > 0 {
		details["departments"] = strings.Join(f.departments, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
