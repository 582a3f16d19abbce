package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/nawasena/internal/roster"
)

// pickOrArg returns args[0] when present, otherwise asks with pick.
func pickOrArg(args []string, pick func() (string, error)) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	return pick()
}

func pickJob(r *roster.Roster) (string, error) {
	jobs := r.Jobs()
	items := make([]string, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, fmt.Sprintf("%s %s / %s / %s", j.ID, j.Name, j.Department, j.Level))
	}
	return runPicker("Choose a position and press ENTER", items)
}

func pickEmployee(r *roster.Roster) (string, error) {
	employees := r.Employees()
	items := make([]string, 0, len(employees))
	for _, e := range employees {
		items = append(items, fmt.Sprintf("%s %s / %s", e.ID, e.Name, e.Department))
	}
	return runPicker("Choose an employee and press ENTER", items)
}

func runPicker(label string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("nothing to choose from")
	}

	selectPrompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(strings.TrimSpace(input)))
		},
	}

	_, selected, err := selectPrompt.Run()
	if err != nil {
		return "", err
	}

	return idFromLabel(selected), nil
}

// idFromLabel extracts the leading ID from a picker label.
func idFromLabel(label string) string {
	return strings.Split(strings.TrimSpace(label), " ")[0]
}
