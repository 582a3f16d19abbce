package cmd

import (
	"errors"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/filtering"
	"github.com/spigell/nawasena/internal/roster"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Manage employees excluded from candidate lists",
}

var excludeAddCmd = &cobra.Command{
	Use:   "add [employee-id]",
	Short: "Exclude an employee from candidate lists",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log, config := setupLight()

		path := config.ExcludeFile
		if path == "" {
			log.Fatal("exclude file is not set (use --exclude-file or exclude-file in the config)")
		}

		r, err := roster.Load(config.Data.Employees, config.Data.Jobs)
		if err != nil {
			log.Fatal("loading the roster", zap.Error(err))
		}

		employeeID, err := pickOrArg(args, func() (string, error) { return pickEmployee(r) })
		if err != nil {
			log.Fatal("choosing an employee", zap.Error(err))
		}
		employee := r.EmployeeByID(employeeID)
		if employee == nil {
			log.Fatal("unknown employee", zap.String("employee_id", employeeID))
		}

		reason, err := excludeReason(cmd, len(args) == 0, askReason)
		if err != nil {
			log.Fatal("reading the reason", zap.Error(err))
		}

		excluded, err := filtering.LoadExcluded(path)
		if err != nil {
			log.Fatal("reading the exclude file", zap.Error(err))
		}

		before := len(excluded.Items)
		excluded.Append(&filtering.ExcludedEmployees{Items: []*filtering.ExcludedEmployee{{
			ID:         employee.ID,
			Name:       employee.Name,
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		}}})

		if len(excluded.Items) == before {
			log.Info("employee is already excluded", zap.String("employee_id", employee.ID))
			return
		}

		if err := excluded.ToFile(path); err != nil {
			log.Fatal("writing the exclude file", zap.Error(err))
		}
		log.Info("employee excluded",
			zap.String("employee_id", employee.ID),
			zap.String("file", path),
		)
	},
}

var excludeListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print excluded employees",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		log, config := setupLight()

		excluded, err := filtering.LoadExcluded(config.ExcludeFile)
		if err != nil {
			log.Fatal("reading the exclude file", zap.Error(err))
		}
		if err := printJSON(cmd.OutOrStdout(), excluded.Items); err != nil {
			log.Fatal("printing the result", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(excludeCmd)
	excludeCmd.AddCommand(excludeAddCmd, excludeListCmd)

	excludeAddCmd.Flags().StringP("reason", "r", "", "why the employee is excluded")
}

// excludeReason takes --reason, asking for one only in interactive runs.
func excludeReason(cmd *cobra.Command, interactive bool, ask func() (string, error)) (string, error) {
	reason, err := cmd.Flags().GetString("reason")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reason) == "" && interactive {
		return ask()
	}
	return strings.TrimSpace(reason), nil
}

func askReason() (string, error) {
	prompt := promptui.Prompt{
		Label: "Reason (optional)",
	}
	reason, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) {
		return "", err
	}
	if err != nil {
		return "", nil
	}
	return reason, nil
}
