package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/nawasena/internal/scoring"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates [job-id]",
	Short: "Rank the most compatible employees for a position",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := setup(ctx)

		jobID, err := pickOrArg(args, func() (string, error) { return pickJob(rt.service.Roster()) })
		if err != nil {
			rt.logger.Fatal("choosing a position", zap.Error(err))
		}

		var method scoring.Method
		if cmd.Flags().Changed("method") {
			method, err = scoring.ParseMethod(cmd.Flag("method").Value.String())
			if err != nil {
				rt.logger.Fatal("parsing the scoring method", zap.Error(err))
			}
		}

		candidates, err := rt.service.FindCompatibleCandidates(ctx, jobID, method)
		if err != nil {
			rt.logger.Fatal("finding compatible candidates", zap.Error(err))
		}

		rt.logger.Info("candidates ranked", zap.String("job_id", jobID), zap.Int("count", len(candidates)))
		mustPrint(rt, cmd, candidates)
	},
}

var prospectsCmd = &cobra.Command{
	Use:   "prospects [employee-id]",
	Short: "Recommend positions for an employee",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := setup(ctx)

		employeeID, err := pickOrArg(args, func() (string, error) { return pickEmployee(rt.service.Roster()) })
		if err != nil {
			rt.logger.Fatal("choosing an employee", zap.Error(err))
		}

		prospects, err := rt.service.FindJobProspects(ctx, employeeID)
		if err != nil {
			rt.logger.Fatal("finding job prospects", zap.Error(err))
		}

		if len(prospects) == 0 {
			rt.logger.Warn("no prospects returned", zap.String("employee_id", employeeID))
		}
		mustPrint(rt, cmd, prospects)
	},
}

var biasCmd = &cobra.Command{
	Use:   "bias [job-id]",
	Short: "Audit the current shortlist of a position for bias",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := setup(ctx)

		jobID, err := pickOrArg(args, func() (string, error) { return pickJob(rt.service.Roster()) })
		if err != nil {
			rt.logger.Fatal("choosing a position", zap.Error(err))
		}

		result, err := rt.service.CheckBias(ctx, jobID, nil)
		if err != nil {
			rt.logger.Fatal("checking bias", zap.Error(err))
		}
		mustPrint(rt, cmd, result)
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <employee-id> <job-id>",
	Short: "Explain the compatibility of an employee with a position",
	Args:  cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		rt := setup(ctx)
		r := rt.service.Roster()

		employeeID, err := pickOrArg(args, func() (string, error) { return pickEmployee(r) })
		if err != nil {
			rt.logger.Fatal("choosing an employee", zap.Error(err))
		}

		var rest []string
		if len(args) > 1 {
			rest = args[1:]
		}
		jobID, err := pickOrArg(rest, func() (string, error) { return pickJob(r) })
		if err != nil {
			rt.logger.Fatal("choosing a position", zap.Error(err))
		}

		explanation, err := rt.service.ExplainCompatibility(ctx, employeeID, jobID)
		if err != nil {
			rt.logger.Fatal("explaining compatibility", zap.Error(err))
		}
		mustPrint(rt, cmd, explanation)
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd, prospectsCmd, biasCmd, explainCmd)

	candidatesCmd.Flags().StringP("method", "m", "", fmt.Sprintf("scoring method: %s or %s (default from scoring.method)", scoring.MethodCosine, scoring.MethodWeighted))
}

func mustPrint(rt *runtime, cmd *cobra.Command, v any) {
	if err := printJSON(cmd.OutOrStdout(), v); err != nil {
		rt.logger.Fatal("printing the result", zap.Error(err))
	}
}
