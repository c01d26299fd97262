package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "risklab/internal/errors"
	"risklab/pkg/utils"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved simulation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "run history is disabled")
			}

			runs, err := app.Store.GetRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(runs)
			}

			if len(runs) == 0 {
				output.Dim("No saved runs.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Label", "Sims", "Median Ret", "Win %", "Ruin %")
			for _, run := range runs {
				label := run.Label
				if label == "" {
					label = "-"
				}
				table.AddRow(
					strconv.FormatInt(run.ID, 10),
					run.CreatedAt.Format("02-Jan-2006 15:04"),
					label,
					strconv.Itoa(run.Stats.NumResults),
					output.FormatPercent(run.Stats.ReturnPct.P50),
					fmt.Sprintf("%.1f", run.Stats.WinProbability),
					fmt.Sprintf("%.2f", run.Stats.RuinProbability),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 = all)")

	cmd.AddCommand(newHistoryShowCmd(app))
	cmd.AddCommand(newHistoryDeleteCmd(app))
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved run in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "run history is disabled")
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad run ID %q: %w", args[0], err)
			}

			run, err := app.Store.GetRun(cmd.Context(), id)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(run)
			}

			if run.Label != "" {
				output.Bold("Run %d  %s", run.ID, run.Label)
			} else {
				output.Bold("Run %d", run.ID)
			}
			output.Dim("%s  seed %d", run.CreatedAt.Format("02-Jan-2006 15:04:05"), run.Seed)
			output.Println()

			output.Printf("  Config: win %.1f%%  avg %s/%s  risk %.1f%%  capital %s  %d×%d  %s\n",
				run.Config.WinRate,
				utils.FormatCurrency(run.Config.AvgWin), utils.FormatCurrency(run.Config.AvgLoss),
				run.Config.RiskPerTrade, utils.FormatCompact(run.Config.StartingCapital),
				run.Config.NumSimulations, run.Config.NumTrades, run.Config.PositionSizing)
			output.Println()

			renderStats(output, run.Config, &run.Stats, run.Seed)
			return nil
		},
	}
}

func newHistoryDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, "run history is disabled")
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad run ID %q: %w", args[0], err)
			}
			if err := app.Store.DeleteRun(cmd.Context(), id); err != nil {
				return err
			}
			output.Success("Deleted run %d", id)
			return nil
		},
	}
}
