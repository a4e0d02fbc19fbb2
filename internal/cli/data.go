package cli

import (
	"errors"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "tradelytics/internal/errors"
	"tradelytics/internal/logging"
	"tradelytics/internal/trading"
)

// addDataCommands adds import/export and settings commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Import, export and settings",
	}

	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newCommissionCmd(app))

	rootCmd.AddCommand(cmd)
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import trades from a broker CSV/TSV export",
		Long: "Parse a comma- or tab-delimited export with fuzzy header matching.\n" +
			"Unusable rows are skipped and counted; they never abort the batch.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			summary, err := app.Service.ImportCSV(cmd.Context(), string(text))
			if err != nil {
				if errors.Is(err, apperrors.ErrEmptyImport) {
					output.Warning("Import produced no usable rows (%d skipped).", summary.Skipped)
					return nil
				}
				return err
			}
			logging.LogImport(app.Logger, summary.Imported, summary.Skipped)
			if summary.Skipped > 0 {
				output.Success("Import complete: %d rows added, %d skipped.", summary.Imported, summary.Skipped)
			} else {
				output.Success("Import complete: %d rows added.", summary.Imported)
			}
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var filtered trading.Filter
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trades as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trades := filtered.Apply(app.Service.Trades(), app.Service.CommissionRate())
			csv := app.Service.ExportCSV(trades)

			if outPath == "" {
				output.Printf("%s\n", csv)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(csv), 0o644); err != nil {
				return err
			}
			output.Success("Exported %d trades to %s", len(trades), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&filtered.Symbol, "symbol", "", "Filter by symbol substring")
	cmd.Flags().StringVar(&filtered.Side, "side", "", "Filter by side")
	cmd.Flags().StringVar(&filtered.Setup, "setup", "", "Filter by setup")
	cmd.Flags().StringVar(&filtered.DateFrom, "from", "", "Start date (inclusive)")
	cmd.Flags().StringVar(&filtered.DateTo, "to", "", "End date (inclusive)")
	return cmd
}

func newCommissionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commission [rate]",
		Short: "Show or set the round-trip commission per unit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if len(args) == 0 {
				output.Printf("Commission (round-trip per unit): %s\n", FormatNum(app.Service.CommissionRate()))
				return nil
			}
			rate, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return err
			}
			if err := app.Service.SetCommissionRate(cmd.Context(), rate); err != nil {
				if errors.Is(err, apperrors.ErrInvalidSetting) {
					output.Error("Commission must be a non-negative number.")
					return nil
				}
				return err
			}
			output.Success("Commission set to %s per unit.", FormatNum(rate))
			return nil
		},
	}
	return cmd
}
