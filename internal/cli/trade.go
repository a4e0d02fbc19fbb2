package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	apperrors "tradelytics/internal/errors"
	"tradelytics/internal/metrics"
	"tradelytics/internal/models"
	"tradelytics/internal/trading"
)

// addTradeCommands adds trade entry and management commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Manage manually entered trades",
		Long:  "Add, edit, delete and list trades. Trades originating from the data feed are read-only.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeEditCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))
	cmd.AddCommand(newTradeListCmd(app))

	rootCmd.AddCommand(cmd)
}

// tradeFlags binds the manual-entry fields to a command and reconstructs a
// raw record from the flags that were actually set, so absent flags keep
// their absent semantics through the normalizer.
type tradeFlags struct {
	date, entryTime, symbol, assetType, underlying string
	optionType, expiry, side, setup, strategy      string
	tags, notes                                    string
	qty, entry, exit, pnl, commission, r, strike   float64
	contracts                                      int
}

func (f *tradeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Trade date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.entryTime, "entry-time", "", "Entry time (HH:MM, session-local)")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "Instrument symbol")
	cmd.Flags().StringVar(&f.assetType, "asset-type", "", "Asset type: stock, futures or options (inferred when omitted)")
	cmd.Flags().StringVar(&f.underlying, "underlying", "", "Underlying symbol (defaults to symbol)")
	cmd.Flags().StringVar(&f.optionType, "option-type", "", "CALL or PUT (options only)")
	cmd.Flags().StringVar(&f.expiry, "expiry", "", "Option expiry date (options only)")
	cmd.Flags().Float64Var(&f.strike, "strike", 0, "Option strike (options only)")
	cmd.Flags().IntVar(&f.contracts, "contracts", 0, "Option contracts (options only)")
	cmd.Flags().StringVar(&f.side, "side", "Long", "Long or Short")
	cmd.Flags().StringVar(&f.setup, "setup", "", "Setup label")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "Strategy label (defaults to setup)")
	cmd.Flags().Float64Var(&f.qty, "qty", 1, "Quantity")
	cmd.Flags().Float64Var(&f.entry, "entry", 0, "Entry price")
	cmd.Flags().Float64Var(&f.exit, "exit", 0, "Exit price")
	cmd.Flags().Float64Var(&f.pnl, "pnl", 0, "Gross P&L (computed from prices when omitted)")
	cmd.Flags().Float64Var(&f.commission, "commission", 0, "Commission (imputed from the rate setting when omitted)")
	cmd.Flags().Float64Var(&f.r, "r", 0, "R multiple")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Execution notes")
}

func (f *tradeFlags) toRaw(cmd *cobra.Command) models.RawTradeRecord {
	raw := models.RawTradeRecord{
		Date:       f.date,
		EntryTime:  f.entryTime,
		Symbol:     f.symbol,
		AssetType:  f.assetType,
		Underlying: f.underlying,
		OptionType: f.optionType,
		Expiry:     f.expiry,
		Side:       f.side,
		Setup:      f.setup,
		Strategy:   f.strategy,
		Notes:      f.notes,
	}
	if f.tags != "" {
		for _, tag := range strings.Split(f.tags, ",") {
			if t := strings.TrimSpace(tag); t != "" {
				raw.Tags = append(raw.Tags, t)
			}
		}
	}
	setFloat := func(name string, v float64, dst **float64) {
		if cmd.Flags().Changed(name) {
			val := v
			*dst = &val
		}
	}
	setFloat("qty", f.qty, &raw.Qty)
	setFloat("entry", f.entry, &raw.Entry)
	setFloat("exit", f.exit, &raw.Exit)
	setFloat("pnl", f.pnl, &raw.PnL)
	setFloat("commission", f.commission, &raw.Commission)
	setFloat("r", f.r, &raw.R)
	setFloat("strike", f.strike, &raw.Strike)
	if cmd.Flags().Changed("contracts") {
		c := f.contracts
		raw.Contracts = &c
	}
	return raw
}

func newTradeAddCmd(app *App) *cobra.Command {
	flags := &tradeFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new trade",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trade, err := app.Service.SaveTrade(cmd.Context(), flags.toRaw(cmd), "")
			if err != nil {
				return reportSaveError(output, err)
			}
			output.Success("Saved trade %s (%s %s %s)", trade.ID, trade.Date, trade.Symbol, trade.Side)
			return nil
		},
	}
	flags.register(cmd)
	cmd.MarkFlagRequired("symbol")
	return cmd
}

func newTradeEditCmd(app *App) *cobra.Command {
	flags := &tradeFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace an existing local trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trade, err := app.Service.SaveTrade(cmd.Context(), flags.toRaw(cmd), args[0])
			if err != nil {
				return reportSaveError(output, err)
			}
			output.Success("Updated trade %s", trade.ID)
			return nil
		},
	}
	flags.register(cmd)
	cmd.MarkFlagRequired("symbol")
	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a local trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Service.DeleteTrade(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, apperrors.ErrTradeLocked) {
					output.Warning("Trade %s comes from the data feed and is locked.", args[0])
					return nil
				}
				return err
			}
			output.Success("Deleted trade %s", args[0])
			return nil
		},
	}
}

func newTradeListCmd(app *App) *cobra.Command {
	filter := trading.Filter{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			rate := app.Service.CommissionRate()
			trades := filter.Apply(app.Service.Trades(), rate)

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades match current filters.")
				return nil
			}

			table := NewTable(output, "Date", "ID", "Symbol", "Side", "Setup", "Qty", "Entry", "Exit", "Net P&L", "R")
			for _, t := range trades {
				table.AddRow(
					t.Date,
					t.ID,
					t.Symbol,
					string(t.Side),
					TruncateString(t.Setup, 15),
					FormatNum(t.Qty),
					FormatNum(t.Entry),
					FormatNum(t.Exit),
					output.FormatPnL(metrics.NetPnL(t, rate)),
					FormatR(t.R),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Symbol, "symbol", "", "Filter by symbol substring")
	cmd.Flags().StringVar(&filter.Side, "side", "", "Filter by side (Long/Short)")
	cmd.Flags().StringVar(&filter.Setup, "setup", "", "Filter by setup")
	cmd.Flags().StringVar(&filter.DateFrom, "from", "", "Start date (inclusive)")
	cmd.Flags().StringVar(&filter.DateTo, "to", "", "End date (inclusive)")
	cmd.Flags().StringVar(&filter.Sort, "sort", "date-desc", "Sort: date-desc, date-asc, pnl-desc, pnl-asc, r-desc, r-asc")
	return cmd
}

func reportSaveError(output *Output, err error) error {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		output.Error("Save rejected:")
		for _, v := range verr.Violations {
			output.Error("  - %s", v)
		}
		return nil
	}
	return err
}
