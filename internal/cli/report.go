package cli

import (
	"sync"

	"github.com/spf13/cobra"

	"tradelytics/internal/aggregate"
	"tradelytics/internal/equity"
	"tradelytics/internal/logging"
	"tradelytics/internal/metrics"
	"tradelytics/internal/models"
	"tradelytics/internal/performance"
	"tradelytics/internal/reconcile"
	"tradelytics/internal/trading"
)

// addReportCommands adds performance report commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Performance reports and breakdowns",
		Long:  "Compute portfolio statistics and per-dimension breakdowns over the canonical trade set.",
	}

	cmd.AddCommand(newReportKpisCmd(app))
	cmd.AddCommand(newBreakdownCmd(app, "setups", "Breakdown by setup", func(t []models.Trade, rate float64) []models.AggregateRow {
		return aggregate.BySetup(t, rate)
	}))
	cmd.AddCommand(newBreakdownCmd(app, "symbols", "Breakdown by symbol", func(t []models.Trade, rate float64) []models.AggregateRow {
		return aggregate.BySymbol(t, rate)
	}))
	cmd.AddCommand(newBreakdownCmd(app, "days", "Breakdown by calendar day", func(t []models.Trade, rate float64) []models.AggregateRow {
		return aggregate.ByDay(t, rate)
	}))
	cmd.AddCommand(newBreakdownCmd(app, "weekdays", "Breakdown by weekday", func(t []models.Trade, rate float64) []models.AggregateRow {
		return aggregate.ByWeekday(t, rate)
	}))
	cmd.AddCommand(newBreakdownCmd(app, "hours", "Breakdown by time-of-day bucket", func(t []models.Trade, rate float64) []models.AggregateRow {
		return aggregate.ByHour(t, rate, app.Config.SessionLocation())
	}))
	cmd.AddCommand(newBreakdownCmd(app, "tags", "Breakdown by tag", func(t []models.Trade, rate float64) []models.AggregateRow {
		return aggregate.ByTags(t, rate)
	}))
	cmd.AddCommand(newBreakdownCmd(app, "recovery", "Breakdown by recovery band", func(t []models.Trade, rate float64) []models.AggregateRow {
		return aggregate.ByRecovery(t, app.Service.Journal(), rate, app.Config.Analytics.RecoveryThreshold)
	}))
	cmd.AddCommand(newReportEquityCmd(app))
	cmd.AddCommand(newReportWorstCmd(app))
	cmd.AddCommand(newReportAllCmd(app))

	rootCmd.AddCommand(cmd)
}

func newReportKpisCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Portfolio statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trades := app.Service.Trades()
			stats := metrics.Compute(trades, app.Service.CommissionRate())

			if output.IsJSON() {
				return output.JSON(stats)
			}

			output.Bold("Performance")
			output.Printf("  Net P&L:            %s\n", output.FormatPnL(stats.TotalPnL))
			output.Printf("  Trades:             %d (%d wins / %d losses)\n", stats.Count, stats.Wins, stats.Losses)
			output.Printf("  Win Rate:           %s\n", FormatPercent(stats.WinRate))
			output.Printf("  Average R:          %s\n", FormatR(stats.AvgR))
			output.Printf("  Expectancy / Trade: %s\n", output.FormatPnL(stats.Expectancy))
			output.Printf("  Profit Factor:      %s\n", FormatProfitFactor(stats.ProfitFactor))
			output.Printf("  Max Drawdown:       %s\n", output.FormatPnL(equity.MaxDrawdown(trades, app.Service.CommissionRate())))
			return nil
		},
	}
}

type breakdownFn func(trades []models.Trade, rate float64) []models.AggregateRow

func newBreakdownCmd(app *App, use, short string, breakdown breakdownFn) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trades := app.Service.Trades()
			rate := app.Service.CommissionRate()
			rows := breakdown(trades, rate)

			check := reconcile.Check(trades, rate, use, rows)
			logging.LogReconciliation(app.Logger, use, check.OK, check.TradeTotal, check.AggregateTotal)

			if output.IsJSON() {
				return output.JSON(struct {
					Rows           []models.AggregateRow `json:"rows"`
					Reconciliation reconcile.Result      `json:"reconciliation"`
				}{rows, check})
			}

			renderBreakdown(output, rows)
			// Tag groups double-count multi-tagged trades, so only the
			// partitioning dimensions warn on mismatch.
			if !check.OK && use != "tags" {
				output.Warning("Reconciliation mismatch: aggregate %s vs trades %s (diff %s)",
					FormatMoney(check.AggregateTotal), FormatMoney(check.TradeTotal), FormatMoney(check.Diff))
			}
			return nil
		},
	}
}

func renderBreakdown(output *Output, rows []models.AggregateRow) {
	if len(rows) == 0 {
		output.Info("No trades to aggregate.")
		return
	}
	table := NewTable(output, "Group", "Trades", "Wins", "Win%", "Avg R", "Net P&L")
	for _, row := range rows {
		table.AddRow(
			TruncateString(row.Key, 24),
			FormatNum(float64(row.Trades)),
			FormatNum(float64(row.Wins)),
			FormatPercent(row.WinRate),
			FormatR(row.AvgR),
			output.FormatPnL(row.PnL),
		)
	}
	table.Render()
}

func newReportEquityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "equity",
		Short: "Equity curve and max drawdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trades := app.Service.Trades()
			rate := app.Service.CommissionRate()
			curve := equity.Curve(trades, rate)
			maxDd := equity.MaxDrawdown(trades, rate)

			if output.IsJSON() {
				return output.JSON(struct {
					Curve       []equity.Point `json:"curve"`
					MaxDrawdown float64        `json:"maxDrawdown"`
				}{curve, maxDd})
			}

			if len(curve) == 0 {
				output.Info("No trades yet.")
				return nil
			}
			table := NewTable(output, "Date", "Equity")
			for _, p := range curve {
				table.AddRow(p.Date, output.FormatPnL(p.Value))
			}
			table.Render()
			output.Println()
			output.Printf("Max Drawdown: %s\n", output.FormatPnL(maxDd))
			return nil
		},
	}
}

func newReportWorstCmd(app *App) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "worst",
		Short: "Most damaging trades by net P&L",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			rate := app.Service.CommissionRate()
			worst := trading.WorstTrades(app.Service.Trades(), rate, n)

			if output.IsJSON() {
				return output.JSON(worst)
			}
			if len(worst) == 0 {
				output.Info("No trades yet.")
				return nil
			}
			table := NewTable(output, "Date", "Symbol", "Side", "Setup", "Net P&L", "R")
			for _, t := range worst {
				table.AddRow(
					t.Date,
					t.Symbol,
					string(t.Side),
					TruncateString(t.Setup, 15),
					output.FormatPnL(metrics.NetPnL(t, rate)),
					FormatR(t.R),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 5, "Number of trades to show")
	return cmd
}

// newReportAllCmd computes every breakdown over one snapshot, fanning the
// independent dimensions out on the worker pool, then runs the
// reconciliation gate across all of them.
func newReportAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Full report with reconciliation check",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trades := app.Service.Trades()
			journal := app.Service.Journal()
			rate := app.Service.CommissionRate()
			session := app.Config.SessionLocation()
			threshold := app.Config.Analytics.RecoveryThreshold

			var (
				mu         sync.Mutex
				dimensions = make(map[string][]models.AggregateRow)
			)
			record := func(name string, rows []models.AggregateRow) {
				mu.Lock()
				dimensions[name] = rows
				mu.Unlock()
			}

			pool := performance.NewWorkerPool(0)
			pool.Start()
			defer pool.Stop()
			pool.Run(
				func() { record("setups", aggregate.BySetup(trades, rate)) },
				func() { record("symbols", aggregate.BySymbol(trades, rate)) },
				func() { record("days", aggregate.ByDay(trades, rate)) },
				func() { record("weekdays", aggregate.ByWeekday(trades, rate)) },
				func() { record("hours", aggregate.ByHour(trades, rate, session)) },
				func() { record("recovery", aggregate.ByRecovery(trades, journal, rate, threshold)) },
			)
			tagRows := aggregate.ByTags(trades, rate)

			checks := reconcile.CheckAll(trades, rate, dimensions)
			stats := metrics.Compute(trades, rate)
			maxDd := equity.MaxDrawdown(trades, rate)

			if output.IsJSON() {
				return output.JSON(struct {
					Stats       metrics.Stats                    `json:"stats"`
					MaxDrawdown float64                          `json:"maxDrawdown"`
					Dimensions  map[string][]models.AggregateRow `json:"dimensions"`
					Tags        []models.AggregateRow            `json:"tags"`
					Checks      []reconcile.Result               `json:"reconciliation"`
				}{stats, maxDd, dimensions, tagRows, checks})
			}

			output.Bold("Portfolio")
			output.Printf("  Net P&L: %s  Trades: %d  Win Rate: %s  PF: %s  Max DD: %s\n",
				output.FormatPnL(stats.TotalPnL), stats.Count, FormatPercent(stats.WinRate),
				FormatProfitFactor(stats.ProfitFactor), output.FormatPnL(maxDd))
			output.Println()

			for _, name := range []string{"setups", "symbols", "days", "weekdays", "hours", "recovery"} {
				output.Bold("By %s", name)
				renderBreakdown(output, dimensions[name])
				output.Println()
			}
			output.Bold("By tags")
			renderBreakdown(output, tagRows)
			output.Println()

			output.Bold("Reconciliation")
			allOK := true
			for _, check := range checks {
				logging.LogReconciliation(app.Logger, check.Dimension, check.OK, check.TradeTotal, check.AggregateTotal)
				if check.OK {
					output.Success("  %-10s aggregate %s == trades %s", check.Dimension,
						FormatMoney(check.AggregateTotal), FormatMoney(check.TradeTotal))
				} else {
					allOK = false
					output.Warning("  %-10s aggregate %s != trades %s (diff %s)", check.Dimension,
						FormatMoney(check.AggregateTotal), FormatMoney(check.TradeTotal), FormatMoney(check.Diff))
				}
			}
			if !allOK {
				output.Warning("Aggregation totals disagree with the trade-level total. Results shown unchanged.")
			}
			return nil
		},
	}
}
