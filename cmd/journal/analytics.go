package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trading-journal-go/internal/analytics"
)

func newOverviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show the portfolio summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := a.client.Overview(cmd.Context())
			if err != nil {
				return fmt.Errorf("overview: %w", err)
			}

			tw := table(a.out)
			fmt.Fprintf(tw, "Base account value\t%s\n", money(ov.BaseAccountValue))
			fmt.Fprintf(tw, "Current account value\t%s\n", money(ov.CurrentAccountValue))
			fmt.Fprintf(tw, "Total P&L\t%s (%s)\n", money(ov.TotalPnL), percent(ov.TotalPnLPercent))
			fmt.Fprintf(tw, "Total position value\t%s\n", money(ov.TotalPositionValue))
			fmt.Fprintf(tw, "Open positions\t%d\n", ov.OpenPositions)
			fmt.Fprintf(tw, "Closed positions\t%d\n", ov.ClosedPositions)
			return tw.Flush()
		},
	}
}

func newSeriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Show the account value over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := a.client.Series(cmd.Context())
			if err != nil {
				return fmt.Errorf("series: %w", err)
			}

			tw := table(a.out)
			for _, p := range vs.Points {
				fmt.Fprintf(tw, "%s\t%s\n", p.Label, money(p.Value))
			}
			fmt.Fprintf(tw, "\nRange\t%s to %s\n", money(vs.Domain.Min), money(vs.Domain.Max))
			return tw.Flush()
		},
	}
}

func newRiskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "risk",
		Short: "Show the portfolio risk report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := a.client.Risk(cmd.Context())
			if err != nil {
				return fmt.Errorf("risk: %w", err)
			}
			if rep.IncludedTrades == 0 {
				fmt.Fprintln(a.out, "No trades with a position value to assess")
				return nil
			}

			tw := table(a.out)
			fmt.Fprintf(tw, "Risk score\t%d (%s)\n", rep.Score, rep.Level)
			fmt.Fprintf(tw, "Average risk per trade\t%s\n", percent(rep.AvgRiskPerTrade))
			fmt.Fprintf(tw, "Portfolio heat\t%s\n", percent(rep.PortfolioHeat))
			fmt.Fprintf(tw, "Low / medium / high\t%s / %s / %s\n",
				percent(rep.LowRisk), percent(rep.MediumRisk), percent(rep.HighRisk))
			fmt.Fprintf(tw, "Trades assessed\t%d\n", rep.IncludedTrades)
			return tw.Flush()
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var tz string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show performance statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.client.Stats(cmd.Context(), tz)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			return printStats(a.out, st)
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone for day, week and month buckets")
	return cmd
}

func printStats(w io.Writer, st analytics.Statistics) error {
	tw := table(w)
	fmt.Fprintf(tw, "Trades\t%d (%d winning, %d losing)\n", st.TotalTrades, st.WinningTrades, st.LosingTrades)
	fmt.Fprintf(tw, "Win rate\t%s\n", percent(st.WinRate))
	fmt.Fprintf(tw, "Average gain\t%s (%s)\n", money(st.AvgGain), percent(st.AvgGainPercent))
	fmt.Fprintf(tw, "Average loss\t%s\n", money(st.AvgLoss))
	fmt.Fprintf(tw, "Profit factor\t%.2f\n", st.ProfitFactor)

	periods := []struct {
		name string
		ext  analytics.PeriodExtremes
	}{
		{"Day", st.Periods.Daily},
		{"Week", st.Periods.Weekly},
		{"Month", st.Periods.Monthly},
	}
	for _, p := range periods {
		fmt.Fprintf(tw, "Best %s\t%s\n", p.name, periodLine(p.ext.Most))
		fmt.Fprintf(tw, "Worst %s\t%s\n", p.name, periodLine(p.ext.Least))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(st.TopGainers) > 0 {
		fmt.Fprintln(w, "\nTop gainers")
		if err := printTrades(w, st.TopGainers); err != nil {
			return err
		}
	}
	if len(st.TopLosers) > 0 {
		fmt.Fprintln(w, "\nTop losers")
		if err := printTrades(w, st.TopLosers); err != nil {
			return err
		}
	}
	return nil
}

func periodLine(p *analytics.PeriodProfit) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s", p.Period, money(p.Profit))
}

func newTodayCmd(a *app) *cobra.Command {
	var tz string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show trades opened today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today, err := a.client.Today(cmd.Context(), tz)
			if err != nil {
				return fmt.Errorf("today: %w", err)
			}

			fmt.Fprintf(a.out, "%s: %d trades, P&L %s\n", today.Date, len(today.Trades), money(today.PnL))
			if len(today.Trades) == 0 {
				return nil
			}
			return printTrades(a.out, today.Trades)
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone defining today")
	return cmd
}
