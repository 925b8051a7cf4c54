package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trading-journal-go/internal/journal"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change account settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.client.Settings(cmd.Context())
			if err != nil {
				return fmt.Errorf("settings: %w", err)
			}
			return printSettings(a, s)
		},
	}
	cmd.AddCommand(newSettingsSetCmd(a))
	return cmd
}

func newSettingsSetCmd(a *app) *cobra.Command {
	var base, risk, profit, loss float64
	var completed bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change account settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd journal.SettingsUpdate
			f := cmd.Flags()
			if f.Changed("base") {
				upd.BaseAccountValue = &base
			}
			if f.Changed("risk") {
				upd.RiskPercentage = &risk
			}
			if f.Changed("profit-ratio") {
				upd.ProfitRiskRatio = &profit
			}
			if f.Changed("loss-ratio") {
				upd.LossRiskRatio = &loss
			}
			if f.Changed("setup-completed") {
				upd.SetupCompleted = &completed
			}

			s, err := a.client.UpdateSettings(cmd.Context(), upd)
			if err != nil {
				return fmt.Errorf("update settings: %w", err)
			}
			return printSettings(a, s)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&base, "base", 0, "base account value")
	f.Float64Var(&risk, "risk", 0, "risk percentage per trade")
	f.Float64Var(&profit, "profit-ratio", 0, "profit to risk ratio")
	f.Float64Var(&loss, "loss-ratio", 0, "loss to risk ratio")
	f.BoolVar(&completed, "setup-completed", true, "mark initial setup as done")
	return cmd
}

func printSettings(a *app, s journal.Settings) error {
	tw := table(a.out)
	fmt.Fprintf(tw, "Base account value\t%s\n", money(s.BaseAccountValue))
	fmt.Fprintf(tw, "Risk percentage\t%s\n", percent(s.RiskPercentage))
	fmt.Fprintf(tw, "Profit/risk ratio\t%s\n", quantity(s.ProfitRiskRatio))
	fmt.Fprintf(tw, "Loss/risk ratio\t%s\n", quantity(s.LossRiskRatio))
	fmt.Fprintf(tw, "Setup completed\t%t\n", s.SetupCompleted)
	return tw.Flush()
}
