package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trading-journal-go/internal/client"
	"trading-journal-go/internal/journal"
)

// sizingFlags binds the optional overrides shared by size and suggest.
type sizingFlags struct {
	account, risk, ratio float64
	side                 string
}

func (sf *sizingFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&sf.account, "account", 0, "account value (defaults to the base account value)")
	f.Float64Var(&sf.risk, "risk", 0, "risk percentage per trade (defaults to settings)")
	f.Float64Var(&sf.ratio, "ratio", 0, "reward to risk ratio (defaults to settings)")
	f.StringVar(&sf.side, "side", "long", "long or short")
}

func (sf *sizingFlags) request(cmd *cobra.Command) (client.SizingRequest, error) {
	var req client.SizingRequest
	side, err := journal.ParseSide(sf.side)
	if err != nil {
		return req, err
	}
	req.Side = side

	f := cmd.Flags()
	if f.Changed("account") {
		req.AccountValue = &sf.account
	}
	if f.Changed("risk") {
		req.RiskPercentage = &sf.risk
	}
	if f.Changed("ratio") {
		req.ProfitRiskRatio = &sf.ratio
	}
	return req, nil
}

func newSizeCmd(a *app) *cobra.Command {
	var sf sizingFlags
	var entry, stop float64

	cmd := &cobra.Command{
		Use:   "size",
		Short: "Size a position from an entry and stop loss",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := sf.request(cmd)
			if err != nil {
				return err
			}
			req.EntryPrice = entry
			req.StopLoss = stop

			res, err := a.client.Size(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("size position: %w", err)
			}

			tw := table(a.out)
			fmt.Fprintf(tw, "Shares\t%s\n", quantity(res.Shares))
			fmt.Fprintf(tw, "Position value\t%s\n", money(res.TotalPositionValue))
			fmt.Fprintf(tw, "Dollar risk\t%s\n", money(res.DollarRisk))
			fmt.Fprintf(tw, "Risk per share\t%s\n", money(res.RiskPerShare))
			fmt.Fprintf(tw, "Take profit\t%s\n", money(res.TakeProfit))
			return tw.Flush()
		},
	}
	sf.bind(cmd)
	cmd.Flags().Float64Var(&entry, "entry", 0, "entry price (required)")
	cmd.Flags().Float64Var(&stop, "stop", 0, "stop loss (required)")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("stop")
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	var sf sizingFlags
	var entry float64

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest stop loss and take profit levels for an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := sf.request(cmd)
			if err != nil {
				return err
			}
			req.EntryPrice = entry

			sug, err := a.client.Suggest(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("suggest levels: %w", err)
			}

			tw := table(a.out)
			fmt.Fprintf(tw, "Stop loss\t%s\n", money(sug.StopLoss))
			fmt.Fprintf(tw, "Take profit\t%s\n", money(sug.TakeProfit))
			fmt.Fprintf(tw, "Risk per share\t%s\n", money(sug.RiskPerShare))
			fmt.Fprintf(tw, "Max shares\t%s\n", quantity(sug.MaxShares))
			return tw.Flush()
		},
	}
	sf.bind(cmd)
	cmd.Flags().Float64Var(&entry, "entry", 0, "entry price (required)")
	_ = cmd.MarkFlagRequired("entry")
	return cmd
}
