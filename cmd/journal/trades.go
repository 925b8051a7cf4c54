package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trading-journal-go/internal/analytics"
	"trading-journal-go/internal/client"
	"trading-journal-go/internal/journal"
)

func newTradesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Record, list and manage trades",
	}

	cmd.AddCommand(
		newTradesListCmd(a),
		newTradesAddCmd(a),
		newTradesShowCmd(a),
		newTradesUpdateCmd(a),
		newTradesCloseCmd(a),
		newTradesDeleteCmd(a),
		newTradesClearCmd(a),
	)
	return cmd
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid trade id %q", s)
	}
	return uint(id), nil
}

func newTradesListCmd(a *app) *cobra.Command {
	var opts client.ListOptions
	var side, sort, profitability string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if side != "" {
				s, err := journal.ParseSide(side)
				if err != nil {
					return err
				}
				opts.Side = s
			}
			opts.Sort = analytics.SortField(sort)
			opts.Profitability = analytics.Profitability(profitability)

			page, err := a.client.ListTrades(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list trades: %w", err)
			}
			if err := printTrades(a.out, page.Trades); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\nPage %d of %d (%d trades)\n", page.Page, page.TotalPages, page.Total)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Symbol, "symbol", "", "symbol substring to match")
	f.StringVar(&side, "side", "", "long or short")
	f.StringVar(&opts.Status, "status", "", "open or closed")
	f.StringVar(&opts.From, "from", "", "earliest creation date (YYYY-MM-DD)")
	f.StringVar(&opts.To, "to", "", "latest creation date (YYYY-MM-DD)")
	f.StringVar(&profitability, "profitability", "", "profitable or unprofitable")
	f.StringVar(&sort, "sort", "", "date, symbol, side, quantity, entry, price or pnl")
	f.BoolVar(&opts.Ascending, "asc", false, "sort ascending")
	f.IntVar(&opts.Page, "page", 0, "page number")
	f.IntVar(&opts.PerPage, "per-page", 0, "trades per page")
	return cmd
}

func newTradesAddCmd(a *app) *cobra.Command {
	var in journal.TradeInput
	var side string
	var exit float64

	cmd := &cobra.Command{
		Use:   "add <symbol>",
		Short: "Record a new trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Symbol = args[0]
			in.Side = journal.Side(side)
			if cmd.Flags().Changed("exit") {
				in.ExitPrice = &exit
			}

			t, err := a.client.CreateTrade(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("add trade: %w", err)
			}
			return printTrade(a.out, t)
		},
	}

	f := cmd.Flags()
	f.StringVar(&side, "side", "long", "long or short")
	f.Float64Var(&in.Quantity, "qty", 0, "quantity (required)")
	f.Float64Var(&in.EntryPrice, "entry", 0, "entry price (required)")
	f.Float64Var(&in.CurrentPrice, "price", 0, "current price (defaults to entry)")
	f.Float64Var(&exit, "exit", 0, "exit price, records the trade as closed")
	f.Float64Var(&in.StopLoss, "stop", 0, "stop loss (required)")
	f.Float64Var(&in.TakeProfit, "target", 0, "take profit (required)")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("stop")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newTradesShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := a.client.GetTrade(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			return printTrades(a.out, []analytics.RankedTrade{r})
		},
	}
}

func newTradesUpdateCmd(a *app) *cobra.Command {
	var price, qty, stop, target float64

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the mark price, quantity or levels of a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var upd journal.TradeUpdate
			f := cmd.Flags()
			if f.Changed("price") {
				upd.CurrentPrice = &price
			}
			if f.Changed("qty") {
				upd.Quantity = &qty
			}
			if f.Changed("stop") {
				upd.StopLoss = &stop
			}
			if f.Changed("target") {
				upd.TakeProfit = &target
			}

			t, err := a.client.UpdateTrade(cmd.Context(), id, upd)
			if err != nil {
				return fmt.Errorf("update trade: %w", err)
			}
			return printTrade(a.out, t)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&price, "price", 0, "current market price")
	f.Float64Var(&qty, "qty", 0, "quantity")
	f.Float64Var(&stop, "stop", 0, "stop loss")
	f.Float64Var(&target, "target", 0, "take profit")
	return cmd
}

func newTradesCloseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "close <id> <exit-price>",
		Short: "Close a trade at an exit price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			exit, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid exit price %q", args[1])
			}

			t, err := a.client.CloseTrade(cmd.Context(), id, exit)
			if err != nil {
				return fmt.Errorf("close trade: %w", err)
			}
			return printTrade(a.out, t)
		},
	}
}

func newTradesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteTrade(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete trade: %w", err)
			}
			fmt.Fprintf(a.out, "Deleted trade %d\n", id)
			return nil
		},
	}
}

func newTradesClearCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every trade and reset settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the journal without --yes")
			}
			if err := a.client.ClearTrades(cmd.Context()); err != nil {
				return fmt.Errorf("clear journal: %w", err)
			}
			fmt.Fprintln(a.out, "Journal cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing all data")
	return cmd
}
