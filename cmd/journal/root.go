package main

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trading-journal-go/internal/client"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/logger"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configDir string
	baseURL   string
	userID    uint
	logLevel  string

	cfg    config.Config
	client *client.Client
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Command-line client for the trading journal service",
		Long: `Journal records trades and reports portfolio analytics through a running
journal-server.

Examples:
  journal register --email me@example.com --name Me
  journal trades add AAPL --qty 10 --entry 100 --stop 98 --target 104
  journal overview
  journal size --entry 100 --stop 98`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configDir, "config-dir", "./configs", "directory holding config.yml")
	flags.StringVar(&a.baseURL, "url", "", "journal-server base URL (overrides client.base_url)")
	flags.UintVarP(&a.userID, "user", "u", 0, "user ID to act as (overrides client.user_id)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "client log level")

	cmd.AddCommand(
		newTradesCmd(a),
		newSettingsCmd(a),
		newOverviewCmd(a),
		newSeriesCmd(a),
		newRiskCmd(a),
		newStatsCmd(a),
		newTodayCmd(a),
		newSizeCmd(a),
		newSuggestCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newUsersCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// setup loads configuration and builds the REST client.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(a.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.baseURL != "" {
		cfg.Client.BaseURL = a.baseURL
	}
	if a.userID != 0 {
		cfg.Client.UserID = a.userID
	}
	a.cfg = cfg

	log, err := logger.NewLogger(a.logLevel, "console")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.client = client.New(&a.cfg.Client, log.With(zap.String("component", "client")))
	a.out = cmd.OutOrStdout()
	return nil
}
