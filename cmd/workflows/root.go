package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallnest/workflowpaths/config"
	"github.com/smallnest/workflowpaths/log"
)

// app carries what every subcommand shares.
type app struct {
	configPath string
	logLevel   string
	backend    string
	dsn        string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "workflows",
		Short: "List the distinct workflows of a LangGraph-style graph",
		Long: `workflows enumerates every path from START to END of a graph definition
(YAML, JSON or HCL), folds paths that only differ by self-loop repetitions
into one workflow and renders them as text, JSON, markdown or HTML.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error or none")
	rootCmd.PersistentFlags().StringVar(&a.backend, "store", "", "Report store: memory, file, sqlite, postgres or redis")
	rootCmd.PersistentFlags().StringVar(&a.dsn, "dsn", "", "Report store location (directory, database path, connection string or address)")

	rootCmd.AddCommand(
		newExtractCmd(a),
		newGraphCmd(a),
		newCoverageCmd(a),
		newReportsCmd(a),
	)
	return rootCmd
}

// setup loads the configuration, applies flag overrides and installs the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("store") {
		cfg.Store.Backend = a.backend
	}
	if flags.Changed("dsn") {
		cfg.Store.DSN = a.dsn
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetDefaultLogger(log.NewCLILogger(cmd.ErrOrStderr(), level))

	a.cfg = cfg
	return nil
}
