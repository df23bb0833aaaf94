package main

import (
	"fmt"
	"os"

	"secondbrain/config"
	"secondbrain/logger"

	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "secondbrain",
	Short: "Personal notes and tasks API",
	Long: `secondbrain stores notes and tasks per user in MongoDB and serves them,
together with a dashboard, search and statistics, over a JSON HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Parse(); err != nil {
			return err
		}
		return logger.InitGlobal(os.Stderr, cfg.App.LogLevel, cfg.App.Pretty, logger.WithContextAttrs)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
