package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leavedesk/internal/platform/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "leavedesk - employee leave and policy knowledge service",
	Long: `leavedesk keeps an employee directory, leave balances and the leave
request lifecycle, and answers questions from a keyword-searchable policy
knowledge base. Settings come from the environment (optionally a .env file).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadEnvFile(envFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading configuration")
}
