package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "signaling-service",
	Short: "Call signaling service: doctor presence, WebRTC relay, call recording",
	Long:  `HTTP + WebSocket API. Commands: api, migrate, seed.`,
	RunE:  runAPI, // default: run API (same as "signaling-service api")
}

func init() {
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command and returns the error (for main to log.Fatal).
func Execute() error {
	return rootCmd.Execute()
}
