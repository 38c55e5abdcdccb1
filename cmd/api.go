package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/application"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/config"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the HTTP + WebSocket signaling API",
	RunE:  runAPI,
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	api, err := application.NewAPI(cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.Run(ctx)
}
