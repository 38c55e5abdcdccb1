package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/config"
	"github.com/AdityaKulkarniXD/webdoc-sub000/internal/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run migrations and seeds (migrate up, then database/seeds/*.sql)",
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := database.RunSeeds(db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
