package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"healthcare-appointments-api/internal/config"
	"healthcare-appointments-api/internal/logging"
	"healthcare-appointments-api/internal/store"
)

// specializations seeded by `healthcare-api seed`
var catalogue = []string{
	"Cardiology",
	"Dermatology",
	"Endocrinology",
	"Gastroenterology",
	"General Practice",
	"Neurology",
	"Obstetrics and Gynecology",
	"Ophthalmology",
	"Orthopedics",
	"Pediatrics",
	"Psychiatry",
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "healthcare-api",
		Short:        "Healthcare appointment booking API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cfg, logging.New(cfg.Env, cfg.LogLevel))
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store, log zerolog.Logger) error {
				if err := st.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				log.Info().Msg("schema migrated")
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the specialization catalogue; safe to re-run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *store.Store, log zerolog.Logger) error {
				if err := st.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				n, err := st.EnsureSpecializations(ctx, catalogue)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				log.Info().Int("created", n).Int("total", len(catalogue)).Msg("specializations seeded")
				return nil
			})
		},
	}
}

func withStore(ctx context.Context, fn func(context.Context, *store.Store, zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Env, cfg.LogLevel)

	db, err := store.Open(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	st := store.New(db)
	defer st.Close()

	return fn(ctx, st, log)
}
