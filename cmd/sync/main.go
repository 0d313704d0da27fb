// Command sync is the CivicLens reconciliation CLI.
//
// Usage:
//
//	civiclens-sync all
//	civiclens-sync legislators
//	civiclens-sync legislation
//	civiclens-sync sponsorships
//	civiclens-sync token --email ops@example.org --ttl 24h
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/civiclens/civiclens-data/internal/auth"
	"github.com/civiclens/civiclens-data/internal/config"
	"github.com/civiclens/civiclens-data/internal/db"
	"github.com/civiclens/civiclens-data/internal/provider/openstates"
	"github.com/civiclens/civiclens-data/internal/store"
	"github.com/civiclens/civiclens-data/internal/syncer"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "civiclens-sync",
		Short: "CivicLens legislature reconciliation CLI",
	}

	root.AddCommand(allCmd())
	root.AddCommand(legislatorsCmd())
	root.AddCommand(legislationCmd())
	root.AddCommand(sponsorshipsCmd())
	root.AddCommand(tokenCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// sync commands
// --------------------------------------------------------------------------

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run a full sync pass (legislators, legislation, sponsorships)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(func(ctx context.Context, s *syncer.Syncer) error {
				start := time.Now()
				report, err := s.Run(ctx)
				if err != nil {
					return err
				}
				logger.Info("Sync finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", report.Summary())
				logResults(report.Legislators)
				logResults(report.Legislation)
				logResults(report.Sponsorships)
				return nil
			})
		},
	}
}

func legislatorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "legislators",
		Short: "Sync legislators from the state and national sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(func(ctx context.Context, s *syncer.Syncer) error {
				results, err := s.SyncLegislators(ctx)
				if err != nil {
					return err
				}
				logResults(results)
				return nil
			})
		},
	}
}

func legislationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "legislation",
		Short: "Re-fetch and merge all tracked bills",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(func(ctx context.Context, s *syncer.Syncer) error {
				results, err := s.SyncLegislation(ctx)
				if err != nil {
					return err
				}
				logResults(results)
				return nil
			})
		},
	}
}

func sponsorshipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sponsorships",
		Short: "Derive sponsorship records from stored bills",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(func(ctx context.Context, s *syncer.Syncer) error {
				results, err := s.SyncSponsorships(ctx)
				if err != nil {
					return err
				}
				logResults(results)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// token command
// --------------------------------------------------------------------------

func tokenCmd() *cobra.Command {
	var email string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.AuthSecret == "" {
				return fmt.Errorf("AUTH_SECRET is required")
			}
			token, err := auth.IssueToken([]byte(cfg.AuthSecret), auth.Claims{
				Email: email,
				Exp:   time.Now().Add(ttl).Unix(),
			})
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email the token authenticates as")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func logResults(results []syncer.JurisdictionResult) {
	for _, res := range results {
		if res.Error != "" {
			logger.Error("Jurisdiction failed", "jurisdiction", res.Jurisdiction, "error", res.Error)
			continue
		}
		logger.Info("Jurisdiction synced",
			"jurisdiction", res.Jurisdiction, "matched", res.Matched, "warnings", len(res.Warnings))
		for _, warning := range res.Warnings {
			logger.Warn("Sync warning", "jurisdiction", res.Jurisdiction, "warning", warning)
		}
	}
}

// runSync handles config loading, DB connection, engine construction, and
// context cancellation.
func runSync(fn func(ctx context.Context, s *syncer.Syncer) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	registry := config.Registry()
	sources := syncer.BuildSources(registry, logger)
	national := openstates.NewClient(cfg.OpenStatesAPIKey, 600, logger)
	st := store.New(pool.Pool)

	return fn(ctx, syncer.New(syncer.WrapStore(st), national, sources, registry, logger))
}
