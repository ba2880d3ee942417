package main

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/maxviazov/openapi-skeleton/internal/auth"
	"github.com/maxviazov/openapi-skeleton/internal/config"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
	"github.com/maxviazov/openapi-skeleton/internal/version"
	"github.com/maxviazov/openapi-skeleton/migrations"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "server",
		Short:        "OpenAPI-backed pets API server",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newVersionCmd(),
		newMigrateCmd(),
		newTokenCmd(),
		newHashPasswordCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "version=%s commit=%s built_at=%s\n", version.Version, version.Revision(), version.BuiltAt)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Apply the postgres schema migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cfg.DataSource.Type != "postgres" {
				return errors.New("migrations only apply to the postgres data source")
			}

			db, err := sql.Open("pgx", repository.DSN(&cfg.Postgres))
			if err != nil {
				return fmt.Errorf("sql open: %w", err)
			}
			defer db.Close()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("postgres"); err != nil {
				return err
			}
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			switch direction {
			case "up":
				return goose.Up(db, migrations.Dir)
			case "down":
				return goose.Down(db, migrations.Dir)
			case "status":
				return goose.Status(db, migrations.Dir)
			default:
				return fmt.Errorf("unknown migrate direction %q", direction)
			}
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		configFile string
		subject    string
		ttl        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for auth.mode=jwt",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			a, err := auth.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
			if err != nil {
				return err
			}
			tok, err := a.Issue(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to put in auth.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
