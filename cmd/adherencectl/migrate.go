package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2beens/adherence/internal/config"
	"github.com/2beens/adherence/internal/db"
)

func newMigrateCmd() *cobra.Command {
	var env, configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the tracker schema migrations",
		Long:  "Apply the pending tracker schema migrations to the postgres database of the given environment.\nThe password is read from ADHERENCE_DB_PASS.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env, configPath)
			if err != nil {
				return err
			}

			connString := db.ConnString(db.NewDBPoolParams{
				DBHost:     cfg.PostgresHost,
				DBPort:     cfg.PostgresPort,
				DBUser:     cfg.PostgresUser,
				DBPassword: os.Getenv("ADHERENCE_DB_PASS"),
				DBName:     cfg.PostgresDBName,
				SSLMode:    cfg.PostgresSSLMode,
			})
			if err := db.Migrate(connString); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s schema up to date\n", cfg.PostgresDBName)
			return err
		},
	}

	cmd.Flags().StringVar(&env, "env", "development", "Environment [prod | production | dev | development]")
	cmd.Flags().StringVar(&configPath, "config", "./config.toml", "Path for the TOML config file")
	return cmd
}
