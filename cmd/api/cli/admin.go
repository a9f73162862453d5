package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/transport-site/internal/auth"
	"github.com/spec-kit/transport-site/internal/service"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	cmd.AddCommand(newAdminSeedCmd())
	return cmd
}

func newAdminSeedCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap administrator if it does not exist",
		Long: `Create the bootstrap administrator from --email/--password, falling back to
ADMIN_EMAIL and ADMIN_PASSWORD. An existing admin with that email is left unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if email == "" {
				email = cfg.Admin.Email
			}
			if password == "" {
				password = cfg.Admin.Password
			}
			if email == "" || password == "" {
				return errors.New("admin email and password are required (flags or ADMIN_EMAIL/ADMIN_PASSWORD)")
			}

			db, err := openDatabase(cmd.Context(), cfg, logger, cfg.Database.RunMigrations)
			if err != nil {
				return err
			}
			defer db.Close()

			hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
			if err != nil {
				return err
			}

			admins := service.NewAdminService(service.AdminDependencies{
				AdminRepo: db.Admins(),
				Hasher:    hasher,
				Logger:    logger,
			})
			created, err := admins.EnsureAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "admin %s created\n", email)
			} else {
				fmt.Fprintf(out, "admin %s already exists\n", email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email (default $ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default $ADMIN_PASSWORD)")
	return cmd
}
