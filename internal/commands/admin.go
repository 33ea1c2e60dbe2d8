package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/skilltree-service/internal/seed"
	"github.com/SAP-F-2025/skilltree-service/pkg"
)

func migrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd)
			if err != nil {
				return err
			}
			if err := pkg.Migrate(rt.DB); err != nil {
				return err
			}
			rt.Logger.Info("Schema migrated", "driver", rt.Config.Database.Driver)
			return c.printer(cmd).emit(map[string]string{"status": "migrated"}, func(w io.Writer) {
				row(w, "schema migrated")
			})
		},
	}
}

func seedCmd(c *cli) *cobra.Command {
	var adminPassword string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install the default catalog and the bootstrap admin",
		Long: `Installs the default skill trees and nodes and an "admin" account.
Existing trees, nodes and the admin account are left untouched, so seed can
be run repeatedly. The admin password comes from --admin-password or
BOOTSTRAP_ADMIN_PASSWORD; without one no admin is created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd)
			if err != nil {
				return err
			}
			if adminPassword == "" {
				adminPassword = rt.Config.BootstrapAdminPassword
			}

			result, err := seed.NewSeeder(rt.Repo, rt.Verifier, rt.Logger).Run(cmd.Context(), seed.DefaultCatalog, adminPassword)
			if err != nil {
				return err
			}

			return c.printer(cmd).emit(result, func(w io.Writer) {
				row(w, "TREES CREATED", "NODES CREATED", "ADMIN CREATED")
				row(w, result.TreesCreated, result.NodesCreated, result.AdminCreated)
			})
		},
	}

	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password for the bootstrap admin")
	return cmd
}
