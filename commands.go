package main

import (
	"fmt"

	"mocardapio-api/config"
	"mocardapio-api/middleware"
	"mocardapio-api/models"
	"mocardapio-api/services"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := config.OpenDB(cfg)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

var staffFlags struct {
	name     string
	email    string
	password string
	role     string
}

// Admin and support accounts cannot be self-registered; they are created here.
var createStaffCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin or support account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := config.OpenDB(cfg)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		auth := services.NewAuthService(db, middleware.NewTokens(cfg.JWTSecret, cfg.JWTTTL))
		user, err := auth.CreateStaff(cmd.Context(), staffFlags.name, staffFlags.email, staffFlags.password, models.UserRole(staffFlags.role))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (id %d)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	f := createStaffCmd.Flags()
	f.StringVar(&staffFlags.name, "name", "Admin", "display name")
	f.StringVar(&staffFlags.email, "email", "", "login email")
	f.StringVar(&staffFlags.password, "password", "", "password (min 6 characters)")
	f.StringVar(&staffFlags.role, "role", string(models.RoleAdmin), "admin or support")
	_ = createStaffCmd.MarkFlagRequired("email")
	_ = createStaffCmd.MarkFlagRequired("password")
}
