package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/services"
)

func usersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts and roles",
	}
	cmd.AddCommand(
		usersRegisterCmd(c),
		usersListCmd(c),
		usersSetRoleCmd(c),
		usersProfileCmd(c),
		usersPasswdCmd(c),
	)
	return cmd
}

func usersRegisterCmd(c *cli) *cobra.Command {
	var email, hackerName string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a student account using --password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd)
			if err != nil {
				return err
			}

			req := &services.RegisterRequest{Username: args[0], Email: email, Password: c.password}
			if hackerName != "" {
				req.HackerName = &hackerName
			}
			user, err := rt.Services.Identity().Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printUsers(c, cmd, []*models.User{user})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&hackerName, "hacker-name", "", "Optional display alias")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func usersListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := c.admin(cmd)
			if err != nil {
				return err
			}
			users, err := rt.Services.Identity().ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return printUsers(c, cmd, users)
		},
	}
}

func usersSetRoleCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <username> <student|instructor>",
		Short: "Change another user's role (admin)",
		Long: `Sets another user's role to student or instructor. The admin role
cannot be granted here; use "promotions request" instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, caller, err := c.actor(cmd)
			if err != nil {
				return err
			}
			identity := rt.Services.Identity()

			target, err := identity.FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			updated, err := identity.AssignRole(cmd.Context(), caller.ID, target.ID, models.UserRole(args[1]))
			if err != nil {
				return err
			}
			return printUsers(c, cmd, []*models.User{updated})
		},
	}
}

func usersProfileCmd(c *cli) *cobra.Command {
	var email, hackerName string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your email or hacker name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}

			req := &services.UpdateProfileRequest{}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			if cmd.Flags().Changed("hacker-name") {
				req.HackerName = &hackerName
			}
			updated, err := rt.Services.Identity().UpdateProfile(cmd.Context(), me.ID, req)
			if err != nil {
				return err
			}
			return printUsers(c, cmd, []*models.User{updated})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "New email address")
	cmd.Flags().StringVar(&hackerName, "hacker-name", "", "New display alias")
	return cmd
}

func usersPasswdCmd(c *cli) *cobra.Command {
	var newPassword string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			err = rt.Services.Identity().ChangePassword(cmd.Context(), me.ID, &services.ChangePasswordRequest{
				CurrentPassword: c.password,
				NewPassword:     newPassword,
			})
			if err != nil {
				return err
			}
			return c.printer(cmd).emit(map[string]string{"status": "password changed"}, func(w io.Writer) {
				row(w, "password changed")
			})
		},
	}

	cmd.Flags().StringVar(&newPassword, "new-password", "", "The new password")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}

func printUsers(c *cli, cmd *cobra.Command, users []*models.User) error {
	return c.printer(cmd).emit(users, func(w io.Writer) {
		row(w, "ID", "USERNAME", "EMAIL", "ROLE", "HACKER NAME")
		for _, u := range users {
			row(w, u.ID, u.Username, u.Email, u.Role, optional(u.HackerName))
		}
	})
}
