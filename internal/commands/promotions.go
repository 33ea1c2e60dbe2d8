package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/services"
)

func promotionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promotions",
		Short: "Two-admin workflow for granting the admin role",
	}
	cmd.AddCommand(
		promotionsRequestCmd(c),
		promotionsListCmd(c),
		promotionsResolveCmd(c),
	)
	return cmd
}

func promotionsRequestCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "request <username>",
		Short: "Propose a user for promotion to admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			target, err := rt.Services.Identity().FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			request, err := rt.Services.Promotion().RequestPromotion(cmd.Context(), target.ID, me.ID)
			if err != nil {
				return err
			}
			return printRequest(c, cmd, request)
		},
	}
}

func promotionsListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending promotion requests (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := c.admin(cmd)
			if err != nil {
				return err
			}
			pending, err := rt.Services.Promotion().GetPendingPromotions(cmd.Context())
			if err != nil {
				return err
			}

			return c.printer(cmd).emit(pending, func(w io.Writer) {
				row(w, "REQUEST", "TARGET", "CURRENT ROLE", "REQUESTED BY", "CREATED")
				for _, p := range pending {
					row(w, p.ID, p.TargetUsername, p.TargetRole, p.RequesterUsername, p.CreatedAt.UTC().Format("2006-01-02 15:04"))
				}
			})
		},
	}
}

func promotionsResolveCmd(c *cli) *cobra.Command {
	var approve, reject bool

	cmd := &cobra.Command{
		Use:   "resolve <request-id> --approve|--reject",
		Short: "Approve or reject a request raised by another admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if approve == reject {
				return fmt.Errorf("%w: exactly one of --approve or --reject is required", services.ErrValidationFailed)
			}
			requestID, err := parseID(args[0], "request id")
			if err != nil {
				return err
			}
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			request, err := rt.Services.Promotion().ResolvePromotion(cmd.Context(), requestID, me.ID, approve)
			if err != nil {
				return err
			}
			return printRequest(c, cmd, request)
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "Approve the request")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject the request")
	cmd.MarkFlagsMutuallyExclusive("approve", "reject")
	return cmd
}

func printRequest(c *cli, cmd *cobra.Command, r *models.PromotionRequest) error {
	return c.printer(cmd).emit(r, func(w io.Writer) {
		row(w, "REQUEST", "TARGET", "REQUESTED BY", "STATUS", "RESOLVED")
		row(w, r.ID, r.TargetUserID, r.RequestedBy, r.Status, when(r.ResolvedAt))
	})
}
