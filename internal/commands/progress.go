package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/services"
)

type transitionFunc func(ctx context.Context, userID, nodeID uint) (*models.SkillProgress, error)

func progressCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Work through skill nodes and review submissions",
	}
	cmd.AddCommand(
		progressTransitionCmd(c, "unlock", "Unlock a node", func(svc services.ProgressService) transitionFunc { return svc.UnlockNode }),
		progressTransitionCmd(c, "start", "Start working on a node", func(svc services.ProgressService) transitionFunc { return svc.StartNode }),
		progressSubmitCmd(c),
		progressReviewCmd(c),
		progressPendingCmd(c),
		progressMineCmd(c),
		progressStatsCmd(c),
		progressDashboardCmd(c),
	)
	return cmd
}

func progressTransitionCmd(c *cli, name, short string, pick func(services.ProgressService) transitionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <node-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodeID, err := parseID(args[0], "node id")
			if err != nil {
				return err
			}
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			record, err := pick(rt.Services.Progress())(cmd.Context(), me.ID, nodeID)
			if err != nil {
				return err
			}
			return printRecord(c, cmd, record)
		},
	}
}

func progressSubmitCmd(c *cli) *cobra.Command {
	var req services.SubmitRequest

	cmd := &cobra.Command{
		Use:   "submit <node-id>",
		Short: "Submit evidence for a node",
		Long: `Marks the node completed. A link or notes is required; a file
reference may be attached to either. Submitting again replaces the earlier
submission.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodeID, err := parseID(args[0], "node id")
			if err != nil {
				return err
			}
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			record, err := rt.Services.Progress().SubmitNode(cmd.Context(), me.ID, nodeID, &req)
			if err != nil {
				return err
			}
			return printRecord(c, cmd, record)
		},
	}

	cmd.Flags().StringVar(&req.Link, "link", "", "Link to the work")
	cmd.Flags().StringVar(&req.FileRef, "file-ref", "", "Object storage key of an uploaded file")
	cmd.Flags().StringVar(&req.FileName, "file-name", "", "Original name of the uploaded file")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Notes for the reviewer")
	return cmd
}

func progressReviewCmd(c *cli) *cobra.Command {
	var req services.ReviewRequest

	cmd := &cobra.Command{
		Use:   "review <progress-id>",
		Short: "Review a submission (instructor or admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			progressID, err := parseID(args[0], "progress id")
			if err != nil {
				return err
			}
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			record, err := rt.Services.Progress().ReviewSubmission(cmd.Context(), progressID, me.ID, &req)
			if err != nil {
				return err
			}
			return printRecord(c, cmd, record)
		},
	}

	cmd.Flags().StringVar(&req.Notes, "notes", "", "Review notes")
	cmd.Flags().StringVar(&req.TargetStatus, "status", "", "Resulting status: reviewed (default), completed or in_progress")
	return cmd
}

func progressPendingCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List submissions awaiting review (instructor or admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := c.reviewer(cmd)
			if err != nil {
				return err
			}
			reviews, err := rt.Services.Progress().GetPendingReviews(cmd.Context())
			if err != nil {
				return err
			}

			return c.printer(cmd).emit(reviews, func(w io.Writer) {
				row(w, "PROGRESS", "USER", "TREE", "LEVEL", "NODE", "SUBMITTED", "LINK", "FILE")
				for _, r := range reviews {
					bundle := models.ParseSubmission(r.Submission)
					file := r.FileURL
					if file == "" {
						file = "-"
					}
					link := bundle.Link
					if link == "" {
						link = "-"
					}
					row(w, r.ProgressID, r.Username, r.TreeName, r.NodeLevel, r.NodeTitle, when(r.SubmittedAt), link, file)
				}
			})
		},
	}
}

func progressMineCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your ledger records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			details, err := rt.Services.Progress().GetByUser(cmd.Context(), me.ID)
			if err != nil {
				return err
			}

			return c.printer(cmd).emit(details, func(w io.Writer) {
				row(w, "PROGRESS", "TREE", "LEVEL", "NODE", "POINTS", "STATUS", "SUBMITTED", "REVIEWED")
				for _, d := range details {
					row(w, d.ID, d.TreeName, d.NodeLevel, d.NodeTitle, d.Points, d.Status, when(d.SubmittedAt), when(d.ReviewedAt))
				}
			})
		},
	}
}

type statsView struct {
	User         string           `json:"user"`
	Stats        models.UserStats `json:"stats"`
	EarnedPoints int64            `json:"earned_points"`
}

func progressStatsCmd(c *cli) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show counts and earned points for you or, as a reviewer, another user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}

			subject := me
			if username != "" && username != me.Username {
				if !me.Role.CanReview() {
					return services.ErrReviewerRequired
				}
				if subject, err = rt.Services.Identity().FindByUsername(cmd.Context(), username); err != nil {
					return err
				}
			}

			stats, err := rt.Services.Aggregation().GetUserStats(cmd.Context(), subject.ID)
			if err != nil {
				return err
			}
			points, err := rt.Services.Aggregation().GetStudentPoints(cmd.Context(), subject.ID)
			if err != nil {
				return err
			}

			view := statsView{User: subject.Username, Stats: *stats, EarnedPoints: points}
			return c.printer(cmd).emit(view, func(w io.Writer) {
				row(w, "USER", "COMPLETED", "IN PROGRESS", "UNLOCKED", "RECORDS", "POINTS")
				row(w, view.User, stats.Completed, stats.InProgress, stats.Unlocked, stats.TotalNodes, points)
			})
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Show another user's stats")
	return cmd
}

func progressDashboardCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show completion across every tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			dashboard, err := rt.Services.Aggregation().GetUserDashboard(cmd.Context(), me.ID)
			if err != nil {
				return err
			}

			return c.printer(cmd).emit(dashboard, func(w io.Writer) {
				row(w, "TREE", "CATEGORY", "COMPLETED", "TOTAL")
				for _, t := range dashboard.Trees {
					row(w, t.Name, t.Category, t.CompletedNodes, t.TotalNodes)
				}
			})
		},
	}
}

func printRecord(c *cli, cmd *cobra.Command, record *models.SkillProgress) error {
	return c.printer(cmd).emit(record, func(w io.Writer) {
		row(w, "PROGRESS", "USER", "NODE", "STATUS", "SUBMITTED", "REVIEWED")
		row(w, record.ID, record.UserID, record.SkillNodeID, record.Status, when(record.SubmittedAt), when(record.ReviewedAt))
	})
}
