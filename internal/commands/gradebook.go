package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func gradebookCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gradebook",
		Short: "Course-wide reports (instructor or admin)",
	}
	cmd.AddCommand(
		gradebookShowCmd(c),
		gradebookSummaryCmd(c),
		gradebookExportCmd(c),
	)
	return cmd
}

func gradebookShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "One row per student and node, including nodes never started",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := c.reviewer(cmd)
			if err != nil {
				return err
			}
			rows, err := rt.Services.Aggregation().GetGradebook(cmd.Context())
			if err != nil {
				return err
			}

			return c.printer(cmd).emit(rows, func(w io.Writer) {
				row(w, "USER", "TREE", "LEVEL", "NODE", "POINTS", "STATUS", "SUBMITTED")
				for i := range rows {
					r := &rows[i]
					row(w, r.Username, r.TreeName, r.NodeLevel, r.NodeTitle, r.MaxPoints, r.StatusLabel(), when(r.SubmittedAt))
				}
			})
		},
	}
}

func gradebookSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Per-student totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := c.reviewer(cmd)
			if err != nil {
				return err
			}
			stats, err := rt.Services.Aggregation().GetAllStudentStats(cmd.Context())
			if err != nil {
				return err
			}

			return c.printer(cmd).emit(stats, func(w io.Writer) {
				row(w, "USER", "HACKER NAME", "COMPLETED", "IN PROGRESS", "STARTED", "POINTS")
				for _, s := range stats {
					row(w, s.Username, optional(s.HackerName), s.CompletedNodes, s.InProgressNodes, s.TotalStarted, s.EarnedPoints)
				}
			})
		},
	}
}

func gradebookExportCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the gradebook to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := c.reviewer(cmd)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := rt.Services.ImportExport().ExportGradebook(cmd.Context(), f); err != nil {
				_ = f.Close()
				_ = os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", out, err)
			}

			return c.printer(cmd).emit(map[string]string{"file": out}, func(w io.Writer) {
				row(w, "gradebook written to", out)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "gradebook.xlsx", "Output file")
	return cmd
}
