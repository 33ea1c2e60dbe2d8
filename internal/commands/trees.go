package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/services"
)

func treesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "Browse and extend the skill catalog",
	}
	cmd.AddCommand(
		treesListCmd(c),
		treesShowCmd(c),
		treesCreateCmd(c),
		treesAddNodeCmd(c),
	)
	return cmd
}

func treesListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List skill trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := c.runtime(cmd)
			if err != nil {
				return err
			}
			trees, err := rt.Services.Catalog().ListTrees(cmd.Context())
			if err != nil {
				return err
			}

			return c.printer(cmd).emit(trees, func(w io.Writer) {
				row(w, "ID", "NAME", "CATEGORY", "NODES")
				for _, t := range trees {
					row(w, t.ID, t.Name, t.Category, t.NodeCount)
				}
			})
		},
	}
}

type treeView struct {
	*models.TreeWithProgress
	Progress *models.TreeProgress `json:"progress"`
}

func treesShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <tree-id>",
		Short: "Show a tree's nodes, with your status when --as is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			treeID, err := parseID(args[0], "tree id")
			if err != nil {
				return err
			}

			if c.asUser == "" {
				rt, err := c.runtime(cmd)
				if err != nil {
					return err
				}
				tree, err := rt.Services.Catalog().GetTreeWithNodes(cmd.Context(), treeID)
				if err != nil {
					return err
				}
				return c.printer(cmd).emit(tree, func(w io.Writer) {
					fmt.Fprintf(w, "%s (%s)\n", tree.Tree.Name, tree.Tree.Category)
					row(w, "NODE", "LEVEL", "TITLE", "POINTS")
					for _, n := range tree.Nodes {
						row(w, n.ID, n.Level, n.Title, n.Points)
					}
				})
			}

			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			tree, err := rt.Services.Catalog().GetTreeWithProgress(cmd.Context(), me.ID, treeID)
			if err != nil {
				return err
			}
			progress, err := rt.Services.Aggregation().GetTreeProgress(cmd.Context(), me.ID, treeID)
			if err != nil {
				return err
			}

			view := treeView{TreeWithProgress: tree, Progress: progress}
			return c.printer(cmd).emit(view, func(w io.Writer) {
				fmt.Fprintf(w, "%s (%s): %d of %d completed\n", tree.Tree.Name, tree.Tree.Category, progress.Completed, progress.Total)
				row(w, "NODE", "LEVEL", "TITLE", "POINTS", "STATUS")
				for _, n := range tree.Nodes {
					row(w, n.Node.ID, n.Node.Level, n.Node.Title, n.Node.Points, n.Status)
				}
			})
		},
	}
}

func treesCreateCmd(c *cli) *cobra.Command {
	var req services.CreateTreeRequest

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Add a skill tree (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			req.Name = args[0]
			tree, err := rt.Services.Catalog().CreateTree(cmd.Context(), me.ID, &req)
			if err != nil {
				return err
			}
			return c.printer(cmd).emit(tree, func(w io.Writer) {
				row(w, "ID", "NAME", "CATEGORY", "ORDER")
				row(w, tree.ID, tree.Name, tree.Category, tree.DisplayOrder)
			})
		},
	}

	cmd.Flags().StringVar(&req.Description, "description", "", "Tree description")
	cmd.Flags().StringVar(&req.Category, "category", "general", "Tree category")
	cmd.Flags().IntVar(&req.DisplayOrder, "order", 0, "Display order")
	return cmd
}

func treesAddNodeCmd(c *cli) *cobra.Command {
	var req services.CreateNodeRequest

	cmd := &cobra.Command{
		Use:   "add-node <tree-id> <title>",
		Short: "Add a node to a tree (admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			treeID, err := parseID(args[0], "tree id")
			if err != nil {
				return err
			}
			rt, me, err := c.actor(cmd)
			if err != nil {
				return err
			}
			req.TreeID = treeID
			req.Title = args[1]
			node, err := rt.Services.Catalog().CreateNode(cmd.Context(), me.ID, &req)
			if err != nil {
				return err
			}
			return c.printer(cmd).emit(node, func(w io.Writer) {
				row(w, "NODE", "TREE", "LEVEL", "TITLE", "POINTS")
				row(w, node.ID, node.TreeID, node.Level, node.Title, node.Points)
			})
		},
	}

	cmd.Flags().IntVar(&req.Level, "level", 1, "Node level")
	cmd.Flags().IntVar(&req.Points, "points", 0, "Points awarded on completion")
	cmd.Flags().StringVar(&req.Description, "description", "", "Node description")
	cmd.Flags().StringVar(&req.SubmissionRequirements, "requirements", "", "What a submission must contain")
	return cmd
}
