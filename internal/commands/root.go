// Package commands implements the skilltree command line interface
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/skilltree-service/internal/config"
	"github.com/SAP-F-2025/skilltree-service/internal/models"
	"github.com/SAP-F-2025/skilltree-service/internal/services"
)

const (
	Version = "0.1.0"
	appName = "skilltree"
)

// RuntimeFactory builds the runtime for a loaded configuration
type RuntimeFactory func(ctx context.Context, cfg *config.Config) (*Runtime, error)

type cli struct {
	configDir string
	logLevel  string
	asUser    string
	password  string
	jsonOut   bool

	newRuntime RuntimeFactory
	rt         *Runtime
}

// NewRootCommand returns the skilltree command tree
func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand(NewRuntime)
	return cmd
}

func newRootCommand(factory RuntimeFactory) (*cobra.Command, *cli) {
	c := &cli{newRuntime: factory}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Skill tree progress ledger",
		Long: `skilltree tracks learners through leveled skill trees.

Students unlock, start and submit nodes; instructors review submissions;
admins manage roles and approve promotions to admin, which always need a
second admin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.configDir, "config", "c", "", "Directory holding config.yaml")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flags.StringVar(&c.asUser, "as", "", "Username to act as")
	flags.StringVar(&c.password, "password", "", "Password for --as, or the new account's password for users register")
	flags.BoolVar(&c.jsonOut, "json", false, "Print results as JSON")

	cmd.AddCommand(
		versionCmd(),
		migrateCmd(c),
		seedCmd(c),
		usersCmd(c),
		progressCmd(c),
		promotionsCmd(c),
		gradebookCmd(c),
		treesCmd(c),
	)

	return cmd, c
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}

// runtime loads configuration and connects on first use
func (c *cli) runtime(cmd *cobra.Command) (*Runtime, error) {
	if c.rt != nil {
		return c.rt, nil
	}

	var paths []string
	if c.configDir != "" {
		paths = append(paths, c.configDir)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	rt, err := c.newRuntime(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	c.rt = rt
	return rt, nil
}

func (c *cli) close(ctx context.Context) error {
	if c.rt == nil {
		return nil
	}
	err := c.rt.Close(ctx)
	c.rt = nil
	return err
}

// actor authenticates the --as user
func (c *cli) actor(cmd *cobra.Command) (*Runtime, *models.User, error) {
	rt, err := c.runtime(cmd)
	if err != nil {
		return nil, nil, err
	}
	if c.asUser == "" {
		return nil, nil, fmt.Errorf("%w: --as is required", services.ErrUnauthorized)
	}

	user, err := rt.Services.Identity().Authenticate(cmd.Context(), c.asUser, c.password)
	if err != nil {
		return nil, nil, err
	}
	return rt, user, nil
}

// reviewer authenticates the --as user and requires instructor or admin
func (c *cli) reviewer(cmd *cobra.Command) (*Runtime, *models.User, error) {
	rt, user, err := c.actor(cmd)
	if err != nil {
		return nil, nil, err
	}
	if !user.Role.CanReview() {
		return nil, nil, services.ErrReviewerRequired
	}
	return rt, user, nil
}

func (c *cli) admin(cmd *cobra.Command) (*Runtime, *models.User, error) {
	rt, user, err := c.actor(cmd)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsAdmin() {
		return nil, nil, services.ErrAdminRequired
	}
	return rt, user, nil
}

func (c *cli) printer(cmd *cobra.Command) *printer {
	return &printer{out: cmd.OutOrStdout(), json: c.jsonOut}
}

func parseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", services.ErrValidationFailed, what, arg)
	}
	return uint(id), nil
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	switch kind := services.KindOf(err); {
	case err == nil:
		return 0
	case errors.Is(kind, services.ErrValidationFailed):
		return 2
	case errors.Is(kind, services.ErrUnauthorized):
		return 3
	case errors.Is(kind, services.ErrForbidden):
		return 4
	case errors.Is(kind, services.ErrNotFound):
		return 5
	case errors.Is(kind, services.ErrConflict):
		return 6
	case errors.Is(kind, services.ErrPartialFailure):
		return 7
	default:
		return 1
	}
}

// Execute runs the root command and reports errors on stderr
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, NewRuntime, args, stdout, stderr)
}

func execute(ctx context.Context, factory RuntimeFactory, args []string, stdout, stderr io.Writer) int {
	cmd, c := newRootCommand(factory)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	// PersistentPostRunE is skipped when a command fails
	if closeErr := c.close(ctx); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCode(err)
	}
	return 0
}
