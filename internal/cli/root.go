// Package cli provides the command-line interface for te4it.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
)

// Command group IDs.
const (
	groupSetup         = "setup"
	groupHierarchy     = "hierarchy"
	groupTask          = "task"
	groupCollaboration = "collaboration"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	As   string // Acting user (id or email)
	JSON bool   // Machine-readable output
}

// NewRootCommand creates the root command for te4it.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "te4it",
		Short: "Project, module, use case and task tracking CLI",
		Long: `te4it tracks work as a hierarchy of projects, modules, use cases and tasks.

Projects are shared with other users through memberships (Viewer, Member,
Owner) and email invitations. Tasks move through not_started, in_progress,
completed and cancelled, and can block each other through relations.

The acting user is taken from --as or the TE4IT_ACTOR environment variable
and may be a user id or an email address.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.As, "as", os.Getenv(domain.ActorEnv), "Acting user id or email (default $"+domain.ActorEnv+")")
	root.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Output JSON")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupHierarchy, Title: "Project Hierarchy:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupCollaboration, Title: "Collaboration:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	userCmd := newUserCommand(c, opts)
	userCmd.GroupID = groupSetup

	logsCmd := newLogsCommand(c, opts)
	logsCmd.GroupID = groupSetup

	// Hierarchy commands
	projectCmd := newProjectCommand(c, opts)
	projectCmd.GroupID = groupHierarchy

	moduleCmd := newModuleCommand(c, opts)
	moduleCmd.GroupID = groupHierarchy

	useCaseCmd := newUseCaseCommand(c, opts)
	useCaseCmd.GroupID = groupHierarchy

	// Task management commands
	taskCmd := newTaskCommand(c, opts)
	taskCmd.GroupID = groupTask

	relationCmd := newRelationCommand(c, opts)
	relationCmd.GroupID = groupTask

	// Collaboration commands
	memberCmd := newMemberCommand(c, opts)
	memberCmd.GroupID = groupCollaboration

	inviteCmd := newInviteCommand(c, opts)
	inviteCmd.GroupID = groupCollaboration

	eventsCmd := newEventsCommand(c, opts)
	eventsCmd.GroupID = groupCollaboration

	root.AddCommand(
		initCmd,
		configCmd,
		userCmd,
		logsCmd,
		projectCmd,
		moduleCmd,
		useCaseCmd,
		taskCmd,
		relationCmd,
		memberCmd,
		inviteCmd,
		eventsCmd,
	)

	return root
}
