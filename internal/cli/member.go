package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newMemberCommand creates the member command.
func newMemberCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members"},
		Short:   "Manage project members",
		Long: `Manage project members.

Roles, from least to most privileged:
  viewer  read-only access
  member  can create and edit modules, use cases and tasks
  owner   can also manage members, invitations and the project itself

Users are given by id or email address.`,
	}

	cmd.AddCommand(
		newMemberAddCommand(c, gopts),
		newMemberRemoveCommand(c, gopts),
		newMemberRoleCommand(c, gopts),
		newMemberListCommand(c, gopts),
	)

	return cmd
}

func newMemberAddCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add <project-id> <user>",
		Short: "Add a registered user to a project",
		Long: `Add a registered user to a project. Requires the Owner role.

Examples:
  te4it member add <project-id> bob@example.com --role member`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}
			userID, err := resolveUser(cmd.Context(), c, args[1])
			if err != nil {
				return err
			}
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}

			out, err := c.AddProjectMemberUseCase().Execute(cmd.Context(), usecase.AddProjectMemberInput{
				Actor:     actor,
				ProjectID: projectID,
				UserID:    userID,
				Role:      r,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Member)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s to project %s as %s\n", args[1], projectID, out.Member.Role.Display())
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", domain.RoleMember.String(), "Role: viewer or member")

	return cmd
}

func newMemberRemoveCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <project-id> <user>",
		Aliases: []string{"rm"},
		Short:   "Remove a member from a project",
		Long: `Remove a member from a project. Requires the Owner role.

The project creator cannot be removed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}
			userID, err := resolveUser(cmd.Context(), c, args[1])
			if err != nil {
				return err
			}

			if _, err := c.RemoveProjectMemberUseCase().Execute(cmd.Context(), usecase.RemoveProjectMemberInput{
				Actor:     actor,
				ProjectID: projectID,
				UserID:    userID,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from project %s\n", args[1], projectID)
			return nil
		},
	}
}

func newMemberRoleCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "role <project-id> <user> <role>",
		Short: "Change a member's role",
		Long: `Change a member's role. Requires the Owner role.

The creator's Owner role cannot be changed.

Examples:
  te4it member role <project-id> bob@example.com owner`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}
			userID, err := resolveUser(cmd.Context(), c, args[1])
			if err != nil {
				return err
			}
			r, err := domain.ParseRole(args[2])
			if err != nil {
				return err
			}

			out, err := c.UpdateMemberRoleUseCase().Execute(cmd.Context(), usecase.UpdateMemberRoleInput{
				Actor:     actor,
				ProjectID: projectID,
				UserID:    userID,
				Role:      r,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Member)
			}
			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", args[1], out.Member.Role.Display())
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[1], out.Member.Role.Display())
			return nil
		},
	}
}

func newMemberListCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list <project-id>",
		Aliases: []string{"ls"},
		Short:   "List project members",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}

			out, err := c.ListProjectMembersUseCase().Execute(cmd.Context(), usecase.ListProjectMembersInput{
				Actor:     actor,
				ProjectID: projectID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Members)
			}

			tw := newTable(cmd.OutOrStdout())
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "USER\tROLE\tJOINED\tNAME")
			for _, m := range out.Members {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Member.UserID, m.Member.Role, formatTime(m.Member.Joined), userLabel(m.User))
			}
			return nil
		},
	}
}
