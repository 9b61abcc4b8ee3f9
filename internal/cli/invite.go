package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newInviteCommand creates the invite command.
func newInviteCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invite",
		Aliases: []string{"invitation", "invitations"},
		Short:   "Manage project invitations",
		Long: `Manage project invitations.

An invitation offers a role in a project to an email address. Sending an
invitation prints a token once; the invited user accepts it with
"te4it invite accept <token>". Pending invitations expire after the
configured number of days ([invitations] expiration_days).`,
	}

	cmd.AddCommand(
		newInviteSendCommand(c, gopts),
		newInviteAcceptCommand(c, gopts),
		newInviteCancelCommand(c, gopts),
		newInviteListCommand(c, gopts),
		newInviteMineCommand(c, gopts),
	)

	return cmd
}

func newInviteSendCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "send <project-id> <email>",
		Short: "Invite an email address to a project",
		Long: `Invite an email address to a project. Requires the Owner role.

The token is shown only once. Hand it to the invited user.

Examples:
  te4it invite send <project-id> carol@example.com --role viewer`,
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
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}

			out, err := c.SendInvitationUseCase().Execute(cmd.Context(), usecase.SendInvitationInput{
				Actor:     actor,
				ProjectID: projectID,
				Email:     args[1],
				Role:      r,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), struct {
					Invitation *domain.Invitation `json:"invitation"`
					Token      string             `json:"token"`
				}{out.Invitation, out.Token})
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Invited %s to project %s as %s\n", out.Invitation.Email, projectID, out.Invitation.Role.Display())
			_, _ = fmt.Fprintln(w, field("Invitation", out.Invitation.ID.String()))
			_, _ = fmt.Fprintln(w, field("Expires", formatTime(out.Invitation.Expires)))
			_, _ = fmt.Fprintln(w, field("Token", out.Token))
			_, _ = fmt.Fprintln(w, warningStyle.Render("The token is not stored and cannot be shown again."))
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", domain.RoleMember.String(), "Role: viewer or member")

	return cmd
}

func newInviteAcceptCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <token>",
		Short: "Accept an invitation",
		Long: `Accept an invitation with the token received from the project owner.

The acting user's email must match the invited address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}

			out, err := c.AcceptInvitationUseCase().Execute(cmd.Context(), usecase.AcceptInvitationInput{
				Actor: actor,
				Token: args[0],
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Member)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Joined project %s (%s) as %s\n", out.Project.Title, out.Project.ID, out.Member.Role.Display())
			return nil
		},
	}
}

func newInviteCancelCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <project-id> <invitation-id>",
		Short: "Cancel a pending invitation",
		Long:  `Cancel a pending invitation. Requires the Owner role.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}
			invitationID, err := parseIDArg("invitation", args[1])
			if err != nil {
				return err
			}

			out, err := c.CancelInvitationUseCase().Execute(cmd.Context(), usecase.CancelInvitationInput{
				Actor:        actor,
				ProjectID:    projectID,
				InvitationID: invitationID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Invitation)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cancelled invitation %s for %s\n", out.Invitation.ID, out.Invitation.Email)
			return nil
		},
	}
}

func newInviteListCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list <project-id>",
		Aliases: []string{"ls"},
		Short:   "List a project's invitations",
		Long:    `List every invitation of a project with its status. Requires the Owner role.`,
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

			out, err := c.ListInvitationsUseCase().Execute(cmd.Context(), usecase.ListInvitationsInput{
				Actor:     actor,
				ProjectID: projectID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Invitations)
			}
			printInvitationList(cmd.OutOrStdout(), out.Invitations)
			return nil
		},
	}
}

func newInviteMineCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List invitations addressed to you",
		Long:  `List the invitations addressed to the acting user's email.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}

			out, err := c.ListMyInvitationsUseCase().Execute(cmd.Context(), usecase.ListMyInvitationsInput{
				Actor: actor,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Invitations)
			}
			printInvitationList(cmd.OutOrStdout(), out.Invitations)
			return nil
		},
	}
}

// printInvitationList prints invitations in a table.
func printInvitationList(w io.Writer, invitations []usecase.InvitationSummary) {
	tw := newTable(w)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tEMAIL\tROLE\tEXPIRES\tPROJECT")
	for _, s := range invitations {
		inv := s.Invitation
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.ID, s.Status, inv.Email, inv.Role, formatTime(inv.Expires), s.ProjectTitle)
	}
}
