package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/usecase"
)

// newUserCommand creates the user command.
func newUserCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the user directory",
		Long: `Manage the user directory (users.yaml in the data directory).

The first registered user becomes an administrator and needs no --as.
After that only administrators can register users.`,
	}

	cmd.AddCommand(newUserRegisterCommand(c, gopts))
	cmd.AddCommand(newUserListCommand(c, gopts))

	return cmd
}

func newUserRegisterCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Email string
		Name  string
		Admin bool
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a user",
		Long: `Register a user in the directory.

Examples:
  # Bootstrap the first (administrator) user
  te4it user register --email alice@example.com --name Alice

  # Register another user as an administrator
  te4it --as alice@example.com user register --email bob@example.com --name Bob`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := c.ActorProvider(gopts.As).Optional(cmd.Context())
			if err != nil {
				return err
			}

			uc := c.RegisterUserUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.RegisterUserInput{
				Actor: actor,
				Email: opts.Email,
				Name:  opts.Name,
				Admin: opts.Admin,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.User)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered user %s: %s\n", out.User.ID, userLabel(out.User))
			if out.User.IsAdministrator() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Role: administrator")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name")
	cmd.Flags().BoolVar(&opts.Admin, "admin", false, "Grant the administrator role")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserListCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}

			out, err := c.ListUsersUseCase().Execute(cmd.Context(), usecase.ListUsersInput{Actor: actor})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Users)
			}

			tw := newTable(cmd.OutOrStdout())
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLES")
			for _, u := range out.Users {
				roles := "-"
				if len(u.Roles) > 0 {
					roles = strings.Join(u.Roles, ",")
				}
				name := u.Name
				if name == "" {
					name = "-"
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, name, roles)
			}
			return nil
		},
	}
}
