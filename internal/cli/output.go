package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
)

const (
	timeLayout = "2006-01-02 15:04"
	dateLayout = "2006-01-02"
)

// currentActor resolves the acting user from --as / TE4IT_ACTOR.
func currentActor(ctx context.Context, c *app.Container, opts *globalOptions) (domain.Actor, error) {
	return c.ActorProvider(opts.As).CurrentActor(ctx)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// newTable returns a tabwriter configured like every list in the CLI.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
}

// parseIDArg parses a positional id argument.
func parseIDArg(name, s string) (domain.ID, error) {
	id, err := domain.ParseID(s)
	if err != nil {
		return "", domain.Invalid(name, "%q is not a valid id", s)
	}
	return id, nil
}

// parseDue parses a due date given as YYYY-MM-DD (end of that day, local
// time) or RFC 3339.
func parseDue(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.Invalid("due", "invalid due date %q (use YYYY-MM-DD or RFC 3339)", s)
	}
	return t, nil
}

// statusFilter turns --active/--archived flags into an optional filter.
func statusFilter(active, archived bool) (*bool, error) {
	switch {
	case active && archived:
		return nil, errors.New("--active and --archived cannot be used together")
	case active:
		v := true
		return &v, nil
	case archived:
		v := false
		return &v, nil
	default:
		return nil, nil
	}
}

// optionalString returns a pointer to the flag value when the flag was set.
func optionalString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

// formatTime renders a timestamp in local time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// formatOptionalTime renders an optional timestamp.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

// userLabel renders a user as "Name <email>" or just the email.
func userLabel(u *domain.User) string {
	if u == nil {
		return "-"
	}
	if u.Name == "" {
		return u.Email
	}
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// idOrDash renders an optional id.
func idOrDash(id domain.ID) string {
	if id.IsZero() {
		return "-"
	}
	return id.String()
}

// indent prefixes every line of s with two spaces.
func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}

// addPageFlags registers --limit and --offset bound to page.
func addPageFlags(cmd *cobra.Command, page *domain.Page) {
	cmd.Flags().IntVar(&page.Limit, "limit", 0, "Maximum number of results (0 = all)")
	cmd.Flags().IntVar(&page.Offset, "offset", 0, "Number of results to skip")
}

// addStatusFlags registers --active and --archived.
func addStatusFlags(cmd *cobra.Command, active, archived *bool) {
	cmd.Flags().BoolVar(active, "active", false, "Only active entries")
	cmd.Flags().BoolVar(archived, "archived", false, "Only archived entries")
}

// resolveUser resolves a user id or email to a user id.
func resolveUser(ctx context.Context, c *app.Container, ref string) (domain.ID, error) {
	if id, err := domain.ParseID(ref); err == nil {
		return id, nil
	}
	u, err := c.Users.FindByEmail(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return "", domain.Invalid("user", "no user with email %q", ref)
	}
	return u.ID, nil
}
