package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ShowLogsInput contains the parameters for showing operation logs.
type ShowLogsInput struct {
	Actor     domain.Actor
	ProjectID domain.ID // empty = global log (administrators only)
	Lines     int       // Number of lines to display from the end (0 = all)
}

// ShowLogsOutput contains the result of showing logs.
type ShowLogsOutput struct {
	LogPath string // Path to the log file
	Content string // Log file content
}

// ShowLogs is the use case for viewing operation logs.
type ShowLogs struct {
	store   domain.UnitOfWork
	dataDir string
}

// NewShowLogs creates a new ShowLogs use case.
func NewShowLogs(store domain.UnitOfWork, dataDir string) *ShowLogs {
	return &ShowLogs{store: store, dataDir: dataDir}
}

// Execute reads and returns the log content. A project log requires access
// to the project.
func (uc *ShowLogs) Execute(ctx context.Context, in ShowLogsInput) (*ShowLogsOutput, error) {
	if in.Actor.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	if in.ProjectID.IsZero() {
		if !in.Actor.IsAdmin {
			return nil, domain.Denied("", in.Actor.ID, "administrator role required for the global log")
		}
	} else {
		err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
			project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
			if err != nil {
				return err
			}
			_, err = authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, project)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	logPath := domain.LogFilePath(uc.dataDir, in.ProjectID)
	content, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &ShowLogsOutput{LogPath: logPath}, nil
		}
		return nil, fmt.Errorf("read log file: %w", err)
	}

	// If lines is specified, get only the last N lines
	result := strings.TrimRight(string(content), "\n")
	if in.Lines > 0 {
		lines := strings.Split(result, "\n")
		if len(lines) > in.Lines {
			lines = lines[len(lines)-in.Lines:]
		}
		result = strings.Join(lines, "\n")
	}

	return &ShowLogsOutput{
		LogPath: logPath,
		Content: result,
	}, nil
}
