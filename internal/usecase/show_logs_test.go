package usecase

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
)

func writeLog(t *testing.T, dataDir string, projectID domain.ID, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(domain.LogDir(dataDir), 0o750))
	path := domain.LogFilePath(dataDir, projectID)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestShowLogs_Execute_ProjectLog(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	dataDir := t.TempDir()
	logPath := writeLog(t, dataDir, w.Project.ID, "line1\nline2\nline3\n")
	uc := NewShowLogs(w.Store, dataDir)

	// Execute
	out, err := uc.Execute(context.Background(), ShowLogsInput{Actor: w.Viewer, ProjectID: w.Project.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, logPath, out.LogPath)
	assert.Equal(t, "line1\nline2\nline3", out.Content)
}

func TestShowLogs_Execute_WithLines(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	dataDir := t.TempDir()
	writeLog(t, dataDir, w.Project.ID, "line1\nline2\nline3\nline4\nline5\n")
	uc := NewShowLogs(w.Store, dataDir)

	// Execute
	out, err := uc.Execute(context.Background(), ShowLogsInput{Actor: w.Owner, ProjectID: w.Project.ID, Lines: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "line4\nline5", out.Content)
}

func TestShowLogs_Execute_MissingFile(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	uc := NewShowLogs(w.Store, t.TempDir())

	// Execute
	out, err := uc.Execute(context.Background(), ShowLogsInput{Actor: w.Owner, ProjectID: w.Project.ID})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, out.Content)
}

func TestShowLogs_Execute_Denied(t *testing.T) {
	w := testutil.NewWorld(t)
	uc := NewShowLogs(w.Store, t.TempDir())

	tests := []struct {
		name  string
		in    ShowLogsInput
		match error
	}{
		{"outsider reads project log", ShowLogsInput{Actor: w.Outsider, ProjectID: w.Project.ID}, domain.ErrAccessDenied},
		{"member reads global log", ShowLogsInput{Actor: w.Member}, domain.ErrAccessDenied},
		{"no actor", ShowLogsInput{ProjectID: w.Project.ID}, domain.ErrUnauthorized},
		{"unknown project", ShowLogsInput{Actor: w.Owner, ProjectID: domain.NewID()}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.match)
		})
	}
}

func TestShowLogs_Execute_GlobalLogForAdmin(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	dataDir := t.TempDir()
	writeLog(t, dataDir, "", "boot\n")
	uc := NewShowLogs(w.Store, dataDir)

	// Execute
	out, err := uc.Execute(context.Background(), ShowLogsInput{Actor: w.Admin})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "boot", out.Content)
}
