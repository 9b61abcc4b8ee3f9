package cli

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
)

// hierarchy creates a project, module and use case and returns their ids.
func hierarchy(t *testing.T, c *app.Container) (projectID, moduleID, useCaseID string) {
	t.Helper()
	projectID = decodeID(t, mustExecute(t, c, "--as", admin, "--json", "project", "create", "Billing"))
	moduleID = decodeID(t, mustExecute(t, c, "--as", admin, "--json", "module", "create", projectID, "Invoices"))
	useCaseID = decodeID(t, mustExecute(t, c, "--as", admin, "--json", "usecase", "create", moduleID, "Send invoice", "--notes", "PDF only"))
	return projectID, moduleID, useCaseID
}

func TestModuleAndUseCaseCommands(t *testing.T) {
	// Setup
	c := initialized(t)
	projectID, moduleID, useCaseID := hierarchy(t, c)

	// Execute & Assert: show
	show := mustExecute(t, c, "--as", admin, "module", "show", moduleID)
	assert.Contains(t, show, "# Module: Invoices")
	assert.Contains(t, show, "Billing")

	ucShow := mustExecute(t, c, "--as", admin, "usecase", "show", useCaseID)
	assert.Contains(t, ucShow, "# Use case: Send invoice")
	assert.Contains(t, ucShow, "PDF only")

	// update
	mustExecute(t, c, "--as", admin, "usecase", "update", useCaseID, "--notes", "PDF and CSV")
	assert.Contains(t, mustExecute(t, c, "--as", admin, "usecase", "show", useCaseID), "PDF and CSV")
	mustExecute(t, c, "--as", admin, "module", "update", moduleID, "-t", "Invoicing")
	assert.Contains(t, mustExecute(t, c, "--as", admin, "module", "list", projectID), "Invoicing")

	// archiving a module archives its use cases
	out := mustExecute(t, c, "--as", admin, "module", "archive", moduleID)
	assert.Contains(t, out, "Archived module")
	assert.Contains(t, out, "Archived 1 use case(s)")
	assert.Contains(t, mustExecute(t, c, "--as", admin, "usecase", "list", moduleID, "--archived"), useCaseID)

	_, _, err := execute(t, c, "--as", admin, "task", "create", useCaseID, "Render PDF")
	assert.ErrorIs(t, err, domain.ErrModuleInactive)

	// reactivate
	mustExecute(t, c, "--as", admin, "module", "activate", moduleID)
	out = mustExecute(t, c, "--as", admin, "usecase", "activate", useCaseID)
	assert.Contains(t, out, "Activated use case")

	// delete bottom-up
	_, _, err = execute(t, c, "--as", admin, "module", "delete", moduleID)
	assert.ErrorIs(t, err, domain.ErrModuleHasUseCases)
	mustExecute(t, c, "--as", admin, "usecase", "delete", useCaseID)
	mustExecute(t, c, "--as", admin, "module", "delete", moduleID)
	assert.NotContains(t, mustExecute(t, c, "--as", admin, "module", "list", projectID), moduleID)
}

func TestTaskCommands_Workflow(t *testing.T) {
	// Setup
	c := initialized(t)
	_, _, useCaseID := hierarchy(t, c)
	taskID := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "task", "create", useCaseID, "Render PDF", "--type", "bug", "--due", "2099-01-31"))

	// Execute & Assert: start
	out := mustExecute(t, c, "--as", admin, "task", "start", taskID)
	assert.Contains(t, out, "Started task")
	assert.Contains(t, out, "Admin <admin@example.com>")

	show := mustExecute(t, c, "--as", admin, "task", "show", taskID)
	assert.Contains(t, show, "# Task: Render PDF")
	assert.Contains(t, show, "In Progress")
	assert.Contains(t, show, "bug")
	assert.Contains(t, show, "2099-01-31")

	// complete with a note
	out = mustExecute(t, c, "--as", admin, "task", "complete", taskID, "-m", "done")
	assert.Contains(t, out, "Completed task")
	assert.Contains(t, mustExecute(t, c, "--as", admin, "task", "show", taskID), "done")

	// revert
	out = mustExecute(t, c, "--as", admin, "task", "state", taskID, "not-started")
	assert.Contains(t, out, "Completed -> Not Started")

	// cancel
	out = mustExecute(t, c, "--as", admin, "task", "state", taskID, "cancelled")
	assert.Contains(t, out, "Not Started -> Cancelled")

	// invalid transition
	_, _, err := execute(t, c, "--as", admin, "task", "state", taskID, "completed")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, _, err = execute(t, c, "--as", admin, "task", "state", taskID, "done")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskUpdate(t *testing.T) {
	// Setup
	c := initialized(t)
	_, _, useCaseID := hierarchy(t, c)
	taskID := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "task", "create", useCaseID, "Render PDF", "--due", "2099-01-31"))

	// Execute
	out := mustExecute(t, c, "--as", admin, "--json", "task", "update", taskID, "--type", "test", "--notes", "A4 paper", "--clear-due")

	// Assert
	var task domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, "Render PDF", task.Title)
	assert.Equal(t, domain.TaskTypeTest, task.Type)
	assert.Equal(t, "A4 paper", task.ImportantNotes)
	assert.Nil(t, task.Due)

	_, _, err := execute(t, c, "--as", admin, "task", "update", taskID, "--due", "2099-01-31", "--clear-due")
	assert.Error(t, err)
}

func TestTaskList_Filters(t *testing.T) {
	// Setup
	c := initialized(t)
	_, _, useCaseID := hierarchy(t, c)
	featureID := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "task", "create", useCaseID, "Feature task"))
	bugID := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "task", "create", useCaseID, "Bug task", "--type", "bug"))
	mustExecute(t, c, "--as", admin, "task", "start", bugID)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{name: "all", contains: []string{featureID, bugID}},
		{name: "by state", args: []string{"--state", "in_progress"}, contains: []string{bugID}, excludes: []string{featureID}},
		{name: "by type", args: []string{"--type", "feature"}, contains: []string{featureID}, excludes: []string{bugID}},
		{name: "by assignee", args: []string{"--assignee", admin}, contains: []string{bugID}, excludes: []string{featureID}},
		{name: "paged", args: []string{"--limit", "1"}, contains: []string{featureID}, excludes: []string{bugID}},
		{name: "overdue", args: []string{"--overdue"}, excludes: []string{featureID, bugID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--as", admin, "task", "list", useCaseID}, tt.args...)
			out := mustExecute(t, c, args...)
			assert.Contains(t, out, "STATE")
			for _, id := range tt.contains {
				assert.Contains(t, out, id)
			}
			for _, id := range tt.excludes {
				assert.NotContains(t, out, id)
			}
		})
	}
}

func TestRelationCommands_BlocksCompletion(t *testing.T) {
	// Setup
	c := initialized(t)
	_, _, useCaseID := hierarchy(t, c)
	blockerID := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "task", "create", useCaseID, "Design template"))
	blockedID := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "task", "create", useCaseID, "Render PDF"))

	relationID := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "relation", "add", blockerID, "blocks", blockedID))

	// Execute & Assert: duplicates and self relations rejected
	_, _, err := execute(t, c, "--as", admin, "relation", "add", blockerID, "blocks", blockedID)
	assert.ErrorIs(t, err, domain.ErrDuplicateRelation)
	_, _, err = execute(t, c, "--as", admin, "relation", "add", blockerID, "relates-to", blockerID)
	assert.ErrorIs(t, err, domain.ErrSelfRelation)

	// listing from both sides
	outgoing := mustExecute(t, c, "--as", admin, "relation", "list", blockerID)
	assert.Contains(t, outgoing, "outgoing")
	assert.Contains(t, outgoing, "Render PDF")
	incoming := mustExecute(t, c, "--as", admin, "relation", "list", blockedID)
	assert.Contains(t, incoming, "blocked_by")
	assert.Contains(t, incoming, "Design template")

	// completion blocked
	mustExecute(t, c, "--as", admin, "task", "start", blockedID)
	assert.Contains(t, mustExecute(t, c, "--as", admin, "task", "show", blockedID), "Blocked by: "+blockerID)
	_, _, err = execute(t, c, "--as", admin, "task", "complete", blockedID)
	assert.ErrorIs(t, err, domain.ErrTaskBlocked)

	// completing the blocker unblocks
	mustExecute(t, c, "--as", admin, "task", "start", blockerID)
	mustExecute(t, c, "--as", admin, "task", "complete", blockerID)
	out := mustExecute(t, c, "--as", admin, "task", "complete", blockedID)
	assert.Contains(t, out, "Completed task")

	// removal is idempotent
	out = mustExecute(t, c, "--as", admin, "relation", "remove", blockerID, relationID)
	assert.Contains(t, out, "Removed relation")
	out = mustExecute(t, c, "--as", admin, "relation", "remove", blockerID, relationID)
	assert.Contains(t, out, "does not exist")
}

func TestTaskDelete_RemovesRelations(t *testing.T) {
	// Setup
	c := initialized(t)
	_, _, useCaseID := hierarchy(t, c)
	a := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "task", "create", useCaseID, "A"))
	b := decodeID(t, mustExecute(t, c, "--as", admin, "--json", "task", "create", useCaseID, "B"))
	mustExecute(t, c, "--as", admin, "relation", "add", a, "relates-to", b)

	// Execute
	out := mustExecute(t, c, "--as", admin, "task", "delete", a)

	// Assert
	assert.Contains(t, out, "Deleted task")
	assert.Contains(t, out, "Removed 1 relation(s)")
	assert.NotContains(t, mustExecute(t, c, "--as", admin, "relation", "list", b), a)
}

func TestEventsCommand(t *testing.T) {
	// Setup
	c := initialized(t)
	projectID, _, _ := hierarchy(t, c)

	// Execute
	out := mustExecute(t, c, "--as", admin, "--json", "events", "--project", projectID)

	// Assert
	var events []domain.EventRecord
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.NotEmpty(t, events)
	assert.Equal(t, domain.EventProjectCreated, events[0].Type)

	types := make([]domain.EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, domain.EventModuleCreated)
	assert.Contains(t, types, domain.EventUseCaseCreated)

	// resume after the last sequence number
	last := events[len(events)-1].Seq
	table := mustExecute(t, c, "--as", admin, "events", "--after", "0", "--limit", "1")
	assert.Contains(t, table, "ProjectCreated")
	assert.NotContains(t, table, "ModuleCreated")

	var none []domain.EventRecord
	require.NoError(t, json.Unmarshal([]byte(mustExecute(t, c, "--as", admin, "--json", "events", "--after", strconv.FormatInt(last, 10))), &none))
	assert.Empty(t, none)
}

func TestLogsCommand(t *testing.T) {
	// Setup
	c := initialized(t)
	mustExecute(t, c, "--as", admin, "user", "register", "--email", "bob@example.com")
	projectID, _, _ := hierarchy(t, c)

	// Execute
	projectLog := mustExecute(t, c, "--as", admin, "logs", "--project", projectID)
	lastLine := mustExecute(t, c, "--as", admin, "logs", "--project", projectID, "-n", "1")
	globalLog := mustExecute(t, c, "--as", admin, "logs")
	_, _, err := execute(t, c, "--as", "bob@example.com", "logs")

	// Assert
	assert.Contains(t, projectLog, "[project-"+projectID+"]")
	assert.Contains(t, projectLog, "[module]")
	assert.Equal(t, 1, strings.Count(lastLine, "\n"))
	assert.Contains(t, globalLog, "[global] [user]")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
