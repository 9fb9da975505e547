package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bugtracker/internal/models"
	"bugtracker/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateBug_AssignsIDAndCreatedAt(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	bug, err := s.CreateBug(ctx, models.Bug{
		Title:       "Crash on startup",
		Description: "Segfault when config file is missing.",
		Status:      models.StatusOpen,
		Priority:    models.PriorityHigh,
		AssignedTo:  "Jane Doe",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, bug.ID)
	assert.False(t, bug.CreatedAt.IsZero())
	assert.Equal(t, "Crash on startup", bug.Title)
	assert.Equal(t, models.PriorityHigh, bug.Priority)
	assert.Equal(t, "Jane Doe", bug.AssignedTo)
}

func TestCreateBug_DefaultsForZeroEnums(t *testing.T) {
	s := setupStore(t)

	bug, err := s.CreateBug(context.Background(), models.Bug{
		Title:       "Typo on landing page",
		Description: "Heading reads 'Wlecome'.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, bug.Status)
	assert.Equal(t, models.PriorityMedium, bug.Priority)
}

func TestListBugs_InsertionOrder(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first, err := s.CreateBug(ctx, models.Bug{Title: "first", Description: "d"})
	require.NoError(t, err)
	second, err := s.CreateBug(ctx, models.Bug{Title: "second", Description: "d"})
	require.NoError(t, err)

	bugs, err := s.ListBugs(ctx)
	require.NoError(t, err)
	require.Len(t, bugs, 2)
	assert.Equal(t, first.ID, bugs[0].ID)
	assert.Equal(t, second.ID, bugs[1].ID)
}

func TestGetBug_NotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.GetBug(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateBug_PartialChanges(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	bug, err := s.CreateBug(ctx, models.Bug{
		Title:       "Slow search",
		Description: "Search takes >5s on large projects.",
		Status:      models.StatusOpen,
		Priority:    models.PriorityLow,
		AssignedTo:  "Sam",
	})
	require.NoError(t, err)

	status := models.StatusInProgress
	updated, err := s.UpdateBug(ctx, bug.ID, storage.BugChanges{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, "Slow search", updated.Title)
	assert.Equal(t, models.PriorityLow, updated.Priority)
	assert.Equal(t, "Sam", updated.AssignedTo)
	assert.True(t, bug.CreatedAt.Equal(updated.CreatedAt), "createdAt must be immutable")
}

func TestUpdateBug_BlankTitleIgnored(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	bug, err := s.CreateBug(ctx, models.Bug{Title: "Keep me", Description: "d"})
	require.NoError(t, err)

	blank := "   "
	updated, err := s.UpdateBug(ctx, bug.ID, storage.BugChanges{Title: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Keep me", updated.Title)
}

func TestUpdateBug_ClearsAssignee(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	bug, err := s.CreateBug(ctx, models.Bug{Title: "t", Description: "d", AssignedTo: "Sam"})
	require.NoError(t, err)

	empty := ""
	updated, err := s.UpdateBug(ctx, bug.ID, storage.BugChanges{AssignedTo: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.AssignedTo)
}

func TestUpdateBug_NotFound(t *testing.T) {
	s := setupStore(t)

	title := "t"
	_, err := s.UpdateBug(context.Background(), "missing", storage.BugChanges{Title: &title})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteBug(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	keep, err := s.CreateBug(ctx, models.Bug{Title: "keep", Description: "d"})
	require.NoError(t, err)
	drop, err := s.CreateBug(ctx, models.Bug{Title: "drop", Description: "d"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteBug(ctx, drop.ID))

	bugs, err := s.ListBugs(ctx)
	require.NoError(t, err)
	require.Len(t, bugs, 1)
	assert.Equal(t, keep.ID, bugs[0].ID)

	assert.ErrorIs(t, s.DeleteBug(ctx, drop.ID), storage.ErrNotFound)
}

func TestDeleteBug_NotFound(t *testing.T) {
	s := setupStore(t)
	assert.ErrorIs(t, s.DeleteBug(context.Background(), "missing"), storage.ErrNotFound)
}
