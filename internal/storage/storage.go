package storage

import (
	"context"
	"errors"

	"bugtracker/internal/models"
)

// ErrNotFound is returned by backends when no bug exists with the given id.
var ErrNotFound = errors.New("bug not found")

// BugChanges carries the fields of a partial update. A nil field is left
// unchanged. Title and description are only applied when non-blank; a
// supplied AssignedTo may clear the assignment with an empty string.
type BugChanges struct {
	Title       *string
	Description *string
	Status      *models.Status
	Priority    *models.Priority
	AssignedTo  *string
}

// Store is the persistence interface for bug records. Backends assign id and
// createdAt on creation and guarantee per-document atomicity only; concurrent
// updates to the same record resolve last-write-wins.
type Store interface {
	ListBugs(ctx context.Context) ([]models.Bug, error)
	CreateBug(ctx context.Context, bug models.Bug) (models.Bug, error)
	GetBug(ctx context.Context, id string) (models.Bug, error)
	UpdateBug(ctx context.Context, id string, changes BugChanges) (models.Bug, error)
	DeleteBug(ctx context.Context, id string) error
	Close() error
}
