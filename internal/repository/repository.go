package repository

import (
	"context"

	"github.com/tegarrramadhaaan/timeline/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return error apperrors.ErrUserAlreadyExists
	Create(ctx context.Context, username string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, userID int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

// Entry repository interface
type EntryRepo interface {
	// Create entry owned by user
	// Empty content or unknown owner must return apperrors.ErrEntryInvalid
	Create(ctx context.Context, ownerID int64, content string) (models.Entry, error)

	// List all entries with authors, most recent first
	// No entries is not an error: returns an empty slice
	ListFeed(ctx context.Context) ([]models.FeedEntry, error)

	// Delete the entry only when both id and owner match.
	// Deleting a missing or non-owned entry is a silent no-op: reported
	// as deleted=false with nil error, never apperrors.ErrEntryNotFound.
	// Ownership is enforced by the query predicate itself.
	Delete(ctx context.Context, ownerID int64, entryID int64) (deleted bool, err error)

	// Search entries whose content contains keyword as a literal
	// case-insensitive substring, most recent first.
	// The keyword is bound as a query parameter, never spliced into SQL.
	Search(ctx context.Context, keyword string) ([]models.FeedEntry, error)
}

// SeedUser and SeedEntry describe demo bootstrap data.
// Entries reference their owner by username so seed data stays
// independent from generated ids.
type SeedUser struct {
	Username       string
	HashedPassword string
}

type SeedEntry struct {
	Username string
	Content  string
}

// Storage aggregates the repositories over one database handle
type Storage interface {
	User() UserRepo
	Entry() EntryRepo

	// Run fn with a storage bound to a single database transaction
	InTx(ctx context.Context, fn func(Storage) error) error

	// Seed demo data. Idempotent: rows that already exist are skipped.
	Seed(ctx context.Context, users []SeedUser, entries []SeedEntry) error
}
