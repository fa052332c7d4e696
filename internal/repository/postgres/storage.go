package postgres

import (
	"context"
	"fmt"

	"github.com/tegarrramadhaaan/timeline/internal/repository"
)

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Entry() repository.EntryRepo {
	return &EntryRepo{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}

const seedUser = `-- name: SeedUser
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
ON CONFLICT (username) DO NOTHING
`

// Insert entry for the named user unless an identical one exists already.
// Keyed on (owner, content) cause entries carry no natural unique column.
const seedEntry = `-- name: SeedEntry
INSERT INTO entries (user_id, content)
SELECT u.id, $2
FROM users u
WHERE u.username = $1
  AND NOT EXISTS (
    SELECT 1 FROM entries e WHERE e.user_id = u.id AND e.content = $2
  )
`

// Seed demo users and entries in one transaction
// Safe to run repeatedly: existing rows are left untouched
func (s *Storage) Seed(ctx context.Context, users []repository.SeedUser, entries []repository.SeedEntry) error {
	return s.InTx(ctx, func(txStorage repository.Storage) error {
		tx := txStorage.(*Storage).db

		for _, u := range users {
			if _, err := tx.Exec(ctx, seedUser, u.Username, u.HashedPassword); err != nil {
				return fmt.Errorf("seed user %q: %w", u.Username, err)
			}
		}

		for _, e := range entries {
			if _, err := tx.Exec(ctx, seedEntry, e.Username, e.Content); err != nil {
				return fmt.Errorf("seed entry for %q: %w", e.Username, err)
			}
		}

		return nil
	})
}
