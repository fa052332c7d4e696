package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tegarrramadhaaan/timeline/internal/apperrors"
	"github.com/tegarrramadhaaan/timeline/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
RETURNING id, created_at, username, password_hash
`

func (r *UserRepo) Create(ctx context.Context, username string, hashedPassword string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, username, hashedPassword)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, username, password_hash FROM users
WHERE id = $1
`

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT id, created_at, username, password_hash FROM users
WHERE username = $1
`

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.HashedPassword)
	return u, err
}
