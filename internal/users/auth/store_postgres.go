// Copyright (c) 2026 Mindfolio. All rights reserved.

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindfolio/mindfolio-server/internal/platform/database/schema"
	"github.com/mindfolio/mindfolio-server/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (repository *PostgresUserRepository) findBy(ctx context.Context, column string, value string, action string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.UsersAccount.ID, schema.UsersAccount.Username, schema.UsersAccount.Email,
		schema.UsersAccount.PasswordHash, schema.UsersAccount.DisplayName,
		schema.UsersAccount.CreatedAt, schema.UsersAccount.UpdatedAt,
		schema.UsersAccount.Table, column,
	)

	user := &User{}
	err := repository.db.QueryRow(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findBy(ctx, schema.UsersAccount.ID, id, "find_user_by_id")
}

// FindByEmail compares case-insensitively so login is forgiving about
// how the address was typed.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findBy(ctx, "lower("+schema.UsersAccount.Email+")", email, "find_user_by_email")
}

func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findBy(ctx, "lower("+schema.UsersAccount.Username+")", username, "find_user_by_username")
}

func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.UsersAccount.Table,
		schema.UsersAccount.ID, schema.UsersAccount.Username, schema.UsersAccount.Email,
		schema.UsersAccount.PasswordHash, schema.UsersAccount.DisplayName,
		schema.UsersAccount.CreatedAt, schema.UsersAccount.UpdatedAt,
		schema.UsersAccount.CreatedAt, schema.UsersAccount.UpdatedAt,
	)
	err := repository.db.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.DisplayName,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}
	return nil
}
