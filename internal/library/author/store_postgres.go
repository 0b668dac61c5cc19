package author

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindfolio/mindfolio-server/internal/platform/database/schema"
	"github.com/mindfolio/mindfolio-server/internal/platform/dberr"
	"github.com/mindfolio/mindfolio-server/pkg/uuidv7"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListAuthors(ctx context.Context, userID string) ([]*Author, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY lower(%s) ASC
	`,
		schema.LibraryAuthor.ID, schema.LibraryAuthor.UserID, schema.LibraryAuthor.Name, schema.LibraryAuthor.CreatedAt,
		schema.LibraryAuthor.Table, schema.LibraryAuthor.UserID, schema.LibraryAuthor.Name,
	)

	rows, err := repository.db.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_authors")
	}
	defer rows.Close()

	var authors []*Author
	for rows.Next() {
		a := &Author{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}

	return authors, nil
}

// GetOrCreate resolves a name to exactly one row per (user, lower(name)).
//
// The fast path is a plain SELECT. On a miss it INSERTs with ON CONFLICT
// DO NOTHING against the case-folded unique index; when a concurrent
// request wins the insert race the RETURNING clause yields no row and the
// final SELECT picks up the winner. No step ever surfaces a duplicate-key
// error to the caller.
func (repository *PostgresRepository) GetOrCreate(ctx context.Context, userID, name string) (*Author, bool, error) {
	selectQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND lower(%s) = lower($2)
	`,
		schema.LibraryAuthor.ID, schema.LibraryAuthor.UserID, schema.LibraryAuthor.Name, schema.LibraryAuthor.CreatedAt,
		schema.LibraryAuthor.Table, schema.LibraryAuthor.UserID, schema.LibraryAuthor.Name,
	)

	existing := &Author{}
	err := repository.db.QueryRow(ctx, selectQuery, userID, name).Scan(
		&existing.ID, &existing.UserID, &existing.Name, &existing.CreatedAt,
	)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, dberr.Wrap(err, "get_author_by_name")
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s, lower(%s)) DO NOTHING
		RETURNING %s, %s, %s, %s
	`,
		schema.LibraryAuthor.Table,
		schema.LibraryAuthor.ID, schema.LibraryAuthor.UserID, schema.LibraryAuthor.Name, schema.LibraryAuthor.CreatedAt,
		schema.LibraryAuthor.UserID, schema.LibraryAuthor.Name,
		schema.LibraryAuthor.ID, schema.LibraryAuthor.UserID, schema.LibraryAuthor.Name, schema.LibraryAuthor.CreatedAt,
	)

	created := &Author{}
	err = repository.db.QueryRow(ctx, insertQuery, uuidv7.New(), userID, name).Scan(
		&created.ID, &created.UserID, &created.Name, &created.CreatedAt,
	)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, dberr.Wrap(err, "create_author")
	}

	// Lost the insert race: a concurrent request created the row between
	// our SELECT and INSERT. Fetch the winner.
	winner := &Author{}
	err = repository.db.QueryRow(ctx, selectQuery, userID, name).Scan(
		&winner.ID, &winner.UserID, &winner.Name, &winner.CreatedAt,
	)
	if err != nil {
		return nil, false, dberr.Wrap(err, "get_author_after_conflict")
	}

	return winner, false, nil
}
