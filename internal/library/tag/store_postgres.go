package tag

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

func (repository *PostgresRepository) ListTags(ctx context.Context, userID string) ([]*Tag, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY lower(%s) ASC
	`,
		schema.LibraryTag.ID, schema.LibraryTag.UserID, schema.LibraryTag.Name, schema.LibraryTag.CreatedAt,
		schema.LibraryTag.Table, schema.LibraryTag.UserID, schema.LibraryTag.Name,
	)

	rows, err := repository.db.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tags")
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_tag")
		}
		tags = append(tags, t)
	}

	return tags, nil
}

// GetOrCreate mirrors the author registry: SELECT by folded name, then
// INSERT ON CONFLICT DO NOTHING, then re-SELECT when a concurrent insert
// wins the race.
func (repository *PostgresRepository) GetOrCreate(ctx context.Context, userID, name string) (*Tag, bool, error) {
	selectQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND lower(%s) = lower($2)
	`,
		schema.LibraryTag.ID, schema.LibraryTag.UserID, schema.LibraryTag.Name, schema.LibraryTag.CreatedAt,
		schema.LibraryTag.Table, schema.LibraryTag.UserID, schema.LibraryTag.Name,
	)

	existing := &Tag{}
	err := repository.db.QueryRow(ctx, selectQuery, userID, name).Scan(
		&existing.ID, &existing.UserID, &existing.Name, &existing.CreatedAt,
	)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, dberr.Wrap(err, "get_tag_by_name")
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s, lower(%s)) DO NOTHING
		RETURNING %s, %s, %s, %s
	`,
		schema.LibraryTag.Table,
		schema.LibraryTag.ID, schema.LibraryTag.UserID, schema.LibraryTag.Name, schema.LibraryTag.CreatedAt,
		schema.LibraryTag.UserID, schema.LibraryTag.Name,
		schema.LibraryTag.ID, schema.LibraryTag.UserID, schema.LibraryTag.Name, schema.LibraryTag.CreatedAt,
	)

	created := &Tag{}
	err = repository.db.QueryRow(ctx, insertQuery, uuidv7.New(), userID, name).Scan(
		&created.ID, &created.UserID, &created.Name, &created.CreatedAt,
	)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, dberr.Wrap(err, "create_tag")
	}

	winner := &Tag{}
	err = repository.db.QueryRow(ctx, selectQuery, userID, name).Scan(
		&winner.ID, &winner.UserID, &winner.Name, &winner.CreatedAt,
	)
	if err != nil {
		return nil, false, dberr.Wrap(err, "get_tag_after_conflict")
	}

	return winner, false, nil
}
