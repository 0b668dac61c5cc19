package note

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindfolio/mindfolio-server/internal/platform/database/schema"
	"github.com/mindfolio/mindfolio-server/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListByBook(ctx context.Context, userID, bookID string) ([]*Note, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s DESC
	`,
		schema.LibraryNote.ID, schema.LibraryNote.BookID, schema.LibraryNote.UserID,
		schema.LibraryNote.NoteType, schema.LibraryNote.Title, schema.LibraryNote.Body,
		schema.LibraryNote.PageStart, schema.LibraryNote.PageEnd,
		schema.LibraryNote.CreatedAt, schema.LibraryNote.UpdatedAt,
		schema.LibraryNote.Table,
		schema.LibraryNote.BookID, schema.LibraryNote.UserID,
		schema.LibraryNote.CreatedAt,
	)

	rows, err := repository.db.Query(ctx, query, bookID, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_notes")
	}
	defer rows.Close()

	notes := []*Note{}
	for rows.Next() {
		n := &Note{}
		err := rows.Scan(
			&n.ID, &n.BookID, &n.UserID, &n.NoteType, &n.Title, &n.Body,
			&n.PageStart, &n.PageEnd, &n.CreatedAt, &n.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_note")
		}
		notes = append(notes, n)
	}

	return notes, nil
}

// Create inserts through a SELECT gated on the parent book's owner. When
// the book is missing or belongs to someone else the SELECT produces no
// row, the RETURNING yields ErrNoRows, and the caller sees NOT_FOUND.
func (repository *PostgresRepository) Create(ctx context.Context, n *Note) error {
	query := `
		INSERT INTO library.note (
			id, bookid, userid, notetype, title, body,
			pagestart, pageend, createdat, updatedat
		)
		SELECT $1, b.id, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		FROM library.book b
		WHERE b.id = $2 AND b.userid = $3
		RETURNING createdat, updatedat
	`
	err := repository.db.QueryRow(ctx, query,
		n.ID, n.BookID, n.UserID, n.NoteType, n.Title, n.Body,
		n.PageStart, n.PageEnd,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_note")
	}
	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, n *Note) error {
	query := `
		UPDATE library.note
		SET notetype = $1, title = $2, body = $3,
			pagestart = $4, pageend = $5, updatedat = NOW()
		WHERE id = $6 AND userid = $7
		RETURNING bookid, createdat, updatedat
	`
	err := repository.db.QueryRow(ctx, query,
		n.NoteType, n.Title, n.Body, n.PageStart, n.PageEnd,
		n.ID, n.UserID,
	).Scan(&n.BookID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_note")
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM library.note WHERE id = $1 AND userid = $2 RETURNING id`
	var deleted string
	if err := repository.db.QueryRow(ctx, query, id, userID).Scan(&deleted); err != nil {
		return dberr.Wrap(err, "delete_note")
	}
	return nil
}
