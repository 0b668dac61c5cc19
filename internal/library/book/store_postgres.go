package book

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindfolio/mindfolio-server/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// bookColumns is the shared projection for list and detail queries. The
// author join supplies the display name; tag links are folded into a JSON
// array in a sub-select so the primary row set stays one-row-per-book.
const bookColumns = `
	b.id, b.userid, b.title, b.authorid, a.name,
	b.publicationyear, b.status, b.overallrating,
	b.startedat, b.finishedat, b.primaryformat, b.coverpath,
	b.createdat, b.updatedat,
	COALESCE((
		SELECT json_agg(json_build_object('id', t.id, 'name', t.name) ORDER BY lower(t.name))
		FROM library.tag t
		JOIN library.book_tag bt ON bt.tagid = t.id
		WHERE bt.bookid = b.id
	), '[]') AS tags,
	(SELECT COUNT(*) FROM library.note n WHERE n.bookid = b.id) AS notecount,
	(SELECT COUNT(*) FROM library.quote q WHERE q.bookid = b.id) AS quotecount,
	(SELECT COUNT(*) FROM library.book_file f WHERE f.bookid = b.id) AS filecount`

func scanBook(row pgx.Row, b *Book, extra ...any) error {
	var tagsJSON []byte
	targets := []any{
		&b.ID, &b.UserID, &b.Title, &b.Author.ID, &b.Author.Name,
		&b.PublicationYear, &b.Status, &b.OverallRating,
		&b.StartedAt, &b.FinishedAt, &b.PrimaryFormat, &b.CoverPath,
		&b.CreatedAt, &b.UpdatedAt,
		&tagsJSON, &b.NoteCount, &b.QuoteCount, &b.FileCount,
	}
	targets = append(targets, extra...)
	if err := row.Scan(targets...); err != nil {
		return err
	}
	return json.Unmarshal(tagsJSON, &b.Tags)
}

/*
ListBooks returns a filtered page of the user's library and the total
count of the filtered set.

The WHERE clause is built dynamically from the filter. Search uses EXISTS
subqueries over author name, note bodies, and quote texts instead of
joins, so a book with five matching notes still produces exactly one row.
The total comes from a COUNT(*) OVER() window, avoiding a second query.
The sort key is a closed enum mapped to fixed ORDER BY fragments; the id
tiebreak keeps pagination stable.
*/
func (repository *PostgresRepository) ListBooks(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Book, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`SELECT` + bookColumns + `,
		COUNT(*) OVER() AS total_count
		FROM library.book b
		JOIN library.author a ON a.id = b.authorid
	`)

	queryBuilder.WriteString(fmt.Sprintf(" WHERE b.userid = $%d", argID))
	args = append(args, userID)
	argID++

	// Exact match, no enum validation: an unknown status yields an
	// empty result rather than an error.
	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND b.status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}

	if filter.TagID != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM library.book_tag bt WHERE bt.bookid = b.id AND bt.tagid = $%d
		)`, argID))
		args = append(args, filter.TagID)
		argID++
	}

	if filter.RatingFloor != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND b.overallrating >= $%d", argID))
		args = append(args, *filter.RatingFloor)
		argID++
	}

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND (
			b.title ILIKE $%d
			OR a.name ILIKE $%d
			OR EXISTS (SELECT 1 FROM library.note n WHERE n.bookid = b.id AND n.body ILIKE $%d)
			OR EXISTS (SELECT 1 FROM library.quote q WHERE q.bookid = b.id AND q.quotetext ILIKE $%d)
		)`, argID, argID, argID, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	var orderBy string
	switch filter.Sort {
	case SortCreatedDesc:
		orderBy = "b.createdat DESC"
	case SortTitleAsc:
		orderBy = "lower(b.title) ASC"
	case SortAuthorAsc:
		orderBy = "lower(a.name) ASC"
	case SortRatingDesc:
		orderBy = "b.overallrating DESC NULLS LAST"
	case SortFinishedDesc:
		orderBy = "b.finishedat DESC NULLS LAST"
	default:
		orderBy = "b.updatedat DESC"
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s, b.id DESC", orderBy))

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	var books []*Book
	var totalCount int
	for rows.Next() {
		b := &Book{}
		if err := scanBook(rows, b, &totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	return books, totalCount, nil
}

func (repository *PostgresRepository) GetBook(ctx context.Context, userID, id string) (*Book, error) {
	query := `SELECT` + bookColumns + `
		FROM library.book b
		JOIN library.author a ON a.id = b.authorid
		WHERE b.id = $1 AND b.userid = $2
	`

	b := &Book{}
	if err := scanBook(repository.db.QueryRow(ctx, query, id, userID), b); err != nil {
		return nil, dberr.Wrap(err, "get_book")
	}
	return b, nil
}

func (repository *PostgresRepository) CreateBook(ctx context.Context, b *Book, tagIDs []string) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_book")
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO library.book (
			id, userid, title, authorid, publicationyear, status,
			overallrating, startedat, finishedat, primaryformat,
			createdat, updatedat
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING createdat, updatedat
	`
	err = tx.QueryRow(ctx, query,
		b.ID, b.UserID, b.Title, b.Author.ID, b.PublicationYear, b.Status,
		b.OverallRating, b.StartedAt, b.FinishedAt, b.PrimaryFormat,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_book")
	}

	if err := replaceTagLinks(ctx, tx, b.UserID, b.ID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_book")
	}
	return nil
}

func (repository *PostgresRepository) UpdateBook(ctx context.Context, b *Book, tagIDs []string) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_book")
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE library.book
		SET title = $1, authorid = $2, publicationyear = $3, status = $4,
			overallrating = $5, startedat = $6, finishedat = $7,
			primaryformat = $8, updatedat = NOW()
		WHERE id = $9 AND userid = $10
		RETURNING updatedat
	`
	err = tx.QueryRow(ctx, query,
		b.Title, b.Author.ID, b.PublicationYear, b.Status,
		b.OverallRating, b.StartedAt, b.FinishedAt, b.PrimaryFormat,
		b.ID, b.UserID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}

	deleteLinks := `DELETE FROM library.book_tag WHERE bookid = $1`
	if _, err := tx.Exec(ctx, deleteLinks, b.ID); err != nil {
		return dberr.Wrap(err, "clear_book_tags")
	}
	if err := replaceTagLinks(ctx, tx, b.UserID, b.ID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_book")
	}
	return nil
}

// replaceTagLinks inserts junction rows for tagIDs. The SELECT keeps the
// link set restricted to tags the owner actually has, so a forged tag ID
// belonging to another user silently drops out.
func replaceTagLinks(ctx context.Context, tx pgx.Tx, userID, bookID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO library.book_tag (bookid, tagid)
		SELECT $1, t.id
		FROM library.tag t
		WHERE t.id = ANY($2) AND t.userid = $3
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, bookID, tagIDs, userID); err != nil {
		return dberr.Wrap(err, "link_book_tags")
	}
	return nil
}

// DeleteBook collects the book's blob paths, then deletes the row and
// lets ON DELETE CASCADE take the files, notes, quotes, and junction
// rows. The paths are returned so the service can remove the blobs only
// after the commit succeeds.
func (repository *PostgresRepository) DeleteBook(ctx context.Context, userID, id string) ([]string, error) {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_delete_book")
	}
	defer tx.Rollback(ctx)

	pathsQuery := `
		SELECT f.storagepath
		FROM library.book_file f
		JOIN library.book b ON b.id = f.bookid
		WHERE f.bookid = $1 AND b.userid = $2
	`
	rows, err := tx.Query(ctx, pathsQuery, id, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "collect_blob_paths")
	}
	var blobPaths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, dberr.Wrap(err, "scan_blob_path")
		}
		blobPaths = append(blobPaths, path)
	}
	rows.Close()

	var coverPath *string
	deleteQuery := `
		DELETE FROM library.book
		WHERE id = $1 AND userid = $2
		RETURNING coverpath
	`
	if err := tx.QueryRow(ctx, deleteQuery, id, userID).Scan(&coverPath); err != nil {
		return nil, dberr.Wrap(err, "delete_book")
	}
	if coverPath != nil && *coverPath != "" {
		blobPaths = append(blobPaths, *coverPath)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, dberr.Wrap(err, "commit_delete_book")
	}
	return blobPaths, nil
}

// Facets runs over the full owned set, never the filtered one, so the
// sidebar counters stay stable while the user narrows the list.
func (repository *PostgresRepository) Facets(ctx context.Context, userID string) (*Facets, error) {
	statusQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'TO_READ'),
			COUNT(*) FILTER (WHERE status = 'READING'),
			COUNT(*) FILTER (WHERE status = 'FINISHED')
		FROM library.book
		WHERE userid = $1
	`
	facets := &Facets{TagCounts: []TagCount{}}
	err := repository.db.QueryRow(ctx, statusQuery, userID).Scan(
		&facets.StatusCounts.Total,
		&facets.StatusCounts.ToRead,
		&facets.StatusCounts.Reading,
		&facets.StatusCounts.Finished,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "facet_status_counts")
	}

	// LEFT JOIN keeps zero-count tags visible in the dropdown.
	tagQuery := `
		SELECT t.id, t.name, COUNT(bt.bookid)
		FROM library.tag t
		LEFT JOIN library.book_tag bt ON bt.tagid = t.id
		WHERE t.userid = $1
		GROUP BY t.id, t.name
		ORDER BY lower(t.name) ASC
	`
	rows, err := repository.db.Query(ctx, tagQuery, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "facet_tag_counts")
	}
	defer rows.Close()

	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Count); err != nil {
			return nil, dberr.Wrap(err, "scan_tag_count")
		}
		facets.TagCounts = append(facets.TagCounts, tc)
	}

	return facets, nil
}
