package quote

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

// quoteColumns joins the parent book and author for the display columns
// and folds tag links into a JSON array, keeping one row per quote.
const quoteColumns = `
	q.id, q.bookid, q.userid, q.quotetext, q.pagenumber, q.mycomment,
	q.createdat, b.title, a.name,
	COALESCE((
		SELECT json_agg(json_build_object('id', t.id, 'name', t.name) ORDER BY lower(t.name))
		FROM library.tag t
		JOIN library.quote_tag qt ON qt.tagid = t.id
		WHERE qt.quoteid = q.id
	), '[]') AS tags`

const quoteFrom = `
	FROM library.quote q
	JOIN library.book b ON b.id = q.bookid
	JOIN library.author a ON a.id = b.authorid`

func scanQuote(row pgx.Row, q *Quote, extra ...any) error {
	var tagsJSON []byte
	targets := []any{
		&q.ID, &q.BookID, &q.UserID, &q.QuoteText, &q.PageNumber, &q.MyComment,
		&q.CreatedAt, &q.BookTitle, &q.BookAuthor, &tagsJSON,
	}
	targets = append(targets, extra...)
	if err := row.Scan(targets...); err != nil {
		return err
	}
	return json.Unmarshal(tagsJSON, &q.Tags)
}

// List returns a filtered page of the user's quotes. The quote is the
// primary entity here: search conditions on the parent book and author
// go through 1:1 joins, so no deduplication is needed.
func (repository *PostgresRepository) List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Quote, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`SELECT` + quoteColumns + `,
		COUNT(*) OVER() AS total_count` + quoteFrom)

	queryBuilder.WriteString(fmt.Sprintf(" WHERE q.userid = $%d", argID))
	args = append(args, userID)
	argID++

	if filter.BookID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND q.bookid = $%d", argID))
		args = append(args, filter.BookID)
		argID++
	}

	if filter.TagID != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM library.quote_tag qt WHERE qt.quoteid = q.id AND qt.tagid = $%d
		)`, argID))
		args = append(args, filter.TagID)
		argID++
	}

	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND (
			q.quotetext ILIKE $%d
			OR q.mycomment ILIKE $%d
			OR b.title ILIKE $%d
			OR a.name ILIKE $%d
		)`, argID, argID, argID, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	var orderBy string
	switch filter.Sort {
	case SortOldest:
		orderBy = "q.createdat ASC"
	case SortBookTitle:
		orderBy = "lower(b.title) ASC"
	case SortPage:
		orderBy = "q.pagenumber ASC NULLS LAST"
	default:
		orderBy = "q.createdat DESC"
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s, q.id DESC", orderBy))

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_quotes")
	}
	defer rows.Close()

	quotes := []*Quote{}
	var totalCount int
	for rows.Next() {
		q := &Quote{}
		if err := scanQuote(rows, q, &totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_quote")
		}
		quotes = append(quotes, q)
	}

	return quotes, totalCount, nil
}

func (repository *PostgresRepository) ListByBook(ctx context.Context, userID, bookID string) ([]*Quote, error) {
	query := `SELECT` + quoteColumns + quoteFrom + `
		WHERE q.bookid = $1 AND q.userid = $2
		ORDER BY q.createdat DESC, q.id DESC
	`

	rows, err := repository.db.Query(ctx, query, bookID, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_book_quotes")
	}
	defer rows.Close()

	quotes := []*Quote{}
	for rows.Next() {
		q := &Quote{}
		if err := scanQuote(rows, q); err != nil {
			return nil, dberr.Wrap(err, "scan_quote")
		}
		quotes = append(quotes, q)
	}

	return quotes, nil
}

func (repository *PostgresRepository) Create(ctx context.Context, q *Quote, tagIDs []string) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_create_quote")
	}
	defer tx.Rollback(ctx)

	// Ownership gate on the parent book, same shape as the note store.
	query := `
		INSERT INTO library.quote (
			id, bookid, userid, quotetext, pagenumber, mycomment, createdat
		)
		SELECT $1, b.id, $3, $4, $5, $6, NOW()
		FROM library.book b
		WHERE b.id = $2 AND b.userid = $3
		RETURNING createdat
	`
	err = tx.QueryRow(ctx, query,
		q.ID, q.BookID, q.UserID, q.QuoteText, q.PageNumber, q.MyComment,
	).Scan(&q.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_quote")
	}

	if err := replaceTagLinks(ctx, tx, q.UserID, q.ID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_create_quote")
	}
	return nil
}

func (repository *PostgresRepository) Update(ctx context.Context, q *Quote, tagIDs []string) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_update_quote")
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE library.quote
		SET quotetext = $1, pagenumber = $2, mycomment = $3
		WHERE id = $4 AND userid = $5
		RETURNING bookid, createdat
	`
	err = tx.QueryRow(ctx, query,
		q.QuoteText, q.PageNumber, q.MyComment, q.ID, q.UserID,
	).Scan(&q.BookID, &q.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_quote")
	}

	deleteLinks := `DELETE FROM library.quote_tag WHERE quoteid = $1`
	if _, err := tx.Exec(ctx, deleteLinks, q.ID); err != nil {
		return dberr.Wrap(err, "clear_quote_tags")
	}
	if err := replaceTagLinks(ctx, tx, q.UserID, q.ID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_update_quote")
	}
	return nil
}

func replaceTagLinks(ctx context.Context, tx pgx.Tx, userID, quoteID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO library.quote_tag (quoteid, tagid)
		SELECT $1, t.id
		FROM library.tag t
		WHERE t.id = ANY($2) AND t.userid = $3
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, quoteID, tagIDs, userID); err != nil {
		return dberr.Wrap(err, "link_quote_tags")
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM library.quote WHERE id = $1 AND userid = $2 RETURNING id`
	var deleted string
	if err := repository.db.QueryRow(ctx, query, id, userID).Scan(&deleted); err != nil {
		return dberr.Wrap(err, "delete_quote")
	}
	return nil
}
