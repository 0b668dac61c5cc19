package bookfile

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindfolio/mindfolio-server/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `
	f.id, f.bookid, f.filetype, f.storagepath, f.originalfilename,
	f.mimetype, f.sizebytes, f.uploadedat`

func (repository *PostgresRepository) ListByBook(ctx context.Context, userID, bookID string) ([]*BookFile, error) {
	query := `SELECT` + fileColumns + `
		FROM library.book_file f
		JOIN library.book b ON b.id = f.bookid
		WHERE f.bookid = $1 AND b.userid = $2
		ORDER BY f.uploadedat DESC, f.id DESC
	`

	rows, err := repository.db.Query(ctx, query, bookID, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_book_files")
	}
	defer rows.Close()

	files := []*BookFile{}
	for rows.Next() {
		f := &BookFile{}
		err := rows.Scan(
			&f.ID, &f.BookID, &f.FileType, &f.StoragePath, &f.OriginalFilename,
			&f.MimeType, &f.SizeBytes, &f.UploadedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_book_file")
		}
		files = append(files, f)
	}

	return files, nil
}

func (repository *PostgresRepository) Get(ctx context.Context, userID, id string) (*BookFile, error) {
	query := `SELECT` + fileColumns + `
		FROM library.book_file f
		JOIN library.book b ON b.id = f.bookid
		WHERE f.id = $1 AND b.userid = $2
	`

	f := &BookFile{}
	err := repository.db.QueryRow(ctx, query, id, userID).Scan(
		&f.ID, &f.BookID, &f.FileType, &f.StoragePath, &f.OriginalFilename,
		&f.MimeType, &f.SizeBytes, &f.UploadedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_book_file")
	}
	return f, nil
}

// Create inserts through the parent book's ownership gate, same shape
// as the note and quote stores.
func (repository *PostgresRepository) Create(ctx context.Context, userID string, f *BookFile) error {
	query := `
		INSERT INTO library.book_file (
			id, bookid, filetype, storagepath, originalfilename,
			mimetype, sizebytes, uploadedat
		)
		SELECT $1, b.id, $3, $4, $5, $6, $7, NOW()
		FROM library.book b
		WHERE b.id = $2 AND b.userid = $8
		RETURNING uploadedat
	`
	err := repository.db.QueryRow(ctx, query,
		f.ID, f.BookID, f.FileType, f.StoragePath, f.OriginalFilename,
		f.MimeType, f.SizeBytes, userID,
	).Scan(&f.UploadedAt)
	if err != nil {
		return dberr.Wrap(err, "create_book_file")
	}
	return nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, userID, id string) (string, error) {
	query := `
		DELETE FROM library.book_file f
		USING library.book b
		WHERE f.id = $1 AND b.id = f.bookid AND b.userid = $2
		RETURNING f.storagepath
	`
	var storagePath string
	if err := repository.db.QueryRow(ctx, query, id, userID).Scan(&storagePath); err != nil {
		return "", dberr.Wrap(err, "delete_book_file")
	}
	return storagePath, nil
}

// SetCoverPath is a direct book mutation, so it refreshes updatedat.
// The old path is read under FOR UPDATE before the swap so the caller
// can clear the replaced blob.
func (repository *PostgresRepository) SetCoverPath(ctx context.Context, userID, bookID, coverPath string) (string, error) {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return "", dberr.Wrap(err, "begin_set_cover")
	}
	defer tx.Rollback(ctx)

	var previous *string
	selectQuery := `SELECT coverpath FROM library.book WHERE id = $1 AND userid = $2 FOR UPDATE`
	if err := tx.QueryRow(ctx, selectQuery, bookID, userID).Scan(&previous); err != nil {
		return "", dberr.Wrap(err, "get_cover_path")
	}

	updateQuery := `
		UPDATE library.book
		SET coverpath = $1, updatedat = NOW()
		WHERE id = $2 AND userid = $3
	`
	if _, err := tx.Exec(ctx, updateQuery, coverPath, bookID, userID); err != nil {
		return "", dberr.Wrap(err, "set_cover_path")
	}

	if err := tx.Commit(ctx); err != nil {
		return "", dberr.Wrap(err, "commit_set_cover")
	}

	if previous == nil {
		return "", nil
	}
	return *previous, nil
}
