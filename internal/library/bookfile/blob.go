package bookfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mindfolio/mindfolio-server/pkg/uuidv7"
)

// LocalStore keeps blobs on the local filesystem under a media root.
// All paths exchanged with callers are relative to that root; the store
// rejects anything that would escape it.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (store *LocalStore) abs(relPath string) (string, error) {
	cleaned := filepath.Clean(relPath)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("blob: path %q escapes media root", relPath)
	}
	return filepath.Join(store.root, cleaned), nil
}

// Save streams the blob into dir under a fresh UUID-based name, keeping
// only the original extension. Returns the relative path and byte size.
func (store *LocalStore) Save(dir, originalFilename string, content io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalFilename)))
	relPath := filepath.Join(dir, uuidv7.New()+ext)

	absPath, err := store.abs(relPath)
	if err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("blob: create dir: %w", err)
	}

	file, err := os.Create(absPath)
	if err != nil {
		return "", 0, fmt.Errorf("blob: create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, content)
	if err != nil {
		os.Remove(absPath)
		return "", 0, fmt.Errorf("blob: write: %w", err)
	}

	return relPath, size, nil
}

// Open returns the blob for reading. The caller closes it.
func (store *LocalStore) Open(relPath string) (*os.File, error) {
	absPath, err := store.abs(relPath)
	if err != nil {
		return nil, err
	}
	return os.Open(absPath)
}

// Remove deletes the blob. A blob that is already gone is not an error.
func (store *LocalStore) Remove(relPath string) error {
	absPath, err := store.abs(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blob: remove: %w", err)
	}
	return nil
}
