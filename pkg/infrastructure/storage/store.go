package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
)

// FilesystemStore implements repository.ListingStore on a local directory
// tree: one subdirectory per address, flat under the destination root.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore creates a store rooted at root. The root itself is
// created lazily on the first commit.
func NewFilesystemStore(root string) *FilesystemStore {
	return &FilesystemStore{root: root}
}

// Root returns the destination root directory.
func (s *FilesystemStore) Root() string {
	return s.root
}

// Addresses returns the names of the immediate subdirectories of the root.
// A root that does not exist yet simply has no downloads.
func (s *FilesystemStore) Addresses() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading destination root %s: %w", s.root, err)
	}

	var addresses []string
	for _, entry := range entries {
		if entry.IsDir() {
			addresses = append(addresses, entry.Name())
		}
	}
	return addresses, nil
}

// Commit copies the staged entry document into a fresh directory for the
// address and returns the committed path. Parent directories, including the
// root, are created as needed; an address containing path separators nests
// accordingly. The address directory itself must not exist yet; a conflict
// fails with *entity.DestinationExistsError. A copy failure removes the
// half-created directory so no partial download is left under the root.
func (s *FilesystemStore) Commit(entryDocument, address string) (string, error) {
	dir := filepath.Join(s.root, address)
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return "", fmt.Errorf("creating parent directories of %s: %w", dir, err)
	}

	if err := os.Mkdir(dir, 0o755); err != nil {
		if os.IsExist(err) {
			return "", &entity.DestinationExistsError{Address: address, Path: dir, Err: err}
		}
		return "", fmt.Errorf("creating listing directory %s: %w", dir, err)
	}

	committed := filepath.Join(dir, filepath.Base(entryDocument))
	if err := copyFile(entryDocument, committed); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("committing entry document for %s: %w", address, err)
	}

	return committed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
