package relay

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ObjectRef is a revocable local reference to a stored blob.
type ObjectRef struct {
	ID   string
	Path string
	Href string
}

// Store keeps downloaded blobs on disk, one directory per reference.
type Store struct {
	dir string
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("object store directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Put writes data under a fresh reference using filename as the suggested name.
func (s *Store) Put(filename string, data []byte) (ObjectRef, error) {
	id := uuid.NewString()
	refDir := filepath.Join(s.dir, id)
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		return ObjectRef{}, fmt.Errorf("create object %s: %w", id, err)
	}

	path := filepath.Join(refDir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		os.RemoveAll(refDir)
		return ObjectRef{}, fmt.Errorf("write object %s: %w", id, err)
	}

	return ObjectRef{ID: id, Path: path, Href: fileHref(path)}, nil
}

// Revoke deletes the object behind ref. Revoking an unknown or already
// revoked reference is not an error.
func (s *Store) Revoke(ref ObjectRef) error {
	if ref.ID == "" {
		return nil
	}
	if _, err := uuid.Parse(ref.ID); err != nil {
		return fmt.Errorf("invalid object id %q", ref.ID)
	}
	return os.RemoveAll(filepath.Join(s.dir, ref.ID))
}

// Save copies the object behind href to dst.
func (s *Store) Save(href, dst string) error {
	src, err := pathFromHref(href)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open object: %w", err)
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

func fileHref(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

func pathFromHref(href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported href scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}
