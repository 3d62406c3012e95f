package storage

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Storage persists uploaded files and yields a URL path for each stored key.
type Storage interface {
	Save(key string, r io.Reader) (url string, err error)
	Remove(key string) error
}

// FileStorage writes files through an afero filesystem so the backing store
// can be the OS filesystem in production and an in-memory one in tests.
type FileStorage struct {
	fs      afero.Fs
	root    string
	baseURL string
}

func NewFileStorage(fs afero.Fs, root, baseURL string) *FileStorage {
	return &FileStorage{
		fs:      fs,
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewOsStorage returns storage rooted at dir on the local filesystem.
func NewOsStorage(dir, baseURL string) *FileStorage {
	return NewFileStorage(afero.NewOsFs(), dir, baseURL)
}

func (s *FileStorage) Save(key string, r io.Reader) (string, error) {
	full := path.Join(s.root, key)

	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	f, err := s.fs.Create(full)
	if err != nil {
		return "", fmt.Errorf("create storage file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = s.fs.Remove(full)
		return "", fmt.Errorf("write storage file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close storage file: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *FileStorage) Remove(key string) error {
	return s.fs.Remove(path.Join(s.root, key))
}
