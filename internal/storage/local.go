package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalStore writes objects under a directory served by the web server.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if dir == "" {
		dir = "./uploads"
	}
	if baseURL == "" {
		baseURL = "/resumes"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "unable to create storage dir %s", dir)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, name string, body io.Reader, contentType string) (string, error) {
	// rooting the name keeps it inside dir
	clean := filepath.Clean("/" + name)
	full := filepath.Join(s.dir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", errors.Wrap(err, "unable to create object dir")
	}
	f, err := os.Create(full)
	if err != nil {
		return "", errors.Wrap(err, "unable to create object")
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		return "", errors.Wrap(err, "unable to write object")
	}
	return objectURL(s.baseURL, filepath.ToSlash(clean)), nil
}
