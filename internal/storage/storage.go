// Package storage keeps uploaded resumes on local disk or in an S3
// compatible bucket and hands back the URL they are served from.
package storage

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	KindLocal = "local"
	KindS3    = "s3"
)

type Config struct {
	Kind     string
	Dir      string
	BaseURL  string
	Bucket   string
	Region   string
	Endpoint string
}

// Store saves a named object and returns its public URL.
type Store interface {
	Save(ctx context.Context, name string, body io.Reader, contentType string) (string, error)
}

// New builds the store selected by cfg.Kind.
func New(cfg Config) (Store, error) {
	switch cfg.Kind {
	case KindLocal, "":
		return NewLocalStore(cfg.Dir, cfg.BaseURL)
	case KindS3:
		return NewS3Store(cfg)
	default:
		return nil, errors.Errorf("unknown resume storage %q", cfg.Kind)
	}
}

func objectURL(baseURL, name string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(name, "/")
}
