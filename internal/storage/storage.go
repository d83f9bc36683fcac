package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage stores uploaded documents such as resumes and cover letters.
type Storage interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get opens a stored file
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns the public URL for the file
	GetURL(ctx context.Context, path string) (string, error)
}

type Config struct {
	Type     string // only "local" is supported
	BasePath string
	BaseURL  string
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
