package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidKey       = errors.New("invalid storage key")
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrInvalidSignature = errors.New("invalid or expired signature")
	ErrFileNotFound     = errors.New("file not found")
)

// Storage is the document store behind the startup-documents bucket.
type Storage interface {
	// Save writes reader under key and returns the number of bytes written.
	Save(ctx context.Context, key string, reader io.Reader) (int64, error)

	// Open returns the file stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether key is stored and its size.
	Exists(ctx context.Context, key string) (bool, int64, error)

	Delete(ctx context.Context, key string) error

	// SignedURL returns a download URL for key valid for expiresIn.
	SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)

	// Verify checks a signature produced by SignedURL against key and expiry.
	Verify(key string, expires int64, signature string) error
}
