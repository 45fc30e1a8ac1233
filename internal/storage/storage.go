// Package storage exports the records of a finished run.
package storage

import (
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Storage is the interface for all export backends.
type Storage interface {
	// Store writes a batch of records.
	Store(records []*types.ArticleRecord) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string

	// Path returns the output file.
	Path() string
}

// Export stores records and closes s.
func Export(s Storage, records []*types.ArticleRecord) error {
	if err := s.Store(records); err != nil {
		s.Close()
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	if err := s.Close(); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	return nil
}
