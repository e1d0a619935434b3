package storage

import (
	"context"
)

// Storage is the ledger store. Reads go through Reader; every mutation runs
// inside a Writer that must be committed or rolled back.
type Storage interface {
	Reader() *Reader
	Write(ctx context.Context) (*Writer, error)
	Ping(ctx context.Context) error
	Close() error
}
