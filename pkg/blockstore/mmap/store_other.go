//go:build !unix

package mmap

import (
	"errors"

	"largeimage/pkg/blockstore"
)

const DefaultInitialSize = 64 * 1024 * 1024

// Config holds configuration for the mmap store.
type Config struct {
	Path          string
	InitialSize   int64
	RemoveOnClose bool
}

// New reports that memory-mapped units need a Unix platform.
func New(cfg Config) (blockstore.Store, error) {
	return nil, errors.New("mmap: memory-mapped unit storage requires a unix platform")
}
