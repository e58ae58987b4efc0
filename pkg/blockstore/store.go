// Package blockstore defines where evicted units live while they are not
// resident.
//
// A paged image persists each dirty unit under its own key when the unit is
// evicted and reads it back when the unit is needed again. Any medium that can
// store and return opaque byte blobs by key will do; this package provides the
// contract and the backends live in sub-packages:
//
//   - memory: a map in the Go heap (the default, useful for tests and for
//     images that are large in element count but compress well)
//   - fs: one file per unit under a directory
//   - mmap: all units in one memory-mapped scratch file
//   - badger: an embedded BadgerDB key-value store
//   - s3: objects in an S3 bucket
//   - compress: a zstd decorator over any of the above
//
// Key format: "{imagePrefix}/unit-{n}". Example: "5b0c.../unit-12".
package blockstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Common errors returned by Store implementations.
var (
	// ErrUnitNotFound is returned when a key has never been written. The unit
	// store treats it as "materialize a fresh default-filled unit".
	ErrUnitNotFound = errors.New("unit not found")

	// ErrStoreClosed is returned when operations are attempted on a closed store.
	ErrStoreClosed = errors.New("store is closed")
)

// Store is a key-value medium for encoded units.
//
// Implementations must be safe for concurrent use: parallel read scans open
// several unit stores over one Store.
type Store interface {
	// WriteUnit stores data under key, replacing any previous value.
	// Implementations must not retain data after returning.
	WriteUnit(ctx context.Context, key string, data []byte) error

	// ReadUnit returns the data stored under key, or ErrUnitNotFound.
	// The caller owns the returned slice.
	ReadUnit(ctx context.Context, key string) ([]byte, error)

	// DeleteUnit removes key. Deleting a missing key is not an error.
	DeleteUnit(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// ListByPrefix returns the keys starting with prefix in sorted order.
	ListByPrefix(ctx context.Context, prefix string) ([]string, error)

	// Close releases the medium.
	Close() error

	// HealthCheck verifies the medium is usable.
	HealthCheck(ctx context.Context) error
}

// UnitKey returns the key of unit n of the image identified by prefix.
func UnitKey(prefix string, n int64) string {
	return prefix + "/unit-" + strconv.FormatInt(n, 10)
}

// ImagePrefix returns the prefix shared by all unit keys of an image,
// including the trailing separator.
func ImagePrefix(prefix string) string {
	return prefix + "/"
}

// ParseUnitKey splits a key built by UnitKey.
func ParseUnitKey(key string) (prefix string, n int64, err error) {
	i := strings.LastIndex(key, "/unit-")
	if i < 0 {
		return "", 0, fmt.Errorf("malformed unit key %q", key)
	}
	n, err = strconv.ParseInt(key[i+len("/unit-"):], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed unit key %q: %w", key, err)
	}
	return key[:i], n, nil
}
