// Package kv defines the key/value storage of the responses pinned to a block
// and the default file implementation using bbolt
// (https://github.com/etcd-io/bbolt).
//
// Keys are organized in buckets. A bucket is created by the first update and a
// read of a bucket that does not exist returns ErrBucketNotFound.
package kv

import "golang.org/x/xerrors"

// ErrBucketNotFound is returned by a view on a bucket that has never been
// written.
var ErrBucketNotFound = xerrors.New("bucket not found")

// Bucket is the set of keys of a bucket, available for the duration of a
// transaction.
type Bucket interface {
	// Get returns the value of the key, or nil if the key does not exist. The
	// value is only valid during the transaction.
	Get(key []byte) []byte

	// Set assigns the value to the key.
	Set(key, value []byte) error

	// Delete removes the key from the bucket.
	Delete(key []byte) error

	// ForEach iterates over the items of the bucket in the order of the keys.
	// The iteration stops at the first error of the callback.
	ForEach(fn func(k, v []byte) error) error

	// Scan iterates over the keys starting with the prefix in the order of
	// the keys. The iteration stops at the first error of the callback.
	Scan(prefix []byte, fn func(k, v []byte) error) error
}

// DB is a key/value database.
type DB interface {
	// View runs the function in a read-only transaction on the bucket.
	View(bucket []byte, fn func(Bucket) error) error

	// Update runs the function in a writable transaction on the bucket, that
	// is created if necessary. The changes are discarded if the function
	// fails.
	Update(bucket []byte, fn func(Bucket) error) error

	// Drop deletes the bucket and its keys. It does nothing if the bucket does
	// not exist.
	Drop(bucket []byte) error

	// Path returns the location of the database.
	Path() string

	// Close releases the database. Any later transaction fails.
	Close() error
}
