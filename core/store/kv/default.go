package kv

import (
	"bytes"
	"os"
	"time"

	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

// DefaultTimeout is the time to wait for the lock of a file held by another
// process.
const DefaultTimeout = time.Second

// Option is the type of options to open a file database.
type Option func(*fileOptions)

type fileOptions struct {
	mode os.FileMode
	bolt bbolt.Options
}

// WithTimeout sets the time to wait for the lock of the file. Zero waits
// forever.
func WithTimeout(d time.Duration) Option {
	return func(o *fileOptions) {
		o.bolt.Timeout = d
	}
}

// WithReadOnly opens the file with a shared lock and fails every update.
func WithReadOnly() Option {
	return func(o *fileOptions) {
		o.bolt.ReadOnly = true
	}
}

// WithFileMode sets the permissions of a new file.
func WithFileMode(mode os.FileMode) Option {
	return func(o *fileOptions) {
		o.mode = mode
	}
}

// fileDB is a database stored in a single file.
//
// - implements kv.DB
type fileDB struct {
	bolt *bbolt.DB
}

// New opens the database file at the path, or creates it.
func New(path string, opts ...Option) (DB, error) {
	options := fileOptions{
		mode: 0600,
		bolt: bbolt.Options{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(&options)
	}

	db, err := bbolt.Open(path, options.mode, &options.bolt)
	if err != nil {
		return nil, xerrors.Errorf("failed to open db: %v", err)
	}

	return fileDB{bolt: db}, nil
}

// View implements kv.DB.
func (db fileDB) View(name []byte, fn func(Bucket) error) error {
	return db.bolt.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return xerrors.Errorf("bucket '%x': %w", name, ErrBucketNotFound)
		}

		return fn(fileBucket{b})
	})
}

// Update implements kv.DB.
func (db fileDB) Update(name []byte, fn func(Bucket) error) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(name)
		if err != nil {
			return xerrors.Errorf("failed to create bucket: %v", err)
		}

		return fn(fileBucket{b})
	})
}

// Drop implements kv.DB.
func (db fileDB) Drop(name []byte) error {
	if len(name) == 0 {
		return xerrors.New("bucket name required")
	}

	return db.bolt.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket(name)
		if err != nil && err != bbolt.ErrBucketNotFound {
			return xerrors.Errorf("failed to delete bucket: %v", err)
		}

		return nil
	})
}

// Path implements kv.DB.
func (db fileDB) Path() string {
	return db.bolt.Path()
}

// Close implements kv.DB.
func (db fileDB) Close() error {
	return db.bolt.Close()
}

// fileBucket is a bucket of a file database.
//
// - implements kv.Bucket
type fileBucket struct {
	*bbolt.Bucket
}

// Set implements kv.Bucket.
func (b fileBucket) Set(key, value []byte) error {
	return b.Put(key, value)
}

// ForEach implements kv.Bucket.
func (b fileBucket) ForEach(fn func(k, v []byte) error) error {
	return b.Scan(nil, fn)
}

// Scan implements kv.Bucket.
func (b fileBucket) Scan(prefix []byte, fn func(k, v []byte) error) error {
	cursor := b.Cursor()

	k, v := cursor.First()
	if len(prefix) > 0 {
		k, v = cursor.Seek(prefix)
	}

	for ; k != nil && bytes.HasPrefix(k, prefix); k, v = cursor.Next() {
		err := fn(k, v)
		if err != nil {
			return xerrors.Errorf("callback failed: %v", err)
		}
	}

	return nil
}
