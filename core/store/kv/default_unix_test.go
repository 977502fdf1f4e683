//go:build linux || darwin

package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileDB_New(t *testing.T) {
	db, err := New("", WithTimeout(time.Second))
	require.Nil(t, db)
	require.EqualError(t, err, "failed to open db: open : no such file or directory")
}
