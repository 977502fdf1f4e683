package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFlagSet_String(t *testing.T) {
	fset := FlagSet{"a": "something", "b": 20}

	require.Equal(t, "something", fset.String("a"))
	require.Equal(t, "", fset.String("b"))
	require.Equal(t, "", fset.String("c"))
}

func TestFlagSet_StringSlice(t *testing.T) {
	fset := FlagSet{"a": []string{"1", "2"}, "b": 123}

	require.Equal(t, []string{"1", "2"}, fset.StringSlice("a"))
	require.Nil(t, fset.StringSlice("b"))
}

func TestFlagSet_Duration(t *testing.T) {
	fset := FlagSet{"a": time.Second, "b": 1000}

	require.Equal(t, time.Second, fset.Duration("a"))
	require.Equal(t, time.Duration(0), fset.Duration("b"))
}

func TestFlagSet_Path(t *testing.T) {
	fset := FlagSet{"a": "/one/path", "b": 123}

	require.Equal(t, "/one/path", fset.Path("a"))
	require.Equal(t, "", fset.Path("b"))
}

func TestFlagSet_Int(t *testing.T) {
	fset := FlagSet{"a": 20, "b": "oops"}

	require.Equal(t, 20, fset.Int("a"))
	require.Equal(t, 0, fset.Int("b"))
}

func TestFlagSet_Bool(t *testing.T) {
	fset := FlagSet{"a": true, "b": "oops", "c": false}

	require.True(t, fset.Bool("a"))
	require.False(t, fset.Bool("b"))
	require.False(t, fset.Bool("c"))
}
