package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReflectInjector_Resolve(t *testing.T) {
	inj := NewInjector()

	inj.Inject("abc")
	inj.Inject(greeter{})

	var dep string
	err := inj.Resolve(&dep)
	require.NoError(t, err)
	require.Equal(t, "abc", dep)

	var s fmt.Stringer
	err = inj.Resolve(&s)
	require.EqualError(t, err, "couldn't find dependency for 'fmt.Stringer'")

	var g interface{ Greet(string) string }
	err = inj.Resolve(&g)
	require.NoError(t, err)
	require.Equal(t, "hello bob", g.Greet("bob"))

	var dep2 uint64
	err = inj.Resolve(&dep2)
	require.EqualError(t, err, "couldn't find dependency for 'uint64'")

	err = inj.Resolve((*interface{})(nil))
	require.EqualError(t, err, "reflect value '<nil>' is invalid")

	err = inj.Resolve(dep2)
	require.EqualError(t, err, "expect a pointer")
}

func TestReflectInjector_Inject(t *testing.T) {
	inj := NewInjector()

	inj.Inject("abc")
	inj.Inject("def")
	inj.Inject(nil)

	require.Len(t, inj.(*reflectInjector).deps, 1)

	var dep string
	require.NoError(t, inj.Resolve(&dep))
	require.Equal(t, "def", dep)
}
