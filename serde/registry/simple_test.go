package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/serde"
)

func TestSimpleRegistry_Register(t *testing.T) {
	registry := NewSimpleRegistry()
	require.Empty(t, registry.Formats())

	registry.Register(serde.FormatJSON, fakeFormat{})
	registry.Register(serde.FormatJSON, fakeFormat{})
	require.Equal(t, []serde.Format{serde.FormatJSON}, registry.Formats())

	registry.Register(serde.Format("BORSH"), fakeFormat{})
	require.Equal(t, []serde.Format{"BORSH", serde.FormatJSON}, registry.Formats())
}

func TestSimpleRegistry_Get(t *testing.T) {
	registry := NewSimpleRegistry()

	registry.Register(serde.FormatJSON, fakeFormat{})

	format := registry.Get(serde.FormatJSON)
	require.Equal(t, fakeFormat{}, format)

	format = registry.Get(serde.Format("unknown"))
	require.NotNil(t, format)

	_, err := format.Encode(serde.NewContext(nil), nil)
	require.EqualError(t, err, "format 'unknown' is not implemented (available: [JSON])")

	_, err = NewSimpleRegistry().Get(serde.FormatJSON).Decode(serde.NewContext(nil), nil)
	require.EqualError(t, err, "format 'JSON' is not implemented (available: [])")
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeFormat struct {
	serde.FormatEngine
}
