package serde

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContext_GetFormat(t *testing.T) {
	ctx := NewContext(fakeEngine{})

	require.Equal(t, Format("fake"), ctx.GetFormat())

	data, err := ctx.Marshal(nil)
	require.NoError(t, err)
	require.Equal(t, []byte("fake"), data)
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeEngine struct {
	ContextEngine
}

func (fakeEngine) GetFormat() Format {
	return Format("fake")
}

func (fakeEngine) Marshal(interface{}) ([]byte, error) {
	return []byte("fake"), nil
}
