package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSha256Factory_New(t *testing.T) {
	factory := NewSha256Factory()

	h := factory.New()
	require.NotNil(t, h)
	require.Equal(t, 32, h.Size())
}

func TestSum(t *testing.T) {
	digest := Sum(NewSha256Factory(), []byte("abc"))

	require.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		hex.EncodeToString(digest))
}

func TestKeyType_String(t *testing.T) {
	require.Equal(t, "ed25519", ED25519.String())
	require.Equal(t, "secp256k1", SECP256K1.String())
	require.Equal(t, "unknown(5)", KeyType(5).String())
}
