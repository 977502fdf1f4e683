package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"golang.org/x/xerrors"
)

func TestAccountID_Validate(t *testing.T) {
	valid := []string{
		"ok",
		"bowen",
		"ek-2",
		"ek.7",
		"com",
		"google.com",
		"frank.near",
		"e-mail.near",
		"str-ing.near",
		"a_b.test",
		"0o0ooo00oo00o",
		"0123456789012345678901234567890123456789012345678901234567890123",
	}

	for _, name := range valid {
		_, err := ParseAccountID(name)
		require.NoError(t, err, name)
	}

	invalid := []string{
		"a",
		"A",
		"Abc",
		"-near",
		"near-",
		"jake..near",
		"_near",
		"near_",
		"a@b",
		".near",
		"near.",
		"01234567890123456789012345678901234567890123456789012345678901234",
	}

	for _, name := range invalid {
		_, err := ParseAccountID(name)
		require.Error(t, err, name)
		require.True(t, xerrors.Is(err, ErrInvalidAccountID))
	}

	err := AccountID("a").Validate()
	require.EqualError(t, err, "'a' has length 1: invalid account id")

	err = AccountID("a@b").Validate()
	require.EqualError(t, err, "'a@b' has invalid characters: invalid account id")
}

func TestAccountID_MustParse(t *testing.T) {
	require.Equal(t, AccountID("alice.near"), MustParseAccountID("alice.near"))
	require.Panics(t, func() { MustParseAccountID("A") })
}

func TestCryptoHash_Text(t *testing.T) {
	var hash CryptoHash
	require.True(t, hash.IsZero())
	require.Equal(t, "11111111111111111111111111111111", hash.String())

	hash[0] = 1

	parsed, err := ParseCryptoHash(hash.String())
	require.NoError(t, err)
	require.Equal(t, hash, parsed)
	require.False(t, parsed.IsZero())

	data, err := json.Marshal(hash)
	require.NoError(t, err)

	var decoded CryptoHash
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, hash, decoded)

	_, err = ParseCryptoHash("11")
	require.EqualError(t, err, "invalid hash length: 2")

	_, err = ParseCryptoHash("0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid hash '0': ")
}

func TestPublicKey_JSON(t *testing.T) {
	pk := NewPublicKey(ed25519.NewSigner().GetPublicKey())

	data, err := json.Marshal(pk)
	require.NoError(t, err)
	require.Equal(t, `"`+pk.String()+`"`, string(data))

	var decoded PublicKey
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, decoded.Equal(pk.PublicKey))

	data, err = json.Marshal(PublicKey{})
	require.NoError(t, err)
	require.Equal(t, "null", string(data))

	err = json.Unmarshal([]byte("1"), &decoded)
	require.Error(t, err)
	require.Contains(t, err.Error(), "public key is not a string: ")

	err = json.Unmarshal([]byte(`"rsa:abc"`), &decoded)
	require.EqualError(t, err, "couldn't parse public key: invalid public key: unknown curve 'rsa'")
}
