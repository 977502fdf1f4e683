package signer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestSecretKeyBackend_PublicKey(t *testing.T) {
	backend := NewSecretKey(fake.NewSigner())

	pk, err := backend.PublicKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, fake.NewPublicKey(0), pk)

	_, err = SecretKeyBackend{}.PublicKey(context.Background())
	require.True(t, xerrors.Is(err, ErrPublicKeyNotAvailable))
}

func TestSecretKeyBackend_Sign(t *testing.T) {
	calls := fake.NewCall()
	backend := NewSecretKey(fake.NewSignerWithKey(3, calls))

	tx := primitives.Transaction{PublicKey: primitives.NewPublicKey(fake.NewPublicKey(3))}
	da := primitives.DelegateAction{PublicKey: primitives.NewPublicKey(fake.NewPublicKey(3))}

	_, err := backend.SignTransaction(context.Background(), fake.NewPublicKey(3), tx)
	require.NoError(t, err)
	require.Equal(t, 1, calls.Len())
	require.Len(t, calls.Get(0, 0), 32)

	_, err = backend.SignDelegate(context.Background(), fake.NewPublicKey(3), da)
	require.NoError(t, err)
	require.Equal(t, 2, calls.Len())

	_, err = backend.SignTransaction(context.Background(), fake.NewPublicKey(4), tx)
	require.True(t, xerrors.Is(err, ErrSecretKeyNotAvailable))

	_, err = backend.SignDelegate(context.Background(), nil, da)
	require.True(t, xerrors.Is(err, ErrSecretKeyNotAvailable))

	_, err = SecretKeyBackend{}.SignTransaction(context.Background(), fake.NewPublicKey(3), tx)
	require.EqualError(t, err, "secret key is not available: missing secret key")

	bad := NewSecretKey(fake.NewBadSigner())
	_, err = bad.SignTransaction(context.Background(), fake.NewPublicKey(0), tx)
	require.EqualError(t, err, fake.Err("secret key is not available: couldn't sign"))
}
