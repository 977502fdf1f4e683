package signer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"go.dedis.ch/nearapi/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestSigner_Sign(t *testing.T) {
	secret := ed25519.NewSigner()
	s := New(NewSecretKey(secret))

	pk, err := s.PublicKey(context.Background())
	require.NoError(t, err)
	require.True(t, secret.GetPublicKey().Equal(pk))

	signed, err := s.Sign(context.Background(), makeTx(t), pk, 42, types.CryptoHash{2})
	require.NoError(t, err)
	require.Equal(t, uint64(42), signed.Transaction.Nonce)
	require.Equal(t, "alice.near", signed.Transaction.SignerID)

	hash, err := signed.Transaction.Hash()
	require.NoError(t, err)

	sig, err := signed.Signature.ToCrypto()
	require.NoError(t, err)
	require.NoError(t, pk.Verify(hash[:], sig))

	_, err = s.Sign(context.Background(), txn.PrepopulatedTransaction{}, pk, 1, types.CryptoHash{})
	require.True(t, xerrors.Is(err, txn.ErrEmptyActions))

	_, err = s.Sign(context.Background(), makeTx(t), ed25519.NewSigner().GetPublicKey(), 1, types.CryptoHash{})
	require.True(t, xerrors.Is(err, ErrSecretKeyNotAvailable))
}

func TestSigner_SignDelegate(t *testing.T) {
	secret := ed25519.NewSigner()
	s := New(NewSecretKey(secret))

	signed, err := s.SignDelegate(context.Background(), makeTx(t), secret.GetPublicKey(), 7, 1007)
	require.NoError(t, err)
	require.Equal(t, uint64(7), signed.DelegateAction.Nonce)
	require.Equal(t, uint64(1007), signed.DelegateAction.MaxBlockHeight)

	payload, err := signed.DelegateAction.SigningPayload()
	require.NoError(t, err)

	sig, err := signed.Signature.ToCrypto()
	require.NoError(t, err)
	require.NoError(t, secret.GetPublicKey().Verify(payload[:], sig))

	tr := makeTx(t)
	tr.Actions = append(tr.Actions, action.Delegate{})

	_, err = s.SignDelegate(context.Background(), tr, secret.GetPublicKey(), 7, 1007)
	require.True(t, xerrors.Is(err, action.ErrDelegateActionNotSupported))
	require.Len(t, tr.Actions, 2)
}

func TestSigner_FetchTxNonce(t *testing.T) {
	reply := fake.NewResponse(rpc.KindViewAccessKey, types.AccessKeyView{Nonce: 41})
	reply.BlockHeight = 100
	reply.BlockHash = types.CryptoHash{9}

	transport := fake.NewTransport(nil).Reply(rpc.KindViewAccessKey, fake.Reply{Response: reply})
	net := network.Testnet().WithTransport(transport)

	s := New(NewSecretKey(ed25519.NewSigner()))

	nonce, err := s.FetchTxNonce(context.Background(), "alice.near", fake.NewPublicKey(1), net)
	require.NoError(t, err)
	require.Equal(t, Nonce{Nonce: 41, BlockHash: types.CryptoHash{9}, BlockHeight: 100}, nonce)

	req := transport.Requests()[0]
	require.Equal(t, "final", req.Params["finality"])
	require.Equal(t, "alice.near", req.Params["account_id"])

	net.WithTransport(fake.NewBadTransport())

	_, err = s.FetchTxNonce(context.Background(), "alice.near", fake.NewPublicKey(1), net)
	require.True(t, xerrors.Is(err, ErrFetchNonce))
	require.EqualError(t, err, fake.Err("couldn't fetch nonce: transport failed"))
}

func TestError_Is(t *testing.T) {
	err := newError(ErrDevice, fake.GetError())
	require.True(t, xerrors.Is(err, ErrDevice))
	require.False(t, xerrors.Is(err, ErrIO))
	require.True(t, xerrors.Is(err, fake.GetError()))
	require.EqualError(t, err, fake.Err("device is not available"))
}

// -----------------------------------------------------------------------------
// Utility functions

func makeTx(t *testing.T) txn.PrepopulatedTransaction {
	tr, err := txn.Construct("alice.near", "bob.near").
		AddAction(action.Transfer{Deposit: types.NearFromNear(1)}).
		Build()
	require.NoError(t, err)

	return tr
}
