package signer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"go.dedis.ch/nearapi/crypto/loader"
	"go.dedis.ch/nearapi/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestKeystore_Search(t *testing.T) {
	keyring.MockInit()
	store := NewOSStore()

	stored := ed25519.NewSigner()
	missing := ed25519.NewSigner()
	restricted := ed25519.NewSigner()

	require.NoError(t, Save(store, "alice.testnet", "testnet", stored))
	require.NoError(t, Save(store, "alice.testnet", "testnet", restricted))

	corrupted := ed25519.NewSigner()
	require.NoError(t, store.Set("testnet:alice.testnet", "alice.testnet:"+corrupted.GetPublicKey().String(), "{"))

	list := types.AccessKeyList{Keys: []types.AccessKeyInfo{
		{PublicKey: types.NewPublicKey(missing.GetPublicKey())},
		{
			PublicKey: types.NewPublicKey(restricted.GetPublicKey()),
			AccessKey: types.AccessKeyView{Permission: types.AccessKeyPermission{
				FunctionCall: &types.FunctionCallPermission{ReceiverID: "app.testnet"},
			}},
		},
		{PublicKey: types.NewPublicKey(corrupted.GetPublicKey())},
		{PublicKey: types.NewPublicKey(stored.GetPublicKey())},
	}}

	transport := fake.NewTransport(nil).Reply(rpc.KindViewAccessKeyList, fake.Ok(rpc.KindViewAccessKeyList, list))
	net := network.Testnet().WithTransport(transport)

	backend, err := SearchKeystore(context.Background(), "alice.testnet", net, store)
	require.NoError(t, err)
	require.Len(t, backend.Keys(), 1)

	pk, err := backend.PublicKey(context.Background())
	require.NoError(t, err)
	require.True(t, stored.GetPublicKey().Equal(pk))

	s := New(backend)

	signed, err := s.Sign(context.Background(), makeTx(t), pk, 1, types.CryptoHash{})
	require.NoError(t, err)

	hash, err := signed.Transaction.Hash()
	require.NoError(t, err)

	sig, err := signed.Signature.ToCrypto()
	require.NoError(t, err)
	require.NoError(t, pk.Verify(hash[:], sig))

	_, err = s.SignDelegate(context.Background(), makeTx(t), pk, 1, 10)
	require.NoError(t, err)
}

func TestKeystore_SearchFailures(t *testing.T) {
	keyring.MockInit()
	store := NewOSStore()

	list := types.AccessKeyList{Keys: []types.AccessKeyInfo{
		{PublicKey: types.NewPublicKey(ed25519.NewSigner().GetPublicKey())},
	}}

	net := network.Testnet().WithTransport(fake.NewTransport(nil).
		Reply(rpc.KindViewAccessKeyList, fake.Ok(rpc.KindViewAccessKeyList, list)))

	_, err := SearchKeystore(context.Background(), "alice.testnet", net, store)
	require.True(t, xerrors.Is(err, ErrPublicKeyNotAvailable))

	net.WithTransport(fake.NewBadTransport())

	_, err = SearchKeystore(context.Background(), "alice.testnet", net, store)
	require.EqualError(t, err, fake.Err("couldn't list access keys: transport failed"))
}

func TestKeystore_SecretKeyNotAvailable(t *testing.T) {
	keyring.MockInit()
	store := NewOSStore()

	pk := ed25519.NewSigner().GetPublicKey()
	s := New(NewKeystoreWithPublicKey("alice.testnet", "testnet", pk, store))

	_, err := s.Sign(context.Background(), makeTx(t), pk, 1, types.CryptoHash{})
	require.True(t, xerrors.Is(err, ErrSecretKeyNotAvailable))
	require.Contains(t, err.Error(), "couldn't read keystore: ")

	_, err = s.SignDelegate(context.Background(), makeTx(t), pk, 1, 10)
	require.True(t, xerrors.Is(err, ErrSecretKeyNotAvailable))

	require.NoError(t, store.Set("testnet:alice.testnet", "alice.testnet:"+pk.String(), "{"))

	_, err = s.Sign(context.Background(), makeTx(t), pk, 1, types.CryptoHash{})
	require.True(t, xerrors.Is(err, ErrSecretKeyNotAvailable))
	require.Contains(t, err.Error(), "couldn't decode credentials: ")

	// A record of another key is rejected.
	data, err := loader.NewCredentials("alice.testnet", ed25519.NewSigner()).Marshal()
	require.NoError(t, err)
	require.NoError(t, store.Set("testnet:alice.testnet", "alice.testnet:"+pk.String(), string(data)))

	_, err = s.Sign(context.Background(), makeTx(t), pk, 1, types.CryptoHash{})
	require.True(t, xerrors.Is(err, ErrSecretKeyNotAvailable))
	require.Contains(t, err.Error(), "unknown public key")

	_, err = s.Sign(context.Background(), makeTx(t), nil, 1, types.CryptoHash{})
	require.Error(t, err)

	empty := &KeystoreBackend{}
	_, err = empty.PublicKey(context.Background())
	require.True(t, xerrors.Is(err, ErrPublicKeyNotAvailable))
}

func TestKeystore_ForeignKey(t *testing.T) {
	keyring.MockInit()
	store := NewOSStore()

	held := ed25519.NewSigner()
	other := ed25519.NewSigner()

	require.NoError(t, Save(store, "alice.testnet", "testnet", held))
	require.NoError(t, Save(store, "alice.testnet", "testnet", other))

	s := New(NewKeystoreWithPublicKey("alice.testnet", "testnet", held.GetPublicKey(), store))

	_, err := s.Sign(context.Background(), makeTx(t), other.GetPublicKey(), 1, types.CryptoHash{})
	require.True(t, xerrors.Is(err, ErrPublicKeyNotAvailable))
	require.Contains(t, err.Error(), "is not a key of alice.testnet")

	_, err = s.SignDelegate(context.Background(), makeTx(t), other.GetPublicKey(), 1, 10)
	require.True(t, xerrors.Is(err, ErrPublicKeyNotAvailable))

	_, err = s.Sign(context.Background(), makeTx(t), held.GetPublicKey(), 1, types.CryptoHash{})
	require.NoError(t, err)
}

func TestKeystore_Save(t *testing.T) {
	keyring.MockInitWithError(fake.GetError())

	err := Save(NewOSStore(), "alice.testnet", "testnet", ed25519.NewSigner())
	require.EqualError(t, err, fake.Err("couldn't store credentials"))
}
