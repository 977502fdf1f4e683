package signer

import (
	"context"
	"fmt"

	"github.com/zalando/go-keyring"
	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/query"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/crypto/loader"
	"golang.org/x/xerrors"
)

// Store is a credential store where a secret is identified by a service and a
// key.
type Store interface {
	Get(service, key string) (string, error)
	Set(service, key, secret string) error
	Delete(service, key string) error
}

// osStore is the credential store of the operating system.
//
// - implements signer.Store
type osStore struct{}

// NewOSStore returns the keychain of the operating system.
func NewOSStore() Store {
	return osStore{}
}

// Get implements signer.Store.
func (osStore) Get(service, key string) (string, error) {
	return keyring.Get(service, key)
}

// Set implements signer.Store.
func (osStore) Set(service, key, secret string) error {
	return keyring.Set(service, key, secret)
}

// Delete implements signer.Store.
func (osStore) Delete(service, key string) error {
	return keyring.Delete(service, key)
}

// KeystoreBackend signs with the secret keys of an account stored in a
// credential store. A secret key is read from the store for each signature.
//
// - implements signer.Backend
type KeystoreBackend struct {
	account types.AccountID
	network string
	keys    []crypto.PublicKey
	store   Store
}

// SearchKeystore returns the backend of the full access keys of the account
// that have their secret key in the store.
func SearchKeystore(ctx context.Context, account types.AccountID, net *network.Config,
	store Store) (*KeystoreBackend, error) {

	builder := query.NewBuilder(
		query.ViewAccessKeyList{AccountID: account},
		types.Optimistic(),
		query.AccessKeyListHandler(),
	)

	list, err := builder.Fetch(ctx, net)
	if err != nil {
		return nil, xerrors.Errorf("couldn't list access keys: %w", err)
	}

	backend := &KeystoreBackend{
		account: account,
		network: net.Name,
		store:   store,
	}

	for _, info := range list.Keys {
		if !info.AccessKey.Permission.IsFullAccess() || info.PublicKey.PublicKey == nil {
			continue
		}

		record, err := store.Get(backend.service(), backend.key(info.PublicKey.PublicKey))
		if err != nil {
			continue
		}

		_, err = decodeRecord(record)
		if err != nil {
			nearapi.Logger.Warn().Err(err).Str("key", info.PublicKey.String()).
				Msg("ignoring corrupted keystore record")
			continue
		}

		backend.keys = append(backend.keys, info.PublicKey.PublicKey)
	}

	if len(backend.keys) == 0 {
		return nil, newError(ErrPublicKeyNotAvailable,
			xerrors.Errorf("no full access key of %s in the keystore", account))
	}

	return backend, nil
}

// NewKeystoreWithPublicKey returns the backend of the key of the account
// without looking for the other keys.
func NewKeystoreWithPublicKey(account types.AccountID, networkName string, pk crypto.PublicKey,
	store Store) *KeystoreBackend {

	return &KeystoreBackend{
		account: account,
		network: networkName,
		keys:    []crypto.PublicKey{pk},
		store:   store,
	}
}

// Save stores the credentials of the signer for the account on the network.
func Save(store Store, account types.AccountID, networkName string, signer crypto.Signer) error {
	creds := loader.Credentials{
		AccountID:  account.String(),
		PublicKey:  signer.GetPublicKey().String(),
		PrivateKey: signer.String(),
	}

	data, err := creds.Marshal()
	if err != nil {
		return err
	}

	backend := NewKeystoreWithPublicKey(account, networkName, signer.GetPublicKey(), store)

	err = store.Set(backend.service(), backend.key(signer.GetPublicKey()), string(data))
	if err != nil {
		return xerrors.Errorf("couldn't store credentials: %v", err)
	}

	return nil
}

func (*KeystoreBackend) backend() {}

// Keys returns the public keys of the backend.
func (b *KeystoreBackend) Keys() []crypto.PublicKey {
	return append([]crypto.PublicKey{}, b.keys...)
}

// PublicKey implements signer.Backend. It returns the first key found in the
// store.
func (b *KeystoreBackend) PublicKey(context.Context) (crypto.PublicKey, error) {
	if len(b.keys) == 0 || b.keys[0] == nil {
		return nil, newError(ErrPublicKeyNotAvailable, xerrors.New("keystore is empty"))
	}

	return b.keys[0], nil
}

// SignTransaction implements signer.Backend.
func (b *KeystoreBackend) SignTransaction(ctx context.Context, pk crypto.PublicKey,
	tx primitives.Transaction) (crypto.Signature, error) {

	secret, err := b.load(pk)
	if err != nil {
		return nil, err
	}

	return NewSecretKey(secret).SignTransaction(ctx, pk, tx)
}

// SignDelegate implements signer.Backend.
func (b *KeystoreBackend) SignDelegate(ctx context.Context, pk crypto.PublicKey,
	da primitives.DelegateAction) (crypto.Signature, error) {

	secret, err := b.load(pk)
	if err != nil {
		return nil, err
	}

	return NewSecretKey(secret).SignDelegate(ctx, pk, da)
}

func (b *KeystoreBackend) load(pk crypto.PublicKey) (crypto.Signer, error) {
	if pk == nil {
		return nil, newError(ErrSecretKeyNotAvailable, xerrors.New("missing public key"))
	}

	if !b.holds(pk) {
		return nil, newError(ErrPublicKeyNotAvailable,
			xerrors.Errorf("key %v is not a key of %s", pk, b.account))
	}

	record, err := b.store.Get(b.service(), b.key(pk))
	if err != nil {
		return nil, newError(ErrSecretKeyNotAvailable,
			xerrors.Errorf("couldn't read keystore: %v", err))
	}

	secret, err := decodeRecord(record)
	if err != nil {
		return nil, newError(ErrSecretKeyNotAvailable, err)
	}

	return secret, nil
}

func decodeRecord(record string) (crypto.Signer, error) {
	creds, err := loader.ParseCredentials([]byte(record))
	if err != nil {
		return nil, err
	}

	return creds.Signer()
}

func (b *KeystoreBackend) holds(pk crypto.PublicKey) bool {
	for _, key := range b.keys {
		if key != nil && key.Equal(pk) {
			return true
		}
	}

	return false
}

func (b *KeystoreBackend) service() string {
	return fmt.Sprintf("%s:%s", b.network, b.account)
}

func (b *KeystoreBackend) key(pk crypto.PublicKey) string {
	return fmt.Sprintf("%s:%s", b.account, pk)
}
