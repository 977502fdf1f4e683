package signer

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	ledger "github.com/zondax/ledger-go"
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"go.dedis.ch/nearapi/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestParseHDPath(t *testing.T) {
	path, err := ParseHDPath(DefaultHDPath)
	require.NoError(t, err)
	require.Equal(t, []uint32{hardened | 44, hardened | 397, hardened, hardened, hardened | 1}, path)

	path, err = ParseHDPath("m/44'/397'/0")
	require.NoError(t, err)
	require.Equal(t, []uint32{hardened | 44, hardened | 397, 0}, path)

	_, err = ParseHDPath("")
	require.EqualError(t, err, "empty path")

	_, err = ParseHDPath("44'/abc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid index 'abc': ")

	_, err = NewLedger("44'/-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid path: ")
}

func TestLedger_Sign(t *testing.T) {
	app := newFakeApp()
	device := fake.NewDevice(app.handle)

	backend, err := NewLedger(DefaultHDPath, WithOpener(func() (Device, error) {
		return device, nil
	}))
	require.NoError(t, err)

	s := New(backend)

	pk, err := s.PublicKey(context.Background())
	require.NoError(t, err)
	require.True(t, app.secret.GetPublicKey().Equal(pk))

	// The key is read once.
	_, err = s.PublicKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, device.Calls.Len())

	tr := makeTx(t)
	tr.Actions = append(tr.Actions, makeLargeCall())

	signed, err := s.Sign(context.Background(), tr, pk, 3, types.CryptoHash{1})
	require.NoError(t, err)
	require.Greater(t, device.Calls.Len(), 3)

	hash, err := signed.Transaction.Hash()
	require.NoError(t, err)

	sig, err := signed.Signature.ToCrypto()
	require.NoError(t, err)
	require.NoError(t, pk.Verify(hash[:], sig))

	first := device.Calls.Get(1, 0).([]byte)
	require.Equal(t, []byte{claNear, insSignTransaction, p1More, networkID, chunkSize}, first[:5])
	require.Equal(t, backend.pathBytes(), first[5:25])

	last := device.Calls.Get(device.Calls.Len()-1, 0).([]byte)
	require.Equal(t, byte(p1Last), last[2])

	delegate, err := s.SignDelegate(context.Background(), makeTx(t), pk, 4, 1004)
	require.NoError(t, err)

	payload, err := delegate.DelegateAction.SigningPayload()
	require.NoError(t, err)

	sig, err = delegate.Signature.ToCrypto()
	require.NoError(t, err)
	require.NoError(t, pk.Verify(payload[:], sig))

	_, err = s.Sign(context.Background(), makeTx(t), ed25519.NewSigner().GetPublicKey(), 1, types.CryptoHash{})
	require.True(t, xerrors.Is(err, ErrSecretKeyNotAvailable))
	require.Equal(t, 3, device.Closed)
}

func TestLedger_BufferOverflow(t *testing.T) {
	app := newFakeApp()
	app.overflow = true

	backend, err := NewLedger(DefaultHDPath, WithOpener(func() (Device, error) {
		return fake.NewDevice(app.handle), nil
	}))
	require.NoError(t, err)

	pk, err := backend.PublicKey(context.Background())
	require.NoError(t, err)

	_, err = backend.SignTransaction(context.Background(), pk, primitives.Transaction{
		PublicKey: primitives.NewPublicKey(pk),
	})
	require.Equal(t, ErrBufferOverflow, err)
}

func TestLedger_Failures(t *testing.T) {
	backend, err := NewLedger(DefaultHDPath, WithOpener(func() (Device, error) {
		return nil, fake.GetError()
	}))
	require.NoError(t, err)

	_, err = backend.PublicKey(context.Background())
	require.True(t, xerrors.Is(err, ErrPublicKeyNotAvailable))
	require.True(t, xerrors.Is(err, ErrDevice))

	backend, err = NewLedger(DefaultHDPath, WithOpener(func() (Device, error) {
		return fake.NewBadDevice(), nil
	}))
	require.NoError(t, err)

	_, err = backend.PublicKey(context.Background())
	require.True(t, xerrors.Is(err, ErrIO))

	backend, err = NewLedger(DefaultHDPath, WithOpener(func() (Device, error) {
		return fake.NewDevice(func([]byte) ([]byte, error) {
			panic("oops")
		}), nil
	}))
	require.NoError(t, err)

	_, err = backend.PublicKey(context.Background())
	require.True(t, xerrors.Is(err, ErrTask))
	require.Contains(t, err.Error(), "oops")

	backend, err = NewLedger(DefaultHDPath, WithOpener(func() (Device, error) {
		return fake.NewDevice(func([]byte) ([]byte, error) {
			return []byte{1, 2, 3}, nil
		}), nil
	}))
	require.NoError(t, err)

	_, err = backend.PublicKey(context.Background())
	require.True(t, xerrors.Is(err, ErrPublicKeyNotAvailable))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = backend.PublicKey(ctx)
	require.True(t, xerrors.Is(err, context.Canceled))
}

func TestLedger_Close(t *testing.T) {
	app := newFakeApp()
	device := fake.NewDevice(app.handle)

	backend, err := NewLedger(DefaultHDPath, WithOpener(func() (Device, error) {
		return device, nil
	}))
	require.NoError(t, err)

	pk, err := backend.PublicKey(context.Background())
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	require.NoError(t, backend.Close())

	_, err = backend.SignTransaction(context.Background(), pk, primitives.Transaction{
		SignerID:   "alice.near",
		PublicKey:  primitives.NewPublicKey(pk),
		ReceiverID: "bob.near",
		Actions:    []primitives.Action{{Tag: primitives.TagCreateAccount}},
	})
	require.True(t, xerrors.Is(err, ErrDevice))
	require.Contains(t, err.Error(), "backend is closed")
}

// -----------------------------------------------------------------------------
// Utility functions

// fakeApp emulates the NEAR app of a device: it returns the public key and
// signs the payloads it receives in chunks.
type fakeApp struct {
	secret   ed25519.Signer
	buffer   []byte
	overflow bool
}

func newFakeApp() *fakeApp {
	return &fakeApp{secret: ed25519.NewSigner()}
}

func (a *fakeApp) handle(command []byte) ([]byte, error) {
	ins, p1, data := command[1], command[2], command[5:]

	switch ins {
	case insGetPublicKey:
		return a.secret.GetPublicKey().Bytes(), nil
	case insSignTransaction, insSignDelegate:
		if a.overflow {
			return nil, errors.New(ledger.ErrorMessage(statusBufferOverflow))
		}

		a.buffer = append(a.buffer, data...)
		if p1 != p1Last {
			return nil, nil
		}

		// Skip the derivation path.
		payload := a.buffer[20:]
		a.buffer = nil

		if ins == insSignDelegate {
			prefix := make([]byte, 4)
			binary.LittleEndian.PutUint32(prefix, primitives.DelegateActionPrefix)
			payload = append(prefix, payload...)
		}

		hash := sha256.Sum256(payload)

		sig, err := a.secret.Sign(hash[:])
		if err != nil {
			return nil, err
		}

		return sig.Bytes(), nil
	default:
		return nil, errors.New(ledger.ErrorMessage(0x6D00))
	}
}

func makeLargeCall() action.Action {
	return action.NewFunctionCall("store", make([]byte, 600), types.TeraGas, types.NearToken{})
}
