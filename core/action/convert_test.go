package action

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"go.dedis.ch/nearapi/internal/testing/fake"
)

// Every variant goes through the native representation and its binary
// encoding without losing a field.
func TestConvert_RoundTrip(t *testing.T) {
	signer, pk := makeKey(t)

	allowance := types.NearFromMilli(250)

	actions := []Action{
		CreateAccount{},
		NewDeployContract([]byte("\x00asm")),
		NewDeployContract(nil),
		NewFunctionCall("ft_transfer", []byte(`{"amount":"1"}`), 30*types.TeraGas, types.NearFromYocto(1)),
		NewFunctionCall("no_args", nil, types.TeraGas, types.NearToken{}),
		Transfer{Deposit: types.NearFromNear(12)},
		Stake{Stake: types.NearFromNear(100), PublicKey: pk},
		AddKey{PublicKey: pk, AccessKey: FullAccessKey()},
		AddKey{PublicKey: pk, AccessKey: FunctionCallAccessKey("app.near", []string{"a", "b"}, &allowance)},
		AddKey{PublicKey: pk, AccessKey: FunctionCallAccessKey("app.near", nil, nil)},
		DeleteKey{PublicKey: pk},
		DeleteAccount{BeneficiaryID: "bob.near"},
		makeDelegate(t, signer, pk),
	}

	for _, a := range actions {
		native, err := ToNative(a)
		require.NoError(t, err, a.String())

		tx := primitives.Transaction{
			SignerID:   "alice.near",
			PublicKey:  primitives.NewPublicKey(pk),
			ReceiverID: "bob.near",
			Actions:    []primitives.Action{native},
		}

		data, err := tx.MarshalBinary()
		require.NoError(t, err, a.String())

		var decoded primitives.Transaction
		require.NoError(t, decoded.UnmarshalBinary(data))

		local, err := FromNative(decoded.Actions[0])
		require.NoError(t, err, a.String())
		require.Equal(t, a, local, a.String())
	}
}

func TestConvert_All(t *testing.T) {
	actions := []Action{CreateAccount{}, Transfer{Deposit: types.NearFromNear(1)}}

	natives, err := AllToNative(actions)
	require.NoError(t, err)
	require.Len(t, natives, 2)

	back, err := AllFromNative(natives)
	require.NoError(t, err)
	require.Equal(t, actions, back)

	_, err = AllToNative([]Action{Stake{}})
	require.EqualError(t, err, "action #0: stake: missing public key")

	_, err = AllFromNative([]primitives.Action{{Tag: primitives.ActionTag(20)}})
	require.EqualError(t, err, "action #0: unknown action tag: 20")
}

func TestToNative_Errors(t *testing.T) {
	_, err := ToNative(AddKey{})
	require.EqualError(t, err, "add key: missing public key")

	_, err = ToNative(DeleteKey{})
	require.EqualError(t, err, "delete key: missing public key")

	_, err = ToNative(Delegate{})
	require.EqualError(t, err, "delegate: missing signature")

	_, err = ToNative(nil)
	require.EqualError(t, err, "unknown action '<nil>'")

	nda, err := NewNonDelegateAction(CreateAccount{})
	require.NoError(t, err)

	native, err := ToNative(nda.Action())
	require.NoError(t, err)
	require.Equal(t, primitives.TagCreateAccount, native.Tag)
}

func TestFromNative_Errors(t *testing.T) {
	badKey := primitives.PublicKey{Type: crypto.SECP256K1, Data: make([]byte, 64)}

	_, err := FromNative(primitives.Action{Tag: primitives.TagStake, PublicKey: badKey})
	require.EqualError(t, err, "stake: unsupported key type 'secp256k1'")

	_, err = FromNative(primitives.Action{Tag: primitives.TagAddKey, PublicKey: badKey})
	require.EqualError(t, err, "add key: unsupported key type 'secp256k1'")

	_, err = FromNative(primitives.Action{Tag: primitives.TagDeleteKey, PublicKey: badKey})
	require.EqualError(t, err, "delete key: unsupported key type 'secp256k1'")

	_, err = FromNative(primitives.Action{Tag: primitives.TagDelegate})
	require.EqualError(t, err, "delegate: missing signed delegate action")
}

func TestDelegate_Convert(t *testing.T) {
	_, err := DelegateToNative(DelegateAction{})
	require.EqualError(t, err, "missing public key")

	da := DelegateAction{
		PublicKey: fake.NewPublicKey(1),
		Actions:   []NonDelegateAction{{inner: Stake{}}},
	}

	_, err = DelegateToNative(da)
	require.EqualError(t, err, "action #0: stake: missing public key")

	_, err = DelegateFromNative(primitives.DelegateAction{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "public key: ")
}

// -----------------------------------------------------------------------------
// Utility functions

func makeKey(t *testing.T) (ed25519.Signer, crypto.PublicKey) {
	signer := ed25519.NewSigner()

	// The key is decoded from its bytes like the converted ones are, so that
	// the internal representation of the point is the same.
	pk, err := ed25519.NewPublicKey(signer.GetPublicKey().Bytes())
	require.NoError(t, err)

	return signer, pk
}

func makeDelegate(t *testing.T, signer ed25519.Signer, pk crypto.PublicKey) Delegate {
	da, err := NewDelegateAction("alice.near", "bob.near",
		[]Action{Transfer{Deposit: types.NearFromNear(1)}, NewFunctionCall("f", nil, 1, types.NearToken{})},
		42, 1042, pk)
	require.NoError(t, err)

	native, err := DelegateToNative(da)
	require.NoError(t, err)

	payload, err := native.SigningPayload()
	require.NoError(t, err)

	sig, err := signer.Sign(payload[:])
	require.NoError(t, err)

	return Delegate{SignedDelegateAction: SignedDelegateAction{DelegateAction: da, Signature: sig}}
}
