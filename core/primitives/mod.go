// Package primitives defines the native representation of the transactions of
// the protocol and their binary encoding. It is the representation that is
// hashed, signed and submitted to the network.
//
// The encoding is borsh: integers are little-endian, strings and sequences are
// prefixed with their u32 length, options with a u8 tag and enumerations with
// the u8 index of the variant.
package primitives

import (
	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/crypto/common"
)

// U128 is a 128 bits unsigned integer in little-endian.
type U128 [16]byte

// HashSize is the size of a block hash.
const HashSize = 32

// PublicKey is the native encoding of a public key.
type PublicKey struct {
	Type crypto.KeyType
	Data []byte
}

// NewPublicKey returns the native representation of the key.
func NewPublicKey(pk crypto.PublicKey) PublicKey {
	return PublicKey{Type: pk.Type(), Data: pk.Bytes()}
}

// ToCrypto returns the key as a crypto primitive.
func (pk PublicKey) ToCrypto() (crypto.PublicKey, error) {
	return common.PublicKeyFromBytes(pk.Type, pk.Data)
}

// Signature is the native encoding of a signature.
type Signature struct {
	Type crypto.KeyType
	Data []byte
}

// NewSignature returns the native representation of the signature.
func NewSignature(sig crypto.Signature) Signature {
	return Signature{Type: sig.Type(), Data: sig.Bytes()}
}

// ToCrypto returns the signature as a crypto primitive.
func (sig Signature) ToCrypto() (crypto.Signature, error) {
	return common.SignatureFromBytes(sig.Type, sig.Data)
}

// FunctionCallPermission restricts an access key to calls on one contract.
type FunctionCallPermission struct {
	Allowance   *U128
	ReceiverID  string
	MethodNames []string
}

// AccessKey is the native access key as added by an action.
type AccessKey struct {
	Nonce uint64
	// FunctionCall is nil for a full access key.
	FunctionCall *FunctionCallPermission
}
