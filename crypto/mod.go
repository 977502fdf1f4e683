// Package crypto defines the cryptographic primitives used to authorize
// transactions: public keys, signatures and key pairs able to sign.
//
// The network identifies keys by a curve tag and a raw encoding, and prints
// them as "<curve>:<base58 data>".
package crypto

import (
	"fmt"
	"hash"
)

// KeyType is the tag of the curve of a key. The value is the one used by the
// binary encoding of the protocol.
type KeyType uint8

const (
	// ED25519 is the tag of the Edwards 25519 curve.
	ED25519 KeyType = 0
	// SECP256K1 is the tag of the secp256k1 curve.
	SECP256K1 KeyType = 1
)

// String implements fmt.Stringer. It returns the prefix used in the text
// representation of the keys.
func (t KeyType) String() string {
	switch t {
	case ED25519:
		return "ed25519"
	case SECP256K1:
		return "secp256k1"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// HashFactory is an interface to produce a hash digest.
type HashFactory interface {
	New() hash.Hash
}

// PublicKey is a public identity that can be used to verify a signature.
type PublicKey interface {
	fmt.Stringer

	// Type returns the curve of the key.
	Type() KeyType

	// Bytes returns the raw encoding of the key, without the type tag.
	Bytes() []byte

	// Verify returns nil if the signature matches the message for this key.
	Verify(msg []byte, signature Signature) error

	// Equal returns true when the other key has the same type and data.
	Equal(other PublicKey) bool
}

// Signature is a verifiable element for a unique message.
type Signature interface {
	fmt.Stringer

	// Type returns the curve of the signature.
	Type() KeyType

	// Bytes returns the raw encoding of the signature.
	Bytes() []byte
}

// Signer is a key pair able to produce signatures.
type Signer interface {
	// GetPublicKey returns the public half of the key pair.
	GetPublicKey() PublicKey

	// Sign returns the signature of the message.
	Sign(msg []byte) (Signature, error)

	// String returns the text representation of the secret key.
	String() string
}
