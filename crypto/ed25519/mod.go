// Package ed25519 implements the cryptographic primitives for the Edwards 25519
// elliptic curve on top of the Kyber EdDSA implementation.
//
// A public key is the 32 bytes of the compressed point, a secret key is the
// 64 bytes of the seed followed by the public key, and a signature is 64 bytes.
// All of them are printed as "ed25519:<base58 data>".
package ed25519

import (
	"crypto/cipher"
	"strings"

	"github.com/mr-tron/base58"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/group/edwards25519"
	"go.dedis.ch/kyber/v3/sign/eddsa"
	"go.dedis.ch/kyber/v3/util/random"
	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

const (
	// PublicKeySize is the size in bytes of a public key.
	PublicKeySize = 32
	// SecretKeySize is the size in bytes of a secret key.
	SecretKeySize = 64
	// SignatureSize is the size in bytes of a signature.
	SignatureSize = 64

	prefix = "ed25519:"
)

var curve = new(edwards25519.Curve)

// PublicKey is the public key adapter to the Kyber Ed25519 point.
//
// - implements crypto.PublicKey
type PublicKey struct {
	point kyber.Point
	data  []byte
}

// NewPublicKey returns a new public key from the compressed point.
func NewPublicKey(data []byte) (PublicKey, error) {
	if len(data) != PublicKeySize {
		return PublicKey{}, xerrors.Errorf("invalid public key length: %d", len(data))
	}

	point := curve.Point()
	err := point.UnmarshalBinary(data)
	if err != nil {
		return PublicKey{}, xerrors.Errorf("couldn't unmarshal point: %v", err)
	}

	buffer := make([]byte, PublicKeySize)
	copy(buffer, data)

	return PublicKey{point: point, data: buffer}, nil
}

// ParsePublicKey parses the text representation of a public key. The curve
// prefix is optional.
func ParsePublicKey(text string) (PublicKey, error) {
	data, err := decode(text)
	if err != nil {
		return PublicKey{}, xerrors.Errorf("invalid public key: %v", err)
	}

	return NewPublicKey(data)
}

// Type implements crypto.PublicKey.
func (pk PublicKey) Type() crypto.KeyType {
	return crypto.ED25519
}

// Bytes implements crypto.PublicKey. It returns the compressed point.
func (pk PublicKey) Bytes() []byte {
	return append([]byte{}, pk.data...)
}

// Verify implements crypto.PublicKey. It returns nil if the signature matches
// the message for this public key.
func (pk PublicKey) Verify(msg []byte, sig crypto.Signature) error {
	if sig == nil || sig.Type() != crypto.ED25519 {
		return xerrors.Errorf("invalid signature type '%T'", sig)
	}

	err := eddsa.Verify(pk.point, msg, sig.Bytes())
	if err != nil {
		return xerrors.Errorf("eddsa verify failed: %v", err)
	}

	return nil
}

// Equal implements crypto.PublicKey. Keys from other implementations are
// compared on their type and raw data.
func (pk PublicKey) Equal(other crypto.PublicKey) bool {
	if other == nil || other.Type() != crypto.ED25519 {
		return false
	}

	return string(other.Bytes()) == string(pk.data)
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// String implements fmt.Stringer.
func (pk PublicKey) String() string {
	return prefix + base58.Encode(pk.data)
}

// Signature is the adapter of an EdDSA signature.
//
// - implements crypto.Signature
type Signature struct {
	data []byte
}

// NewSignature returns a signature from its raw bytes.
func NewSignature(data []byte) (Signature, error) {
	if len(data) != SignatureSize {
		return Signature{}, xerrors.Errorf("invalid signature length: %d", len(data))
	}

	return Signature{data: append([]byte{}, data...)}, nil
}

// ParseSignature parses the text representation of a signature.
func ParseSignature(text string) (Signature, error) {
	data, err := decode(text)
	if err != nil {
		return Signature{}, xerrors.Errorf("invalid signature: %v", err)
	}

	return NewSignature(data)
}

// Type implements crypto.Signature.
func (sig Signature) Type() crypto.KeyType {
	return crypto.ED25519
}

// Bytes implements crypto.Signature.
func (sig Signature) Bytes() []byte {
	return append([]byte{}, sig.data...)
}

// String implements fmt.Stringer.
func (sig Signature) String() string {
	return prefix + base58.Encode(sig.data)
}

// Signer is a key pair of the Edwards 25519 curve.
//
// - implements crypto.Signer
type Signer struct {
	inner  *eddsa.EdDSA
	public PublicKey
}

// NewSigner generates a new key pair using a cryptographically secure source.
func NewSigner() Signer {
	return newSignerFromStream(random.New())
}

func newSignerFromStream(stream cipher.Stream) Signer {
	inner := eddsa.NewEdDSA(stream)

	data, _ := inner.Public.MarshalBinary()

	return Signer{
		inner:  inner,
		public: PublicKey{point: inner.Public, data: data},
	}
}

// NewSignerFromBytes returns the key pair of the secret key. The data is the
// seed followed by the public key.
func NewSignerFromBytes(data []byte) (Signer, error) {
	if len(data) != SecretKeySize {
		return Signer{}, xerrors.Errorf("invalid secret key length: %d", len(data))
	}

	inner := &eddsa.EdDSA{}
	err := inner.UnmarshalBinary(data)
	if err != nil {
		return Signer{}, xerrors.Errorf("couldn't unmarshal secret key: %v", err)
	}

	pub, err := NewPublicKey(data[32:])
	if err != nil {
		return Signer{}, xerrors.Errorf("couldn't unmarshal public key: %v", err)
	}

	if !pub.point.Equal(inner.Public) {
		return Signer{}, xerrors.New("public key mismatch with the seed")
	}

	return Signer{inner: inner, public: pub}, nil
}

// ParseSecretKey parses the text representation of a secret key.
func ParseSecretKey(text string) (Signer, error) {
	data, err := decode(text)
	if err != nil {
		return Signer{}, xerrors.Errorf("invalid secret key: %v", err)
	}

	return NewSignerFromBytes(data)
}

// GetPublicKey implements crypto.Signer.
func (s Signer) GetPublicKey() crypto.PublicKey {
	return s.public
}

// Sign implements crypto.Signer. It produces an EdDSA signature of the
// message.
func (s Signer) Sign(msg []byte) (crypto.Signature, error) {
	data, err := s.inner.Sign(msg)
	if err != nil {
		return nil, xerrors.Errorf("couldn't sign: %v", err)
	}

	return Signature{data: data}, nil
}

// Bytes returns the seed followed by the public key.
func (s Signer) Bytes() []byte {
	data, _ := s.inner.MarshalBinary()
	return data
}

// String implements crypto.Signer.
func (s Signer) String() string {
	return prefix + base58.Encode(s.Bytes())
}

func decode(text string) ([]byte, error) {
	if strings.Contains(text, ":") {
		if !strings.HasPrefix(text, prefix) {
			return nil, xerrors.Errorf("unknown curve in '%s'", text)
		}

		text = strings.TrimPrefix(text, prefix)
	}

	data, err := base58.Decode(text)
	if err != nil {
		return nil, xerrors.Errorf("base58: %v", err)
	}

	return data, nil
}
