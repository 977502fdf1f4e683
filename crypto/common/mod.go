// Package common implements functions to support multiple algorithms. Keys and
// signatures are parsed either from their text representation, where the curve
// is given by the prefix, or from their binary form, where it is given by the
// type tag. The supported algorithms are the followings:
// - ED25519
package common

import (
	"strings"

	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"golang.org/x/xerrors"
)

// Algorithm is the set of functions to build the primitives of one curve.
type Algorithm struct {
	PublicKey func(data []byte) (crypto.PublicKey, error)
	Signature func(data []byte) (crypto.Signature, error)
	SecretKey func(data []byte) (crypto.Signer, error)
	Parse     func(text string) ([]byte, error)
}

var algorithms = map[crypto.KeyType]Algorithm{
	crypto.ED25519: {
		PublicKey: func(data []byte) (crypto.PublicKey, error) {
			return ed25519.NewPublicKey(data)
		},
		Signature: func(data []byte) (crypto.Signature, error) {
			return ed25519.NewSignature(data)
		},
		SecretKey: func(data []byte) (crypto.Signer, error) {
			return ed25519.NewSignerFromBytes(data)
		},
	},
}

// RegisterAlgorithm registers the functions of a curve. If it already exists,
// it will override it.
func RegisterAlgorithm(t crypto.KeyType, algo Algorithm) {
	algorithms[t] = algo
}

// PublicKeySize returns the length of the raw encoding of a public key for the
// curve, or zero when the curve is unknown.
func PublicKeySize(t crypto.KeyType) int {
	switch t {
	case crypto.ED25519:
		return ed25519.PublicKeySize
	case crypto.SECP256K1:
		return 64
	default:
		return 0
	}
}

// SignatureSize returns the length of the raw encoding of a signature for the
// curve, or zero when the curve is unknown.
func SignatureSize(t crypto.KeyType) int {
	switch t {
	case crypto.ED25519:
		return ed25519.SignatureSize
	case crypto.SECP256K1:
		return 65
	default:
		return 0
	}
}

// PublicKeyFromBytes returns the public key of the curve.
func PublicKeyFromBytes(t crypto.KeyType, data []byte) (crypto.PublicKey, error) {
	algo, ok := algorithms[t]
	if !ok || algo.PublicKey == nil {
		return nil, xerrors.Errorf("unsupported key type '%v'", t)
	}

	pk, err := algo.PublicKey(data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode public key: %v", err)
	}

	return pk, nil
}

// SignatureFromBytes returns the signature of the curve.
func SignatureFromBytes(t crypto.KeyType, data []byte) (crypto.Signature, error) {
	algo, ok := algorithms[t]
	if !ok || algo.Signature == nil {
		return nil, xerrors.Errorf("unsupported key type '%v'", t)
	}

	sig, err := algo.Signature(data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode signature: %v", err)
	}

	return sig, nil
}

// ParsePublicKey parses a public key of the form "<curve>:<base58 data>". A
// key without a prefix is an Ed25519 key.
func ParsePublicKey(text string) (crypto.PublicKey, error) {
	t, data, err := parse(text)
	if err != nil {
		return nil, xerrors.Errorf("invalid public key: %v", err)
	}

	return PublicKeyFromBytes(t, data)
}

// ParseSignature parses a signature of the form "<curve>:<base58 data>".
func ParseSignature(text string) (crypto.Signature, error) {
	t, data, err := parse(text)
	if err != nil {
		return nil, xerrors.Errorf("invalid signature: %v", err)
	}

	return SignatureFromBytes(t, data)
}

// ParseSecretKey parses a secret key of the form "<curve>:<base58 data>".
func ParseSecretKey(text string) (crypto.Signer, error) {
	t, data, err := parse(text)
	if err != nil {
		return nil, xerrors.Errorf("invalid secret key: %v", err)
	}

	algo, ok := algorithms[t]
	if !ok || algo.SecretKey == nil {
		return nil, xerrors.Errorf("unsupported key type '%v'", t)
	}

	signer, err := algo.SecretKey(data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode secret key: %v", err)
	}

	return signer, nil
}

func parse(text string) (crypto.KeyType, []byte, error) {
	t := crypto.ED25519

	name, _, found := strings.Cut(text, ":")
	if found {
		switch name {
		case crypto.ED25519.String():
		case crypto.SECP256K1.String():
			t = crypto.SECP256K1
		default:
			return 0, nil, xerrors.Errorf("unknown curve '%s'", name)
		}
		text = text[len(name)+1:]
	}

	algo := algorithms[t]
	if algo.Parse != nil {
		data, err := algo.Parse(text)
		return t, data, err
	}

	data, err := decodeBase58(text)
	if err != nil {
		return 0, nil, err
	}

	return t, data, nil
}
