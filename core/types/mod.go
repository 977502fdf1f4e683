// Package types defines the primitive values shared by the queries and the
// transactions: account identifiers, hashes, amounts, gas and the reference to
// the state a request reads from.
package types

import (
	"encoding/json"
	"regexp"

	"github.com/mr-tron/base58"
	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/crypto/common"
	"golang.org/x/xerrors"
)

const (
	// MinAccountIDLen is the minimum length of an account identifier.
	MinAccountIDLen = 2
	// MaxAccountIDLen is the maximum length of an account identifier.
	MaxAccountIDLen = 64
)

var accountIDPattern = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

// ErrInvalidAccountID is returned when an account identifier does not follow
// the naming rules of the network.
var ErrInvalidAccountID = xerrors.New("invalid account id")

// AccountID is the name of an account. Implicit accounts are named by the hex
// encoding of their public key.
type AccountID string

// ParseAccountID returns the account identifier if the name is valid.
func ParseAccountID(name string) (AccountID, error) {
	id := AccountID(name)

	err := id.Validate()
	if err != nil {
		return "", err
	}

	return id, nil
}

// MustParseAccountID is like ParseAccountID but panics on an invalid name.
func MustParseAccountID(name string) AccountID {
	id, err := ParseAccountID(name)
	if err != nil {
		panic(err)
	}

	return id
}

// Validate returns an error if the name is not a valid account identifier.
func (id AccountID) Validate() error {
	if len(id) < MinAccountIDLen || len(id) > MaxAccountIDLen {
		return xerrors.Errorf("'%s' has length %d: %w", string(id), len(id), ErrInvalidAccountID)
	}

	if !accountIDPattern.MatchString(string(id)) {
		return xerrors.Errorf("'%s' has invalid characters: %w", string(id), ErrInvalidAccountID)
	}

	return nil
}

// String implements fmt.Stringer.
func (id AccountID) String() string {
	return string(id)
}

// CryptoHashSize is the size in bytes of a hash.
const CryptoHashSize = 32

// CryptoHash is a SHA-256 digest printed in base58.
type CryptoHash [CryptoHashSize]byte

// ParseCryptoHash decodes the base58 text of a hash.
func ParseCryptoHash(text string) (CryptoHash, error) {
	var hash CryptoHash

	data, err := base58.Decode(text)
	if err != nil {
		return hash, xerrors.Errorf("invalid hash '%s': %v", text, err)
	}

	if len(data) != CryptoHashSize {
		return hash, xerrors.Errorf("invalid hash length: %d", len(data))
	}

	copy(hash[:], data)

	return hash, nil
}

// IsZero returns true if all the bytes are zero.
func (h CryptoHash) IsZero() bool {
	return h == CryptoHash{}
}

// String implements fmt.Stringer.
func (h CryptoHash) String() string {
	return base58.Encode(h[:])
}

// MarshalText implements encoding.TextMarshaler.
func (h CryptoHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *CryptoHash) UnmarshalText(text []byte) error {
	hash, err := ParseCryptoHash(string(text))
	if err != nil {
		return err
	}

	*h = hash

	return nil
}

// Gas is an amount of gas units.
type Gas uint64

const (
	// GigaGas is 10^9 gas units.
	GigaGas Gas = 1_000_000_000
	// TeraGas is 10^12 gas units.
	TeraGas Gas = 1000 * GigaGas
)

// PublicKey wraps a key to give it the text form used in JSON documents.
type PublicKey struct {
	crypto.PublicKey
}

// NewPublicKey returns the wrapper of the key.
func NewPublicKey(pk crypto.PublicKey) PublicKey {
	return PublicKey{PublicKey: pk}
}

// MarshalJSON implements json.Marshaler.
func (pk PublicKey) MarshalJSON() ([]byte, error) {
	if pk.PublicKey == nil {
		return []byte("null"), nil
	}

	return json.Marshal(pk.PublicKey.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var text string
	err := json.Unmarshal(data, &text)
	if err != nil {
		return xerrors.Errorf("public key is not a string: %v", err)
	}

	key, err := common.ParsePublicKey(text)
	if err != nil {
		return xerrors.Errorf("couldn't parse public key: %v", err)
	}

	pk.PublicKey = key

	return nil
}
