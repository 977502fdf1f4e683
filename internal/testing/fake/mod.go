// Package fake provides fake implementations for interfaces commonly used in
// the repository.
// The implementations offer configuration to return errors when it is needed by
// the unit test and it is also possible to record the call of functions of an
// object in some cases.
package fake

import (
	"fmt"
	"sync"

	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

var fakeErr = xerrors.New("fake error")

// GetError returns the fake error.
func GetError() error {
	return fakeErr
}

// Err returns the expected message of an error wrapping the fake error.
func Err(msg string) string {
	return fmt.Sprintf("%s: %v", msg, fakeErr)
}

// Call is a tool to keep track of a function calls. It is safe to use from
// concurrent goroutines.
type Call struct {
	sync.Mutex
	calls [][]interface{}
}

// NewCall returns a new empty call monitor.
func NewCall() *Call {
	return &Call{}
}

// Get returns the nth call ith parameter.
func (c *Call) Get(n, i int) interface{} {
	if c == nil {
		return nil
	}

	c.Lock()
	defer c.Unlock()

	return c.calls[n][i]
}

// Len returns the number of calls.
func (c *Call) Len() int {
	if c == nil {
		return 0
	}

	c.Lock()
	defer c.Unlock()

	return len(c.calls)
}

// Add adds a call to the list.
func (c *Call) Add(args ...interface{}) {
	if c == nil {
		return
	}

	c.Lock()
	defer c.Unlock()

	c.calls = append(c.calls, args)
}

// Clear clears the list of calls.
func (c *Call) Clear() {
	if c != nil {
		c.Lock()
		c.calls = nil
		c.Unlock()
	}
}

// SignatureByte is the byte returned by the raw encoding of a fake signature.
const SignatureByte = 0xfe

// Signature is a fake implementation of the signature.
//
// - implements crypto.Signature
type Signature struct{}

// Type implements crypto.Signature.
func (s Signature) Type() crypto.KeyType {
	return crypto.ED25519
}

// Bytes implements crypto.Signature.
func (s Signature) Bytes() []byte {
	data := make([]byte, 64)
	data[0] = SignatureByte

	return data
}

// String implements fmt.Stringer.
func (s Signature) String() string {
	return "fakeSignature"
}

// PublicKey is a fake implementation of crypto.PublicKey.
//
// - implements crypto.PublicKey
type PublicKey struct {
	index byte
	err   error
}

// NewPublicKey returns a fake public key distinguished by the index.
func NewPublicKey(index byte) PublicKey {
	return PublicKey{index: index}
}

// NewBadPublicKey returns a new fake public key that returns error when
// appropriate.
func NewBadPublicKey() PublicKey {
	return PublicKey{err: fakeErr}
}

// Type implements crypto.PublicKey.
func (pk PublicKey) Type() crypto.KeyType {
	return crypto.ED25519
}

// Bytes implements crypto.PublicKey.
func (pk PublicKey) Bytes() []byte {
	data := make([]byte, 32)
	data[31] = pk.index

	return data
}

// Verify implements crypto.PublicKey.
func (pk PublicKey) Verify([]byte, crypto.Signature) error {
	return pk.err
}

// Equal implements crypto.PublicKey.
func (pk PublicKey) Equal(other crypto.PublicKey) bool {
	return other != nil && other.Type() == pk.Type() &&
		string(other.Bytes()) == string(pk.Bytes())
}

// String implements fmt.Stringer.
func (pk PublicKey) String() string {
	return fmt.Sprintf("fake.PublicKey[%d]", pk.index)
}

// Signer is a fake implementation of the crypto.Signer interface.
//
// - implements crypto.Signer
type Signer struct {
	pubkey PublicKey
	calls  *Call
	err    error
}

// NewSigner returns a new instance of the fake signer.
func NewSigner() Signer {
	return Signer{}
}

// NewSignerWithKey returns a fake signer with a distinct public key that
// records the messages it signs.
func NewSignerWithKey(index byte, calls *Call) Signer {
	return Signer{pubkey: NewPublicKey(index), calls: calls}
}

// NewBadSigner returns a fake signer that will return an error when
// appropriate.
func NewBadSigner() Signer {
	return Signer{err: fakeErr}
}

// GetPublicKey implements crypto.Signer.
func (s Signer) GetPublicKey() crypto.PublicKey {
	return s.pubkey
}

// Sign implements crypto.Signer.
func (s Signer) Sign(msg []byte) (crypto.Signature, error) {
	s.calls.Add(msg)

	if s.err != nil {
		return nil, s.err
	}

	return Signature{}, nil
}

// String implements crypto.Signer.
func (s Signer) String() string {
	return "fakeSecretKey"
}
