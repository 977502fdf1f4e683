package primitives

import (
	"io"

	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/serde"
	"go.dedis.ch/nearapi/serde/registry"
	"golang.org/x/xerrors"
)

// DelegateActionPrefix is the discriminant prepended to the encoding of a
// delegate action before it is hashed for signing. It is 2^30 + 366, which
// keeps the signed payload apart from any transaction encoding.
const DelegateActionPrefix uint32 = 1<<30 + 366

var (
	signedTxFormats       = registry.NewSimpleRegistry()
	signedDelegateFormats = registry.NewSimpleRegistry()

	hashFactory = crypto.NewSha256Factory()
)

// RegisterSignedTransactionFormat registers the engine for the provided
// format.
func RegisterSignedTransactionFormat(f serde.Format, e serde.FormatEngine) {
	signedTxFormats.Register(f, e)
}

// RegisterSignedDelegateFormat registers the engine for the provided format.
func RegisterSignedDelegateFormat(f serde.Format, e serde.FormatEngine) {
	signedDelegateFormats.Register(f, e)
}

// Transaction is the native transaction, fully addressed but not signed.
//
// - implements serde.Fingerprinter
type Transaction struct {
	SignerID   string
	PublicKey  PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [HashSize]byte
	Actions    []Action
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (tx Transaction) MarshalBinary() ([]byte, error) {
	w, err := tx.toWire()
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode transaction: %v", err)
	}

	data, err := marshal(w)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode transaction: %v", err)
	}

	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (tx *Transaction) UnmarshalBinary(data []byte) error {
	w, err := unmarshal[wireTransaction](data)
	if err != nil {
		return xerrors.Errorf("couldn't decode transaction: %v", err)
	}

	decoded, err := w.native()
	if err != nil {
		return xerrors.Errorf("couldn't decode transaction: %v", err)
	}

	*tx = decoded

	return nil
}

// Fingerprint implements serde.Fingerprinter. It writes the binary encoding of
// the transaction.
func (tx Transaction) Fingerprint(w io.Writer) error {
	data, err := tx.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	if err != nil {
		return xerrors.Errorf("couldn't write: %v", err)
	}

	return nil
}

// Hash returns the hash of the transaction, which is the message the signer
// signs.
func (tx Transaction) Hash() ([HashSize]byte, error) {
	var id [HashSize]byte

	h := hashFactory.New()

	err := tx.Fingerprint(h)
	if err != nil {
		return id, xerrors.Errorf("couldn't fingerprint: %v", err)
	}

	copy(id[:], h.Sum(nil))

	return id, nil
}

// SignedTransaction is a transaction with the signature of its hash.
//
// - implements serde.Message
type SignedTransaction struct {
	Transaction Transaction
	Signature   Signature
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (stx SignedTransaction) MarshalBinary() ([]byte, error) {
	w, err := stx.toWire()
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode signed transaction: %v", err)
	}

	data, err := marshal(w)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode signed transaction: %v", err)
	}

	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (stx *SignedTransaction) UnmarshalBinary(data []byte) error {
	w, err := unmarshal[wireSignedTransaction](data)
	if err != nil {
		return xerrors.Errorf("couldn't decode signed transaction: %v", err)
	}

	tx, err := w.Transaction.native()
	if err != nil {
		return xerrors.Errorf("couldn't decode signed transaction: %v", err)
	}

	sig, err := w.Signature.native()
	if err != nil {
		return xerrors.Errorf("couldn't decode signed transaction: %v", err)
	}

	stx.Transaction = tx
	stx.Signature = sig

	return nil
}

func (stx SignedTransaction) toWire() (wireSignedTransaction, error) {
	tx, err := stx.Transaction.toWire()
	if err != nil {
		return wireSignedTransaction{}, err
	}

	sig, err := stx.Signature.toWire()
	if err != nil {
		return wireSignedTransaction{}, err
	}

	return wireSignedTransaction{Transaction: tx, Signature: sig}, nil
}

// Hash returns the hash of the transaction that was signed.
func (stx SignedTransaction) Hash() ([HashSize]byte, error) {
	return stx.Transaction.Hash()
}

// Serialize implements serde.Message.
func (stx SignedTransaction) Serialize(ctx serde.Context) ([]byte, error) {
	format := signedTxFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, stx)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode signed transaction: %v", err)
	}

	return data, nil
}

// SignedTransactionFactory is the factory of signed transactions.
//
// - implements serde.Factory
type SignedTransactionFactory struct{}

// Deserialize implements serde.Factory.
func (SignedTransactionFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	format := signedTxFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode signed transaction: %v", err)
	}

	return msg, nil
}

// DelegateAction is the set of actions a sender delegates to a relayer. It
// never contains a delegate action itself.
type DelegateAction struct {
	SenderID       string
	ReceiverID     string
	Actions        []Action
	Nonce          uint64
	MaxBlockHeight uint64
	PublicKey      PublicKey
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (da DelegateAction) MarshalBinary() ([]byte, error) {
	w, err := da.toWire()
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode delegate action: %v", err)
	}

	data, err := marshal(w)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode delegate action: %v", err)
	}

	return data, nil
}

// SigningPayload returns the hash the sender signs: the digest of the prefix
// followed by the encoding of the delegate action.
func (da DelegateAction) SigningPayload() ([HashSize]byte, error) {
	var id [HashSize]byte

	data, err := da.MarshalBinary()
	if err != nil {
		return id, err
	}

	prefix, err := marshal(DelegateActionPrefix)
	if err != nil {
		return id, err
	}

	h := hashFactory.New()
	h.Write(prefix)
	h.Write(data)

	copy(id[:], h.Sum(nil))

	return id, nil
}

// SignedDelegateAction is a delegate action with the signature of the sender.
//
// - implements serde.Message
type SignedDelegateAction struct {
	DelegateAction DelegateAction
	Signature      Signature
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (sda SignedDelegateAction) MarshalBinary() ([]byte, error) {
	w, err := sda.toWire()
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode signed delegate action: %v", err)
	}

	data, err := marshal(w)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode signed delegate action: %v", err)
	}

	return data, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (sda *SignedDelegateAction) UnmarshalBinary(data []byte) error {
	w, err := unmarshal[wireSignedDelegateAction](data)
	if err != nil {
		return xerrors.Errorf("couldn't decode signed delegate action: %v", err)
	}

	decoded, err := w.native()
	if err != nil {
		return xerrors.Errorf("couldn't decode signed delegate action: %v", err)
	}

	*sda = decoded

	return nil
}

// Serialize implements serde.Message.
func (sda SignedDelegateAction) Serialize(ctx serde.Context) ([]byte, error) {
	format := signedDelegateFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, sda)
	if err != nil {
		return nil, xerrors.Errorf("couldn't encode signed delegate action: %v", err)
	}

	return data, nil
}

// SignedDelegateFactory is the factory of signed delegate actions.
//
// - implements serde.Factory
type SignedDelegateFactory struct{}

// Deserialize implements serde.Factory.
func (SignedDelegateFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	format := signedDelegateFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode signed delegate action: %v", err)
	}

	return msg, nil
}
