// Package json implements the JSON format of the signed transactions and the
// signed delegate actions. Both are carried as the base64 of their binary
// encoding, which is the form the node and the relayers accept.
package json

import (
	"encoding/base64"

	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/serde"
	"golang.org/x/xerrors"
)

func init() {
	primitives.RegisterSignedTransactionFormat(serde.FormatJSON, txFormat{})
	primitives.RegisterSignedDelegateFormat(serde.FormatJSON, delegateFormat{})
}

// SignedTransactionJSON is the JSON message of a signed transaction.
type SignedTransactionJSON struct {
	SignedTx string `json:"signed_tx_base64"`
}

// SignedDelegateJSON is the JSON message of a signed delegate action, as it is
// posted to a relayer.
type SignedDelegateJSON struct {
	SignedDelegateAction string `json:"signed_delegate_action"`
}

// txFormat is the engine to encode and decode signed transactions in JSON
// format.
//
// - implements serde.FormatEngine
type txFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the signed
// transaction if appropriate, otherwise an error.
func (txFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	var stx primitives.SignedTransaction

	switch in := msg.(type) {
	case primitives.SignedTransaction:
		stx = in
	case *primitives.SignedTransaction:
		stx = *in
	default:
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	raw, err := stx.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	m := SignedTransactionJSON{
		SignedTx: base64.StdEncoding.EncodeToString(raw),
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It populates the signed transaction
// from the JSON data if appropriate, otherwise it returns an error.
func (txFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := SignedTransactionJSON{}
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal message: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(m.SignedTx)
	if err != nil {
		return nil, xerrors.Errorf("invalid base64: %v", err)
	}

	var stx primitives.SignedTransaction
	err = stx.UnmarshalBinary(raw)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal: %v", err)
	}

	return stx, nil
}

// delegateFormat is the engine to encode and decode signed delegate actions in
// JSON format.
//
// - implements serde.FormatEngine
type delegateFormat struct{}

// Encode implements serde.FormatEngine.
func (delegateFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	var sda primitives.SignedDelegateAction

	switch in := msg.(type) {
	case primitives.SignedDelegateAction:
		sda = in
	case *primitives.SignedDelegateAction:
		sda = *in
	default:
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	raw, err := sda.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	m := SignedDelegateJSON{
		SignedDelegateAction: base64.StdEncoding.EncodeToString(raw),
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine.
func (delegateFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := SignedDelegateJSON{}
	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal message: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(m.SignedDelegateAction)
	if err != nil {
		return nil, xerrors.Errorf("invalid base64: %v", err)
	}

	var sda primitives.SignedDelegateAction
	err = sda.UnmarshalBinary(raw)
	if err != nil {
		return nil, xerrors.Errorf("couldn't unmarshal: %v", err)
	}

	return sda, nil
}
