package serde_test

import (
	"errors"
	"fmt"

	"go.dedis.ch/nearapi/serde"
	"go.dedis.ch/nearapi/serde/json"
	"go.dedis.ch/nearapi/serde/registry"
)

func ExampleMessage_Serialize_json() {
	exampleRegistry.Register(serde.FormatJSON, exampleJSONFormat{})

	msg := exampleNonce{
		account: "alice.near",
		nonce:   42,
	}

	data, err := msg.Serialize(json.NewContext())
	if err != nil {
		panic("serialization failed: " + err.Error())
	}

	fmt.Println(string(data))

	// Output: {"account_id":"alice.near","nonce":42}
}

func ExampleFactory_Deserialize_json() {
	exampleRegistry.Register(serde.FormatJSON, exampleJSONFormat{})

	data := []byte(`{"account_id":"bob.near","nonce":7}`)

	msg, err := exampleFactory{}.Deserialize(json.NewContext(), data)
	if err != nil {
		panic("deserialization failed: " + err.Error())
	}

	fmt.Printf("%+v", msg)

	// Output: {account:bob.near nonce:7}
}

var exampleRegistry = registry.NewSimpleRegistry()

// exampleNonce is the data model of the example.
//
// - implements serde.Message
type exampleNonce struct {
	account string
	nonce   uint64
}

// Serialize implements serde.Message.
func (m exampleNonce) Serialize(ctx serde.Context) ([]byte, error) {
	format := exampleRegistry.Get(ctx.GetFormat())

	return format.Encode(ctx, m)
}

// exampleFactory is the factory of the example.
//
// - implements serde.Factory
type exampleFactory struct{}

// Deserialize implements serde.Factory.
func (exampleFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	format := exampleRegistry.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, err
	}

	m, ok := msg.(exampleNonce)
	if !ok {
		return nil, errors.New("invalid message")
	}

	return m, nil
}

type exampleNonceJSON struct {
	AccountID string `json:"account_id"`
	Nonce     uint64 `json:"nonce"`
}

// exampleJSONFormat is the JSON format engine of the example.
//
// - implements serde.FormatEngine
type exampleJSONFormat struct{}

// Encode implements serde.FormatEngine.
func (exampleJSONFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	m, ok := msg.(exampleNonce)
	if !ok {
		return nil, errors.New("unsupported message")
	}

	return ctx.Marshal(exampleNonceJSON{AccountID: m.account, Nonce: m.nonce})
}

// Decode implements serde.FormatEngine.
func (exampleJSONFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	var m exampleNonceJSON

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, err
	}

	return exampleNonce{account: m.AccountID, nonce: m.Nonce}, nil
}
