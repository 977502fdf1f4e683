// Package serde defines the primitives to serialize and deserialize (serde)
// the messages of the module.
//
// A message implementation looks up the format engine registered for the
// format of the context and delegates the encoding to it. It keeps the data
// model independent from the representation.
package serde

import "io"

// Format is the identifier of a format implementation.
type Format string

const (
	// FormatJSON is the identifier for JSON formats.
	FormatJSON Format = "JSON"
)

// Message is the interface that a data model must implement to be
// serializable.
type Message interface {
	// Serialize returns the data of the message according to the format of
	// the context.
	Serialize(ctx Context) ([]byte, error)
}

// Fingerprinter is an interface to produce a deterministic representation of
// a message.
type Fingerprinter interface {
	// Fingerprint writes a deterministic binary representation of the object
	// into the writer.
	Fingerprint(writer io.Writer) error
}

// Factory is the interface to implement to instantiate a data model from the
// raw data.
type Factory interface {
	// Deserialize returns the message populated with the data, or an error if
	// the data is malformed.
	Deserialize(ctx Context, data []byte) (Message, error)
}

// FormatEngine is the interface to implement to support a specific format for
// a message.
type FormatEngine interface {
	// Encode returns the data of the message according to the format.
	Encode(ctx Context, message Message) ([]byte, error)

	// Decode returns the message from the data according to the format.
	Decode(ctx Context, data []byte) (Message, error)
}
