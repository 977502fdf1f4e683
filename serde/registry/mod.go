// Package registry maps the formats of a message to their engines.
//
// A message type keeps one registry and each format package registers its
// engine at init time.
package registry

import (
	"go.dedis.ch/nearapi/serde"
)

// Registry holds the engines of the formats of a message.
type Registry interface {
	// Register sets the engine of the format, replacing any previous one.
	Register(serde.Format, serde.FormatEngine)

	// Get returns the engine of the format. It never returns nil: an unknown
	// format yields an engine that always fails.
	Get(serde.Format) serde.FormatEngine

	// Formats returns the registered formats in alphabetical order.
	Formats() []serde.Format
}
