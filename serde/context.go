package serde

// ContextEngine is the engine of a format that encodes the plain values of a
// message.
type ContextEngine interface {
	// GetFormat returns the format of the engine.
	GetFormat() Format

	// Marshal returns the data of the value in the format.
	Marshal(value interface{}) ([]byte, error)

	// Unmarshal populates the value with the data in the format.
	Unmarshal(data []byte, value interface{}) error
}

// Context is passed to the serialization and deserialization of the messages.
// Its format selects the engine of the message.
type Context struct {
	ContextEngine
}

// NewContext returns a context that uses the engine.
func NewContext(engine ContextEngine) Context {
	return Context{ContextEngine: engine}
}
