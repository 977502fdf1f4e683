package registry

import (
	"sort"
	"strings"
	"sync"

	"go.dedis.ch/nearapi/serde"
	"golang.org/x/xerrors"
)

// SimpleRegistry is a registry safe for concurrent use.
//
// - implements registry.Registry
type SimpleRegistry struct {
	sync.RWMutex
	engines map[serde.Format]serde.FormatEngine
}

// NewSimpleRegistry returns an empty registry.
func NewSimpleRegistry() *SimpleRegistry {
	return &SimpleRegistry{
		engines: make(map[serde.Format]serde.FormatEngine),
	}
}

// Register implements registry.Registry.
func (r *SimpleRegistry) Register(format serde.Format, engine serde.FormatEngine) {
	r.Lock()
	r.engines[format] = engine
	r.Unlock()
}

// Get implements registry.Registry.
func (r *SimpleRegistry) Get(format serde.Format) serde.FormatEngine {
	r.RLock()
	engine := r.engines[format]
	r.RUnlock()

	if engine == nil {
		return missingFormat{format: format, available: r.Formats()}
	}

	return engine
}

// Formats implements registry.Registry.
func (r *SimpleRegistry) Formats() []serde.Format {
	r.RLock()
	defer r.RUnlock()

	formats := make([]serde.Format, 0, len(r.engines))
	for format := range r.engines {
		formats = append(formats, format)
	}

	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })

	return formats
}

// missingFormat is the engine of a format that is not registered.
//
// - implements serde.FormatEngine
type missingFormat struct {
	format    serde.Format
	available []serde.Format
}

// Encode implements serde.FormatEngine. It always returns an error.
func (f missingFormat) Encode(serde.Context, serde.Message) ([]byte, error) {
	return nil, f.err()
}

// Decode implements serde.FormatEngine. It always returns an error.
func (f missingFormat) Decode(serde.Context, []byte) (serde.Message, error) {
	return nil, f.err()
}

func (f missingFormat) err() error {
	names := make([]string, len(f.available))
	for i, format := range f.available {
		names[i] = string(format)
	}

	return xerrors.Errorf("format '%s' is not implemented (available: [%s])",
		f.format, strings.Join(names, ", "))
}
