package query

import (
	"context"

	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/types"
)

// Part is a builder that can be joined by a multi-builder.
type Part interface {
	fetchAt(ctx context.Context, net *network.Config, ref types.Reference) (interface{}, error)
}

// Builder ties a query and a handler to a reference.
//
// - implements query.Part
type Builder[T any] struct {
	query   Query
	ref     types.Reference
	handler Handler[T]
}

// NewBuilder returns a builder of the query that reads at the reference.
func NewBuilder[T any](query Query, ref types.Reference, handler Handler[T]) *Builder[T] {
	return &Builder[T]{
		query:   query,
		ref:     ref,
		handler: handler,
	}
}

// Reference returns the reference of the builder.
func (b *Builder[T]) Reference() types.Reference {
	return b.ref
}

// AtReference returns a copy of the builder that reads at the reference.
func (b *Builder[T]) AtReference(ref types.Reference) *Builder[T] {
	return NewBuilder(b.query, ref, b.handler)
}

// Fetch sends the request to the network and returns the decoded response.
func (b *Builder[T]) Fetch(ctx context.Context, net *network.Config) (T, error) {
	return b.fetch(ctx, net, b.ref)
}

func (b *Builder[T]) fetchAt(ctx context.Context, net *network.Config,
	ref types.Reference) (interface{}, error) {

	return b.fetch(ctx, net, ref)
}

func (b *Builder[T]) fetch(ctx context.Context, net *network.Config, ref types.Reference) (T, error) {
	var zero T

	req, err := b.query.CreateRequest(net, ref)
	if err != nil {
		if !isQueryError(err) {
			err = newError(ErrCreation, err)
		}

		return zero, err
	}

	status := "error"
	defer func() {
		promRequests.WithLabelValues(string(req.Kind), status).Inc()
	}()

	nearapi.Logger.Debug().
		Str("kind", string(req.Kind)).
		Stringer("reference", ref).
		Msg("sending query")

	transport, err := net.Transport()
	if err != nil {
		return zero, newError(ErrTransport, err)
	}

	resp, err := transport.Call(ctx, req)
	if err != nil {
		return zero, newError(ErrTransport, err)
	}

	if resp == nil {
		return zero, newError(ErrNoResponse, ErrNoResponse)
	}

	value, err := b.handler.Handle(resp)
	if err != nil {
		if !isQueryError(err) {
			err = newError(ErrDeserialize, err)
		}

		return zero, err
	}

	status = "ok"

	return value, nil
}

func isQueryError(err error) bool {
	_, ok := err.(*Error)
	return ok
}
