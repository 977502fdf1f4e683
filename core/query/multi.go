package query

import (
	"context"

	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/sync/errgroup"
)

// MultiBuilder joins several builders into one result. The builders read at
// the same reference and run concurrently. The postprocess function is called
// once with all the results in order, only if every builder succeeds.
//
// - implements query.Part
type MultiBuilder[T any] struct {
	ref         types.Reference
	parts       []Part
	postprocess func(results []interface{}) T
}

// NewMultiBuilder returns an empty multi-builder that reads at the reference.
func NewMultiBuilder[T any](ref types.Reference,
	postprocess func(results []interface{}) T) *MultiBuilder[T] {

	return &MultiBuilder[T]{
		ref:         ref,
		postprocess: postprocess,
	}
}

// Add appends a builder. Its own reference is ignored.
func (m *MultiBuilder[T]) Add(part Part) *MultiBuilder[T] {
	m.parts = append(m.parts, part)
	return m
}

// AtReference returns a copy of the multi-builder that reads at the reference.
func (m *MultiBuilder[T]) AtReference(ref types.Reference) *MultiBuilder[T] {
	return &MultiBuilder[T]{
		ref:         ref,
		parts:       append([]Part{}, m.parts...),
		postprocess: m.postprocess,
	}
}

// Fetch runs the builders and returns the result of the postprocess function.
// The first error of a builder is returned as is.
func (m *MultiBuilder[T]) Fetch(ctx context.Context, net *network.Config) (T, error) {
	return m.fetch(ctx, net, m.ref)
}

func (m *MultiBuilder[T]) fetchAt(ctx context.Context, net *network.Config,
	ref types.Reference) (interface{}, error) {

	return m.fetch(ctx, net, ref)
}

func (m *MultiBuilder[T]) fetch(ctx context.Context, net *network.Config, ref types.Reference) (T, error) {
	results := make([]interface{}, len(m.parts))

	g, ctx := errgroup.WithContext(ctx)

	for i, part := range m.parts {
		i, part := i, part

		g.Go(func() error {
			res, err := part.fetchAt(ctx, net, ref)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		var zero T
		return zero, err
	}

	return m.postprocess(results), nil
}

// Join2 returns a multi-builder of two builders. It reads at the reference of
// the first one.
func Join2[A, B, T any](a *Builder[A], b *Builder[B], fn func(A, B) T) *MultiBuilder[T] {
	post := func(results []interface{}) T {
		va, _ := results[0].(A)
		vb, _ := results[1].(B)

		return fn(va, vb)
	}

	return NewMultiBuilder(a.ref, post).Add(a).Add(b)
}

// Join3 returns a multi-builder of three builders. It reads at the reference
// of the first one.
func Join3[A, B, C, T any](a *Builder[A], b *Builder[B], c *Builder[C],
	fn func(A, B, C) T) *MultiBuilder[T] {

	post := func(results []interface{}) T {
		va, _ := results[0].(A)
		vb, _ := results[1].(B)
		vc, _ := results[2].(C)

		return fn(va, vb, vc)
	}

	return NewMultiBuilder(a.ref, post).Add(a).Add(b).Add(c)
}
