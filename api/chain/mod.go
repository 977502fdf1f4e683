// Package chain implements the helpers to read the blocks of the chain.
package chain

import (
	"go.dedis.ch/nearapi/core/query"
	"go.dedis.ch/nearapi/core/types"
)

// BlockHeight returns the builder of the height of the latest block.
func BlockHeight() *query.Builder[uint64] {
	handler := query.Postprocess(query.BlockHandler(), func(block types.BlockView) uint64 {
		return block.Header.Height
	})

	return query.NewBuilder(query.Block{}, types.Optimistic(), handler)
}

// BlockHash returns the builder of the hash of the latest block.
func BlockHash() *query.Builder[types.CryptoHash] {
	handler := query.Postprocess(query.BlockHandler(), func(block types.BlockView) types.CryptoHash {
		return block.Header.Hash
	})

	return query.NewBuilder(query.Block{}, types.Optimistic(), handler)
}

// Block returns the builder of the latest block. Another block is read with
// AtReference.
func Block() *query.Builder[types.BlockView] {
	return query.NewBuilder(query.Block{}, types.Optimistic(), query.BlockHandler())
}
