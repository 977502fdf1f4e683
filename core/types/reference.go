package types

import (
	"fmt"
)

type referenceKind int

const (
	optimistic referenceKind = iota
	final
	atHeight
	atHash
	atEpoch
)

// Reference is the view of the state a request reads from. The zero value is
// the optimistic reference.
type Reference struct {
	kind   referenceKind
	height uint64
	hash   CryptoHash
}

// Optimistic returns the reference to the most recent state.
func Optimistic() Reference {
	return Reference{kind: optimistic}
}

// Final returns the reference to the most recent final state.
func Final() Reference {
	return Reference{kind: final}
}

// AtHeight returns a reference pinned to the block at the height.
func AtHeight(height uint64) Reference {
	return Reference{kind: atHeight, height: height}
}

// AtHash returns a reference pinned to the block of the hash.
func AtHash(hash CryptoHash) Reference {
	return Reference{kind: atHash, hash: hash}
}

// AtEpoch returns a reference to an epoch. It is only meaningful for
// validators requests.
func AtEpoch(epoch CryptoHash) Reference {
	return Reference{kind: atEpoch, hash: epoch}
}

// IsPinned returns true if the reference points to a specific block, so that
// the answer never changes.
func (r Reference) IsPinned() bool {
	return r.kind == atHeight || r.kind == atHash
}

// Params returns the parameters of a request that select the state.
func (r Reference) Params() map[string]interface{} {
	switch r.kind {
	case final:
		return map[string]interface{}{"finality": "final"}
	case atHeight:
		return map[string]interface{}{"block_id": r.height}
	case atHash:
		return map[string]interface{}{"block_id": r.hash.String()}
	case atEpoch:
		return map[string]interface{}{"epoch_id": r.hash.String()}
	default:
		return map[string]interface{}{"finality": "optimistic"}
	}
}

// String implements fmt.Stringer.
func (r Reference) String() string {
	switch r.kind {
	case final:
		return "final"
	case atHeight:
		return fmt.Sprintf("height(%d)", r.height)
	case atHash:
		return fmt.Sprintf("hash(%v)", r.hash)
	case atEpoch:
		return fmt.Sprintf("epoch(%v)", r.hash)
	default:
		return "optimistic"
	}
}

// Data is a decoded result with the block at which it was observed.
type Data[T any] struct {
	Value       T
	BlockHeight uint64
	BlockHash   CryptoHash
}
