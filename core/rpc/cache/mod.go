// Package cache implements a transport that remembers the responses of the
// requests pinned to a block. Such a response never changes, so it is served
// from the database on the next identical request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/store/kv"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

var bucketName = []byte("nearapi-rpc-responses")

var promLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "nearapi_rpc_cache_lookups_total",
	Help: "total number of lookups of pinned responses by result",
}, []string{"result"})

func init() {
	nearapi.PromCollectors = append(nearapi.PromCollectors, promLookups)
}

// entry is the stored form of a response.
type entry struct {
	Kind        rpc.Kind         `json:"kind"`
	Payload     json.RawMessage  `json:"payload"`
	BlockHeight uint64           `json:"block_height"`
	BlockHash   types.CryptoHash `json:"block_hash"`
}

// Transport is a decorator of a transport that stores the pinned responses.
//
// - implements rpc.Transport
type Transport struct {
	inner  rpc.Transport
	db     kv.DB
	logger zerolog.Logger
}

// NewTransport returns a transport that stores the pinned responses of the
// inner transport in the database.
func NewTransport(inner rpc.Transport, db kv.DB) *Transport {
	return &Transport{
		inner:  inner,
		db:     db,
		logger: nearapi.Logger.With().Str("component", "rpc-cache").Logger(),
	}
}

// Call implements rpc.Transport. A pinned request is looked up in the database
// first. Other requests are always forwarded.
func (t *Transport) Call(ctx context.Context, req rpc.Request) (*rpc.Response, error) {
	if !req.IsPinned() {
		return t.inner.Call(ctx, req)
	}

	key, err := makeKey(req)
	if err != nil {
		return nil, xerrors.Errorf("couldn't make key: %v", err)
	}

	resp, err := t.lookup(key)
	if err != nil {
		// A broken entry is fetched again.
		t.logger.Warn().Err(err).Msg("lookup failed")
	}

	if resp != nil {
		promLookups.WithLabelValues("hit").Inc()
		return resp, nil
	}

	promLookups.WithLabelValues("miss").Inc()

	resp, err = t.inner.Call(ctx, req)
	if err != nil {
		return nil, err
	}

	err = t.store(key, resp)
	if err != nil {
		t.logger.Warn().Err(err).Msg("store failed")
	}

	return resp, nil
}

// Count returns the number of responses stored for the method.
func (t *Transport) Count(method rpc.Method) (int, error) {
	count := 0

	err := t.db.View(bucketName, func(b kv.Bucket) error {
		return b.Scan([]byte(method+"/"), func(k, v []byte) error {
			count++
			return nil
		})
	})

	if xerrors.Is(err, kv.ErrBucketNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, xerrors.Errorf("couldn't scan: %v", err)
	}

	return count, nil
}

// Purge deletes all the stored responses.
func (t *Transport) Purge() error {
	err := t.db.Drop(bucketName)
	if err != nil {
		return xerrors.Errorf("couldn't purge: %v", err)
	}

	return nil
}

func (t *Transport) lookup(key []byte) (*rpc.Response, error) {
	var resp *rpc.Response

	err := t.db.View(bucketName, func(b kv.Bucket) error {
		data := b.Get(key)
		if data == nil {
			return nil
		}

		var e entry
		err := json.Unmarshal(data, &e)
		if err != nil {
			return xerrors.Errorf("malformed entry: %v", err)
		}

		resp = &rpc.Response{
			Kind:        e.Kind,
			Payload:     e.Payload,
			BlockHeight: e.BlockHeight,
			BlockHash:   e.BlockHash,
		}

		return nil
	})

	if xerrors.Is(err, kv.ErrBucketNotFound) {
		return nil, nil
	}

	return resp, err
}

func (t *Transport) store(key []byte, resp *rpc.Response) error {
	data, err := json.Marshal(entry{
		Kind:        resp.Kind,
		Payload:     resp.Payload,
		BlockHeight: resp.BlockHeight,
		BlockHash:   resp.BlockHash,
	})
	if err != nil {
		return xerrors.Errorf("couldn't marshal entry: %v", err)
	}

	return t.db.Update(bucketName, func(b kv.Bucket) error {
		return b.Set(key, data)
	})
}

// makeKey returns the method followed by the digest of the parameters. The
// JSON encoding of a map sorts the keys so equal parameters give equal keys.
func makeKey(req rpc.Request) ([]byte, error) {
	params, err := json.Marshal(req.Params)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(params)

	return []byte(string(req.Method) + "/" + hex.EncodeToString(digest[:])), nil
}
