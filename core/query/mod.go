// Package query defines the framework to read the state of a network. A query
// creates the request, a handler decodes the response into a typed value and
// a builder ties both to a reference. Several builders can be joined into one
// result with a multi-builder.
package query

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

var (
	// ErrCreation is returned when the request of a query cannot be created.
	ErrCreation = xerrors.New("couldn't create request")
	// ErrUnexpectedResponse is returned when the response has not the kind the
	// handler expects.
	ErrUnexpectedResponse = xerrors.New("unexpected response")
	// ErrDeserialize is returned when the payload of a response is invalid.
	ErrDeserialize = xerrors.New("couldn't deserialize response")
	// ErrTransport is returned when the request failed to reach the node or
	// the node reported an error.
	ErrTransport = xerrors.New("transport failed")
	// ErrNoResponse is returned when the transport returns neither a response
	// nor an error.
	ErrNoResponse = xerrors.New("no response")
)

var promRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "nearapi_query_requests_total",
	Help: "total number of query requests by kind and status",
}, []string{"kind", "status"})

func init() {
	nearapi.PromCollectors = append(nearapi.PromCollectors, promRequests)
}

// Error is an error of the query framework. It matches its kind with
// errors.Is and unwraps to the cause.
type Error struct {
	kind error
	err  error
}

func newError(kind error, err error) *Error {
	return &Error{kind: kind, err: err}
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.kind, e.err)
}

// Is returns true when the target is the kind of the error.
func (e *Error) Is(target error) bool {
	return e.kind == target
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.err
}

// Query is the primitive of a read request.
type Query interface {
	// CreateRequest returns the request reading at the reference on the
	// network.
	CreateRequest(net *network.Config, ref types.Reference) (rpc.Request, error)
}

// Handler decodes a response into a typed value.
type Handler[T any] interface {
	Handle(resp *rpc.Response) (T, error)
}

// HandlerFunc is a function that implements a handler.
//
// - implements query.Handler
type HandlerFunc[T any] func(resp *rpc.Response) (T, error)

// Handle implements query.Handler.
func (fn HandlerFunc[T]) Handle(resp *rpc.Response) (T, error) {
	return fn(resp)
}
