// Package rpc defines the contract of the transport to a node. The transport
// is method specific: it only knows the requests the client sends and the
// kinds of response they produce.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

// Method is the name of a method of the node.
type Method string

const (
	// MethodQuery reads the state of an account or a contract.
	MethodQuery Method = "query"
	// MethodBlock reads a block.
	MethodBlock Method = "block"
	// MethodSendTx submits a signed transaction.
	MethodSendTx Method = "send_tx"
	// MethodTx reads the status of a transaction.
	MethodTx Method = "tx"
)

// Kind is the kind of payload a response carries.
type Kind string

const (
	// KindViewAccount is the kind of an account view.
	KindViewAccount Kind = "view_account"
	// KindViewAccessKey is the kind of an access key view.
	KindViewAccessKey Kind = "view_access_key"
	// KindViewAccessKeyList is the kind of a list of access keys.
	KindViewAccessKeyList Kind = "view_access_key_list"
	// KindCallFunction is the kind of the result of a read-only call.
	KindCallFunction Kind = "call_function"
	// KindViewCode is the kind of a contract code view.
	KindViewCode Kind = "view_code"
	// KindViewState is the kind of a contract state view.
	KindViewState Kind = "view_state"
	// KindBlock is the kind of a block.
	KindBlock Kind = "block"
	// KindTransaction is the kind of an execution outcome.
	KindTransaction Kind = "transaction"
)

// Request is a request to a node.
type Request struct {
	Method Method
	// Kind is the kind of response the request expects.
	Kind   Kind
	Params map[string]interface{}
}

// IsPinned returns true when the request reads a specific block, so that the
// response never changes.
func (r Request) IsPinned() bool {
	if r.Method != MethodQuery && r.Method != MethodBlock {
		return false
	}

	_, found := r.Params["block_id"]

	return found
}

// Response is the response of a node.
type Response struct {
	Kind        Kind
	Payload     json.RawMessage
	BlockHeight uint64
	BlockHash   types.CryptoHash
}

// Transport is the interface to send requests to a node.
type Transport interface {
	// Call sends the request and returns the response, or an error which is
	// either an *Error reported by the node or a *TransportError.
	Call(ctx context.Context, req Request) (*Response, error)
}

// ErrorCause is the reason of an error reported by the node.
type ErrorCause struct {
	Name string          `json:"name"`
	Info json.RawMessage `json:"info,omitempty"`
}

// Error is an error reported by the node.
type Error struct {
	Name    string          `json:"name"`
	Cause   ErrorCause      `json:"cause"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements error.
func (e *Error) Error() string {
	if e.Cause.Name != "" {
		return fmt.Sprintf("rpc error %s/%s: %s", e.Name, e.Cause.Name, e.Message)
	}

	return fmt.Sprintf("rpc error %s: %s", e.Name, e.Message)
}

// CauseName returns the name of the cause, or the name of the error if it has
// no cause.
func (e *Error) CauseName() string {
	if e.Cause.Name != "" {
		return e.Cause.Name
	}

	return e.Name
}

// TransportError is an error that happened while reaching the node.
type TransportError struct {
	Endpoint string
	// StatusCode is zero when no response has been received.
	StatusCode int
	Err        error
}

// Error implements error.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport to %s failed with status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("transport to %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransient returns true if the error might not happen again. Transport
// errors without status, server errors, timeouts and rate limiting are
// transient, as well as the timeout and the internal errors of the node.
func IsTransient(err error) bool {
	var terr *TransportError
	if xerrors.As(err, &terr) {
		switch {
		case terr.StatusCode == 0:
			return true
		case terr.StatusCode >= 500:
			return true
		case terr.StatusCode == http.StatusRequestTimeout:
			return true
		case terr.StatusCode == http.StatusTooManyRequests:
			return true
		default:
			return false
		}
	}

	var rerr *Error
	if xerrors.As(err, &rerr) {
		switch rerr.CauseName() {
		case "TIMEOUT_ERROR", "INTERNAL_ERROR":
			return true
		}

		return rerr.Name == "INTERNAL_ERROR"
	}

	return false
}
