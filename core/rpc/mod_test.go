package rpc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestRequest_IsPinned(t *testing.T) {
	req := Request{Method: MethodQuery, Params: map[string]interface{}{"block_id": 5}}
	require.True(t, req.IsPinned())

	req = Request{Method: MethodBlock, Params: map[string]interface{}{"finality": "final"}}
	require.False(t, req.IsPinned())

	req = Request{Method: MethodSendTx, Params: map[string]interface{}{"block_id": 5}}
	require.False(t, req.IsPinned())
}

func TestError_Error(t *testing.T) {
	err := &Error{Name: "HANDLER_ERROR", Cause: ErrorCause{Name: "UNKNOWN_ACCOUNT"}, Message: "Server error"}
	require.EqualError(t, err, "rpc error HANDLER_ERROR/UNKNOWN_ACCOUNT: Server error")
	require.Equal(t, "UNKNOWN_ACCOUNT", err.CauseName())

	err = &Error{Name: "QUERY_ERROR", Message: "wasm execution failed"}
	require.EqualError(t, err, "rpc error QUERY_ERROR: wasm execution failed")
	require.Equal(t, "QUERY_ERROR", err.CauseName())
}

func TestTransportError_Error(t *testing.T) {
	err := &TransportError{Endpoint: "http://localhost", Err: xerrors.New("refused")}
	require.EqualError(t, err, "transport to http://localhost failed: refused")
	require.Equal(t, "refused", xerrors.Unwrap(err).Error())

	err = &TransportError{Endpoint: "http://localhost", StatusCode: 502, Err: xerrors.New("bad gateway")}
	require.EqualError(t, err, "transport to http://localhost failed with status 502: bad gateway")
}

func TestIsTransient(t *testing.T) {
	transient := []error{
		&TransportError{},
		&TransportError{StatusCode: 500},
		&TransportError{StatusCode: 503},
		&TransportError{StatusCode: 408},
		&TransportError{StatusCode: 429},
		&Error{Name: "HANDLER_ERROR", Cause: ErrorCause{Name: "TIMEOUT_ERROR"}},
		&Error{Name: "INTERNAL_ERROR", Cause: ErrorCause{Name: "INTERNAL_ERROR"}},
		&Error{Name: "INTERNAL_ERROR"},
		xerrors.Errorf("wrapped: %w", &TransportError{}),
	}

	for _, err := range transient {
		require.True(t, IsTransient(err), err.Error())
	}

	terminal := []error{
		&TransportError{StatusCode: 400},
		&TransportError{StatusCode: 404},
		&Error{Name: "HANDLER_ERROR", Cause: ErrorCause{Name: "INVALID_TRANSACTION"}},
		&Error{Name: "REQUEST_VALIDATION_ERROR"},
		xerrors.New("other"),
	}

	for _, err := range terminal {
		require.False(t, IsTransient(err), err.Error())
	}

	require.False(t, IsTransient(nil))
}
