package fake

import (
	"context"
	"encoding/json"
	"sync"

	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

// Reply is the answer of the fake transport to a request.
type Reply struct {
	Response *rpc.Response
	Err      error
}

// Transport is a fake implementation of rpc.Transport. It answers with the
// replies registered for the kind of the request, or with the handler.
//
// - implements rpc.Transport
type Transport struct {
	sync.Mutex
	Calls   *Call
	replies map[rpc.Kind][]Reply
	handler func(rpc.Request) (*rpc.Response, error)
}

// NewTransport returns a fake transport that uses the handler to answer.
func NewTransport(handler func(rpc.Request) (*rpc.Response, error)) *Transport {
	return &Transport{
		Calls:   NewCall(),
		replies: make(map[rpc.Kind][]Reply),
		handler: handler,
	}
}

// NewBadTransport returns a fake transport that always fails.
func NewBadTransport() *Transport {
	return NewTransport(func(rpc.Request) (*rpc.Response, error) {
		return nil, fakeErr
	})
}

// Reply registers replies to the kind of request. The replies are used in
// order, and the last one is used for the remaining calls.
func (t *Transport) Reply(kind rpc.Kind, replies ...Reply) *Transport {
	t.Lock()
	t.replies[kind] = append(t.replies[kind], replies...)
	t.Unlock()

	return t
}

// Call implements rpc.Transport.
func (t *Transport) Call(ctx context.Context, req rpc.Request) (*rpc.Response, error) {
	t.Calls.Add(req)

	t.Lock()
	replies := t.replies[req.Kind]
	if len(replies) > 0 {
		reply := replies[0]
		if len(replies) > 1 {
			t.replies[req.Kind] = replies[1:]
		}
		t.Unlock()

		return reply.Response, reply.Err
	}
	t.Unlock()

	if t.handler != nil {
		return t.handler(req)
	}

	return nil, nil
}

// Requests returns the requests received by the transport.
func (t *Transport) Requests() []rpc.Request {
	requests := make([]rpc.Request, t.Calls.Len())
	for i := range requests {
		requests[i] = t.Calls.Get(i, 0).(rpc.Request)
	}

	return requests
}

// NewResponse returns a response with the JSON encoding of the value as the
// payload. It panics if the value cannot be encoded.
func NewResponse(kind rpc.Kind, value interface{}) *rpc.Response {
	data, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}

	return &rpc.Response{Kind: kind, Payload: data}
}

// Ok returns a reply with the response of the value.
func Ok(kind rpc.Kind, value interface{}) Reply {
	return Reply{Response: NewResponse(kind, value)}
}

// Fail returns a reply with the error.
func Fail(err error) Reply {
	return Reply{Err: err}
}

// NewCallResult returns the response of a read-only call that returns the JSON
// encoding of the value. It panics if the value cannot be encoded.
func NewCallResult(value interface{}) *rpc.Response {
	data, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}

	return NewResponse(rpc.KindCallFunction, types.CallResult{Result: data})
}

// NewContractTransport returns a fake transport that answers to the read-only
// calls with the result registered for the method. A value of type error is
// returned as the error of the call. Other requests are answered with the
// registered replies.
func NewContractTransport(results map[string]interface{}) *Transport {
	return NewTransport(func(req rpc.Request) (*rpc.Response, error) {
		if req.Kind != rpc.KindCallFunction {
			return nil, xerrors.Errorf("unexpected request '%s'", req.Kind)
		}

		method, _ := req.Params["method_name"].(string)

		res, found := results[method]
		if !found {
			return nil, &rpc.Error{
				Name:    "HANDLER_ERROR",
				Cause:   rpc.ErrorCause{Name: "CONTRACT_EXECUTION_ERROR"},
				Message: "MethodNotFound: " + method,
			}
		}

		err, ok := res.(error)
		if ok {
			return nil, err
		}

		return NewCallResult(res), nil
	})
}
