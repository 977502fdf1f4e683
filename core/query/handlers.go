package query

import (
	"encoding/json"

	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

// AccountViewHandler returns the handler of the view of an account.
func AccountViewHandler() Handler[types.Data[types.AccountView]] {
	return HandlerFunc[types.Data[types.AccountView]](func(resp *rpc.Response) (types.Data[types.AccountView], error) {
		return decodeData[types.AccountView](resp, rpc.KindViewAccount)
	})
}

// AccessKeyHandler returns the handler of the view of an access key.
func AccessKeyHandler() Handler[types.Data[types.AccessKeyView]] {
	return HandlerFunc[types.Data[types.AccessKeyView]](func(resp *rpc.Response) (types.Data[types.AccessKeyView], error) {
		return decodeData[types.AccessKeyView](resp, rpc.KindViewAccessKey)
	})
}

// AccessKeyListHandler returns the handler of the list of the access keys of
// an account.
func AccessKeyListHandler() Handler[types.AccessKeyList] {
	return HandlerFunc[types.AccessKeyList](func(resp *rpc.Response) (types.AccessKeyList, error) {
		data, err := decodeData[types.AccessKeyList](resp, rpc.KindViewAccessKeyList)
		return data.Value, err
	})
}

// CallResultRawHandler returns the handler of a read-only call that keeps the
// raw result and the logs.
func CallResultRawHandler() Handler[types.Data[types.CallResult]] {
	return HandlerFunc[types.Data[types.CallResult]](func(resp *rpc.Response) (types.Data[types.CallResult], error) {
		return decodeData[types.CallResult](resp, rpc.KindCallFunction)
	})
}

// CallResultHandler returns the handler of a read-only call that decodes the
// JSON result into the type.
func CallResultHandler[T any]() Handler[types.Data[T]] {
	return HandlerFunc[types.Data[T]](func(resp *rpc.Response) (types.Data[T], error) {
		raw, err := decodeData[types.CallResult](resp, rpc.KindCallFunction)
		if err != nil {
			return types.Data[T]{}, err
		}

		out := types.Data[T]{
			BlockHeight: raw.BlockHeight,
			BlockHash:   raw.BlockHash,
		}

		err = raw.Value.Decode(&out.Value)
		if err != nil {
			return types.Data[T]{}, newError(ErrDeserialize, err)
		}

		return out, nil
	})
}

// ViewCodeHandler returns the handler of the code of a contract.
func ViewCodeHandler() Handler[types.Data[types.ContractCodeView]] {
	return HandlerFunc[types.Data[types.ContractCodeView]](func(resp *rpc.Response) (types.Data[types.ContractCodeView], error) {
		return decodeData[types.ContractCodeView](resp, rpc.KindViewCode)
	})
}

// ViewStateHandler returns the handler of the storage of a contract.
func ViewStateHandler() Handler[types.Data[types.ViewStateResult]] {
	return HandlerFunc[types.Data[types.ViewStateResult]](func(resp *rpc.Response) (types.Data[types.ViewStateResult], error) {
		return decodeData[types.ViewStateResult](resp, rpc.KindViewState)
	})
}

// BlockHandler returns the handler of a block.
func BlockHandler() Handler[types.BlockView] {
	return HandlerFunc[types.BlockView](func(resp *rpc.Response) (types.BlockView, error) {
		data, err := decodeData[types.BlockView](resp, rpc.KindBlock)
		return data.Value, err
	})
}

// Postprocess returns a handler that applies the function to the result of
// the inner handler.
func Postprocess[T, U any](inner Handler[T], fn func(T) U) Handler[U] {
	return HandlerFunc[U](func(resp *rpc.Response) (U, error) {
		value, err := inner.Handle(resp)
		if err != nil {
			var zero U
			return zero, err
		}

		return fn(value), nil
	})
}

// Value returns the value of the data. It is meant to be used with
// Postprocess to drop the block information.
func Value[T any](data types.Data[T]) T {
	return data.Value
}

func decodeData[T any](resp *rpc.Response, kind rpc.Kind) (types.Data[T], error) {
	if resp.Kind != kind {
		return types.Data[T]{}, newError(ErrUnexpectedResponse,
			xerrors.Errorf("expected '%s', got '%s'", kind, resp.Kind))
	}

	out := types.Data[T]{
		BlockHeight: resp.BlockHeight,
		BlockHash:   resp.BlockHash,
	}

	err := json.Unmarshal(resp.Payload, &out.Value)
	if err != nil {
		return types.Data[T]{}, newError(ErrDeserialize, err)
	}

	return out, nil
}
