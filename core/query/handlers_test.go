package query

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/internal/testing/fake"
	"golang.org/x/xerrors"
)

func TestAccountViewHandler_Handle(t *testing.T) {
	resp := fake.NewResponse(rpc.KindViewAccount, types.AccountView{
		Amount:       types.NearFromNear(2),
		StorageUsage: 182,
	})
	resp.BlockHeight = 10
	resp.BlockHash = types.CryptoHash{1}

	data, err := AccountViewHandler().Handle(resp)
	require.NoError(t, err)
	require.Equal(t, uint64(10), data.BlockHeight)
	require.Equal(t, types.CryptoHash{1}, data.BlockHash)
	require.Equal(t, types.NearFromNear(2), data.Value.Amount)
	require.Equal(t, uint64(182), data.Value.StorageUsage)

	_, err = AccountViewHandler().Handle(fake.NewResponse(rpc.KindBlock, nil))
	require.True(t, xerrors.Is(err, ErrUnexpectedResponse))
	require.EqualError(t, err, "unexpected response: expected 'view_account', got 'block'")

	_, err = AccountViewHandler().Handle(&rpc.Response{Kind: rpc.KindViewAccount, Payload: []byte("[")})
	require.True(t, xerrors.Is(err, ErrDeserialize))
}

func TestAccessKeyHandler_Handle(t *testing.T) {
	resp := &rpc.Response{
		Kind:    rpc.KindViewAccessKey,
		Payload: []byte(`{"nonce":41,"permission":"FullAccess"}`),
	}

	data, err := AccessKeyHandler().Handle(resp)
	require.NoError(t, err)
	require.Equal(t, uint64(41), data.Value.Nonce)
	require.True(t, data.Value.Permission.IsFullAccess())
}

func TestAccessKeyListHandler_Handle(t *testing.T) {
	resp := &rpc.Response{
		Kind:    rpc.KindViewAccessKeyList,
		Payload: []byte(`{"keys":[]}`),
	}

	list, err := AccessKeyListHandler().Handle(resp)
	require.NoError(t, err)
	require.Empty(t, list.Keys)

	_, err = AccessKeyListHandler().Handle(fake.NewResponse(rpc.KindViewAccount, nil))
	require.True(t, xerrors.Is(err, ErrUnexpectedResponse))
}

func TestCallResultHandler_Handle(t *testing.T) {
	resp := fake.NewResponse(rpc.KindCallFunction, types.CallResult{
		Result: types.Bytes(`"1000"`),
		Logs:   []string{"log"},
	})
	resp.BlockHeight = 3

	data, err := CallResultHandler[string]().Handle(resp)
	require.NoError(t, err)
	require.Equal(t, "1000", data.Value)
	require.Equal(t, uint64(3), data.BlockHeight)

	raw, err := CallResultRawHandler().Handle(resp)
	require.NoError(t, err)
	require.Equal(t, []string{"log"}, raw.Value.Logs)

	_, err = CallResultHandler[int]().Handle(resp)
	require.True(t, xerrors.Is(err, ErrDeserialize))

	_, err = CallResultHandler[int]().Handle(fake.NewResponse(rpc.KindViewCode, nil))
	require.True(t, xerrors.Is(err, ErrUnexpectedResponse))
}

func TestViewCodeHandler_Handle(t *testing.T) {
	resp := &rpc.Response{
		Kind:    rpc.KindViewCode,
		Payload: []byte(`{"code_base64":"AGFzbQ==","hash":"11111111111111111111111111111111"}`),
	}

	data, err := ViewCodeHandler().Handle(resp)
	require.NoError(t, err)
	require.Equal(t, types.Base64("\x00asm"), data.Value.Code)
}

func TestViewStateHandler_Handle(t *testing.T) {
	resp := &rpc.Response{
		Kind:    rpc.KindViewState,
		Payload: []byte(`{"values":[{"key":"a2V5","value":"dmFsdWU="}]}`),
	}

	data, err := ViewStateHandler().Handle(resp)
	require.NoError(t, err)
	require.Len(t, data.Value.Values, 1)
	require.Equal(t, types.Base64("key"), data.Value.Values[0].Key)
	require.Equal(t, types.Base64("value"), data.Value.Values[0].Value)
}

func TestBlockHandler_Handle(t *testing.T) {
	resp := &rpc.Response{
		Kind:    rpc.KindBlock,
		Payload: []byte(`{"author":"node.near","header":{"height":7},"chunks":[]}`),
	}

	block, err := BlockHandler().Handle(resp)
	require.NoError(t, err)
	require.Equal(t, uint64(7), block.Header.Height)
	require.Equal(t, types.AccountID("node.near"), block.Author)
}

func TestPostprocess_Handle(t *testing.T) {
	handler := Postprocess(AccountViewHandler(), func(data types.Data[types.AccountView]) string {
		return data.Value.Amount.String()
	})

	out, err := handler.Handle(fake.NewResponse(rpc.KindViewAccount, types.AccountView{
		Amount: types.NearFromMilli(1500),
	}))
	require.NoError(t, err)
	require.Equal(t, "1.5 NEAR", out)

	_, err = handler.Handle(fake.NewResponse(rpc.KindBlock, nil))
	require.True(t, xerrors.Is(err, ErrUnexpectedResponse))

	value := Postprocess(AccountViewHandler(), Value[types.AccountView])
	view, err := value.Handle(fake.NewResponse(rpc.KindViewAccount, types.AccountView{StorageUsage: 1}))
	require.NoError(t, err)
	require.Equal(t, uint64(1), view.StorageUsage)
}
