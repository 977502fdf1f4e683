package query

import (
	"encoding/base64"

	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

// ViewAccount is the query of the state of an account.
//
// - implements query.Query
type ViewAccount struct {
	AccountID types.AccountID
}

// CreateRequest implements query.Query.
func (q ViewAccount) CreateRequest(_ *network.Config, ref types.Reference) (rpc.Request, error) {
	return newQueryRequest(rpc.KindViewAccount, q.AccountID, ref, nil)
}

// ViewAccessKey is the query of one access key of an account.
//
// - implements query.Query
type ViewAccessKey struct {
	AccountID types.AccountID
	PublicKey crypto.PublicKey
}

// CreateRequest implements query.Query.
func (q ViewAccessKey) CreateRequest(_ *network.Config, ref types.Reference) (rpc.Request, error) {
	if q.PublicKey == nil {
		return rpc.Request{}, newError(ErrCreation, xerrors.New("missing public key"))
	}

	params := map[string]interface{}{"public_key": q.PublicKey.String()}

	return newQueryRequest(rpc.KindViewAccessKey, q.AccountID, ref, params)
}

// ViewAccessKeyList is the query of all the access keys of an account.
//
// - implements query.Query
type ViewAccessKeyList struct {
	AccountID types.AccountID
}

// CreateRequest implements query.Query.
func (q ViewAccessKeyList) CreateRequest(_ *network.Config, ref types.Reference) (rpc.Request, error) {
	return newQueryRequest(rpc.KindViewAccessKeyList, q.AccountID, ref, nil)
}

// CallFunction is the query of a read-only call on a contract.
//
// - implements query.Query
type CallFunction struct {
	ContractID types.AccountID
	MethodName string
	Args       []byte
}

// CreateRequest implements query.Query.
func (q CallFunction) CreateRequest(_ *network.Config, ref types.Reference) (rpc.Request, error) {
	return newCallRequest(q.ContractID, q.MethodName, q.Args, ref)
}

// ViewCode is the query of the code of a contract.
//
// - implements query.Query
type ViewCode struct {
	AccountID types.AccountID
}

// CreateRequest implements query.Query.
func (q ViewCode) CreateRequest(_ *network.Config, ref types.Reference) (rpc.Request, error) {
	return newQueryRequest(rpc.KindViewCode, q.AccountID, ref, nil)
}

// ViewState is the query of the storage of a contract under a prefix.
//
// - implements query.Query
type ViewState struct {
	AccountID    types.AccountID
	Prefix       []byte
	IncludeProof bool
}

// CreateRequest implements query.Query.
func (q ViewState) CreateRequest(_ *network.Config, ref types.Reference) (rpc.Request, error) {
	params := map[string]interface{}{
		"prefix_base64": base64.StdEncoding.EncodeToString(q.Prefix),
		"include_proof": q.IncludeProof,
	}

	return newQueryRequest(rpc.KindViewState, q.AccountID, ref, params)
}

// Block is the query of a block.
//
// - implements query.Query
type Block struct{}

// CreateRequest implements query.Query.
func (Block) CreateRequest(_ *network.Config, ref types.Reference) (rpc.Request, error) {
	err := checkReference(ref)
	if err != nil {
		return rpc.Request{}, err
	}

	return rpc.Request{
		Method: rpc.MethodBlock,
		Kind:   rpc.KindBlock,
		Params: ref.Params(),
	}, nil
}

// FactoryCall is a read-only call on a contract whose account is defined by
// the network configuration.
//
// - implements query.Query
type FactoryCall struct {
	// Name is used in the error when the network does not define the account.
	Name       string
	Factory    func(net *network.Config) *types.AccountID
	MethodName string
	Args       []byte
}

// StakingPoolsFactory returns the account of the staking pools factory.
func StakingPoolsFactory(net *network.Config) *types.AccountID {
	return net.StakingPoolsFactoryAccountID
}

// Linkdrop returns the account of the linkdrop contract.
func Linkdrop(net *network.Config) *types.AccountID {
	return net.LinkdropAccountID
}

// CreateRequest implements query.Query. It fails if the network does not
// define the account of the factory.
func (q FactoryCall) CreateRequest(net *network.Config, ref types.Reference) (rpc.Request, error) {
	if net == nil || q.Factory == nil {
		return rpc.Request{}, newError(ErrCreation, xerrors.New("missing network"))
	}

	account := q.Factory(net)
	if account == nil {
		return rpc.Request{}, newError(ErrCreation,
			xerrors.Errorf("network '%s' has no %s account", net.Name, q.Name))
	}

	return newCallRequest(*account, q.MethodName, q.Args, ref)
}

func newCallRequest(contract types.AccountID, method string, args []byte,
	ref types.Reference) (rpc.Request, error) {

	if method == "" {
		return rpc.Request{}, newError(ErrCreation, xerrors.New("missing method name"))
	}

	if args == nil {
		args = []byte{}
	}

	params := map[string]interface{}{
		"method_name": method,
		"args_base64": base64.StdEncoding.EncodeToString(args),
	}

	return newQueryRequest(rpc.KindCallFunction, contract, ref, params)
}

func newQueryRequest(kind rpc.Kind, account types.AccountID, ref types.Reference,
	extra map[string]interface{}) (rpc.Request, error) {

	err := account.Validate()
	if err != nil {
		return rpc.Request{}, newError(ErrCreation, err)
	}

	err = checkReference(ref)
	if err != nil {
		return rpc.Request{}, err
	}

	params := ref.Params()
	params["request_type"] = string(kind)
	params["account_id"] = account.String()

	for key, value := range extra {
		params[key] = value
	}

	return rpc.Request{
		Method: rpc.MethodQuery,
		Kind:   kind,
		Params: params,
	}, nil
}

func checkReference(ref types.Reference) error {
	if _, found := ref.Params()["epoch_id"]; found {
		return newError(ErrCreation, xerrors.Errorf("unsupported reference %v", ref))
	}

	return nil
}
