// Package contract implements the helpers to read from and call the methods of
// a contract.
package contract

import (
	"encoding/json"

	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/query"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

// DefaultGas is the gas attached to a call when none is set.
const DefaultGas = 100 * types.TeraGas

// ErrIncorrectArguments is returned when the arguments of a call cannot be
// encoded in JSON.
var ErrIncorrectArguments = xerrors.New("incorrect arguments")

// Contract is a contract deployed on an account.
type Contract struct {
	ID types.AccountID
}

// At returns the contract deployed on the account.
func At(id types.AccountID) Contract {
	return Contract{ID: id}
}

// CallFunction returns the call of the method with the arguments encoded in
// JSON. Nil arguments are sent as empty arguments.
func (c Contract) CallFunction(method string, args interface{}) (FunctionCall, error) {
	var data []byte

	if args != nil {
		var err error
		data, err = json.Marshal(args)
		if err != nil {
			return FunctionCall{}, xerrors.Errorf("%v: %w", err, ErrIncorrectArguments)
		}
	}

	return c.CallFunctionRaw(method, data), nil
}

// CallFunctionRaw returns the call of the method with the arguments as they
// are.
func (c Contract) CallFunctionRaw(method string, args []byte) FunctionCall {
	return FunctionCall{
		contract: c.ID,
		method:   method,
		args:     append([]byte{}, args...),
	}
}

// ViewCode returns the builder of the code deployed on the account.
func (c Contract) ViewCode() *query.Builder[types.Data[types.ContractCodeView]] {
	return query.NewBuilder(query.ViewCode{AccountID: c.ID}, types.Optimistic(), query.ViewCodeHandler())
}

// ViewState returns the builder of the storage of the contract under the
// prefix.
func (c Contract) ViewState(prefix []byte) *query.Builder[types.Data[types.ViewStateResult]] {
	q := query.ViewState{AccountID: c.ID, Prefix: prefix}

	return query.NewBuilder(q, types.Optimistic(), query.ViewStateHandler())
}

// Deploy returns the transaction of the account deploying the code on itself.
func (c Contract) Deploy(code []byte) (txn.PrepopulatedTransaction, error) {
	return txn.Construct(c.ID, c.ID).AddAction(action.NewDeployContract(code)).Build()
}

// FunctionCall is the call of a method of a contract.
type FunctionCall struct {
	contract types.AccountID
	method   string
	args     []byte
}

// Query returns the query of the call.
func (f FunctionCall) Query() query.CallFunction {
	return query.CallFunction{
		ContractID: f.contract,
		MethodName: f.method,
		Args:       append([]byte{}, f.args...),
	}
}

// ReadOnly returns the builder of the call as a view that returns the raw
// result.
func (f FunctionCall) ReadOnly() *query.Builder[types.Data[types.CallResult]] {
	return query.NewBuilder(f.Query(), types.Optimistic(), query.CallResultRawHandler())
}

// Transaction returns the call as a transaction with the default gas and no
// deposit.
func (f FunctionCall) Transaction() *CallTransaction {
	return &CallTransaction{
		call: f,
		gas:  DefaultGas,
	}
}

// ReadOnly returns the builder of the call as a view that decodes the JSON
// result into the type.
func ReadOnly[T any](f FunctionCall) *query.Builder[types.Data[T]] {
	return query.NewBuilder(f.Query(), types.Optimistic(), query.CallResultHandler[T]())
}

// CallTransaction is the builder of a transaction calling a method.
type CallTransaction struct {
	call    FunctionCall
	gas     types.Gas
	deposit types.NearToken
}

// Gas sets the gas attached to the call.
func (t *CallTransaction) Gas(gas types.Gas) *CallTransaction {
	t.gas = gas
	return t
}

// Deposit sets the amount attached to the call.
func (t *CallTransaction) Deposit(amount types.NearToken) *CallTransaction {
	t.deposit = amount
	return t
}

// Action returns the action of the call.
func (t *CallTransaction) Action() action.FunctionCall {
	return action.NewFunctionCall(t.call.method, t.call.args, t.gas, t.deposit)
}

// WithSigner returns the transaction of the account calling the contract.
func (t *CallTransaction) WithSigner(signer types.AccountID) (txn.PrepopulatedTransaction, error) {
	if t.call.method == "" {
		return txn.PrepopulatedTransaction{}, xerrors.New("missing method name")
	}

	return txn.Construct(signer, t.call.contract).AddAction(t.Action()).Build()
}
