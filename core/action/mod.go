// Package action defines the operations a transaction contains. An action is
// a closed set of variants: the interface is sealed and only the types of the
// package implement it.
//
// Actions are immutable values. The constructors copy the slices they receive
// and the getters return copies.
package action

import (
	"fmt"

	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

// ErrDelegateActionNotSupported is returned when a delegate action is used
// where only direct actions are allowed.
var ErrDelegateActionNotSupported = xerrors.New("delegate action is not supported")

// Action is one operation of a transaction.
type Action interface {
	fmt.Stringer

	sealed()
}

// CreateAccount creates the receiver account.
type CreateAccount struct{}

func (CreateAccount) sealed() {}

// String implements fmt.Stringer.
func (CreateAccount) String() string {
	return "CreateAccount"
}

// DeployContract deploys the code on the receiver account.
type DeployContract struct {
	code []byte
}

// NewDeployContract returns the action deploying the code.
func NewDeployContract(code []byte) DeployContract {
	return DeployContract{code: append([]byte{}, code...)}
}

// Code returns the code to deploy.
func (a DeployContract) Code() []byte {
	return append([]byte{}, a.code...)
}

func (DeployContract) sealed() {}

// String implements fmt.Stringer.
func (a DeployContract) String() string {
	return fmt.Sprintf("DeployContract{%d bytes}", len(a.code))
}

// FunctionCall calls a method of the receiver contract.
type FunctionCall struct {
	MethodName string
	args       []byte
	Gas        types.Gas
	Deposit    types.NearToken
}

// NewFunctionCall returns the action calling the method with the arguments.
func NewFunctionCall(method string, args []byte, gas types.Gas, deposit types.NearToken) FunctionCall {
	return FunctionCall{
		MethodName: method,
		args:       append([]byte{}, args...),
		Gas:        gas,
		Deposit:    deposit,
	}
}

// Args returns the arguments of the call.
func (a FunctionCall) Args() []byte {
	return append([]byte{}, a.args...)
}

func (FunctionCall) sealed() {}

// String implements fmt.Stringer.
func (a FunctionCall) String() string {
	return fmt.Sprintf("FunctionCall{%s, gas: %d, deposit: %v}", a.MethodName, a.Gas, a.Deposit)
}

// Transfer transfers the deposit to the receiver.
type Transfer struct {
	Deposit types.NearToken
}

func (Transfer) sealed() {}

// String implements fmt.Stringer.
func (a Transfer) String() string {
	return fmt.Sprintf("Transfer{%v}", a.Deposit)
}

// Stake stakes tokens of the receiver for the validator key.
type Stake struct {
	Stake     types.NearToken
	PublicKey crypto.PublicKey
}

func (Stake) sealed() {}

// String implements fmt.Stringer.
func (a Stake) String() string {
	return fmt.Sprintf("Stake{%v, %v}", a.Stake, a.PublicKey)
}

// AccessKey is the access key added by an action.
type AccessKey struct {
	Nonce      uint64
	Permission types.AccessKeyPermission
}

// FullAccessKey returns an access key able to sign any transaction.
func FullAccessKey() AccessKey {
	return AccessKey{}
}

// FunctionCallAccessKey returns an access key restricted to the methods of the
// receiver. A nil allowance is unlimited and no method names allows all of
// them.
func FunctionCallAccessKey(receiver types.AccountID, methods []string, allowance *types.NearToken) AccessKey {
	perm := &types.FunctionCallPermission{
		ReceiverID:  receiver,
		MethodNames: append([]string{}, methods...),
	}

	if allowance != nil {
		value := *allowance
		perm.Allowance = &value
	}

	return AccessKey{Permission: types.AccessKeyPermission{FunctionCall: perm}}
}

// AddKey adds an access key to the receiver account.
type AddKey struct {
	PublicKey crypto.PublicKey
	AccessKey AccessKey
}

func (AddKey) sealed() {}

// String implements fmt.Stringer.
func (a AddKey) String() string {
	if a.AccessKey.Permission.IsFullAccess() {
		return fmt.Sprintf("AddKey{%v, full access}", a.PublicKey)
	}

	return fmt.Sprintf("AddKey{%v, function call on %s}", a.PublicKey,
		a.AccessKey.Permission.FunctionCall.ReceiverID)
}

// DeleteKey deletes an access key of the receiver account.
type DeleteKey struct {
	PublicKey crypto.PublicKey
}

func (DeleteKey) sealed() {}

// String implements fmt.Stringer.
func (a DeleteKey) String() string {
	return fmt.Sprintf("DeleteKey{%v}", a.PublicKey)
}

// DeleteAccount deletes the receiver account and sends the remaining balance to
// the beneficiary.
type DeleteAccount struct {
	BeneficiaryID types.AccountID
}

func (DeleteAccount) sealed() {}

// String implements fmt.Stringer.
func (a DeleteAccount) String() string {
	return fmt.Sprintf("DeleteAccount{%s}", a.BeneficiaryID)
}

// Delegate executes a delegate action signed by its sender.
type Delegate struct {
	SignedDelegateAction SignedDelegateAction
}

func (Delegate) sealed() {}

// String implements fmt.Stringer.
func (a Delegate) String() string {
	return fmt.Sprintf("Delegate{%s -> %s}", a.SignedDelegateAction.DelegateAction.SenderID,
		a.SignedDelegateAction.DelegateAction.ReceiverID)
}

// NonDelegateAction is an action that is known not to be a delegate action.
type NonDelegateAction struct {
	inner Action
}

// NewNonDelegateAction returns the action if it is not a delegate action.
func NewNonDelegateAction(a Action) (NonDelegateAction, error) {
	if a == nil {
		return NonDelegateAction{}, xerrors.New("missing action")
	}

	_, ok := a.(Delegate)
	if ok {
		return NonDelegateAction{}, ErrDelegateActionNotSupported
	}

	return NonDelegateAction{inner: a}, nil
}

// Action returns the inner action.
func (a NonDelegateAction) Action() Action {
	return a.inner
}

// String implements fmt.Stringer.
func (a NonDelegateAction) String() string {
	return a.inner.String()
}

// DelegateAction is a set of actions a sender delegates to a relayer.
type DelegateAction struct {
	SenderID       types.AccountID
	ReceiverID     types.AccountID
	Actions        []NonDelegateAction
	Nonce          uint64
	MaxBlockHeight uint64
	PublicKey      crypto.PublicKey
}

// NewDelegateAction returns the delegate action for the actions. It fails if
// one of them is a delegate action, in which case nothing is returned.
func NewDelegateAction(sender, receiver types.AccountID, actions []Action,
	nonce, maxBlockHeight uint64, pk crypto.PublicKey) (DelegateAction, error) {

	inner := make([]NonDelegateAction, len(actions))

	for i, a := range actions {
		nda, err := NewNonDelegateAction(a)
		if err != nil {
			return DelegateAction{}, xerrors.Errorf("action #%d: %w", i, err)
		}

		inner[i] = nda
	}

	da := DelegateAction{
		SenderID:       sender,
		ReceiverID:     receiver,
		Actions:        inner,
		Nonce:          nonce,
		MaxBlockHeight: maxBlockHeight,
		PublicKey:      pk,
	}

	return da, nil
}

// SignedDelegateAction is a delegate action with the signature of its sender.
type SignedDelegateAction struct {
	DelegateAction DelegateAction
	Signature      crypto.Signature
}
