package primitives

import (
	"fmt"
)

// ActionTag is the index of the variant of an action in the protocol
// enumeration.
type ActionTag uint8

const (
	// TagCreateAccount creates the receiver account.
	TagCreateAccount ActionTag = iota
	// TagDeployContract deploys code on the receiver account.
	TagDeployContract
	// TagFunctionCall calls a method of the receiver contract.
	TagFunctionCall
	// TagTransfer transfers tokens to the receiver.
	TagTransfer
	// TagStake stakes tokens of the receiver.
	TagStake
	// TagAddKey adds an access key to the receiver account.
	TagAddKey
	// TagDeleteKey deletes an access key of the receiver account.
	TagDeleteKey
	// TagDeleteAccount deletes the receiver account.
	TagDeleteAccount
	// TagDelegate executes a signed delegate action.
	TagDelegate
)

var tagNames = []string{
	"CreateAccount",
	"DeployContract",
	"FunctionCall",
	"Transfer",
	"Stake",
	"AddKey",
	"DeleteKey",
	"DeleteAccount",
	"Delegate",
}

// String implements fmt.Stringer.
func (t ActionTag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}

	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// Action is the native action. Only the fields of the variant selected by the
// tag are meaningful.
type Action struct {
	Tag ActionTag

	// DeployContract
	Code []byte

	// FunctionCall
	MethodName string
	Args       []byte
	Gas        uint64

	// FunctionCall and Transfer
	Deposit U128

	// Stake
	Stake U128

	// Stake, AddKey and DeleteKey
	PublicKey PublicKey

	// AddKey
	AccessKey AccessKey

	// DeleteAccount
	BeneficiaryID string

	// Delegate
	Delegate *SignedDelegateAction
}
