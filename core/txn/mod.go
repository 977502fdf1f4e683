// Package txn defines the transactions before they are addressed to a block
// and signed.
//
// A prepopulated transaction only knows who signs it, who receives it and the
// actions it carries. The nonce and the block hash are resolved at the time of
// the signature. A transactionable is a prepopulated transaction that can
// check or complete itself against a network before it is signed.
package txn

import (
	"context"
	"fmt"
	"strings"

	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

var (
	// ErrEmptyActions is returned when a transaction without action is built.
	ErrEmptyActions = xerrors.New("transaction has no action")
	// ErrValidation is the kind of the validation errors.
	ErrValidation = xerrors.New("validation failed")
)

// ValidationError is returned when a transaction is not valid for a network.
// It matches ErrValidation.
type ValidationError struct {
	msg string
}

// NewValidationError returns a validation error with the formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidation, e.msg)
}

// Is returns true when the target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Transactionable is a transaction that can be validated and edited with the
// state of a network before it is signed.
type Transactionable interface {
	// Prepopulated returns the transaction as it is now.
	Prepopulated() PrepopulatedTransaction

	// ValidateWithNetwork returns an error if the transaction would fail on
	// the network.
	ValidateWithNetwork(ctx context.Context, net *network.Config) error

	// EditWithNetwork modifies the transaction so that it can succeed on the
	// network.
	EditWithNetwork(ctx context.Context, net *network.Config) error
}

// PrepopulatedTransaction is a transaction without nonce nor block hash.
//
// - implements txn.Transactionable
type PrepopulatedTransaction struct {
	SignerID   types.AccountID
	ReceiverID types.AccountID
	Actions    []action.Action
}

// Prepopulated implements txn.Transactionable. It returns a copy of the
// transaction.
func (tr PrepopulatedTransaction) Prepopulated() PrepopulatedTransaction {
	tr.Actions = append([]action.Action{}, tr.Actions...)
	return tr
}

// ValidateWithNetwork implements txn.Transactionable. It does nothing.
func (tr PrepopulatedTransaction) ValidateWithNetwork(context.Context, *network.Config) error {
	return nil
}

// EditWithNetwork implements txn.Transactionable. It does nothing.
func (tr PrepopulatedTransaction) EditWithNetwork(context.Context, *network.Config) error {
	return nil
}

// String implements fmt.Stringer.
func (tr PrepopulatedTransaction) String() string {
	actions := make([]string, len(tr.Actions))
	for i, a := range tr.Actions {
		actions[i] = a.String()
	}

	return fmt.Sprintf("Transaction{%s -> %s: %s}", tr.SignerID, tr.ReceiverID,
		strings.Join(actions, ", "))
}

// Builder is a helper to create a prepopulated transaction.
type Builder struct {
	signer   types.AccountID
	receiver types.AccountID
	actions  []action.Action
}

// Construct returns a builder of the transaction from the signer to the
// receiver.
func Construct(signer, receiver types.AccountID) *Builder {
	return &Builder{
		signer:   signer,
		receiver: receiver,
	}
}

// AddAction appends an action to the transaction.
func (b *Builder) AddAction(a action.Action) *Builder {
	b.actions = append(b.actions, a)
	return b
}

// AddActions appends the actions to the transaction in order.
func (b *Builder) AddActions(actions ...action.Action) *Builder {
	b.actions = append(b.actions, actions...)
	return b
}

// Build returns the transaction. It fails if it has no action or if one of
// the accounts is not valid.
func (b *Builder) Build() (PrepopulatedTransaction, error) {
	if len(b.actions) == 0 {
		return PrepopulatedTransaction{}, ErrEmptyActions
	}

	err := b.signer.Validate()
	if err != nil {
		return PrepopulatedTransaction{}, xerrors.Errorf("signer: %w", err)
	}

	err = b.receiver.Validate()
	if err != nil {
		return PrepopulatedTransaction{}, xerrors.Errorf("receiver: %w", err)
	}

	for i, a := range b.actions {
		if a == nil {
			return PrepopulatedTransaction{}, xerrors.Errorf("action #%d is missing", i)
		}
	}

	tr := PrepopulatedTransaction{
		SignerID:   b.signer,
		ReceiverID: b.receiver,
		Actions:    append([]action.Action{}, b.actions...),
	}

	return tr, nil
}
