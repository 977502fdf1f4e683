package tokens

import (
	"context"

	"go.dedis.ch/nearapi/api/storage"
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
)

// StorageDepositAmount is the amount paid for the storage of a receiver that
// is not registered on the token contract.
var StorageDepositAmount = types.NearFromMilli(100)

// FTTransactionable is a transfer of fungible tokens. It is valid when the
// decimals of the amount match the ones of the token and the receiver is
// registered on the token contract. The registration is added to the
// transaction when it is edited.
//
// - implements txn.Transactionable
type FTTransactionable struct {
	tr       txn.PrepopulatedTransaction
	receiver types.AccountID
	decimals uint8
}

// Prepopulated implements txn.Transactionable.
func (t *FTTransactionable) Prepopulated() txn.PrepopulatedTransaction {
	return t.tr.Prepopulated()
}

// ValidateWithNetwork implements txn.Transactionable. It fails when the
// decimals do not match or when the receiver needs a storage deposit.
func (t *FTTransactionable) ValidateWithNetwork(ctx context.Context, net *network.Config) error {
	err := t.checkDecimals(ctx, net)
	if err != nil {
		return err
	}

	registered, err := t.isRegistered(ctx, net)
	if err != nil {
		return err
	}

	if !registered && !t.hasDeposit() {
		return txn.NewValidationError("storage deposit is needed")
	}

	return nil
}

// EditWithNetwork implements txn.Transactionable. It prepends the storage
// deposit of the receiver when it is not registered. Editing twice adds only
// one deposit.
func (t *FTTransactionable) EditWithNetwork(ctx context.Context, net *network.Config) error {
	err := t.checkDecimals(ctx, net)
	if err != nil {
		return err
	}

	registered, err := t.isRegistered(ctx, net)
	if err != nil {
		return err
	}

	if registered || t.hasDeposit() {
		return nil
	}

	deposit, err := storage.On(t.tr.ReceiverID).DepositFor(t.receiver, StorageDepositAmount)
	if err != nil {
		return txn.NewValidationError("%v", err)
	}

	actions := make([]action.Action, 0, len(t.tr.Actions)+1)
	actions = append(actions, deposit.Action())
	t.tr.Actions = append(actions, t.tr.Actions...)

	return nil
}

func (t *FTTransactionable) checkDecimals(ctx context.Context, net *network.Config) error {
	metadata, err := FTMetadata(t.tr.ReceiverID).Fetch(ctx, net)
	if err != nil {
		return txn.NewValidationError("metadata is not provided: %v", err)
	}

	if metadata.Value.Decimals != t.decimals {
		return txn.NewValidationError("decimals mismatch: expected %d, got %d",
			metadata.Value.Decimals, t.decimals)
	}

	return nil
}

func (t *FTTransactionable) isRegistered(ctx context.Context, net *network.Config) (bool, error) {
	builder, err := storage.On(t.tr.ReceiverID).ViewAccountStorage(t.receiver)
	if err != nil {
		return false, txn.NewValidationError("%v", err)
	}

	balance, err := builder.Fetch(ctx, net)
	if err != nil {
		return false, txn.NewValidationError("couldn't read storage balance: %v", err)
	}

	return balance.Value != nil, nil
}

// hasDeposit returns true when the transaction already starts with the
// storage deposit.
func (t *FTTransactionable) hasDeposit() bool {
	if len(t.tr.Actions) == 0 {
		return false
	}

	call, ok := t.tr.Actions[0].(action.FunctionCall)

	return ok && call.MethodName == "storage_deposit"
}
