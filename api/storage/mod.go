// Package storage implements the helpers of the storage management standard,
// by which an account pays for the storage it uses on a contract.
package storage

import (
	"go.dedis.ch/nearapi/api/contract"
	"go.dedis.ch/nearapi/core/query"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
)

// Balance is the storage balance of an account on a contract.
type Balance struct {
	Total     types.NearToken `json:"total"`
	Available types.NearToken `json:"available"`
}

// Deposit is the storage management of a contract.
type Deposit struct {
	contract contract.Contract
}

// On returns the storage management of the contract.
func On(id types.AccountID) Deposit {
	return Deposit{contract: contract.At(id)}
}

// ViewAccountStorage returns the builder of the storage balance of the
// account. The balance is nil when the account is not registered.
func (d Deposit) ViewAccountStorage(account types.AccountID) (*query.Builder[types.Data[*Balance]], error) {
	call, err := d.contract.CallFunction("storage_balance_of", map[string]types.AccountID{
		"account_id": account,
	})
	if err != nil {
		return nil, err
	}

	return contract.ReadOnly[*Balance](call), nil
}

// DepositFor returns the call that pays the amount for the storage of the
// receiver. The call still needs the account of the signer.
func (d Deposit) DepositFor(receiver types.AccountID, amount types.NearToken) (*contract.CallTransaction, error) {
	call, err := d.contract.CallFunction("storage_deposit", map[string]interface{}{
		"account_id":        receiver,
		"registration_only": false,
	})
	if err != nil {
		return nil, err
	}

	return call.Transaction().Deposit(amount), nil
}

// Withdraw returns the transaction of the account that withdraws the amount
// from its available storage balance.
func (d Deposit) Withdraw(account types.AccountID, amount types.NearToken) (txn.PrepopulatedTransaction, error) {
	call, err := d.contract.CallFunction("storage_withdraw", map[string]types.NearToken{
		"amount": amount,
	})
	if err != nil {
		return txn.PrepopulatedTransaction{}, err
	}

	return call.Transaction().Deposit(types.NearFromYocto(1)).WithSigner(account)
}
