// Package account implements the helpers to read the state of an account and
// to build the transactions that manage it.
package account

import (
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/query"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

// Account is an account of the network.
type Account struct {
	ID types.AccountID
}

// Of returns the account with the identifier.
func Of(id types.AccountID) Account {
	return Account{ID: id}
}

// View returns the builder of the state of the account.
func (a Account) View() *query.Builder[types.Data[types.AccountView]] {
	return query.NewBuilder(query.ViewAccount{AccountID: a.ID}, types.Optimistic(),
		query.AccountViewHandler())
}

// AccessKey returns the builder of the access key of the public key.
func (a Account) AccessKey(pk crypto.PublicKey) *query.Builder[types.Data[types.AccessKeyView]] {
	q := query.ViewAccessKey{AccountID: a.ID, PublicKey: pk}

	return query.NewBuilder(q, types.Optimistic(), query.AccessKeyHandler())
}

// ListKeys returns the builder of the access keys of the account.
func (a Account) ListKeys() *query.Builder[types.AccessKeyList] {
	return query.NewBuilder(query.ViewAccessKeyList{AccountID: a.ID}, types.Optimistic(),
		query.AccessKeyListHandler())
}

// AddKey returns the transaction that adds the public key to the account with
// the access.
func (a Account) AddKey(pk crypto.PublicKey, access action.AccessKey) (txn.PrepopulatedTransaction, error) {
	if pk == nil {
		return txn.PrepopulatedTransaction{}, xerrors.New("missing public key")
	}

	add := action.AddKey{PublicKey: pk, AccessKey: access}

	return txn.Construct(a.ID, a.ID).AddAction(add).Build()
}

// DeleteKey returns the transaction that deletes the public key from the
// account.
func (a Account) DeleteKey(pk crypto.PublicKey) (txn.PrepopulatedTransaction, error) {
	return a.DeleteKeys(pk)
}

// DeleteKeys returns the transaction that deletes the public keys from the
// account in one go.
func (a Account) DeleteKeys(pks ...crypto.PublicKey) (txn.PrepopulatedTransaction, error) {
	b := txn.Construct(a.ID, a.ID)

	for i, pk := range pks {
		if pk == nil {
			return txn.PrepopulatedTransaction{}, xerrors.Errorf("key #%d is missing", i)
		}

		b.AddAction(action.DeleteKey{PublicKey: pk})
	}

	return b.Build()
}

// DeleteAccount returns the transaction that deletes the account and sends
// the remaining balance to the beneficiary.
func (a Account) DeleteAccount(beneficiary types.AccountID) (txn.PrepopulatedTransaction, error) {
	err := beneficiary.Validate()
	if err != nil {
		return txn.PrepopulatedTransaction{}, xerrors.Errorf("beneficiary: %w", err)
	}

	return txn.Construct(a.ID, a.ID).AddAction(action.DeleteAccount{BeneficiaryID: beneficiary}).Build()
}
