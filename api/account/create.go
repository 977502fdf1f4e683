package account

import (
	"encoding/json"
	"strings"

	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

// LinkdropGas is the gas attached to the creation of an account by the
// linkdrop contract.
const LinkdropGas = 300 * types.TeraGas

var (
	// ErrTopLevelAccount is returned when a top-level account is created.
	ErrTopLevelAccount = xerrors.New("top-level account is not allowed")
	// ErrLinkdropNotDefined is returned when the network has no linkdrop
	// contract.
	ErrLinkdropNotDefined = xerrors.New("linkdrop is not defined in the network config")
	// ErrNotSubaccount is returned when the new account is not a direct
	// subaccount of the account that creates it.
	ErrNotSubaccount = xerrors.New("account should be created as a subaccount of the signer or linkdrop account")
)

// CreateBuilder prepares the creation of an account with a full access key.
type CreateBuilder struct {
	id      types.AccountID
	pk      crypto.PublicKey
	initial types.NearToken
}

// Create returns the builder of the new account controlled by the public key
// and funded with the initial balance.
func Create(id types.AccountID, pk crypto.PublicKey, initial types.NearToken) CreateBuilder {
	return CreateBuilder{id: id, pk: pk, initial: initial}
}

// FundMyself returns the transaction of the signer that creates the new
// account as its own subaccount and funds it.
func (b CreateBuilder) FundMyself(signer types.AccountID) (txn.PrepopulatedTransaction, error) {
	err := b.check(signer)
	if err != nil {
		return txn.PrepopulatedTransaction{}, err
	}

	return txn.Construct(signer, b.id).
		AddActions(
			action.CreateAccount{},
			action.Transfer{Deposit: b.initial},
			action.AddKey{PublicKey: b.pk, AccessKey: action.FullAccessKey()},
		).
		Build()
}

// UseLinkdrop returns the transaction of the signer that asks the linkdrop
// contract of the network to create the new account, which must be a
// subaccount of the linkdrop account.
func (b CreateBuilder) UseLinkdrop(signer types.AccountID, net *network.Config) (txn.PrepopulatedTransaction, error) {
	if net == nil || net.LinkdropAccountID == nil {
		return txn.PrepopulatedTransaction{}, ErrLinkdropNotDefined
	}

	linkdrop := *net.LinkdropAccountID

	err := b.check(linkdrop)
	if err != nil {
		return txn.PrepopulatedTransaction{}, err
	}

	args, err := json.Marshal(map[string]string{
		"new_account_id": b.id.String(),
		"new_public_key": b.pk.String(),
	})
	if err != nil {
		return txn.PrepopulatedTransaction{}, xerrors.Errorf("couldn't encode arguments: %v", err)
	}

	call := action.NewFunctionCall("create_account", args, LinkdropGas, b.initial)

	return txn.Construct(signer, linkdrop).AddAction(call).Build()
}

func (b CreateBuilder) check(parent types.AccountID) error {
	if b.pk == nil {
		return xerrors.New("missing public key")
	}

	err := b.id.Validate()
	if err != nil {
		return err
	}

	if !strings.Contains(string(b.id), ".") {
		return ErrTopLevelAccount
	}

	if !IsSubaccount(b.id, parent) {
		return xerrors.Errorf("'%s' is not a subaccount of '%s': %w", b.id, parent, ErrNotSubaccount)
	}

	return nil
}

// IsSubaccount returns true when the child is a direct subaccount of the
// parent.
func IsSubaccount(child, parent types.AccountID) bool {
	prefix := strings.TrimSuffix(string(child), "."+string(parent))
	if prefix == string(child) || prefix == "" {
		return false
	}

	return !strings.Contains(prefix, ".")
}
