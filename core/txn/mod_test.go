package txn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

func TestBuilder_Build(t *testing.T) {
	tr, err := Construct("alice.near", "bob.near").
		AddAction(action.Transfer{Deposit: types.NearFromNear(1)}).
		AddActions(action.CreateAccount{}, action.DeleteAccount{BeneficiaryID: "carol.near"}).
		Build()
	require.NoError(t, err)
	require.Equal(t, types.AccountID("alice.near"), tr.SignerID)
	require.Equal(t, types.AccountID("bob.near"), tr.ReceiverID)
	require.Len(t, tr.Actions, 3)
	require.Equal(t, action.CreateAccount{}, tr.Actions[1])
	require.Equal(t, "Transaction{alice.near -> bob.near: Transfer{1 NEAR}, CreateAccount, "+
		"DeleteAccount{carol.near}}", tr.String())
}

func TestBuilder_BuildEmpty(t *testing.T) {
	_, err := Construct("alice.near", "bob.near").Build()
	require.Equal(t, ErrEmptyActions, err)
}

func TestBuilder_BuildInvalid(t *testing.T) {
	_, err := Construct("A", "bob.near").AddAction(action.CreateAccount{}).Build()
	require.True(t, xerrors.Is(err, types.ErrInvalidAccountID))
	require.Contains(t, err.Error(), "signer: ")

	_, err = Construct("alice.near", "").AddAction(action.CreateAccount{}).Build()
	require.True(t, xerrors.Is(err, types.ErrInvalidAccountID))
	require.Contains(t, err.Error(), "receiver: ")

	_, err = Construct("alice.near", "bob.near").AddAction(nil).Build()
	require.EqualError(t, err, "action #0 is missing")
}

func TestPrepopulatedTransaction_Transactionable(t *testing.T) {
	tr, err := Construct("alice.near", "bob.near").AddAction(action.CreateAccount{}).Build()
	require.NoError(t, err)

	var tx Transactionable = tr

	require.NoError(t, tx.ValidateWithNetwork(context.Background(), nil))
	require.NoError(t, tx.EditWithNetwork(context.Background(), nil))

	copied := tx.Prepopulated()
	require.Equal(t, tr, copied)

	copied.Actions[0] = action.Transfer{}
	require.Equal(t, action.CreateAccount{}, tr.Actions[0])
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("decimals mismatch: %d != %d", 6, 24)
	require.EqualError(t, err, "validation failed: decimals mismatch: 6 != 24")
	require.True(t, xerrors.Is(err, ErrValidation))

	wrapped := xerrors.Errorf("couldn't validate: %w", err)
	require.True(t, xerrors.Is(wrapped, ErrValidation))

	var target *ValidationError
	require.True(t, xerrors.As(wrapped, &target))
}
