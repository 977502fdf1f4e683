// Package staking implements the helpers to read the staking pools of a
// network and to delegate tokens to a pool.
package staking

import (
	"go.dedis.ch/nearapi/api/contract"
	"go.dedis.ch/nearapi/core/query"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
)

// PoolsCreatedMethod is the method of the factory that counts its pools.
const PoolsCreatedMethod = "get_number_of_staking_pools_created"

// StakeBalance is the balance of an account on a staking pool.
type StakeBalance struct {
	Staked   types.NearToken
	Unstaked types.NearToken
	// Available is true when the unstaked tokens can be withdrawn.
	Available bool
}

// Total returns the sum of the staked and the unstaked tokens, and true if it
// overflows.
func (b StakeBalance) Total() (types.NearToken, bool) {
	return b.Staked.Add(b.Unstaked)
}

// PoolCount returns the builder of the number of pools the staking pools
// factory of the network has created. It fails when the network does not
// define the factory.
func PoolCount() *query.Builder[types.Data[uint64]] {
	call := query.FactoryCall{
		Name:       "staking pools factory",
		Factory:    query.StakingPoolsFactory,
		MethodName: PoolsCreatedMethod,
	}

	return query.NewBuilder(call, types.Optimistic(), query.CallResultHandler[uint64]())
}

// Pool is a staking pool contract.
type Pool struct {
	contract contract.Contract
}

// Delegation returns the staking pool of the account.
func Delegation(pool types.AccountID) Pool {
	return Pool{contract: contract.At(pool)}
}

// TotalStaked returns the builder of the amount staked on the pool.
func (p Pool) TotalStaked() *query.Builder[types.Data[types.NearToken]] {
	return contract.ReadOnly[types.NearToken](p.contract.CallFunctionRaw("get_total_staked_balance", nil))
}

// StakedBalance returns the builder of the amount the account has staked on
// the pool.
func (p Pool) StakedBalance(account types.AccountID) (*query.Builder[types.Data[types.NearToken]], error) {
	return accountView[types.NearToken](p, "get_account_staked_balance", account)
}

// UnstakedBalance returns the builder of the amount the account has unstaked
// and not withdrawn yet.
func (p Pool) UnstakedBalance(account types.AccountID) (*query.Builder[types.Data[types.NearToken]], error) {
	return accountView[types.NearToken](p, "get_account_unstaked_balance", account)
}

// IsUnstakedAvailable returns the builder that tells if the unstaked amount of
// the account can be withdrawn.
func (p Pool) IsUnstakedAvailable(account types.AccountID) (*query.Builder[types.Data[bool]], error) {
	return accountView[bool](p, "is_account_unstaked_balance_available", account)
}

// Balance returns the builder of the balance of the account. The three views
// are read at the same block.
func (p Pool) Balance(account types.AccountID) (*query.MultiBuilder[StakeBalance], error) {
	staked, err := p.StakedBalance(account)
	if err != nil {
		return nil, err
	}

	unstaked, err := p.UnstakedBalance(account)
	if err != nil {
		return nil, err
	}

	available, err := p.IsUnstakedAvailable(account)
	if err != nil {
		return nil, err
	}

	fn := func(s, u types.Data[types.NearToken], a types.Data[bool]) StakeBalance {
		return StakeBalance{
			Staked:    s.Value,
			Unstaked:  u.Value,
			Available: a.Value,
		}
	}

	return query.Join3(staked, unstaked, available, fn), nil
}

// DepositAndStake returns the transaction that deposits the amount on the pool
// and stakes it.
func (p Pool) DepositAndStake(account types.AccountID, amount types.NearToken) (txn.PrepopulatedTransaction, error) {
	return p.contract.CallFunctionRaw("deposit_and_stake", nil).
		Transaction().
		Deposit(amount).
		WithSigner(account)
}

// Stake returns the transaction that stakes the amount already deposited.
func (p Pool) Stake(account types.AccountID, amount types.NearToken) (txn.PrepopulatedTransaction, error) {
	return p.withAmount(account, "stake", amount)
}

// Unstake returns the transaction that unstakes the amount. The tokens can be
// withdrawn after a few epochs.
func (p Pool) Unstake(account types.AccountID, amount types.NearToken) (txn.PrepopulatedTransaction, error) {
	return p.withAmount(account, "unstake", amount)
}

// UnstakeAll returns the transaction that unstakes all the staked tokens.
func (p Pool) UnstakeAll(account types.AccountID) (txn.PrepopulatedTransaction, error) {
	return p.contract.CallFunctionRaw("unstake_all", nil).Transaction().WithSigner(account)
}

// Withdraw returns the transaction that withdraws the unstaked amount.
func (p Pool) Withdraw(account types.AccountID, amount types.NearToken) (txn.PrepopulatedTransaction, error) {
	return p.withAmount(account, "withdraw", amount)
}

// WithdrawAll returns the transaction that withdraws all the unstaked tokens.
func (p Pool) WithdrawAll(account types.AccountID) (txn.PrepopulatedTransaction, error) {
	return p.contract.CallFunctionRaw("withdraw_all", nil).Transaction().WithSigner(account)
}

func (p Pool) withAmount(account types.AccountID, method string,
	amount types.NearToken) (txn.PrepopulatedTransaction, error) {

	call, err := p.contract.CallFunction(method, map[string]types.NearToken{"amount": amount})
	if err != nil {
		return txn.PrepopulatedTransaction{}, err
	}

	return call.Transaction().WithSigner(account)
}

func accountView[T any](p Pool, method string,
	account types.AccountID) (*query.Builder[types.Data[T]], error) {

	call, err := p.contract.CallFunction(method, map[string]types.AccountID{"account_id": account})
	if err != nil {
		return nil, err
	}

	return contract.ReadOnly[T](call), nil
}
