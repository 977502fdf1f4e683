// Package tokens implements the helpers to read the balances of an account,
// in NEAR and in fungible or non-fungible tokens, and to send them.
package tokens

import (
	"go.dedis.ch/nearapi/api/contract"
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/query"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
)

// FungibleTokenMetadata is the metadata of a fungible token contract.
type FungibleTokenMetadata struct {
	Spec          string  `json:"spec"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Icon          *string `json:"icon"`
	Reference     *string `json:"reference"`
	ReferenceHash *string `json:"reference_hash"`
	Decimals      uint8   `json:"decimals"`
}

// NFTContractMetadata is the metadata of a non-fungible token contract.
type NFTContractMetadata struct {
	Spec          string  `json:"spec"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Icon          *string `json:"icon"`
	BaseURI       *string `json:"base_uri"`
	Reference     *string `json:"reference"`
	ReferenceHash *string `json:"reference_hash"`
}

// TokenMetadata is the metadata of a non-fungible token.
type TokenMetadata struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Media       *string `json:"media"`
	Copies      *uint64 `json:"copies"`
}

// Token is a non-fungible token.
type Token struct {
	TokenID  string          `json:"token_id"`
	OwnerID  types.AccountID `json:"owner_id"`
	Metadata *TokenMetadata  `json:"metadata"`
}

// Tokens are the tokens of an account.
type Tokens struct {
	account types.AccountID
}

// Of returns the tokens of the account.
func Of(account types.AccountID) Tokens {
	return Tokens{account: account}
}

// NearBalance returns the builder of the NEAR balance of the account.
func (t Tokens) NearBalance() *query.Builder[UserBalance] {
	handler := query.Postprocess(query.AccountViewHandler(), func(data types.Data[types.AccountView]) UserBalance {
		return UserBalance{
			Liquid:       data.Value.Amount,
			Locked:       data.Value.Locked,
			StorageUsage: data.Value.StorageUsage,
		}
	})

	return query.NewBuilder(query.ViewAccount{AccountID: t.account}, types.Optimistic(), handler)
}

// FTMetadata returns the builder of the metadata of the fungible token.
func FTMetadata(ft types.AccountID) *query.Builder[types.Data[FungibleTokenMetadata]] {
	call := contract.At(ft).CallFunctionRaw("ft_metadata", nil)

	return contract.ReadOnly[FungibleTokenMetadata](call)
}

// NFTMetadata returns the builder of the metadata of the non-fungible token
// contract.
func NFTMetadata(nft types.AccountID) *query.Builder[types.Data[NFTContractMetadata]] {
	call := contract.At(nft).CallFunctionRaw("nft_metadata", nil)

	return contract.ReadOnly[NFTContractMetadata](call)
}

// NFTAssets returns the builder of the non-fungible tokens the account owns on
// the contract.
func (t Tokens) NFTAssets(nft types.AccountID) (*query.Builder[types.Data[[]Token]], error) {
	call, err := contract.At(nft).CallFunction("nft_tokens_for_owner", map[string]types.AccountID{
		"account_id": t.account,
	})
	if err != nil {
		return nil, err
	}

	return contract.ReadOnly[[]Token](call), nil
}

// FTBalance returns the builder of the balance of the account in the fungible
// token. The metadata and the balance are read at the same block.
func (t Tokens) FTBalance(ft types.AccountID) (*query.MultiBuilder[FTBalance], error) {
	call, err := contract.At(ft).CallFunction("ft_balance_of", map[string]types.AccountID{
		"account_id": t.account,
	})
	if err != nil {
		return nil, err
	}

	balance := func(metadata types.Data[FungibleTokenMetadata], amount types.Data[U128]) FTBalance {
		return NewFTBalance(metadata.Value.Decimals).
			WithSymbol(metadata.Value.Symbol).
			WithAmount(&amount.Value.Int)
	}

	return query.Join2(FTMetadata(ft), contract.ReadOnly[U128](call), balance), nil
}

// SendTo returns the transfers from the account to the receiver.
func (t Tokens) SendTo(receiver types.AccountID) SendTo {
	return SendTo{from: t.account, receiver: receiver}
}

// SendTo is a transfer of tokens between two accounts.
type SendTo struct {
	from     types.AccountID
	receiver types.AccountID
}

// Near returns the transaction that transfers the amount of NEAR.
func (s SendTo) Near(amount types.NearToken) (txn.PrepopulatedTransaction, error) {
	return txn.Construct(s.from, s.receiver).AddAction(action.Transfer{Deposit: amount}).Build()
}

// FT returns the transaction that transfers the amount of the fungible token.
// The transaction checks the decimals of the amount and the storage
// registration of the receiver against the network.
func (s SendTo) FT(ft types.AccountID, amount FTBalance) (*FTTransactionable, error) {
	call, err := contract.At(ft).CallFunction("ft_transfer", map[string]interface{}{
		"receiver_id": s.receiver,
		"amount":      U128{Int: *amount.Amount()},
	})
	if err != nil {
		return nil, err
	}

	tr, err := call.Transaction().Deposit(types.NearFromYocto(1)).WithSigner(s.from)
	if err != nil {
		return nil, err
	}

	ftx := &FTTransactionable{
		tr:       tr,
		receiver: s.receiver,
		decimals: amount.Decimals(),
	}

	return ftx, nil
}

// NFT returns the transaction that transfers the non-fungible token.
func (s SendTo) NFT(nft types.AccountID, tokenID string) (txn.PrepopulatedTransaction, error) {
	call, err := contract.At(nft).CallFunction("nft_transfer", map[string]interface{}{
		"receiver_id": s.receiver,
		"token_id":    tokenID,
	})
	if err != nil {
		return txn.PrepopulatedTransaction{}, err
	}

	return call.Transaction().Deposit(types.NearFromYocto(1)).WithSigner(s.from)
}
