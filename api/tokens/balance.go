package tokens

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"go.dedis.ch/nearapi/core/types"
	"golang.org/x/xerrors"
)

var (
	// USDT is the empty balance of the USDT token.
	USDT = NewFTBalance(6).WithSymbol("USDT")
	// WNEAR is the empty balance of the wrapped NEAR token.
	WNEAR = NewFTBalance(types.NearDecimals).WithSymbol("wNEAR")
)

// UserBalance is the NEAR balance of an account.
type UserBalance struct {
	Liquid       types.NearToken
	Locked       types.NearToken
	StorageUsage uint64
}

// FTBalance is an amount of a fungible token with the number of decimals of
// the token.
type FTBalance struct {
	amount   uint256.Int
	decimals uint8
	symbol   string
}

// NewFTBalance returns an empty balance of a token with the decimals.
func NewFTBalance(decimals uint8) FTBalance {
	return FTBalance{decimals: decimals}
}

// WithSymbol returns a copy of the balance printed with the symbol.
func (b FTBalance) WithSymbol(symbol string) FTBalance {
	b.symbol = symbol
	return b
}

// WithAmount returns a copy of the balance with the amount in the smallest
// unit of the token.
func (b FTBalance) WithAmount(amount *uint256.Int) FTBalance {
	b.amount.Set(amount)
	return b
}

// WithWhole returns a copy of the balance with the amount of whole tokens.
func (b FTBalance) WithWhole(whole uint64) FTBalance {
	b.amount.Mul(uint256.NewInt(whole), b.unit())
	return b
}

// WithDecimalString returns a copy of the balance with the amount of tokens
// written with at most the decimals of the token, like "1.25".
func (b FTBalance) WithDecimalString(text string) (FTBalance, error) {
	whole, frac, _ := strings.Cut(text, ".")

	if len(frac) > int(b.decimals) {
		return FTBalance{}, xerrors.Errorf("'%s' has more than %d decimals", text, b.decimals)
	}

	digits := whole + frac + strings.Repeat("0", int(b.decimals)-len(frac))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}

	v, err := uint256.FromDecimal(digits)
	if err != nil || (whole == "" && frac == "") {
		return FTBalance{}, xerrors.Errorf("invalid amount '%s'", text)
	}

	if v.BitLen() > 128 {
		return FTBalance{}, xerrors.Errorf("amount '%s' overflows 128 bits", text)
	}

	b.amount = *v

	return b, nil
}

// Amount returns the amount in the smallest unit of the token.
func (b FTBalance) Amount() *uint256.Int {
	return b.amount.Clone()
}

// Decimals returns the number of decimals of the token.
func (b FTBalance) Decimals() uint8 {
	return b.decimals
}

// Symbol returns the symbol of the token, or an empty string.
func (b FTBalance) Symbol() string {
	return b.symbol
}

// String implements fmt.Stringer.
func (b FTBalance) String() string {
	value := types.FormatDecimals(b.amount.Clone(), b.decimals)
	if b.symbol == "" {
		return value
	}

	return fmt.Sprintf("%s %s", value, b.symbol)
}

func (b FTBalance) unit() *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(b.decimals)))
}

// U128 is an unsigned integer of 128 bits written as a decimal string, as the
// token standards do.
type U128 struct {
	uint256.Int
}

// MarshalJSON implements json.Marshaler.
func (u U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Dec())
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *U128) UnmarshalJSON(data []byte) error {
	var text string
	err := json.Unmarshal(data, &text)
	if err != nil {
		return xerrors.Errorf("amount is not a string: %v", err)
	}

	v, err := uint256.FromDecimal(text)
	if err != nil {
		return xerrors.Errorf("invalid amount '%s': %v", text, err)
	}

	if v.BitLen() > 128 {
		return xerrors.Errorf("amount '%s' overflows 128 bits", text)
	}

	u.Int = *v

	return nil
}
