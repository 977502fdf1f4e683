package types

import (
	"encoding/json"
	"strings"

	"github.com/holiman/uint256"
	"golang.org/x/xerrors"
)

// NearDecimals is the number of decimals of the native token.
const NearDecimals = 24

var (
	oneNear      = uint256.MustFromDecimal("1000000000000000000000000")
	oneMilliNear = uint256.MustFromDecimal("1000000000000000000000")
)

// NearToken is an amount of the native token in yoctoNEAR. It is bounded to
// 128 bits.
type NearToken struct {
	value uint256.Int
}

// NearFromYocto returns the amount of yoctoNEAR.
func NearFromYocto(yocto uint64) NearToken {
	var t NearToken
	t.value.SetUint64(yocto)

	return t
}

// NearFromMilli returns the amount of milliNEAR.
func NearFromMilli(milli uint64) NearToken {
	var t NearToken
	t.value.Mul(uint256.NewInt(milli), oneMilliNear)

	return t
}

// NearFromNear returns the amount of NEAR.
func NearFromNear(near uint64) NearToken {
	var t NearToken
	t.value.Mul(uint256.NewInt(near), oneNear)

	return t
}

// ParseYocto parses the decimal amount of yoctoNEAR.
func ParseYocto(text string) (NearToken, error) {
	v, err := uint256.FromDecimal(text)
	if err != nil {
		return NearToken{}, xerrors.Errorf("invalid amount '%s': %v", text, err)
	}

	if v.BitLen() > 128 {
		return NearToken{}, xerrors.Errorf("amount '%s' overflows 128 bits", text)
	}

	return NearToken{value: *v}, nil
}

// NearFromLE16 returns the amount of the 16 bytes little-endian encoding.
func NearFromLE16(data [16]byte) NearToken {
	be := make([]byte, 16)
	for i := range data {
		be[15-i] = data[i]
	}

	var t NearToken
	t.value.SetBytes(be)

	return t
}

// LE16 returns the 16 bytes little-endian encoding of the amount.
func (t NearToken) LE16() [16]byte {
	be := t.value.Bytes32()

	var out [16]byte
	for i := 0; i < 16; i++ {
		out[i] = be[31-i]
	}

	return out
}

// Yocto returns a copy of the amount in yoctoNEAR.
func (t NearToken) Yocto() *uint256.Int {
	return t.value.Clone()
}

// IsZero returns true if the amount is zero.
func (t NearToken) IsZero() bool {
	return t.value.IsZero()
}

// Cmp compares the amounts and returns -1, 0 or +1.
func (t NearToken) Cmp(other NearToken) int {
	return t.value.Cmp(&other.value)
}

// Add returns the sum of the amounts. The second return is true when the sum
// overflows 128 bits.
func (t NearToken) Add(other NearToken) (NearToken, bool) {
	var sum NearToken
	sum.value.Add(&t.value, &other.value)

	return sum, sum.value.BitLen() > 128
}

// Sub returns the difference of the amounts, saturating at zero.
func (t NearToken) Sub(other NearToken) NearToken {
	if t.value.Lt(&other.value) {
		return NearToken{}
	}

	var diff NearToken
	diff.value.Sub(&t.value, &other.value)

	return diff
}

// ExactString returns the decimal amount of yoctoNEAR.
func (t NearToken) ExactString() string {
	return t.value.Dec()
}

// String implements fmt.Stringer. It prints the amount in NEAR without the
// trailing zeros.
func (t NearToken) String() string {
	return FormatDecimals(t.value.Clone(), NearDecimals) + " NEAR"
}

// MarshalJSON implements json.Marshaler. The amount is a decimal string of
// yoctoNEAR.
func (t NearToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value.Dec())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *NearToken) UnmarshalJSON(data []byte) error {
	var text string
	err := json.Unmarshal(data, &text)
	if err != nil {
		return xerrors.Errorf("amount is not a string: %v", err)
	}

	token, err := ParseYocto(text)
	if err != nil {
		return err
	}

	*t = token

	return nil
}

// FormatDecimals prints the integer amount with the given number of decimals,
// without the trailing zeros of the fraction.
func FormatDecimals(amount *uint256.Int, decimals uint8) string {
	if decimals == 0 {
		return amount.Dec()
	}

	unit := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))

	whole := new(uint256.Int).Div(amount, unit)
	frac := new(uint256.Int).Mod(amount, unit)

	if frac.IsZero() {
		return whole.Dec()
	}

	fraction := frac.Dec()
	fraction = strings.Repeat("0", int(decimals)-len(fraction)) + fraction
	fraction = strings.TrimRight(fraction, "0")

	return whole.Dec() + "." + fraction
}
