package types

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestNearToken_Constructors(t *testing.T) {
	require.Equal(t, "1000000000000000000000000", NearFromNear(1).ExactString())
	require.Equal(t, "100000000000000000000000", NearFromMilli(100).ExactString())
	require.Equal(t, "42", NearFromYocto(42).ExactString())
	require.True(t, NearToken{}.IsZero())
}

func TestNearToken_Parse(t *testing.T) {
	token, err := ParseYocto("1500000000000000000000000")
	require.NoError(t, err)
	require.Equal(t, "1.5 NEAR", token.String())

	max := "340282366920938463463374607431768211455"
	token, err = ParseYocto(max)
	require.NoError(t, err)
	require.Equal(t, max, token.ExactString())

	_, err = ParseYocto("340282366920938463463374607431768211456")
	require.EqualError(t, err,
		"amount '340282366920938463463374607431768211456' overflows 128 bits")

	_, err = ParseYocto("abc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid amount 'abc': ")
}

func TestNearToken_LE16(t *testing.T) {
	token := NearFromYocto(0x0102)

	data := token.LE16()
	require.Equal(t, byte(0x02), data[0])
	require.Equal(t, byte(0x01), data[1])
	require.Equal(t, token, NearFromLE16(data))

	big := NearFromNear(1_000_000)
	require.Equal(t, big, NearFromLE16(big.LE16()))
}

func TestNearToken_Arithmetic(t *testing.T) {
	a := NearFromNear(2)
	b := NearFromNear(1)

	sum, overflow := a.Add(b)
	require.False(t, overflow)
	require.Equal(t, NearFromNear(3), sum)

	require.Equal(t, b, a.Sub(b))
	require.True(t, b.Sub(a).IsZero())

	require.Equal(t, 1, a.Cmp(b))
	require.Equal(t, -1, b.Cmp(a))
	require.Equal(t, 0, a.Cmp(a))

	max, err := ParseYocto("340282366920938463463374607431768211455")
	require.NoError(t, err)

	_, overflow = max.Add(NearFromYocto(1))
	require.True(t, overflow)

	// The copy does not alias the amount.
	y := a.Yocto()
	y.SetUint64(0)
	require.Equal(t, NearFromNear(2), a)
}

func TestNearToken_JSON(t *testing.T) {
	data, err := json.Marshal(NearFromMilli(1))
	require.NoError(t, err)
	require.Equal(t, `"1000000000000000000000"`, string(data))

	var token NearToken
	require.NoError(t, json.Unmarshal(data, &token))
	require.Equal(t, NearFromMilli(1), token)

	err = json.Unmarshal([]byte("12"), &token)
	require.Error(t, err)
	require.Contains(t, err.Error(), "amount is not a string: ")
}

func TestFormatDecimals(t *testing.T) {
	require.Equal(t, "0", FormatDecimals(uint256.NewInt(0), 6))
	require.Equal(t, "1", FormatDecimals(uint256.NewInt(1_000_000), 6))
	require.Equal(t, "1.5", FormatDecimals(uint256.NewInt(1_500_000), 6))
	require.Equal(t, "0.000001", FormatDecimals(uint256.NewInt(1), 6))
	require.Equal(t, "123", FormatDecimals(uint256.NewInt(123), 0))
	require.Equal(t, "0.001 NEAR", NearFromMilli(1).String())
}
