package atomos

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-hydron/inter/ierr"
)

// TestFactors pins the ladder: 100, 100^2, 100^4, 100^8, 100^16, 100^32.
func TestFactors(t *testing.T) {
	exps := []int64{1, 2, 4, 8, 16, 32}
	for i, d := range Denominations() {
		f, err := d.Factor()
		require.NoError(t, err)
		want := new(big.Int).Exp(big.NewInt(100), big.NewInt(exps[i]), nil)
		assert.Equal(t, want.String(), f.String(), "tier %s", d)
	}

	_, err := Denomination(6).Factor()
	require.ErrorIs(t, err, ierr.ErrInvalidValue)
}

func TestDenominationNames(t *testing.T) {
	require := require.New(t)

	for _, d := range Denominations() {
		got, err := DenominationByName(d.String())
		require.NoError(err)
		require.Equal(d, got)
	}

	got, err := DenominationByName(" HYB ")
	require.NoError(err)
	require.Equal(Hyb, got)

	_, err = DenominationByName("hyx")
	require.ErrorIs(err, ierr.ErrInvalidValue)

	require.Equal("Denomination(9)", Denomination(9).String())
}

func TestFromDenomination(t *testing.T) {
	tests := []struct {
		value float64
		d     Denomination
		want  string
	}{
		{0, Hya, "0"},
		{math.Copysign(0, -1), Hya, "0"},
		{1, Hya, "100"},
		{0.1, Hya, "10"},
		{0.015, Hya, "2"}, // 1.5 rounded up
		{1.5, Hyb, "15000"},
		{2, Hyg, "200000000"},
		{1, Hyz, new(big.Int).Exp(big.NewInt(10), big.NewInt(64), nil).String()},
	}
	for _, tt := range tests {
		got, err := FromDenomination(tt.value, tt.d)
		require.NoError(t, err, "%v %s", tt.value, tt.d)
		require.Equal(t, tt.want, got.String(), "%v %s", tt.value, tt.d)
	}

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := FromDenomination(bad, Hya)
		require.ErrorIs(t, err, ierr.ErrInvalidValue, "value %v", bad)
	}
	_, err := FromDenomination(1, Denomination(6))
	require.ErrorIs(t, err, ierr.ErrInvalidValue)
}

func TestParseDenomination(t *testing.T) {
	require := require.New(t)

	got, err := ParseDenomination("12.345678", Hyb)
	require.NoError(err)
	require.Equal("123457", got.String())

	_, err = ParseDenomination("abc", Hya)
	require.ErrorIs(err, ierr.ErrInvalidValue)

	_, err = ParseDenomination("-3", Hya)
	require.ErrorIs(err, ierr.ErrInvalidValue)

	// Only plain decimals: no fractions, exponents, signs or bare points.
	for _, bad := range []string{"1/3", "1e999999999", "1E2", "+1", "0x10", "1.", ".5", "1.2.3", ""} {
		_, err = ParseDenomination(bad, Hya)
		require.ErrorIs(err, ierr.ErrInvalidValue, bad)
	}

	got, err = ParseDenomination(" 7 ", Hya)
	require.NoError(err)
	require.Equal("700", got.String())
}

func TestToDenomination(t *testing.T) {
	require := require.New(t)

	got, err := ToDenomination(NewFromUint64(12345), Hya)
	require.NoError(err)
	require.Equal("123", got.String())

	got, err = ToDenomination(NewFromUint64(9999), Hyb)
	require.NoError(err)
	require.Equal("0", got.String())

	_, err = ToDenomination(NewFromUint64(1), Denomination(255))
	require.ErrorIs(err, ierr.ErrInvalidValue)
}

// TestDenominationRoundTrip checks toDenomination(fromDenomination(v)) stays
// within one rounding of v for every tier.
func TestDenominationRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, d := range Denominations() {
		for i := 0; i < 100; i++ {
			v := float64(r.Int63n(1 << 40))
			if i%2 == 1 {
				v += r.Float64()
			}
			a, err := FromDenomination(v, d)
			require.NoError(t, err)
			back, err := ToDenomination(a, d)
			require.NoError(t, err)

			diff := new(big.Float).Sub(new(big.Float).SetInt(back), big.NewFloat(v))
			f, _ := diff.Float64()
			require.True(t, math.Abs(f) <= 1, "tier %s value %v back %s", d, v, back)
		}
	}
}

func TestFormatDenomination(t *testing.T) {
	require := require.New(t)

	s, err := FormatDenomination(NewFromUint64(12345), Hya)
	require.NoError(err)
	require.Equal("123.45", s)

	s, err = FormatDenomination(NewFromUint64(10000), Hyb)
	require.NoError(err)
	require.Equal("1", s)

	s, err = FormatDenomination(Zero(), Hyz)
	require.NoError(err)
	require.Equal("0", s)

	s, err = FormatDenomination(NewFromUint64(1), Hyg)
	require.NoError(err)
	require.Equal("0.00000001", s)
}
