package atomos

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-hydron/inter/ierr"
)

func randomAtomos(r *rand.Rand) Atomos {
	b := make([]byte, 1+r.Intn(40))
	r.Read(b)
	return MustNew(new(big.Int).SetBytes(b))
}

// TestNew verifies that construction rejects negative input and copies its argument.
func TestNew(t *testing.T) {
	require := require.New(t)

	// Case 1: negative magnitude.
	{
		_, err := New(big.NewInt(-1))
		require.ErrorIs(err, ierr.ErrInvalidValue)
	}

	// Case 2: nil magnitude.
	{
		_, err := New(nil)
		require.ErrorIs(err, ierr.ErrInvalidValue)
	}

	// Case 3: the input is copied, later mutation does not leak in.
	{
		v := big.NewInt(42)
		a, err := New(v)
		require.NoError(err)
		v.SetInt64(7)
		require.Equal("42", a.String())
	}

	// Case 4: zero value is a usable zero.
	{
		var a Atomos
		require.True(a.IsZero())
		require.Equal("0", a.String())
		require.True(a.Equal(Zero()))
	}
}

func TestNewFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
		err  error
	}{
		{0, "0", nil},
		{1, "1", nil},
		{1.01, "2", nil},
		{99.5, "100", nil},
		{1e20, "100000000000000000000", nil},
		{-0.5, "", ierr.ErrInvalidValue},
		{math.NaN(), "", ierr.ErrInvalidValue},
		{math.Inf(1), "", ierr.ErrInvalidValue},
	}
	for _, tt := range tests {
		got, err := NewFromFloat(tt.in)
		if tt.err != nil {
			require.ErrorIs(t, err, tt.err, "input %v", tt.in)
			continue
		}
		require.NoError(t, err, "input %v", tt.in)
		require.Equal(t, tt.want, got.String(), "input %v", tt.in)
	}
}

func TestCompare(t *testing.T) {
	require := require.New(t)

	one, two := NewFromUint64(1), NewFromUint64(2)
	require.Equal(-1, one.Cmp(two))
	require.Equal(1, two.Cmp(one))
	require.Equal(0, one.Cmp(NewFromUint64(1)))
	require.True(one.Lt(two))
	require.True(one.Lte(one))
	require.True(two.Gt(one))
	require.True(two.Gte(two))
	require.False(one.Equal(two))
}

// TestAddSubRoundTrip checks subtract(add(a, b), b) == a over random magnitudes.
func TestAddSubRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		a, b := randomAtomos(r), randomAtomos(r)
		got, err := a.Add(b).Sub(b)
		require.NoError(t, err)
		require.True(t, got.Equal(a), "a=%s b=%s got=%s", a, b, got)
	}
}

func TestSubInsufficient(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		a, b := randomAtomos(r), randomAtomos(r)
		if a.Cmp(b) >= 0 {
			a, b = b, a.Inc()
		}
		_, err := a.Sub(b)
		require.ErrorIs(t, err, ierr.ErrInsufficientValue, "a=%s b=%s", a, b)
	}
}

func TestIncDec(t *testing.T) {
	require := require.New(t)

	_, err := Zero().Dec()
	require.ErrorIs(err, ierr.ErrInvalidValue)

	got, err := NewFromUint64(1).Dec()
	require.NoError(err)
	require.True(got.IsZero())

	require.Equal("1", Zero().Inc().String())

	// Inc does not touch the receiver.
	a := NewFromUint64(5)
	_ = a.Inc()
	require.Equal("5", a.String())
}

func TestMul(t *testing.T) {
	require := require.New(t)

	// Integer multiply has no float bound.
	huge := MustNew(new(big.Int).Lsh(big.NewInt(1), 2000))
	got := huge.Mul(NewFromUint64(2))
	require.Equal(new(big.Int).Lsh(big.NewInt(1), 2001).String(), got.String())

	// Scalar multiply rounds up.
	got, err := NewFromUint64(10).MulScalar(1.05)
	require.NoError(err)
	require.Equal("11", got.String())

	// Scalar multiply beyond float64 range.
	_, err = huge.MulScalar(1)
	require.ErrorIs(err, ierr.ErrRangeExceeded)

	// Negative scalar produces a negative result.
	_, err = NewFromUint64(10).MulScalar(-1)
	require.ErrorIs(err, ierr.ErrInvalidValue)

	// Overflowing result.
	_, err = NewFromUint64(10).MulScalar(math.MaxFloat64)
	require.ErrorIs(err, ierr.ErrRangeExceeded)
}

func TestDivMod(t *testing.T) {
	require := require.New(t)

	a, b := NewFromUint64(17), NewFromUint64(5)

	q, err := a.Div(b)
	require.NoError(err)
	require.Equal("3", q.String())

	m, err := a.Mod(b)
	require.NoError(err)
	require.Equal("2", m.String())

	_, err = a.Div(Zero())
	require.ErrorIs(err, ierr.ErrDivisionInvalid)
	_, err = Zero().Div(b)
	require.ErrorIs(err, ierr.ErrDivisionInvalid)
	_, err = a.Mod(Zero())
	require.ErrorIs(err, ierr.ErrDivisionInvalid)
	_, err = Zero().Mod(b)
	require.ErrorIs(err, ierr.ErrDivisionInvalid)
}

func TestDivModScalar(t *testing.T) {
	require := require.New(t)

	a := NewFromUint64(17)

	q, err := a.DivScalar(4)
	require.NoError(err)
	require.Equal("5", q.String()) // 4.25 rounded up

	m, err := a.ModScalar(4.5)
	require.NoError(err)
	require.Equal("4", m.String()) // 3.5 rounded up

	for _, d := range []float64{0, -1, math.NaN()} {
		_, err = a.DivScalar(d)
		require.ErrorIs(err, ierr.ErrDivisionInvalid, "divisor %v", d)
		_, err = a.ModScalar(d)
		require.ErrorIs(err, ierr.ErrDivisionInvalid, "divisor %v", d)
	}

	_, err = Zero().DivScalar(2)
	require.ErrorIs(err, ierr.ErrDivisionInvalid)

	// The range check comes before the zero-divisor check.
	huge := MustNew(new(big.Int).Lsh(big.NewInt(1), 1100))
	_, err = huge.DivScalar(0)
	require.ErrorIs(err, ierr.ErrRangeExceeded)
	_, err = huge.ModScalar(3)
	require.ErrorIs(err, ierr.ErrRangeExceeded)

	// Exactly at the float64 ceiling is still accepted.
	edge := MustNew(new(big.Int).Set(maxFloat))
	_, err = edge.DivScalar(2)
	require.NoError(err)
}

func TestTextEncoding(t *testing.T) {
	require := require.New(t)

	type wrapper struct {
		Amount Atomos `json:"amount"`
	}
	in := wrapper{Amount: MustNew(new(big.Int).Lsh(big.NewInt(3), 100))}
	buf, err := json.Marshal(in)
	require.NoError(err)
	require.Equal(`{"amount":"3802951800684688204490109616128"}`, string(buf))

	var out wrapper
	require.NoError(json.Unmarshal(buf, &out))
	require.True(in.Amount.Equal(out.Amount))

	require.Error(json.Unmarshal([]byte(`{"amount":"-1"}`), &out))
	require.Error(json.Unmarshal([]byte(`{"amount":"1.5"}`), &out))
}

func TestRLPEncoding(t *testing.T) {
	require := require.New(t)

	for _, a := range []Atomos{Zero(), NewFromUint64(1), MustNew(new(big.Int).Lsh(big.NewInt(1), 300))} {
		var buf bytes.Buffer
		require.NoError(rlp.Encode(&buf, a))

		var got Atomos
		require.NoError(rlp.DecodeBytes(buf.Bytes(), &got))
		require.True(a.Equal(got), "want %s, got %s", a, got)
	}
}
