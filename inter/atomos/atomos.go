// Package atomos implements the ledger's monetary unit. An Atomos is an
// arbitrary-precision, non-negative count of base units. Values are
// immutable: every arithmetic operation returns a new Atomos and fails
// instead of wrapping, clamping or going negative.
//
// Two arithmetic paths exist:
//   - Atomos × Atomos (Mul, Div, Mod) works on the exact integers and has no
//     magnitude bound.
//   - Atomos × float64 (MulScalar, DivScalar, ModScalar) is carried through a
//     float64 and is therefore bounded by math.MaxFloat64. Results are rounded
//     up to a whole base unit.
package atomos

import (
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-hydron/inter/ierr"
)

// maxFloat is the largest integer a float64 can carry. Magnitudes above it
// are rejected by the scalar path.
var maxFloat, _ = new(big.Float).SetFloat64(math.MaxFloat64).Int(nil)

// Atomos is an amount of base units. The zero value is a valid zero amount.
type Atomos struct {
	// v is never mutated after construction; nil means zero.
	v *big.Int
}

// Zero returns the zero amount.
func Zero() Atomos {
	return Atomos{}
}

// New creates an Atomos from an integer magnitude. The input is copied.
func New(v *big.Int) (Atomos, error) {
	if v == nil {
		return Atomos{}, fmt.Errorf("%w: nil magnitude", ierr.ErrInvalidValue)
	}
	if v.Sign() < 0 {
		return Atomos{}, fmt.Errorf("%w: atomos amount cannot be negative", ierr.ErrInvalidValue)
	}
	return Atomos{v: new(big.Int).Set(v)}, nil
}

// NewFromUint64 creates an Atomos from a machine integer. It cannot fail.
func NewFromUint64(v uint64) Atomos {
	return Atomos{v: new(big.Int).SetUint64(v)}
}

// NewFromFloat creates an Atomos from a float, rounding up to the next whole
// base unit.
func NewFromFloat(v float64) (Atomos, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Atomos{}, fmt.Errorf("%w: %v is not a finite amount", ierr.ErrInvalidValue, v)
	}
	if v < 0 {
		return Atomos{}, fmt.Errorf("%w: atomos amount cannot be negative", ierr.ErrInvalidValue)
	}
	i, _ := new(big.Float).SetFloat64(math.Ceil(v)).Int(nil)
	return Atomos{v: i}, nil
}

// MustNew is like New but panics on error. Intended for constants and tests.
func MustNew(v *big.Int) Atomos {
	a, err := New(v)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Atomos) int() *big.Int {
	if a.v == nil {
		return common.Big0
	}
	return a.v
}

// Big returns a copy of the magnitude.
func (a Atomos) Big() *big.Int {
	return new(big.Int).Set(a.int())
}

// IsZero reports whether a is zero.
func (a Atomos) IsZero() bool {
	return a.int().Sign() == 0
}

// Cmp returns -1, 0 or +1 as a is less than, equal to or greater than b.
func (a Atomos) Cmp(b Atomos) int {
	return a.int().Cmp(b.int())
}

func (a Atomos) Equal(b Atomos) bool { return a.Cmp(b) == 0 }
func (a Atomos) Lt(b Atomos) bool    { return a.Cmp(b) < 0 }
func (a Atomos) Lte(b Atomos) bool   { return a.Cmp(b) <= 0 }
func (a Atomos) Gt(b Atomos) bool    { return a.Cmp(b) > 0 }
func (a Atomos) Gte(b Atomos) bool   { return a.Cmp(b) >= 0 }

// Add returns a + b.
func (a Atomos) Add(b Atomos) Atomos {
	return Atomos{v: new(big.Int).Add(a.int(), b.int())}
}

// Sub returns a - b, or ErrInsufficientValue if b is larger than a.
func (a Atomos) Sub(b Atomos) (Atomos, error) {
	if a.Lt(b) {
		return Atomos{}, fmt.Errorf("%w: cannot subtract %s from %s", ierr.ErrInsufficientValue, b, a)
	}
	return Atomos{v: new(big.Int).Sub(a.int(), b.int())}, nil
}

// Mul returns a × b on the exact integers.
func (a Atomos) Mul(b Atomos) Atomos {
	return Atomos{v: new(big.Int).Mul(a.int(), b.int())}
}

// Div returns the truncated quotient a / b. Both operands must be non-zero.
func (a Atomos) Div(b Atomos) (Atomos, error) {
	if a.IsZero() || b.IsZero() {
		return Atomos{}, ierr.ErrDivisionInvalid
	}
	return Atomos{v: new(big.Int).Quo(a.int(), b.int())}, nil
}

// Mod returns a mod b. Both operands must be non-zero.
func (a Atomos) Mod(b Atomos) (Atomos, error) {
	if a.IsZero() || b.IsZero() {
		return Atomos{}, ierr.ErrDivisionInvalid
	}
	return Atomos{v: new(big.Int).Rem(a.int(), b.int())}, nil
}

// MulScalar returns a × m, rounded up to a whole base unit.
func (a Atomos) MulScalar(m float64) (Atomos, error) {
	f, err := a.float()
	if err != nil {
		return Atomos{}, fmt.Errorf("multiplication: %w", err)
	}
	if math.IsNaN(m) {
		return Atomos{}, fmt.Errorf("%w: NaN multiplier", ierr.ErrInvalidValue)
	}
	return fromScalarResult(f * m)
}

// DivScalar returns a / d, rounded up to a whole base unit.
func (a Atomos) DivScalar(d float64) (Atomos, error) {
	f, err := a.scalarDividend(d)
	if err != nil {
		return Atomos{}, err
	}
	return fromScalarResult(f / d)
}

// ModScalar returns a mod d, rounded up to a whole base unit.
func (a Atomos) ModScalar(d float64) (Atomos, error) {
	f, err := a.scalarDividend(d)
	if err != nil {
		return Atomos{}, err
	}
	return fromScalarResult(math.Mod(f, d))
}

// Inc returns a + 1.
func (a Atomos) Inc() Atomos {
	return Atomos{v: new(big.Int).Add(a.int(), common.Big1)}
}

// Dec returns a - 1, or ErrInvalidValue if a is zero.
func (a Atomos) Dec() (Atomos, error) {
	if a.IsZero() {
		return Atomos{}, fmt.Errorf("%w: atomos amount cannot be negative", ierr.ErrInvalidValue)
	}
	return Atomos{v: new(big.Int).Sub(a.int(), common.Big1)}, nil
}

func (a Atomos) float() (float64, error) {
	if a.int().Cmp(maxFloat) > 0 {
		return 0, ierr.ErrRangeExceeded
	}
	f, _ := new(big.Float).SetInt(a.int()).Float64()
	return f, nil
}

func (a Atomos) scalarDividend(d float64) (float64, error) {
	f, err := a.float()
	if err != nil {
		return 0, fmt.Errorf("division: %w", err)
	}
	if a.IsZero() || !(d > 0) {
		return 0, ierr.ErrDivisionInvalid
	}
	return f, nil
}

func fromScalarResult(f float64) (Atomos, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Atomos{}, fmt.Errorf("%w: non-finite result", ierr.ErrRangeExceeded)
	}
	return NewFromFloat(f)
}

// String returns the base-10 magnitude.
func (a Atomos) String() string {
	return a.int().String()
}

// MarshalText implements encoding.TextMarshaler as a base-10 string.
func (a Atomos) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Atomos) UnmarshalText(input []byte) error {
	v, ok := new(big.Int).SetString(string(input), 10)
	if !ok {
		return fmt.Errorf("%w: %q is not a base-10 integer", ierr.ErrInvalidValue, input)
	}
	res, err := New(v)
	if err != nil {
		return err
	}
	*a = res
	return nil
}

// EncodeRLP implements rlp.Encoder.
func (a Atomos) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, a.int())
}

// DecodeRLP implements rlp.Decoder.
func (a *Atomos) DecodeRLP(s *rlp.Stream) error {
	v := new(big.Int)
	if err := s.Decode(v); err != nil {
		return err
	}
	*a = Atomos{v: v}
	return nil
}
