package atomos

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/rony4d/go-hydron/inter/ierr"
)

// Denomination is one tier of the display ladder. Denominations are used only
// to convert human-facing quantities to and from base units; amounts are
// always stored in base units.
type Denomination uint8

// The ladder is frozen: tier i scales by 100^(2^i).
const (
	Hya Denomination = iota // 100
	Hyb                     // 100^2
	Hyg                     // 100^4
	Hyd                     // 100^8
	Hye                     // 100^16
	Hyz                     // 100^32

	denominationCount = 6
)

var (
	plainDecimal = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

	denominationNames = [denominationCount]string{"hya", "hyb", "hyg", "hyd", "hye", "hyz"}
	factors           [denominationCount]*big.Int
)

func init() {
	for i := range factors {
		factors[i] = ethmath.BigPow(100, int64(1)<<uint(i))
	}
}

// Denominations returns every defined tier in ladder order.
func Denominations() []Denomination {
	return []Denomination{Hya, Hyb, Hyg, Hyd, Hye, Hyz}
}

// Valid reports whether d is one of the defined tiers.
func (d Denomination) Valid() bool {
	return d < denominationCount
}

func (d Denomination) String() string {
	if !d.Valid() {
		return "Denomination(" + strconv.Itoa(int(d)) + ")"
	}
	return denominationNames[d]
}

// Factor returns the number of base units in one unit of d.
func (d Denomination) Factor() (*big.Int, error) {
	f, err := d.factor()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(f), nil
}

// decimals is the number of fractional digits needed to render any amount
// exactly in d.
func (d Denomination) decimals() int {
	return 2 << uint(d)
}

func (d Denomination) factor() (*big.Int, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: invalid denomination %d", ierr.ErrInvalidValue, uint8(d))
	}
	return factors[d], nil
}

// DenominationByName looks up a tier by its case-insensitive name.
func DenominationByName(name string) (Denomination, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range denominationNames {
		if n == name {
			return Denomination(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown denomination %q", ierr.ErrInvalidValue, name)
}

// FromDenomination converts a quantity of d into base units. The float is
// taken at its shortest decimal representation and the product is rounded up,
// so a sender-specified amount is never under-credited.
func FromDenomination(value float64, d Denomination) (Atomos, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return Atomos{}, fmt.Errorf("%w: %v is not a non-negative finite quantity", ierr.ErrInvalidValue, value)
	}
	if value == 0 {
		// Also folds -0, which would format with a sign.
		value = 0
	}
	return ParseDenomination(strconv.FormatFloat(value, 'f', -1, 64), d)
}

// ParseDenomination converts a plain decimal quantity of d ("12", "0.5")
// into base units, rounding up to a whole base unit. Signs, exponents and
// fractions are not accepted.
func ParseDenomination(value string, d Denomination) (Atomos, error) {
	f, err := d.factor()
	if err != nil {
		return Atomos{}, err
	}
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "-") {
		return Atomos{}, fmt.Errorf("%w: atomos amount cannot be negative", ierr.ErrInvalidValue)
	}
	if !plainDecimal.MatchString(value) {
		return Atomos{}, fmt.Errorf("%w: %q is not a plain decimal quantity", ierr.ErrInvalidValue, value)
	}
	r, ok := new(big.Rat).SetString(value)
	if !ok {
		return Atomos{}, fmt.Errorf("%w: %q is not a decimal quantity", ierr.ErrInvalidValue, value)
	}
	r.Mul(r, new(big.Rat).SetInt(f))

	q, m := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	if m.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return Atomos{v: q}, nil
}

// ToDenomination returns the whole number of d units in a, truncating the
// remainder.
func ToDenomination(a Atomos, d Denomination) (*big.Int, error) {
	f, err := d.factor()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Quo(a.int(), f), nil
}

// FormatDenomination renders a exactly in d, without trailing zeros.
func FormatDenomination(a Atomos, d Denomination) (string, error) {
	f, err := d.factor()
	if err != nil {
		return "", err
	}
	s := new(big.Rat).SetFrac(a.int(), f).FloatString(d.decimals())
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, "."), nil
}
