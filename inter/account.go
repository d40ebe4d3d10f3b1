package inter

import (
	"fmt"
	"math"
	"strings"

	"github.com/rony4d/go-hydron/inter/atomos"
	"github.com/rony4d/go-hydron/inter/ierr"
	"github.com/rony4d/go-hydron/inter/validatorpk"
)

// AccountType distinguishes ordinary accounts from validators.
type AccountType uint8

const (
	Regular AccountType = iota
	Validator
)

func (t AccountType) String() string {
	switch t {
	case Regular:
		return "Regular"
	case Validator:
		return "Validator"
	default:
		return fmt.Sprintf("AccountType(%d)", uint8(t))
	}
}

// Account is the ledger-state record of one address. The ledger owns
// Account values; the only invariants enforced here are that the balance
// never goes negative and the nonce only increases.
type Account struct {
	Address   string
	Balance   atomos.Atomos
	Nonce     uint64
	Type      AccountType
	PublicKey validatorpk.PubKey
	StateHash string
}

// NewAccount creates an empty account.
func NewAccount(address string, typ AccountType, publicKey validatorpk.PubKey) (*Account, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: address cannot be empty", ierr.ErrInvalidArgument)
	}
	if publicKey.Empty() {
		return nil, fmt.Errorf("%w: public key cannot be empty", ierr.ErrInvalidArgument)
	}
	return &Account{
		Address:   address,
		Type:      typ,
		PublicKey: publicKey.Copy(),
	}, nil
}

// IncrementNonce advances the nonce by one. The last nonce is never wrapped
// around to zero.
func (a *Account) IncrementNonce() error {
	if a.Nonce == math.MaxUint64 {
		return fmt.Errorf("%w: account %s", ierr.ErrNonceExhausted, a.Address)
	}
	a.Nonce++
	return nil
}

// TryDeductBalance subtracts amount if the balance covers it. It reports
// whether the deduction happened.
func (a *Account) TryDeductBalance(amount atomos.Atomos) bool {
	left, err := a.Balance.Sub(amount)
	if err != nil {
		return false
	}
	a.Balance = left
	return true
}

func (a *Account) AddBalance(amount atomos.Atomos) {
	a.Balance = a.Balance.Add(amount)
}

// UpdateStateHash records the account's state commitment.
func (a *Account) UpdateStateHash(hash string) error {
	if strings.TrimSpace(hash) == "" {
		return fmt.Errorf("%w: state hash cannot be empty", ierr.ErrInvalidArgument)
	}
	a.StateHash = hash
	return nil
}

func (a *Account) String() string {
	return fmt.Sprintf("Account(%s, Type: %s, Balance: %s, Nonce: %d)", a.Address, a.Type, a.Balance, a.Nonce)
}
