// Package ledger keeps account state in memory and applies transfers to it.
//
// The ledger is the caller of the value and authorization primitives: it
// checks signatures with keysafe, balances with atomos and enforces the
// sender's nonce sequence. It keeps no history and does no persistence; a
// State is owned by one flow at a time and has no internal locking.
package ledger

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-hydron/hydron"
	"github.com/rony4d/go-hydron/inter"
	"github.com/rony4d/go-hydron/inter/atomos"
	"github.com/rony4d/go-hydron/inter/ierr"
	"github.com/rony4d/go-hydron/inter/keysafe"
	"github.com/rony4d/go-hydron/inter/validatorpk"
)

var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrAccountExists  = errors.New("account already exists")
	ErrNonceMismatch  = errors.New("nonce mismatch")
	ErrBadSignature   = errors.New("invalid signature")
	ErrFeeTooLow      = errors.New("fee below network minimum")
)

// State is the set of accounts keyed by address.
type State struct {
	rules    hydron.Rules
	accounts map[string]*inter.Account
	log      logrus.FieldLogger
}

// NewState creates an empty state governed by rules. A nil logger selects the
// standard logrus logger.
func NewState(rules hydron.Rules, log logrus.FieldLogger) *State {
	if log == nil {
		log = logrus.WithField("module", "ledger")
	}
	return &State{
		rules:    rules,
		accounts: make(map[string]*inter.Account),
		log:      log,
	}
}

// Rules returns the rules the state enforces.
func (s *State) Rules() hydron.Rules {
	return s.rules.Copy()
}

// CreateAccount registers the account owning pub. The address is derived
// from the key.
func (s *State) CreateAccount(pub validatorpk.PubKey, typ inter.AccountType) (*inter.Account, error) {
	addr := pub.Address()
	if _, ok := s.accounts[addr]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, addr)
	}
	acc, err := inter.NewAccount(addr, typ, pub)
	if err != nil {
		return nil, err
	}
	s.accounts[addr] = acc
	s.log.WithFields(logrus.Fields{"address": addr, "type": typ}).Debug("Account created")
	return acc, nil
}

// Account returns the account at addr.
func (s *State) Account(addr string) (*inter.Account, bool) {
	acc, ok := s.accounts[addr]
	return acc, ok
}

// Accounts returns all accounts ordered by address.
func (s *State) Accounts() []*inter.Account {
	out := make([]*inter.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Credit adds amount to the balance at addr. It is how value enters the
// ledger outside of transfers (genesis allocation, block fees).
func (s *State) Credit(addr string, amount atomos.Atomos) error {
	acc, ok := s.accounts[addr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, addr)
	}
	acc.AddBalance(amount)
	return nil
}

// ValidateTransfer checks tx against the current state without applying it.
func (s *State) ValidateTransfer(tx *inter.Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction", ierr.ErrNullReference)
	}
	sender, ok := s.accounts[tx.Sender]
	if !ok {
		return fmt.Errorf("%w: sender %s", ErrUnknownAccount, tx.Sender)
	}
	if _, ok := s.accounts[tx.Receiver]; !ok {
		return fmt.Errorf("%w: receiver %s", ErrUnknownAccount, tx.Receiver)
	}
	if !keysafe.Verify(tx, sender.PublicKey) {
		return fmt.Errorf("%w: %s", ErrBadSignature, tx)
	}
	if tx.Nonce != sender.Nonce {
		return fmt.Errorf("%w: want %d, got %d", ErrNonceMismatch, sender.Nonce, tx.Nonce)
	}
	if sender.Nonce == math.MaxUint64 {
		return fmt.Errorf("%w: sender %s", ierr.ErrNonceExhausted, sender.Address)
	}
	if tx.Fee.Lt(s.rules.Economy.MinFee) {
		return fmt.Errorf("%w: fee %s, minimum %s", ErrFeeTooLow, tx.Fee, s.rules.Economy.MinFee)
	}
	if cost := tx.TotalCost(); sender.Balance.Lt(cost) {
		return fmt.Errorf("%w: balance %s, cost %s", ierr.ErrInsufficientValue, sender.Balance, cost)
	}
	return nil
}

// ApplyTransfer validates tx and moves its value: the sender pays amount and
// fee, the receiver gets amount, the sender's nonce advances. The fee is left
// for the block producer to collect.
func (s *State) ApplyTransfer(tx *inter.Transaction) error {
	if err := s.ValidateTransfer(tx); err != nil {
		s.log.WithError(err).WithField("tx", tx).Warn("Transaction rejected")
		return err
	}
	sender, receiver := s.accounts[tx.Sender], s.accounts[tx.Receiver]

	cost := tx.TotalCost()
	if !sender.TryDeductBalance(cost) {
		return fmt.Errorf("%w: balance %s, cost %s", ierr.ErrInsufficientValue, sender.Balance, cost)
	}
	if err := sender.IncrementNonce(); err != nil {
		sender.AddBalance(cost)
		return err
	}
	receiver.AddBalance(tx.Amount)

	s.log.WithFields(logrus.Fields{
		"sender":   tx.Sender,
		"receiver": tx.Receiver,
		"amount":   tx.Amount,
		"fee":      tx.Fee,
		"nonce":    tx.Nonce,
	}).Debug("Transaction applied")
	return nil
}

type accountRLP struct {
	Address   string
	Balance   atomos.Atomos
	Nonce     uint64
	Type      inter.AccountType
	PublicKey []byte
}

func accountHash(acc *inter.Account) hash.Hash {
	hasher := sha256.New()
	err := rlp.Encode(hasher, &accountRLP{
		Address:   acc.Address,
		Balance:   acc.Balance,
		Nonce:     acc.Nonce,
		Type:      acc.Type,
		PublicKey: acc.PublicKey.Bytes(),
	})
	if err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

// Commit computes the state root and records each account's own hash in its
// StateHash. The root is SHA-256 over the account hashes in address order.
func (s *State) Commit() hash.Hash {
	hasher := sha256.New()
	for _, acc := range s.Accounts() {
		h := accountHash(acc)
		if err := acc.UpdateStateHash(hexutil.Encode(h[:])); err != nil {
			panic(err)
		}
		hasher.Write(h[:])
	}
	return hash.BytesToHash(hasher.Sum(nil))
}
