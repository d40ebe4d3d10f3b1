// Package inter defines the ledger's core data structures: the Transaction
// that moves value between addresses, the Account that holds it, and the
// Block that groups signed transactions into the chain.
//
// Key concepts:
//   - Transaction: a signed transfer of Atomos from a sender to a receiver
//   - Block: an ordered container of signed transactions plus linkage metadata
//   - Account: balance, nonce and public key of one address
//
// Usage:
//
//	block, _ := inter.NewBlock(number, prevHash, validatorAddr)
//	_ = block.AddTransaction(signedTx)
//	fees := block.TotalFees()
//	// the chain builder then sets Hash, MerkleRoot and StateRoot
//
// None of these types compute digests themselves: hashing and Merkle
// construction belong to the chain builder that finalizes blocks.
package inter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/rony4d/go-hydron/inter/atomos"
	"github.com/rony4d/go-hydron/inter/ierr"
)

// Block is an ordered sequence of signed transactions together with the
// metadata linking it into the chain.
//
// A block is created empty, filled one transaction at a time and finalized
// by an external process that sets Hash, MerkleRoot and StateRoot once each.
// Blocks carry no locking; a single chain builder owns a block while it is
// being assembled.
type Block struct {
	// Number is the height of the block. Heights increase by one per block.
	Number idx.Block

	// PrevHash links the block to its parent.
	PrevHash string

	// Time is when the block was opened.
	Time time.Time

	// Validator is the address of the account producing the block. It
	// receives the block's fees.
	Validator string

	// Txs are kept in inclusion order. Order is significant: it is the order
	// of application against the ledger and of the Merkle leaves.
	Txs []*Transaction

	hash       string
	merkleRoot string
	stateRoot  string
}

// NewBlock opens an empty block.
func NewBlock(number idx.Block, prevHash, validator string) (*Block, error) {
	if strings.TrimSpace(prevHash) == "" {
		return nil, fmt.Errorf("%w: previous hash cannot be empty", ierr.ErrInvalidArgument)
	}
	if strings.TrimSpace(validator) == "" {
		return nil, fmt.Errorf("%w: validator cannot be empty", ierr.ErrInvalidArgument)
	}
	return &Block{
		Number:    number,
		PrevHash:  prevHash,
		Time:      time.Now().UTC(),
		Validator: validator,
		Txs:       []*Transaction{},
	}, nil
}

// AddTransaction appends a signed transaction.
func (b *Block) AddTransaction(tx *Transaction) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction", ierr.ErrNullReference)
	}
	if !tx.IsSigned() {
		return ierr.ErrPrecommitViolation
	}
	b.Txs = append(b.Txs, tx)
	return nil
}

// TxCount returns the number of transactions in the block.
func (b *Block) TxCount() int {
	return len(b.Txs)
}

// TotalFees sums the fees of all transactions.
func (b *Block) TotalFees() atomos.Atomos {
	total := atomos.Zero()
	for _, tx := range b.Txs {
		total = total.Add(tx.Fee)
	}
	return total
}

func (b *Block) Hash() string       { return b.hash }
func (b *Block) MerkleRoot() string { return b.merkleRoot }
func (b *Block) StateRoot() string  { return b.stateRoot }

// SetHash records the block hash.
func (b *Block) SetHash(hash string) error {
	if strings.TrimSpace(hash) == "" {
		return fmt.Errorf("%w: hash cannot be empty", ierr.ErrInvalidArgument)
	}
	b.hash = hash
	return nil
}

// SetMerkleRoot records the Merkle root of the transactions.
func (b *Block) SetMerkleRoot(merkleRoot string) error {
	if strings.TrimSpace(merkleRoot) == "" {
		return fmt.Errorf("%w: merkle root cannot be empty", ierr.ErrInvalidArgument)
	}
	b.merkleRoot = merkleRoot
	return nil
}

// SetStateRoot records the ledger state root after applying the block.
func (b *Block) SetStateRoot(stateRoot string) error {
	if strings.TrimSpace(stateRoot) == "" {
		return fmt.Errorf("%w: state root cannot be empty", ierr.ErrInvalidArgument)
	}
	b.stateRoot = stateRoot
	return nil
}

// IsValid reports whether the block is finalized: hash, Merkle root and state
// root are all set and it holds at least one transaction.
func (b *Block) IsValid() bool {
	return b.hash != "" &&
		b.merkleRoot != "" &&
		b.stateRoot != "" &&
		len(b.Txs) > 0
}

func (b *Block) String() string {
	short := b.hash
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Block #%d | Hash: %s | Txs: %d", b.Number, short, len(b.Txs))
}
