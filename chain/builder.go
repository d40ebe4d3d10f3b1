package chain

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-hydron/inter"
	"github.com/rony4d/go-hydron/inter/ierr"
	"github.com/rony4d/go-hydron/ledger"
)

var (
	ErrBlockFull    = errors.New("block is full")
	ErrEmptyBlock   = errors.New("block has no transactions")
	ErrForeignBlock = errors.New("block is not the open block of this builder")
	ErrBlockOpen    = errors.New("another block is still open")
	ErrBlockApplied = errors.New("block holds applied transactions")
)

// Builder assembles blocks on top of a ledger state, one block at a time.
// Transactions are applied to the state as they are included, so a block
// that holds transactions can only be sealed, never dropped.
type Builder struct {
	state *ledger.State
	log   logrus.FieldLogger

	next     idx.Block
	headHash string
	open     *inter.Block
}

// NewBuilder creates a builder whose first block has number 0 and links to
// the zero hash.
func NewBuilder(state *ledger.State, log logrus.FieldLogger) *Builder {
	if log == nil {
		log = logrus.WithField("module", "chain")
	}
	return &Builder{
		state:    state,
		log:      log,
		headHash: hexHash(hash.Zero),
	}
}

// Head returns the number the next block will get and the hash it links to.
func (c *Builder) Head() (idx.Block, string) {
	return c.next, c.headHash
}

// Begin opens the next block, produced by validator.
func (c *Builder) Begin(validator string) (*inter.Block, error) {
	if c.open != nil {
		return nil, fmt.Errorf("%w: #%d", ErrBlockOpen, c.open.Number)
	}
	if _, ok := c.state.Account(validator); !ok {
		return nil, fmt.Errorf("%w: validator %s", ledger.ErrUnknownAccount, validator)
	}
	b, err := inter.NewBlock(c.next, c.headHash, validator)
	if err != nil {
		return nil, err
	}
	c.open = b
	return b, nil
}

// Discard drops the open block. Only a block without transactions can be
// discarded.
func (c *Builder) Discard(b *inter.Block) error {
	if b == nil || b != c.open {
		return ErrForeignBlock
	}
	if b.TxCount() != 0 {
		return fmt.Errorf("%w: #%d holds %d", ErrBlockApplied, b.Number, b.TxCount())
	}
	c.open = nil
	return nil
}

// Include applies tx to the state and appends it to the open block. A
// rejected transaction leaves both the block and the state unchanged.
func (c *Builder) Include(b *inter.Block, tx *inter.Transaction) error {
	if b == nil || b != c.open {
		return ErrForeignBlock
	}
	if tx == nil {
		return fmt.Errorf("%w: transaction", ierr.ErrNullReference)
	}
	if !tx.IsSigned() {
		return ierr.ErrPrecommitViolation
	}
	if limit := c.state.Rules().Blocks.MaxBlockTxs; limit > 0 && b.TxCount() >= limit {
		return fmt.Errorf("%w: %d transactions", ErrBlockFull, limit)
	}
	if err := c.state.ApplyTransfer(tx); err != nil {
		return err
	}
	if err := tx.SetHash(hexHash(TxHash(tx))); err != nil {
		return err
	}
	return b.AddTransaction(tx)
}

// Seal finalizes the open block: the validator collects the fees, then the
// Merkle root, state root and block hash are recorded and the head advances.
func (c *Builder) Seal(b *inter.Block) error {
	if b == nil || b != c.open {
		return ErrForeignBlock
	}
	if b.TxCount() == 0 {
		return ErrEmptyBlock
	}

	fees := b.TotalFees()
	if err := c.state.Credit(b.Validator, fees); err != nil {
		return err
	}

	leaves := make([]hash.Hash, len(b.Txs))
	for i, tx := range b.Txs {
		leaves[i] = TxHash(tx)
	}
	if err := b.SetMerkleRoot(hexHash(MerkleRoot(leaves))); err != nil {
		return err
	}
	if err := b.SetStateRoot(hexHash(c.state.Commit())); err != nil {
		return err
	}
	if err := b.SetHash(hexHash(BlockHash(b))); err != nil {
		return err
	}

	c.open = nil
	c.next = b.Number + 1
	c.headHash = b.Hash()

	c.log.WithFields(logrus.Fields{
		"number":    b.Number,
		"hash":      b.Hash(),
		"txs":       b.TxCount(),
		"fees":      fees,
		"validator": b.Validator,
	}).Info("Block sealed")
	return nil
}
