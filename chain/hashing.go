// Package chain finalizes blocks: it hashes transactions, builds the Merkle
// root over them, applies them to the ledger and links each block to its
// parent.
package chain

import (
	"crypto/sha256"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-hydron/inter"
)

// TxHash calculates the hash of a signed transaction: SHA-256 over its RLP
// encoding, signature included.
func TxHash(tx *inter.Transaction) hash.Hash {
	hasher := sha256.New()
	err := rlp.Encode(hasher, tx)
	if err != nil {
		panic("can't hash: " + err.Error())
	}
	return hash.BytesToHash(hasher.Sum(nil))
}

// MerkleRoot folds leaves pairwise with hash.Of until one node remains. A
// level with an odd number of nodes pairs its last node with itself. The
// root of no leaves is hash.Zero.
func MerkleRoot(leaves []hash.Hash) hash.Hash {
	if len(leaves) == 0 {
		return hash.Zero
	}
	level := make([]hash.Hash, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		next := make([]hash.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left, right := level[i], level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hash.Of(left.Bytes(), right.Bytes()))
		}
		level = next
	}
	return level[0]
}

// BlockHash calculates the hash of a block header. The Merkle and state
// roots must already be set.
func BlockHash(b *inter.Block) hash.Hash {
	return hash.Of(
		bigendian.Uint64ToBytes(uint64(b.Number)),
		[]byte(b.PrevHash),
		bigendian.Uint64ToBytes(uint64(b.Time.UnixNano())),
		[]byte(b.Validator),
		[]byte(b.MerkleRoot()),
		[]byte(b.StateRoot()),
	)
}

func hexHash(h hash.Hash) string {
	return hexutil.Encode(h.Bytes())
}
