// Package hydron defines the network rules shared by every participant of a
// Hydron network.
//
// This package provides:
//   - Network identification constants (MainNet, TestNet, FakeNet)
//   - Economic parameters (minimum transaction fee)
//   - Block assembly limits
//
// Rules are consumed by the ledger (fee floor) and by the chain builder
// (block size). They are plain values; callers receive copies.
package hydron

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rony4d/go-hydron/inter/atomos"
)

// Network identification constants
const (
	MainNetworkID uint64 = 0x4879 // "Hy"
	TestNetworkID uint64 = 0x4879 + 1
	FakeNetworkID uint64 = 0x4879 + 2
)

// Rules describes the configuration of a Hydron network.
type Rules struct {
	Name      string
	NetworkID uint64

	Economy EconomyRules
	Blocks  BlocksRules
}

// EconomyRules contains the economic parameters of the network.
type EconomyRules struct {
	// MinFee is the smallest fee, in base units, a transfer must carry.
	MinFee atomos.Atomos
}

// BlocksRules contains rules for block assembly.
type BlocksRules struct {
	// MaxBlockTxs caps the number of transactions per block. Zero means no cap.
	MaxBlockTxs int
}

// MainNetRules returns the rules of the production network.
func MainNetRules() Rules {
	return Rules{
		Name:      "main",
		NetworkID: MainNetworkID,
		Economy: EconomyRules{
			MinFee: atomos.NewFromUint64(1),
		},
		Blocks: BlocksRules{
			MaxBlockTxs: 4096,
		},
	}
}

// TestNetRules returns the rules of the public test network. They match
// mainnet so that tests are realistic.
func TestNetRules() Rules {
	r := MainNetRules()
	r.Name = "test"
	r.NetworkID = TestNetworkID
	return r
}

// FakeNetRules returns rules for local networks: no fee floor and small
// blocks.
func FakeNetRules() Rules {
	return Rules{
		Name:      "fake",
		NetworkID: FakeNetworkID,
		Economy: EconomyRules{
			MinFee: atomos.Zero(),
		},
		Blocks: BlocksRules{
			MaxBlockTxs: 256,
		},
	}
}

// RulesByName returns the preset with the given name.
func RulesByName(name string) (Rules, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "main", "mainnet":
		return MainNetRules(), nil
	case "test", "testnet":
		return TestNetRules(), nil
	case "fake", "fakenet":
		return FakeNetRules(), nil
	default:
		return Rules{}, fmt.Errorf("unknown network %q", name)
	}
}

// Copy returns a deep copy. Atomos values are immutable, so a value copy is
// enough.
func (r Rules) Copy() Rules {
	return r
}

// String returns the JSON representation of the rules.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
