// Package validatorpk provides the public key value carried by accounts and
// identities. A PubKey records the signature scheme next to the raw key bytes
// so callers can pass keys around without knowing the curve details, and it
// owns the address derivation rule: the address is a pure function of the
// raw public key.
package validatorpk

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressLength is the number of hash bytes kept in an address.
const AddressLength = common.AddressLength

// PubKey represents a public key of a given signature scheme.
type PubKey struct {
	// Type identifies the signature scheme.
	Type uint8
	// Raw contains the key bytes as exported by the scheme.
	Raw []byte
}

// Types defines the supported public key types.
var Types = struct {
	Ed25519 uint8
}{
	Ed25519: 0xed,
}

var (
	ErrEmptyPubKey     = errors.New("empty pubkey")
	ErrMalformedPubKey = errors.New("malformed pubkey")
)

// FromEd25519 wraps a raw Ed25519 public key. The bytes are copied.
func FromEd25519(pub ed25519.PublicKey) PubKey {
	return PubKey{
		Type: Types.Ed25519,
		Raw:  common.CopyBytes(pub),
	}
}

// FromString parses the base64 export form of an Ed25519 public key.
func FromString(str string) (PubKey, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return PubKey{}, ErrEmptyPubKey
	}
	raw, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return PubKey{}, fmt.Errorf("%w: %v", ErrMalformedPubKey, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return PubKey{}, fmt.Errorf("%w: want %d bytes, got %d", ErrMalformedPubKey, ed25519.PublicKeySize, len(raw))
	}
	return PubKey{Type: Types.Ed25519, Raw: raw}, nil
}

// FromBytes reconstructs a PubKey from its type-prefixed form.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, ErrEmptyPubKey
	}
	if b[0] != Types.Ed25519 || len(b)-1 != ed25519.PublicKeySize {
		return PubKey{}, ErrMalformedPubKey
	}
	return PubKey{b[0], common.CopyBytes(b[1:])}, nil
}

// Empty checks if the public key is uninitialized.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0 && pk.Type == 0
}

// String returns the base64 export form of the raw key.
func (pk PubKey) String() string {
	return base64.StdEncoding.EncodeToString(pk.Raw)
}

// Bytes returns the type-prefixed form [Type byte] + [Raw bytes...].
func (pk PubKey) Bytes() []byte {
	return append([]byte{pk.Type}, pk.Raw...)
}

// Copy creates a deep copy of the PubKey.
func (pk PubKey) Copy() PubKey {
	return PubKey{
		Type: pk.Type,
		Raw:  common.CopyBytes(pk.Raw),
	}
}

// Ed25519 returns the key for use with crypto/ed25519.
func (pk PubKey) Ed25519() (ed25519.PublicKey, error) {
	if pk.Type != Types.Ed25519 || len(pk.Raw) != ed25519.PublicKeySize {
		return nil, ErrMalformedPubKey
	}
	return ed25519.PublicKey(pk.Raw), nil
}

// Address returns the lower-case hex address of the key: the first
// AddressLength bytes of SHA-256 over the raw key.
func (pk PubKey) Address() string {
	return DeriveAddress(pk.Raw)
}

// DeriveAddress computes the address of a raw public key.
func DeriveAddress(raw []byte) string {
	sum := sha256.Sum256(raw)
	addr := common.BytesToAddress(sum[:AddressLength])
	return common.Bytes2Hex(addr.Bytes())
}

// MarshalText implements encoding.TextMarshaler.
func (pk PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
