// Package keysafe holds an account's Ed25519 signing identity and implements
// the transaction authorization protocol on top of it.
//
// A KeySafe owns the private seed. The expanded private key exists only for
// the duration of a signing call and is zeroed before the call returns;
// Close zeroes the seed itself. Public parts (address and public key) stay
// readable after Close.
package keysafe

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rony4d/go-hydron/inter/ierr"
	"github.com/rony4d/go-hydron/inter/validatorpk"
)

// ErrKeyClosed is returned when secret material is requested after Close.
var ErrKeyClosed = errors.New("keysafe is closed")

// KeySafe is an Ed25519 identity.
type KeySafe struct {
	address   string
	publicKey validatorpk.PubKey

	mu   sync.Mutex
	seed []byte
}

// Generate creates a fresh identity from the system random source.
func Generate() (*KeySafe, error) {
	return generate(rand.Reader, make([]byte, ed25519.SeedSize))
}

// generate fills seed from r and derives the identity from it. seed is
// zeroed on return, whatever the outcome.
func generate(r io.Reader, seed []byte) (*KeySafe, error) {
	defer wipe(seed)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return fromSeed(seed), nil
}

// Recover rebuilds an identity from the output of ExportPrivateKey.
func Recover(exported string) (*KeySafe, error) {
	if strings.TrimSpace(exported) == "" {
		return nil, fmt.Errorf("%w: private key cannot be empty", ierr.ErrInvalidArgument)
	}
	seed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(exported))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrInvalidKeyFormat, err)
	}
	if len(seed) != ed25519.SeedSize {
		wipe(seed)
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ierr.ErrInvalidKeyFormat, ed25519.SeedSize, len(seed))
	}
	ks := fromSeed(seed)
	wipe(seed)
	return ks, nil
}

func fromSeed(seed []byte) *KeySafe {
	priv := ed25519.NewKeyFromSeed(seed)
	defer wipe(priv)

	pub := validatorpk.FromEd25519(priv.Public().(ed25519.PublicKey))
	return &KeySafe{
		address:   pub.Address(),
		publicKey: pub,
		seed:      append([]byte(nil), seed...),
	}
}

// DeriveAddress computes the address of a raw Ed25519 public key.
func DeriveAddress(pub ed25519.PublicKey) string {
	return validatorpk.DeriveAddress(pub)
}

// Address returns the identity's address.
func (k *KeySafe) Address() string {
	return k.address
}

// PublicKey returns a copy of the identity's public key.
func (k *KeySafe) PublicKey() validatorpk.PubKey {
	return k.publicKey.Copy()
}

// ExportPrivateKey returns the base64 seed. The caller takes responsibility
// for the returned secret.
func (k *KeySafe) ExportPrivateKey() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.seed == nil {
		return "", ErrKeyClosed
	}
	return base64.StdEncoding.EncodeToString(k.seed), nil
}

// Close zeroes the seed. It is safe to call more than once.
func (k *KeySafe) Close() {
	k.mu.Lock()
	defer k.mu.Unlock()

	wipe(k.seed)
	k.seed = nil
}

// withPrivateKey expands the seed for the duration of fn.
func (k *KeySafe) withPrivateKey(fn func(ed25519.PrivateKey)) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.seed == nil {
		return ErrKeyClosed
	}
	priv := ed25519.NewKeyFromSeed(k.seed)
	defer wipe(priv)

	fn(priv)
	return nil
}

func (k *KeySafe) String() string {
	return k.address
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
