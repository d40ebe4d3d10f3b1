package keysafe

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/rony4d/go-hydron/inter"
	"github.com/rony4d/go-hydron/inter/ierr"
	"github.com/rony4d/go-hydron/inter/validatorpk"
)

// TimeLayout renders timestamps in the canonical message: UTC, seven
// fractional digits, "Z" suffix.
const TimeLayout = "2006-01-02T15:04:05.0000000Z07:00"

// CanonicalMessage returns the bytes that are signed and verified for tx:
//
//	sender ‖ receiver ‖ amount ‖ nonce ‖ fee ‖ timestamp
//
// with numbers in base 10 and the timestamp in TimeLayout. This layout is
// frozen; changing any part of it invalidates every issued signature.
func CanonicalMessage(tx *inter.Transaction) []byte {
	var sb strings.Builder
	sb.WriteString(tx.Sender)
	sb.WriteString(tx.Receiver)
	sb.WriteString(tx.Amount.String())
	sb.WriteString(strconv.FormatUint(tx.Nonce, 10))
	sb.WriteString(tx.Fee.String())
	sb.WriteString(tx.Time.UTC().Format(TimeLayout))
	return []byte(sb.String())
}

// SignTransaction signs the canonical message of tx and returns the base64
// signature. It does not attach the signature; see Authorize.
func (k *KeySafe) SignTransaction(tx *inter.Transaction) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("%w: transaction", ierr.ErrNullReference)
	}
	msg := CanonicalMessage(tx)

	var sig []byte
	err := k.withPrivateKey(func(priv ed25519.PrivateKey) {
		sig = ed25519.Sign(priv, msg)
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Authorize signs tx and attaches the signature to it.
func (k *KeySafe) Authorize(tx *inter.Transaction) error {
	sig, err := k.SignTransaction(tx)
	if err != nil {
		return err
	}
	return tx.SetSignature(sig)
}

// VerifySignature checks a base64 signature over tx against a base64 public
// key. Malformed or non-canonical signatures, malformed keys and mismatches
// all report false with a nil error. An error is returned only when the caller passes no
// transaction or an empty signature or key.
func VerifySignature(tx *inter.Transaction, signature, publicKey string) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("%w: transaction", ierr.ErrNullReference)
	}
	if strings.TrimSpace(signature) == "" {
		return false, fmt.Errorf("%w: signature cannot be empty", ierr.ErrInvalidArgument)
	}
	if strings.TrimSpace(publicKey) == "" {
		return false, fmt.Errorf("%w: public key cannot be empty", ierr.ErrInvalidArgument)
	}

	pk, err := validatorpk.FromString(publicKey)
	if err != nil {
		return false, nil
	}
	return verify(tx, signature, pk), nil
}

// Verify checks the signature attached to tx against pk. An unsigned
// transaction does not verify.
func Verify(tx *inter.Transaction, pk validatorpk.PubKey) bool {
	if tx == nil || !tx.IsSigned() {
		return false
	}
	return verify(tx, tx.Signature(), pk)
}

func verify(tx *inter.Transaction, signature string, pk validatorpk.PubKey) bool {
	pub, err := pk.Ed25519()
	if err != nil {
		return false
	}
	if !inter.IsCanonicalBase64(signature) {
		return false
	}
	sig, err := base64.StdEncoding.Strict().DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, CanonicalMessage(tx), sig)
}
