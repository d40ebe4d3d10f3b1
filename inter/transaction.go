package inter

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-hydron/inter/atomos"
	"github.com/rony4d/go-hydron/inter/ierr"
)

// TimePrecision is the resolution of transaction timestamps. The canonical
// message renders seven fractional digits, so finer precision would be lost
// by the signature.
const TimePrecision = 100 * time.Nanosecond

// Transaction describes a transfer of value from Sender to Receiver.
//
// The signature is attached by the sender's KeySafe and the hash by the chain
// builder; both are set once by their owning flow. Changing any exported field
// after signing invalidates the signature.
type Transaction struct {
	Sender   string
	Receiver string
	Amount   atomos.Atomos
	Nonce    uint64
	Fee      atomos.Atomos
	Time     time.Time

	signature string
	hash      string
}

// NewTransaction creates an unsigned transaction stamped with the current UTC
// time.
func NewTransaction(sender, receiver string, amount atomos.Atomos, nonce uint64, fee atomos.Atomos) (*Transaction, error) {
	if err := checkParties(sender, receiver); err != nil {
		return nil, err
	}
	return &Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
		Nonce:    nonce,
		Fee:      fee,
		Time:     time.Now().UTC().Truncate(TimePrecision),
	}, nil
}

func checkParties(sender, receiver string) error {
	if strings.TrimSpace(sender) == "" {
		return fmt.Errorf("%w: sender cannot be empty", ierr.ErrInvalidArgument)
	}
	if strings.TrimSpace(receiver) == "" {
		return fmt.Errorf("%w: receiver cannot be empty", ierr.ErrInvalidArgument)
	}
	if sender == receiver {
		return fmt.Errorf("%w: sender and receiver cannot be the same", ierr.ErrInvalidArgument)
	}
	return nil
}

// TotalCost is the amount debited from the sender: Amount + Fee.
func (tx *Transaction) TotalCost() atomos.Atomos {
	return tx.Amount.Add(tx.Fee)
}

// IsSigned reports whether a signature has been attached.
func (tx *Transaction) IsSigned() bool {
	return tx.signature != ""
}

// Signature returns the base64 signature, or "" if unsigned.
func (tx *Transaction) Signature() string {
	return tx.signature
}

// SetSignature attaches a signature. Only the canonical padded base64 form
// is accepted, so a signature has exactly one encoding.
func (tx *Transaction) SetSignature(signature string) error {
	if signature == "" {
		return fmt.Errorf("%w: signature cannot be empty", ierr.ErrInvalidArgument)
	}
	if !IsCanonicalBase64(signature) {
		return fmt.Errorf("%w: signature is not canonical base64", ierr.ErrInvalidArgument)
	}
	tx.signature = signature
	return nil
}

// IsCanonicalBase64 reports whether s is the exact standard padded base64
// encoding of some byte string: no surrounding space, no line breaks and no
// stray padding bits.
func IsCanonicalBase64(s string) bool {
	b, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return false
	}
	return base64.StdEncoding.EncodeToString(b) == s
}

// checkDecoded rejects decoded values that a signature would not cover
// exactly: timestamps finer than TimePrecision and non-canonical signatures.
func checkDecoded(t time.Time, signature string) error {
	if t.Sub(t.Truncate(TimePrecision)) != 0 {
		return fmt.Errorf("%w: timestamp %s is finer than %s", ierr.ErrInvalidArgument, t.Format(time.RFC3339Nano), TimePrecision)
	}
	if signature != "" && !IsCanonicalBase64(signature) {
		return fmt.Errorf("%w: signature is not canonical base64", ierr.ErrInvalidArgument)
	}
	return nil
}

// Hash returns the content hash, or "" if not yet computed.
func (tx *Transaction) Hash() string {
	return tx.hash
}

// SetHash attaches the content hash computed by the chain builder.
func (tx *Transaction) SetHash(hash string) error {
	if strings.TrimSpace(hash) == "" {
		return fmt.Errorf("%w: hash cannot be empty", ierr.ErrInvalidArgument)
	}
	tx.hash = hash
	return nil
}

func (tx *Transaction) String() string {
	return fmt.Sprintf("TX:(%s -> %s | %s | Fee: %s | Nonce: %d)", tx.Sender, tx.Receiver, tx.Amount, tx.Fee, tx.Nonce)
}

type txJSON struct {
	Sender    string        `json:"sender"`
	Receiver  string        `json:"receiver"`
	Amount    atomos.Atomos `json:"amount"`
	Nonce     uint64        `json:"nonce"`
	Fee       atomos.Atomos `json:"fee"`
	Time      time.Time     `json:"timestamp"`
	Signature string        `json:"signature,omitempty"`
	Hash      string        `json:"hash,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(txJSON{
		Sender:    tx.Sender,
		Receiver:  tx.Receiver,
		Amount:    tx.Amount,
		Nonce:     tx.Nonce,
		Fee:       tx.Fee,
		Time:      tx.Time,
		Signature: tx.signature,
		Hash:      tx.hash,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The parties are checked the same
// way NewTransaction checks them.
func (tx *Transaction) UnmarshalJSON(input []byte) error {
	var dec txJSON
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if err := checkParties(dec.Sender, dec.Receiver); err != nil {
		return err
	}
	if err := checkDecoded(dec.Time, dec.Signature); err != nil {
		return err
	}
	*tx = Transaction{
		Sender:    dec.Sender,
		Receiver:  dec.Receiver,
		Amount:    dec.Amount,
		Nonce:     dec.Nonce,
		Fee:       dec.Fee,
		Time:      dec.Time.UTC(),
		signature: dec.Signature,
		hash:      dec.Hash,
	}
	return nil
}

// txRLP is the wire layout. The hash is derived from this encoding and is
// therefore not part of it.
type txRLP struct {
	Sender    string
	Receiver  string
	Amount    atomos.Atomos
	Nonce     uint64
	Fee       atomos.Atomos
	Time      uint64
	Signature string
}

// EncodeRLP implements rlp.Encoder.
func (tx *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &txRLP{
		Sender:    tx.Sender,
		Receiver:  tx.Receiver,
		Amount:    tx.Amount,
		Nonce:     tx.Nonce,
		Fee:       tx.Fee,
		Time:      uint64(tx.Time.UnixNano()),
		Signature: tx.signature,
	})
}

// DecodeRLP implements rlp.Decoder.
func (tx *Transaction) DecodeRLP(s *rlp.Stream) error {
	var dec txRLP
	if err := s.Decode(&dec); err != nil {
		return err
	}
	if err := checkParties(dec.Sender, dec.Receiver); err != nil {
		return err
	}
	t := time.Unix(0, int64(dec.Time)).UTC()
	if err := checkDecoded(t, dec.Signature); err != nil {
		return err
	}
	*tx = Transaction{
		Sender:    dec.Sender,
		Receiver:  dec.Receiver,
		Amount:    dec.Amount,
		Nonce:     dec.Nonce,
		Fee:       dec.Fee,
		Time:      t,
		signature: dec.Signature,
	}
	return nil
}
