package inter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-hydron/inter/atomos"
	"github.com/rony4d/go-hydron/inter/ierr"
)

func fakeTx(t *testing.T, amount, fee, nonce uint64) *Transaction {
	t.Helper()
	tx, err := NewTransaction("sender", "receiver", atomos.NewFromUint64(amount), nonce, atomos.NewFromUint64(fee))
	require.NoError(t, err)
	return tx
}

func TestNewTransaction(t *testing.T) {
	require := require.New(t)

	tx := fakeTx(t, 100, 5, 0)
	require.Equal("105", tx.TotalCost().String())
	require.False(tx.IsSigned())
	require.Empty(tx.Hash())
	require.Equal(time.UTC, tx.Time.Location())
	require.Zero(tx.Time.Nanosecond() % int(TimePrecision))
	require.Equal("TX:(sender -> receiver | 100 | Fee: 5 | Nonce: 0)", tx.String())

	tests := []struct {
		name             string
		sender, receiver string
	}{
		{"empty sender", "", "r"},
		{"blank receiver", "s", "  "},
		{"self transfer", "same", "same"},
	}
	for _, tt := range tests {
		_, err := NewTransaction(tt.sender, tt.receiver, atomos.Zero(), 0, atomos.Zero())
		require.ErrorIs(err, ierr.ErrInvalidArgument, tt.name)
	}
}

func TestTransactionSetters(t *testing.T) {
	require := require.New(t)

	tx := fakeTx(t, 1, 1, 0)

	require.ErrorIs(tx.SetSignature(""), ierr.ErrInvalidArgument)
	require.ErrorIs(tx.SetHash(" "), ierr.ErrInvalidArgument)
	require.False(tx.IsSigned())

	// Only one spelling of a signature is accepted.
	for _, sig := range []string{" c2ln", "c2ln\n", "c2\nln", "c2l", "c2l=", "c2ln===="} {
		require.ErrorIs(tx.SetSignature(sig), ierr.ErrInvalidArgument, sig)
	}
	require.False(tx.IsSigned())

	require.NoError(tx.SetSignature("c2ln"))
	require.NoError(tx.SetHash("0xabc"))
	require.True(tx.IsSigned())
	require.Equal("c2ln", tx.Signature())
	require.Equal("0xabc", tx.Hash())
}

func TestTransactionJSON(t *testing.T) {
	require := require.New(t)

	tx := fakeTx(t, 1000, 5, 3)
	require.NoError(tx.SetSignature("c2ln"))
	require.NoError(tx.SetHash("0xabc"))

	buf, err := json.Marshal(tx)
	require.NoError(err)

	var got Transaction
	require.NoError(json.Unmarshal(buf, &got))
	require.Equal(tx.Sender, got.Sender)
	require.Equal(tx.Receiver, got.Receiver)
	require.True(tx.Amount.Equal(got.Amount))
	require.True(tx.Fee.Equal(got.Fee))
	require.Equal(tx.Nonce, got.Nonce)
	require.True(tx.Time.Equal(got.Time))
	require.Equal(tx.Signature(), got.Signature())
	require.Equal(tx.Hash(), got.Hash())

	// Decoding enforces the same party checks as construction.
	err = json.Unmarshal([]byte(`{"sender":"a","receiver":"a","amount":"1","fee":"1","nonce":0}`), &got)
	require.ErrorIs(err, ierr.ErrInvalidArgument)
}

func TestTransactionRLP(t *testing.T) {
	require := require.New(t)

	tx := fakeTx(t, 1000, 5, 3)
	require.NoError(tx.SetSignature("c2ln"))
	require.NoError(tx.SetHash("0xabc"))

	var buf bytes.Buffer
	require.NoError(rlp.Encode(&buf, tx))

	var got Transaction
	require.NoError(rlp.DecodeBytes(buf.Bytes(), &got))
	require.Equal(tx.Sender, got.Sender)
	require.True(tx.Amount.Equal(got.Amount))
	require.True(tx.Time.Equal(got.Time))
	require.Equal(tx.Signature(), got.Signature())
	require.Empty(got.Hash(), "hash is derived, not encoded")
}

func TestTransactionDecodeCanonical(t *testing.T) {
	require := require.New(t)

	const body = `{"sender":"a","receiver":"b","amount":"1","fee":"1","nonce":0,"timestamp":%q,"signature":%q}`

	// Case 1: timestamps on the 100ns grid decode, in any zone.
	var got Transaction
	require.NoError(json.Unmarshal([]byte(fmt.Sprintf(body, "2024-03-05T08:07:08.1234567+02:00", "c2ln")), &got))
	require.True(time.Date(2024, time.March, 5, 6, 7, 8, 123456700, time.UTC).Equal(got.Time))
	require.Equal(time.UTC, got.Time.Location())

	// Case 2: finer timestamps would not be covered by the signature.
	err := json.Unmarshal([]byte(fmt.Sprintf(body, "2024-03-05T06:07:08.123456737Z", "c2ln")), &got)
	require.ErrorIs(err, ierr.ErrInvalidArgument)

	// Case 3: non-canonical signatures are refused.
	for _, sig := range []string{" c2ln", "c2ln\n", "c2l="} {
		err = json.Unmarshal([]byte(fmt.Sprintf(body, "2024-03-05T06:07:08Z", sig)), &got)
		require.ErrorIs(err, ierr.ErrInvalidArgument, sig)
	}

	// Case 4: the same rules hold for the wire encoding.
	enc := func(nanos uint64, sig string) []byte {
		b, err := rlp.EncodeToBytes(&txRLP{
			Sender:    "a",
			Receiver:  "b",
			Amount:    atomos.NewFromUint64(1),
			Fee:       atomos.NewFromUint64(1),
			Time:      nanos,
			Signature: sig,
		})
		require.NoError(err)
		return b
	}
	require.NoError(rlp.DecodeBytes(enc(1709618828123456700, "c2ln"), &got))
	require.ErrorIs(rlp.DecodeBytes(enc(1709618828123456737, "c2ln"), &got), ierr.ErrInvalidArgument)
	require.ErrorIs(rlp.DecodeBytes(enc(1709618828123456700, "c2ln\n"), &got), ierr.ErrInvalidArgument)

	// Unsigned transactions still decode.
	require.NoError(rlp.DecodeBytes(enc(1709618828123456700, ""), &got))
	require.False(got.IsSigned())
}
