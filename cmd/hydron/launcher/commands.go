package launcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-hydron/chain"
	"github.com/rony4d/go-hydron/flags"
	"github.com/rony4d/go-hydron/inter"
	"github.com/rony4d/go-hydron/inter/atomos"
	"github.com/rony4d/go-hydron/inter/keysafe"
	"github.com/rony4d/go-hydron/ledger"
)

var errNoKey = errors.New("no key given, use --key or --keyfile")

var accountCommand = cli.Command{
	Name:     "account",
	Usage:    "Manage signing keys",
	Category: "ACCOUNT COMMANDS",
	Subcommands: []cli.Command{
		{
			Name:   "new",
			Usage:  "Generate a new key",
			Flags:  []cli.Flag{flags.KeyFileFlag},
			Action: action(accountNew),
		},
		{
			Name:   "inspect",
			Usage:  "Print the address and public key of a key",
			Flags:  flags.KeyFlags(),
			Action: action(accountInspect),
		},
	},
}

var txCommand = cli.Command{
	Name:     "tx",
	Usage:    "Sign and verify transactions",
	Category: "TRANSACTION COMMANDS",
	Subcommands: []cli.Command{
		{
			Name:   "sign",
			Usage:  "Build and sign a transfer, print it as JSON",
			Flags:  flags.Merge(flags.KeyFlags(), flags.TransferFlags()),
			Action: action(txSign),
		},
		{
			Name:   "verify",
			Usage:  "Check the signature of a JSON transaction",
			Flags:  flags.VerifyFlags(),
			Action: action(txVerify),
		},
	},
}

var convertCommand = cli.Command{
	Name:     "convert",
	Usage:    "Convert between base units and denominations",
	Category: "MISCELLANEOUS COMMANDS",
	Subcommands: []cli.Command{
		{
			Name:   "to",
			Usage:  "Express a base unit value in --denom",
			Flags:  flags.DenominationFlags(),
			Action: action(convertTo),
		},
		{
			Name:   "from",
			Usage:  "Convert a --denom value to base units, rounding up",
			Flags:  flags.DenominationFlags(),
			Action: action(convertFrom),
		},
	},
}

var simulateCommand = cli.Command{
	Name:     "simulate",
	Usage:    "Run a transfer through a throwaway ledger and seal it in a block",
	Category: "MISCELLANEOUS COMMANDS",
	Action:   action(simulate),
}

func accountNew(ctx *cli.Context, e *env) error {
	ks, err := keysafe.Generate()
	if err != nil {
		return err
	}
	defer ks.Close()

	exported, err := ks.ExportPrivateKey()
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "Address:    %s\n", ks.Address())
	fmt.Fprintf(e.out, "Public key: %s\n", ks.PublicKey())

	if e.cfg.Wallet.KeyFile == "" {
		fmt.Fprintf(e.out, "Private key: %s\n", exported)
		return nil
	}
	path := e.cfg.keyPath(e.cfg.Wallet.KeyFile)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := ioutil.WriteFile(path, []byte(exported+"\n"), 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	fmt.Fprintf(e.out, "Key file:   %s\n", path)
	e.log.WithField("address", ks.Address()).Info("Key generated")
	return nil
}

func accountInspect(ctx *cli.Context, e *env) error {
	ks, err := loadKey(ctx, e)
	if err != nil {
		return err
	}
	defer ks.Close()

	fmt.Fprintf(e.out, "Address:    %s\n", ks.Address())
	fmt.Fprintf(e.out, "Public key: %s\n", ks.PublicKey())
	return nil
}

func loadKey(ctx *cli.Context, e *env) (*keysafe.KeySafe, error) {
	if key := ctx.String("key"); key != "" {
		return keysafe.Recover(key)
	}
	if e.cfg.Wallet.KeyFile == "" {
		return nil, errNoKey
	}
	data, err := ioutil.ReadFile(e.cfg.keyPath(e.cfg.Wallet.KeyFile))
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return keysafe.Recover(strings.TrimSpace(string(data)))
}

func txSign(ctx *cli.Context, e *env) error {
	ks, err := loadKey(ctx, e)
	if err != nil {
		return err
	}
	defer ks.Close()

	if !ctx.IsSet("amount") {
		return fmt.Errorf("--amount is required")
	}
	amount, err := parseQuantity(ctx, "amount", e.denom)
	if err != nil {
		return err
	}
	fee, err := parseQuantity(ctx, "fee", e.denom)
	if err != nil {
		return err
	}
	if fee.Lt(e.rules.Economy.MinFee) {
		e.log.WithFields(logrus.Fields{
			"fee":     fee,
			"minimum": e.rules.Economy.MinFee,
			"network": e.rules.Name,
		}).Warn("Fee is below the network minimum, the ledger will reject it")
	}

	tx, err := inter.NewTransaction(ks.Address(), ctx.String("to"), amount, ctx.Uint64("nonce"), fee)
	if err != nil {
		return err
	}
	if err := ks.Authorize(tx); err != nil {
		return err
	}

	b, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, string(b))
	e.log.WithField("tx", tx).Info("Transaction signed")
	return nil
}

// parseQuantity reads flag as whole base units when --base is set and as a
// quantity of denom otherwise.
func parseQuantity(ctx *cli.Context, flag string, denom atomos.Denomination) (atomos.Atomos, error) {
	var (
		a   atomos.Atomos
		err error
	)
	if ctx.Bool(flags.BaseUnitsFlag.Name) {
		err = a.UnmarshalText([]byte(strings.TrimSpace(ctx.String(flag))))
	} else {
		a, err = atomos.ParseDenomination(ctx.String(flag), denom)
	}
	if err != nil {
		return atomos.Atomos{}, fmt.Errorf("%s: %w", flag, err)
	}
	return a, nil
}

func txVerify(ctx *cli.Context, e *env) error {
	pub := ctx.String("pubkey")
	if pub == "" {
		return fmt.Errorf("--pubkey is required")
	}

	var (
		data []byte
		err  error
	)
	if path := ctx.String("tx"); path != "" {
		data, err = ioutil.ReadFile(resolvePath(path))
	} else {
		data, err = ioutil.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("read transaction: %w", err)
	}

	tx := new(inter.Transaction)
	if err := json.Unmarshal(data, tx); err != nil {
		return fmt.Errorf("decode transaction: %w", err)
	}
	ok, err := keysafe.VerifySignature(tx, tx.Signature(), pub)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(e.out, "valid")
	} else {
		fmt.Fprintln(e.out, "invalid")
	}
	return nil
}

func convertTo(ctx *cli.Context, e *env) error {
	var a atomos.Atomos
	if err := a.UnmarshalText([]byte(ctx.String("value"))); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	s, err := atomos.FormatDenomination(a, e.denom)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s %s\n", s, e.denom)
	return nil
}

func convertFrom(ctx *cli.Context, e *env) error {
	a, err := atomos.ParseDenomination(ctx.String("value"), e.denom)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	fmt.Fprintln(e.out, a.String())
	return nil
}

// simulate funds a sender with 1000 base units, sends 100 with fee 5 to a
// receiver and seals the transfer in block 0.
func simulate(ctx *cli.Context, e *env) error {
	state := ledger.NewState(e.rules, e.log.WithField("module", "ledger"))
	builder := chain.NewBuilder(state, e.log.WithField("module", "chain"))

	var keys [3]*keysafe.KeySafe
	for i := range keys {
		ks, err := keysafe.Generate()
		if err != nil {
			return err
		}
		defer ks.Close()
		keys[i] = ks
	}
	sender, receiver, validator := keys[0], keys[1], keys[2]

	for i, ks := range keys {
		typ := inter.Regular
		if ks == validator {
			typ = inter.Validator
		}
		if _, err := state.CreateAccount(ks.PublicKey(), typ); err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
	}
	if err := state.Credit(sender.Address(), atomos.NewFromUint64(1000)); err != nil {
		return err
	}

	tx, err := inter.NewTransaction(sender.Address(), receiver.Address(), atomos.NewFromUint64(100), 0, atomos.NewFromUint64(5))
	if err != nil {
		return err
	}
	if err := sender.Authorize(tx); err != nil {
		return err
	}
	bySender := keysafe.Verify(tx, sender.PublicKey())
	byReceiver := keysafe.Verify(tx, receiver.PublicKey())

	block, err := builder.Begin(validator.Address())
	if err != nil {
		return err
	}
	if err := builder.Include(block, tx); err != nil {
		return err
	}
	if err := builder.Seal(block); err != nil {
		return err
	}

	fmt.Fprintln(e.out, tx)
	fmt.Fprintf(e.out, "Total cost: %s\n", tx.TotalCost())
	fmt.Fprintf(e.out, "Verified by sender: %t\n", bySender)
	fmt.Fprintf(e.out, "Verified by receiver: %t\n", byReceiver)
	fmt.Fprintln(e.out, block)
	fmt.Fprintf(e.out, "Merkle root: %s\n", block.MerkleRoot())
	fmt.Fprintf(e.out, "State root: %s\n", block.StateRoot())
	for _, acc := range state.Accounts() {
		fmt.Fprintln(e.out, acc)
	}
	return nil
}
