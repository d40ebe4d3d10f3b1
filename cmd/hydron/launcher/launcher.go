package launcher

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-hydron/flags"
	"github.com/rony4d/go-hydron/hydron"
	"github.com/rony4d/go-hydron/inter/atomos"
)

// stdin feeds commands that read a transaction when no file is given.
var stdin io.Reader = os.Stdin

// NewApp builds the hydron command line application.
func NewApp() *cli.App {
	app := flags.NewApp("Hydron ledger wallet")
	app.Commands = []cli.Command{
		accountCommand,
		txCommand,
		convertCommand,
		simulateCommand,
	}
	return app
}

// Launch parses args and runs the selected command.
func Launch(args []string) error {
	return NewApp().Run(args)
}

// env is what every command action works with.
type env struct {
	cfg   Config
	rules hydron.Rules
	denom atomos.Denomination
	log   *logrus.Logger
	out   io.Writer
}

func setup(ctx *cli.Context) (*env, error) {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := cfg.Network.Rules()
	if err != nil {
		return nil, err
	}
	denom, err := cfg.Wallet.Denom()
	if err != nil {
		return nil, err
	}
	errOut := ctx.App.ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}
	log, err := newLogger(cfg.Logging, errOut)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"network": rules.Name,
		"datadir": cfg.Node.DataDir,
	}).Debug("Configuration loaded")

	return &env{
		cfg:   cfg,
		rules: rules,
		denom: denom,
		log:   log,
		out:   ctx.App.Writer,
	}, nil
}

// action wraps a command body with configuration and logging setup.
func action(fn func(*cli.Context, *env) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		if err := fn(ctx, e); err != nil {
			e.log.WithError(err).WithField("command", ctx.Command.FullName()).Error("Command failed")
			return err
		}
		return nil
	}
}
