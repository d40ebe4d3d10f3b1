package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// CommonFlags returns the base set of CLI flags shared across commands.

func CommonFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file",
		},
		cli.StringFlag{
			Name:  "datadir",
			Usage: "Data directory for keys and exported transactions",
			Value: "~/.hydron",
		},
		cli.StringFlag{
			Name:  "network",
			Usage: "Network rules preset (main|test|fake)",
			Value: "main",
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		cli.IntFlag{
			Name:  "log.verbosity",
			Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
			Value: 3,
		},
		cli.BoolFlag{
			Name:  "log.color",
			Usage: "Enable colored log output",
		},
		cli.StringFlag{
			Name:  "sentry.dsn",
			Usage: "Sentry DSN; errors and above are reported when set",
		},
	}
}
