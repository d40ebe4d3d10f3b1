package flags

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	KeyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Exported private key (base64 seed)",
	}
	KeyFileFlag = cli.StringFlag{
		Name:  "keyfile",
		Usage: "File holding the exported private key; relative paths resolve against the datadir",
	}
)

// KeyFlags select the signing key of a command. --key takes precedence over
// --keyfile.

func KeyFlags() []cli.Flag {
	return []cli.Flag{
		KeyFlag,
		KeyFileFlag,
	}
}

// VerifyFlags name the inputs of signature verification.
func VerifyFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "tx",
			Usage: "JSON transaction file (reads stdin when empty)",
		},
		cli.StringFlag{
			Name:  "pubkey",
			Usage: "Signer public key (base64)",
		},
	}
}
