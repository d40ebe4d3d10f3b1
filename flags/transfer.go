package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// TransferFlags describe a transfer to sign.

func TransferFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "to",
			Usage: "Receiver address",
		},
		cli.StringFlag{
			Name:  "amount",
			Usage: "Amount to send, in units of --denom (1 hya = 100 base units) or of --base",
		},
		cli.StringFlag{
			Name:  "fee",
			Usage: "Fee to pay, in the same unit as --amount",
			Value: "0",
		},
		cli.Uint64Flag{
			Name:  "nonce",
			Usage: "Sender nonce",
		},
		BaseUnitsFlag,
		DenomFlag,
	}
}

// DenomFlag selects the unit amounts are expressed in.
var DenomFlag = cli.StringFlag{
	Name:  "denom",
	Usage: "Denomination (hya = 100, hyb = 100^2, ... hyz = 100^32 base units)",
	Value: "hya",
}

// BaseUnitsFlag makes --amount and --fee whole base units, ignoring --denom.
var BaseUnitsFlag = cli.BoolFlag{
	Name:  "base",
	Usage: "Read --amount and --fee as whole base units instead of --denom",
}

// DenominationFlags drive unit conversion.
func DenominationFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "value",
			Usage: "Value to convert",
		},
		DenomFlag,
	}
}
