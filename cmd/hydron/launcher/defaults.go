package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before config files and flags override them.

type Defaults struct {
	Node    NodeDefaults
	Network NetworkDefaults
	Logging LoggingDefaults
	Wallet  WalletDefaults
}

// NodeDefaults captures where local data lives.
type NodeDefaults struct {
	DataDir string //	Root for key files and exported transactions. Relative key paths resolve against it.
}

// NetworkDefaults selects the rules preset.
type NetworkDefaults struct {
	Name string //	Rules preset name (main, test, fake). Governs the fee floor and block size.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Whether to use ANSI color codes in logs.
	SentryDSN string //	Sentry project DSN. Empty disables error reporting.
}

// WalletDefaults tunes key handling and amount rendering.
type WalletDefaults struct {
	KeyFile      string //	Key file used when no --key/--keyfile is given. Empty means none.
	Denomination string //	Unit amounts are read and printed in.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.hydron",
		},
		Network: NetworkDefaults{
			Name: "main",
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     false,
		},
		Wallet: WalletDefaults{
			Denomination: "hya",
		},
	}
}
