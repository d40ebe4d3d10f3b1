// This file maps CLI context to config struct.

package launcher

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/rony4d/go-hydron/hydron"
	"github.com/rony4d/go-hydron/inter/atomos"
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node    NodeConfig    `yaml:"node"`
	Network NetworkConfig `yaml:"network"`
	Logging LoggingConfig `yaml:"logging"`
	Wallet  WalletConfig  `yaml:"wallet"`
}

type NodeConfig struct {
	DataDir string `yaml:"datadir"`
}

type NetworkConfig struct {
	Name string `yaml:"name"`
}

type LoggingConfig struct {
	Verbosity int    `yaml:"verbosity"`
	Format    string `yaml:"format"`
	Color     bool   `yaml:"color"`
	SentryDSN string `yaml:"sentry_dsn"`
}

type WalletConfig struct {
	KeyFile      string `yaml:"keyfile"`
	Denomination string `yaml:"denomination"`
}

// Rules returns the network rules the config selects.
func (c NetworkConfig) Rules() (hydron.Rules, error) {
	return hydron.RulesByName(c.Name)
}

// Denom returns the wallet unit.
func (c WalletConfig) Denom() (atomos.Denomination, error) {
	return atomos.DenominationByName(c.Denomination)
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

func defaultConfig() Config {
	def := DefaultConfig()
	return Config{
		Node: NodeConfig{
			DataDir: resolvePath(def.Node.DataDir),
		},
		Network: NetworkConfig{
			Name: def.Network.Name,
		},
		Logging: LoggingConfig{
			Verbosity: def.Logging.Verbosity,
			Format:    def.Logging.Format,
			Color:     def.Logging.Color,
			SentryDSN: def.Logging.SentryDSN,
		},
		Wallet: WalletConfig{
			KeyFile:      def.Wallet.KeyFile,
			Denomination: def.Wallet.Denomination,
		},
	}
}

// MakeAllConfigs merges defaults, config-file values, and CLI overrides into
// a single config struct and validates the result.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.GlobalString("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.Network.Rules(); err != nil {
		return err
	}
	if _, err := c.Wallet.Denom(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Config-file / CLI wiring
// -----------------------------------------------------------------------------

func loadConfigFile(path string, cfg *Config) error {
	data, err := ioutil.ReadFile(resolvePath(path))
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.Node.DataDir = resolvePath(cfg.Node.DataDir)
	return nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.GlobalIsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.GlobalString("datadir"))
	}
	if ctx.GlobalIsSet("network") {
		cfg.Network.Name = ctx.GlobalString("network")
	}

	if ctx.GlobalIsSet("log.format") {
		cfg.Logging.Format = ctx.GlobalString("log.format")
	}
	if ctx.GlobalIsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.GlobalInt("log.verbosity")
	}
	if ctx.GlobalIsSet("log.color") {
		cfg.Logging.Color = ctx.GlobalBool("log.color")
	}
	if ctx.GlobalIsSet("sentry.dsn") {
		cfg.Logging.SentryDSN = ctx.GlobalString("sentry.dsn")
	}

	if ctx.IsSet("keyfile") {
		cfg.Wallet.KeyFile = ctx.String("keyfile")
	}
	if ctx.IsSet("denom") {
		cfg.Wallet.Denomination = ctx.String("denom")
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

// keyPath resolves a key file name against the data directory.
func (c *Config) keyPath(p string) string {
	if strings.HasPrefix(p, "~") || filepath.IsAbs(p) {
		return resolvePath(p)
	}
	return filepath.Join(c.Node.DataDir, p)
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
