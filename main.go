package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/nPaBwaYT/desengine/cripta"
	"github.com/nPaBwaYT/desengine/internal/config"
	"github.com/nPaBwaYT/desengine/internal/logging"
)

/*
Encrypt a message, print hex ciphertext
desengine encrypt -k abcdefgh "attack at dawn"

Decrypt hex ciphertext, strip NUL padding
desengine decrypt -k abcdefgh --trim 8e1f...

Show the 64-bit blocks of a message
desengine chunk abcdefghzxcvbnm

Run every [[job]] of a TOML file
desengine batch --config jobs.toml

Blocks are encrypted independently (ECB). Equal 8-character groups give
equal ciphertext; do not use this for anything that needs confidentiality.
*/

const version = "0.1.0"

type rootOptions struct {
	configPath   string
	logLevel     string
	tablesPath   string
	workers      int
	standardSwap bool

	cfg    *config.Config
	logger hclog.Logger
	tables *cripta.TableSet
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "desengine",
		Short:         "Encrypt and decrypt text with DES",
		Long:          "Encrypt and decrypt text with DES in electronic codebook style (no chaining).",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.tablesPath, "tables", "", "Path to a DES table file (defaults to the built-in tables)")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Blocks transformed in parallel per message (0 means one per CPU)")
	flags.BoolVar(&opts.standardSwap, "standard", false, "Emit FIPS 46 compatible blocks (final half swap)")

	rootCmd.AddCommand(
		newEncryptCmd(opts),
		newDecryptCmd(opts),
		newChunkCmd(opts),
		newDemoCmd(opts),
		newBatchCmd(opts),
		newTablesCmd(opts),
	)

	return rootCmd
}

// setup merges config file values under explicitly set flags and loads the
// table set once for all subcommands.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("tables") {
		cfg.Tables = o.tablesPath
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("standard") {
		cfg.StandardSwap = o.standardSwap
	}
	o.cfg = cfg

	o.logger = logging.NewLogger("desengine", logging.ResolveLevel(cfg.LogLevel), cmd.ErrOrStderr())

	tables, err := cripta.LoadTableSet(cfg.Tables)
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}
	o.tables = tables
	o.logger.Debug("loaded tables", "path", cfg.Tables, "final_inverts_initial", tables.FinalInvertsInitial())

	return nil
}

func (o *rootOptions) cipherOptions() []cripta.Option {
	opts := []cripta.Option{
		cripta.WithLogger(o.logger.Named("cipher")),
		cripta.WithParallelism(o.cfg.Workers),
	}
	if o.cfg.StandardSwap {
		opts = append(opts, cripta.WithStandardSwap())
	}
	return opts
}

func (o *rootOptions) newCipher(key string) (*cripta.DESCipher, error) {
	return cripta.NewDESCipher(key, o.tables, o.cipherOptions()...)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
