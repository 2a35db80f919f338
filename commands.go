package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nPaBwaYT/desengine/cripta"
	"github.com/nPaBwaYT/desengine/internal/config"
)

func newEncryptCmd(opts *rootOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "encrypt MESSAGE",
		Short: "Encrypt a message and print the ciphertext as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cipher, err := opts.newCipher(key)
			if err != nil {
				return err
			}
			out, err := encryptToHex(cipher, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "8-character secret key (required)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newDecryptCmd(opts *rootOptions) *cobra.Command {
	var (
		key  string
		trim bool
	)

	cmd := &cobra.Command{
		Use:   "decrypt HEX",
		Short: "Decrypt hex ciphertext and print the plaintext",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cipher, err := opts.newCipher(key)
			if err != nil {
				return err
			}
			out, err := decryptFromHex(cipher, args[0], trim)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "8-character secret key (required)")
	cmd.Flags().BoolVar(&trim, "trim", false, "Strip trailing NUL padding from the plaintext")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newChunkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chunk MESSAGE",
		Short: "Print the 64-bit blocks a message is split into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks, err := cripta.Chunk(args[0])
			if err != nil {
				return err
			}
			opts.logger.Debug("chunked message", "blocks", len(blocks))
			for i, block := range blocks {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, block)
			}
			return nil
		},
	}
}

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run sample encryptions with the key \"abcdefgh\"",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			out := cmd.OutOrStdout()

			cipher, err := opts.newCipher("abcdefgh")
			if err != nil {
				return err
			}

			for _, message := range []string{"abcdefgh", "abcdefghzxcvbnm"} {
				blocks, err := cripta.Chunk(message)
				if err != nil {
					return err
				}
				encrypted, err := cipher.Encrypt(message)
				if err != nil {
					return err
				}
				decrypted, err := cipher.Decrypt(encrypted)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "message:    %q (%d blocks)\n", message, len(blocks))
				fmt.Fprintf(out, "ciphertext: %s\n", runesToHex(encrypted))
				fmt.Fprintf(out, "decrypted:  %q\n\n", decrypted)
			}

			fmt.Fprintf(out, "FINISHED IN %.4f SECONDS\n", time.Since(start).Seconds())
			return nil
		},
	}
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Run the [[job]] entries of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.cfg.Jobs) == 0 {
				return fmt.Errorf("no jobs configured; pass --config with [[job]] entries")
			}

			cache, err := cripta.NewCipherCache(opts.tables, opts.cfg.CacheSize, opts.logger.Named("cache"), opts.cipherOptions()...)
			if err != nil {
				return err
			}

			for i, job := range opts.cfg.Jobs {
				name := job.Name
				if name == "" {
					name = fmt.Sprintf("job-%d", i)
				}

				cipher, err := cache.Get(job.Key)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}

				var out string
				switch job.Op {
				case config.OpEncrypt:
					out, err = encryptToHex(cipher, job.Message)
				case config.OpDecrypt:
					out, err = decryptFromHex(cipher, job.Message, job.Trim)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}

				opts.logger.Info("job finished", "job", name, "op", job.Op)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", name, job.Op, out)
			}
			return nil
		},
	}
}

func newTablesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Validate the table set and report its properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := opts.cfg.Tables
			if source == "" {
				source = "built-in"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tables:                %s\n", source)
			fmt.Fprintln(out, "valid:                 true")
			fmt.Fprintf(out, "final inverts initial: %t\n", opts.tables.FinalInvertsInitial())
			fmt.Fprintf(out, "rotations:             %v\n", opts.tables.Rotations())
			return nil
		},
	}
}

func encryptToHex(cipher *cripta.DESCipher, message string) (string, error) {
	encrypted, err := cipher.Encrypt(message)
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}
	return runesToHex(encrypted), nil
}

func decryptFromHex(cipher *cripta.DESCipher, hexText string, trim bool) (string, error) {
	ciphertext, err := hexToRunes(hexText)
	if err != nil {
		return "", err
	}
	decrypted, err := cipher.Decrypt(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	if trim {
		decrypted = cripta.TrimPadding(decrypted)
	}
	return decrypted, nil
}

// runesToHex writes each ciphertext character as one byte; cipher output
// ordinals never exceed 255.
func runesToHex(s string) string {
	data := make([]byte, 0, len(s))
	for _, c := range s {
		data = append(data, byte(c))
	}
	return hex.EncodeToString(data)
}

func hexToRunes(hexText string) (string, error) {
	data, err := hex.DecodeString(hexText)
	if err != nil {
		return "", fmt.Errorf("invalid hex ciphertext: %w", err)
	}
	chars := make([]rune, len(data))
	for i, b := range data {
		chars[i] = rune(b)
	}
	return string(chars), nil
}
