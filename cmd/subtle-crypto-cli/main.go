// Package main is the entry point for the subtle-crypto-cli application.
// It initializes the root command, registers the subtle crypto sub-commands
// and executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/MGTheTrain/subtle-crypto-vault/cmd/subtle-crypto-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "subtle-crypto-cli",
		Short: "WebCrypto style operations CLI tool",
		Long: `subtle-crypto-cli runs WebCrypto style operations on files.
Supports SHA digests, AES-CBC and AES-CTR key generation, encryption and decryption,
PBKDF2 bit derivation and key export. Keys are stored as JWK files in JSON or YAML.`,
		SilenceUsage: true,
	}

	handler, err := commands.InitSubtleCommands(rootCmd)
	if err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}
	defer handler.Close()

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
