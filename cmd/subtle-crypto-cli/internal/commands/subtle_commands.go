package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/infrastructure/taskqueue"
	"github.com/MGTheTrain/subtle-crypto-vault/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// SubtleCommandHandler encapsulates logic for running subtle crypto operations via CLI.
type SubtleCommandHandler struct {
	engine crypto.SubtleCrypto
	pool   *taskqueue.WorkerPool
	logger logger.Logger
}

// NewSubtleCommandHandler initializes and returns a SubtleCommandHandler instance with
// configured logger and engine.
func NewSubtleCommandHandler() (*SubtleCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	engine, pool, err := setupEngine(loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to setup engine: %w", err)
	}

	return &SubtleCommandHandler{
		engine: engine,
		pool:   pool,
		logger: loggerInstance,
	}, nil
}

// Close stops the worker pool behind the engine
func (commandHandler *SubtleCommandHandler) Close() {
	commandHandler.pool.Close()
}

// DigestCmd hashes a file and prints the hex digest
func (commandHandler *SubtleCommandHandler) DigestCmd(cmd *cobra.Command, _ []string) error {
	algorithm, _ := cmd.Flags().GetString("algorithm")
	inputFilePath, _ := cmd.Flags().GetString("input-file")

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		return err
	}

	digest, err := commandHandler.engine.Digest(cmd.Context(), crypto.AlgorithmName(algorithm), data).Await(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(digest))
	return nil
}

// GenerateKeyCmd generates an AES key and persists it as a JWK file in a selected directory
func (commandHandler *SubtleCommandHandler) GenerateKeyCmd(cmd *cobra.Command, _ []string) error {
	algorithm, _ := cmd.Flags().GetString("algorithm")
	length, _ := cmd.Flags().GetUint16("length")
	usages, _ := cmd.Flags().GetStringSlice("usages")
	keyDir, _ := cmd.Flags().GetString("key-dir")
	format, _ := cmd.Flags().GetString("format")

	if format != FileFormatJSON && format != FileFormatYAML {
		return fmt.Errorf("unsupported output format %q, use %s or %s", format, FileFormatJSON, FileFormatYAML)
	}

	descriptor := crypto.AlgorithmObject(map[string]any{"name": algorithm, "length": length})
	key, err := commandHandler.engine.GenerateKey(cmd.Context(), descriptor, true, keyUsages(usages)).Await(cmd.Context())
	if err != nil {
		return err
	}

	exported, err := commandHandler.engine.ExportKey(cmd.Context(), crypto.KeyFormatJwk, key).Await(cmd.Context())
	if err != nil {
		return err
	}

	keyFilePath := filepath.Join(keyDir, fmt.Sprintf("%s-symmetric-key.%s", key.ID(), format))
	if err := writeJWKFile(keyFilePath, exported.JWK, format); err != nil {
		return err
	}

	commandHandler.logger.Info("AES key saved to ", keyFilePath)
	fmt.Fprintln(cmd.OutOrStdout(), keyFilePath)
	return nil
}

// EncryptCmd encrypts a file with an AES key read from a JWK file
func (commandHandler *SubtleCommandHandler) EncryptCmd(cmd *cobra.Command, _ []string) error {
	return commandHandler.runCipher(cmd, crypto.UsageEncrypt)
}

// DecryptCmd decrypts a file with an AES key read from a JWK file
func (commandHandler *SubtleCommandHandler) DecryptCmd(cmd *cobra.Command, _ []string) error {
	return commandHandler.runCipher(cmd, crypto.UsageDecrypt)
}

func (commandHandler *SubtleCommandHandler) runCipher(cmd *cobra.Command, usage crypto.KeyUsage) error {
	inputFilePath, _ := cmd.Flags().GetString("input-file")
	outputFilePath, _ := cmd.Flags().GetString("output-file")
	keyFilePath, _ := cmd.Flags().GetString("key-file")
	ivHex, _ := cmd.Flags().GetString("iv")
	counterHex, _ := cmd.Flags().GetString("counter")
	counterLength, _ := cmd.Flags().GetUint8("counter-length")

	jwk, err := readJWKFile(keyFilePath)
	if err != nil {
		return err
	}
	name := algorithmOfJWK(jwk, crypto.AlgorithmAESCBC)

	members := map[string]any{"name": name}
	if name == crypto.AlgorithmAESCTR {
		counter, err := hex.DecodeString(counterHex)
		if err != nil {
			return fmt.Errorf("invalid counter: %w", err)
		}
		members["counter"] = counter
		members["length"] = counterLength
	} else {
		iv, err := hex.DecodeString(ivHex)
		if err != nil {
			return fmt.Errorf("invalid iv: %w", err)
		}
		members["iv"] = iv
	}

	key, err := commandHandler.engine.ImportKey(cmd.Context(), crypto.KeyFormatJwk, crypto.JWKKeyData(jwk), crypto.AlgorithmName(name), false, []crypto.KeyUsage{usage}).Await(cmd.Context())
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		return err
	}

	run := commandHandler.engine.Encrypt
	if usage == crypto.UsageDecrypt {
		run = commandHandler.engine.Decrypt
	}
	output, err := run(cmd.Context(), crypto.AlgorithmObject(members), key, data).Await(cmd.Context())
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputFilePath, output, 0600); err != nil {
		return err
	}

	commandHandler.logger.Info(fmt.Sprintf("%s output saved to ", usage), outputFilePath)
	return nil
}

// DeriveBitsCmd stretches a password with PBKDF2 and prints the derived bits in hex
func (commandHandler *SubtleCommandHandler) DeriveBitsCmd(cmd *cobra.Command, _ []string) error {
	passwordFilePath, _ := cmd.Flags().GetString("password-file")
	saltHex, _ := cmd.Flags().GetString("salt")
	iterations, _ := cmd.Flags().GetUint32("iterations")
	hash, _ := cmd.Flags().GetString("hash")
	length, _ := cmd.Flags().GetUint32("length")

	password, err := os.ReadFile(filepath.Clean(passwordFilePath))
	if err != nil {
		return err
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return fmt.Errorf("invalid salt: %w", err)
	}

	key, err := commandHandler.engine.ImportKey(cmd.Context(), crypto.KeyFormatRaw, crypto.RawKeyData(password), crypto.AlgorithmName(crypto.AlgorithmPBKDF2), false, []crypto.KeyUsage{crypto.UsageDeriveBits}).Await(cmd.Context())
	if err != nil {
		return err
	}

	descriptor := crypto.AlgorithmObject(map[string]any{
		"name":       crypto.AlgorithmPBKDF2,
		"salt":       salt,
		"iterations": iterations,
		"hash":       hash,
	})
	bits, err := commandHandler.engine.DeriveBits(cmd.Context(), descriptor, key, &length).Await(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(bits))
	return nil
}

// ExportKeyCmd re-exports a JWK key file as raw bytes or as a JWK in another encoding
func (commandHandler *SubtleCommandHandler) ExportKeyCmd(cmd *cobra.Command, _ []string) error {
	keyFilePath, _ := cmd.Flags().GetString("key-file")
	outputFilePath, _ := cmd.Flags().GetString("output-file")
	format, _ := cmd.Flags().GetString("format")

	jwk, err := readJWKFile(keyFilePath)
	if err != nil {
		return err
	}

	usages := keyUsages(jwk.KeyOps)
	if len(usages) == 0 {
		usages = []crypto.KeyUsage{crypto.UsageEncrypt, crypto.UsageDecrypt}
	}
	name := algorithmOfJWK(jwk, crypto.AlgorithmAESCBC)

	key, err := commandHandler.engine.ImportKey(cmd.Context(), crypto.KeyFormatJwk, crypto.JWKKeyData(jwk), crypto.AlgorithmName(name), true, usages).Await(cmd.Context())
	if err != nil {
		return err
	}

	if format == string(crypto.KeyFormatRaw) {
		exported, err := commandHandler.engine.ExportKey(cmd.Context(), crypto.KeyFormatRaw, key).Await(cmd.Context())
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputFilePath, exported.Raw, 0600); err != nil {
			return err
		}
	} else {
		exported, err := commandHandler.engine.ExportKey(cmd.Context(), crypto.KeyFormatJwk, key).Await(cmd.Context())
		if err != nil {
			return err
		}
		if err := writeJWKFile(outputFilePath, exported.JWK, fileFormatOf(outputFilePath)); err != nil {
			return err
		}
	}

	commandHandler.logger.Info("Exported key saved to ", outputFilePath)
	return nil
}

// InitSubtleCommands registers the subtle crypto commands. The returned handler must be
// closed once the root command has finished executing.
func InitSubtleCommands(rootCmd *cobra.Command) (*SubtleCommandHandler, error) {
	handler, err := NewSubtleCommandHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to create subtle command handler %w", err)
	}

	var digestCmd = &cobra.Command{
		Use:   "digest",
		Short: "Hash a file with SHA-1, SHA-256, SHA-384 or SHA-512",
		RunE:  handler.DigestCmd,
	}
	digestCmd.Flags().StringP("algorithm", "", crypto.AlgorithmSHA256, "Digest algorithm")
	digestCmd.Flags().StringP("input-file", "", "", "Path to the file to hash")
	_ = digestCmd.MarkFlagRequired("input-file")
	rootCmd.AddCommand(digestCmd)

	var generateKeyCmd = &cobra.Command{
		Use:   "generate-key",
		Short: "Generate an AES key and store it as a JWK file",
		RunE:  handler.GenerateKeyCmd,
	}
	generateKeyCmd.Flags().StringP("algorithm", "", crypto.AlgorithmAESCBC, "AES-CBC or AES-CTR")
	generateKeyCmd.Flags().Uint16P("length", "", 256, "Key length in bits (128, 192 or 256)")
	generateKeyCmd.Flags().StringSliceP("usages", "", []string{string(crypto.UsageEncrypt), string(crypto.UsageDecrypt)}, "Key usages")
	generateKeyCmd.Flags().StringP("key-dir", "", ".", "Directory to store the key file")
	generateKeyCmd.Flags().StringP("format", "", FileFormatJSON, "Key file encoding (json or yaml)")
	rootCmd.AddCommand(generateKeyCmd)

	var encryptCmd = &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file using AES-CBC or AES-CTR",
		RunE:  handler.EncryptCmd,
	}
	var decryptCmd = &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a file using AES-CBC or AES-CTR",
		RunE:  handler.DecryptCmd,
	}
	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		c.Flags().StringP("input-file", "", "", "Path to the input file")
		c.Flags().StringP("output-file", "", "", "Path to the output file")
		c.Flags().StringP("key-file", "", "", "Path to the JWK key file")
		c.Flags().StringP("iv", "", "", "Hex encoded 16 byte IV (AES-CBC)")
		c.Flags().StringP("counter", "", "", "Hex encoded 16 byte counter block (AES-CTR)")
		c.Flags().Uint8P("counter-length", "", 64, "Number of counter bits (AES-CTR)")
		_ = c.MarkFlagRequired("input-file")
		_ = c.MarkFlagRequired("output-file")
		_ = c.MarkFlagRequired("key-file")
		rootCmd.AddCommand(c)
	}

	var deriveBitsCmd = &cobra.Command{
		Use:   "derive-bits",
		Short: "Derive bits from a password using PBKDF2",
		RunE:  handler.DeriveBitsCmd,
	}
	deriveBitsCmd.Flags().StringP("password-file", "", "", "Path to the file holding the password")
	deriveBitsCmd.Flags().StringP("salt", "", "", "Hex encoded salt")
	deriveBitsCmd.Flags().Uint32P("iterations", "", 100000, "Iteration count")
	deriveBitsCmd.Flags().StringP("hash", "", crypto.AlgorithmSHA256, "PRF hash")
	deriveBitsCmd.Flags().Uint32P("length", "", 256, "Number of bits to derive, a multiple of 8")
	_ = deriveBitsCmd.MarkFlagRequired("password-file")
	rootCmd.AddCommand(deriveBitsCmd)

	var exportKeyCmd = &cobra.Command{
		Use:   "export-key",
		Short: "Export an extractable JWK key file as raw bytes or JWK",
		RunE:  handler.ExportKeyCmd,
	}
	exportKeyCmd.Flags().StringP("key-file", "", "", "Path to the JWK key file")
	exportKeyCmd.Flags().StringP("output-file", "", "", "Path to the exported key")
	exportKeyCmd.Flags().StringP("format", "", string(crypto.KeyFormatJwk), "raw or jwk")
	_ = exportKeyCmd.MarkFlagRequired("key-file")
	_ = exportKeyCmd.MarkFlagRequired("output-file")
	rootCmd.AddCommand(exportKeyCmd)

	return handler, nil
}
