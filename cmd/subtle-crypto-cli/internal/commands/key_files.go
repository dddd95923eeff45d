package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MGTheTrain/subtle-crypto-vault/internal/domain/crypto"
	"gopkg.in/yaml.v2"
)

// Key file encodings
const (
	FileFormatJSON = "json"
	FileFormatYAML = "yaml"
)

// fileFormatOf picks the encoding of a key file from its extension. Anything that
// is not .yaml or .yml is read as JSON.
func fileFormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FileFormatYAML
	default:
		return FileFormatJSON
	}
}

func marshalJWK(jwk *crypto.JSONWebKey, format string) ([]byte, error) {
	switch format {
	case FileFormatJSON:
		return json.MarshalIndent(jwk, "", "  ")
	case FileFormatYAML:
		return yaml.Marshal(jwk)
	default:
		return nil, fmt.Errorf("unsupported output format %q, use %s or %s", format, FileFormatJSON, FileFormatYAML)
	}
}

func writeJWKFile(path string, jwk *crypto.JSONWebKey, format string) error {
	data, err := marshalJWK(jwk, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	return nil
}

func readJWKFile(path string) (*crypto.JSONWebKey, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	var jwk crypto.JSONWebKey
	if fileFormatOf(path) == FileFormatYAML {
		err = yaml.Unmarshal(data, &jwk)
	} else {
		err = json.Unmarshal(data, &jwk)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode key file %s: %w", path, err)
	}
	return &jwk, nil
}

// algorithmOfJWK maps the JWK alg member (A128CBC, A256CTR, ...) back to the
// WebCrypto algorithm name. Keys without alg fall back to fallback.
func algorithmOfJWK(jwk *crypto.JSONWebKey, fallback string) string {
	switch {
	case strings.HasSuffix(jwk.Alg, "CBC"):
		return crypto.AlgorithmAESCBC
	case strings.HasSuffix(jwk.Alg, "CTR"):
		return crypto.AlgorithmAESCTR
	default:
		return fallback
	}
}

func keyUsages(values []string) []crypto.KeyUsage {
	usages := make([]crypto.KeyUsage, 0, len(values))
	for _, v := range values {
		usages = append(usages, crypto.KeyUsage(strings.TrimSpace(v)))
	}
	return usages
}
