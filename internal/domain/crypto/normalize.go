package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type capability struct {
	name      string
	operation Operation
}

type paramParser func(name string, members map[string]any) (NormalizedAlgorithm, error)

// capabilityTable maps (upper-case name, operation) to the parser producing the
// normalized variant. Pairs missing from the table are not supported.
var capabilityTable map[capability]paramParser

func init() {
	capabilityTable = map[capability]paramParser{
		{AlgorithmAESCBC, OperationEncrypt}:     parseAesCbcParams,
		{AlgorithmAESCBC, OperationDecrypt}:     parseAesCbcParams,
		{AlgorithmAESCTR, OperationEncrypt}:     parseAesCtrParams,
		{AlgorithmAESCTR, OperationDecrypt}:     parseAesCtrParams,
		{AlgorithmAESCBC, OperationGenerateKey}: parseAesKeyGenParams,
		{AlgorithmAESCTR, OperationGenerateKey}: parseAesKeyGenParams,
		{AlgorithmECDSA, OperationDeriveBits}:   parsePlainName,
		{AlgorithmHKDF, OperationDeriveBits}:    parsePlainName,
		{AlgorithmPBKDF2, OperationDeriveBits}:  parsePbkdf2Params,
		{AlgorithmAESCBC, OperationImportKey}:   parsePlainName,
		{AlgorithmAESCTR, OperationImportKey}:   parsePlainName,
		{AlgorithmPBKDF2, OperationImportKey}:   parsePlainName,
		{AlgorithmSHA1, OperationDigest}:        digestParser(SHA1),
		{AlgorithmSHA256, OperationDigest}:      digestParser(SHA256),
		{AlgorithmSHA384, OperationDigest}:      digestParser(SHA384),
		{AlgorithmSHA512, OperationDigest}:      digestParser(SHA512),
	}
}

// Normalize validates descriptor against the capability table for operation and
// returns the operation-specific parameters. It is pure and never panics.
func Normalize(descriptor AlgorithmIdentifier, operation Operation) (NormalizedAlgorithm, error) {
	members := descriptor.Members()

	rawName, ok := members["name"]
	if !ok {
		return nil, fmt.Errorf("%w: algorithm name is required", ErrSyntax)
	}
	name, ok := rawName.(string)
	if !ok {
		return nil, fmt.Errorf("%w: algorithm name must be a string", ErrSyntax)
	}
	name = strings.ToUpper(name)

	parse, ok := capabilityTable[capability{name: name, operation: operation}]
	if !ok {
		return nil, fmt.Errorf("%w: %s does not support %s", ErrNotSupported, name, operation)
	}
	return parse(name, members)
}

func parsePlainName(name string, _ map[string]any) (NormalizedAlgorithm, error) {
	return PlainName{Name: name}, nil
}

func digestParser(d DigestAlgorithm) paramParser {
	return func(string, map[string]any) (NormalizedAlgorithm, error) {
		return d, nil
	}
}

func parseAesCbcParams(name string, members map[string]any) (NormalizedAlgorithm, error) {
	iv, err := bytesMember(members, "iv")
	if err != nil {
		return nil, err
	}
	return AesCbcParams{Name: name, IV: iv}, nil
}

func parseAesCtrParams(name string, members map[string]any) (NormalizedAlgorithm, error) {
	counter, err := bytesMember(members, "counter")
	if err != nil {
		return nil, err
	}
	length, err := unsignedMember(members, "length", math.MaxUint8)
	if err != nil {
		return nil, err
	}
	return AesCtrParams{Name: name, Counter: counter, Length: uint8(length)}, nil
}

func parseAesKeyGenParams(name string, members map[string]any) (NormalizedAlgorithm, error) {
	length, err := unsignedMember(members, "length", math.MaxUint16)
	if err != nil {
		return nil, err
	}
	return AesKeyGenParams{Name: name, Length: uint16(length)}, nil
}

func parsePbkdf2Params(_ string, members map[string]any) (NormalizedAlgorithm, error) {
	salt, err := bytesMember(members, "salt")
	if err != nil {
		return nil, err
	}
	iterations, err := unsignedMember(members, "iterations", math.MaxUint32)
	if err != nil {
		return nil, err
	}
	rawHash, ok := members["hash"]
	if !ok {
		return nil, fmt.Errorf("%w: hash is required", ErrSyntax)
	}
	hashDescriptor, err := toIdentifier(rawHash)
	if err != nil {
		return nil, err
	}
	hashAlg, err := Normalize(hashDescriptor, OperationDigest)
	if err != nil {
		return nil, err
	}
	return Pbkdf2Params{Salt: salt, Iterations: uint32(iterations), Hash: hashAlg}, nil
}

func toIdentifier(value any) (AlgorithmIdentifier, error) {
	switch v := value.(type) {
	case string:
		return AlgorithmName(v), nil
	case map[string]any:
		return AlgorithmObject(v), nil
	case AlgorithmIdentifier:
		return v, nil
	default:
		return AlgorithmIdentifier{}, fmt.Errorf("%w: hash must be an algorithm identifier", ErrSyntax)
	}
}

// bytesMember reads a BufferSource member. Accepted shapes are []byte, a
// standard base64 string and an array of byte-sized numbers. The result is
// always a fresh copy.
func bytesMember(members map[string]any, key string) ([]byte, error) {
	raw, ok := members[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: %s is required", ErrSyntax, key)
	}
	switch v := raw.(type) {
	case []byte:
		return append([]byte{}, v...), nil
	case string:
		decoded, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not valid base64: %v", ErrSyntax, key, err)
		}
		return decoded, nil
	case []int:
		out := make([]byte, len(v))
		for i, n := range v {
			if n < 0 || n > math.MaxUint8 {
				return nil, fmt.Errorf("%w: %s[%d] is not a byte", ErrSyntax, key, i)
			}
			out[i] = byte(n)
		}
		return out, nil
	case []any:
		out := make([]byte, len(v))
		for i, item := range v {
			n, err := toFloat(item)
			if err != nil || n < 0 || n > math.MaxUint8 || n != math.Trunc(n) {
				return nil, fmt.Errorf("%w: %s[%d] is not a byte", ErrSyntax, key, i)
			}
			out[i] = byte(n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a buffer", ErrSyntax, key)
	}
}

// unsignedMember reads an integer member. A missing or non-numeric value is a
// syntax error; a number outside [0, limit] or with a fraction is an
// operation error.
func unsignedMember(members map[string]any, key string, limit uint64) (uint64, error) {
	raw, ok := members[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrSyntax, key)
	}
	n, err := toFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrSyntax, key)
	}
	if n < 0 || n > float64(limit) || n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrOperation, key)
	}
	return uint64(n), nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("not a finite number")
		}
		return v, nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", value)
	}
}
