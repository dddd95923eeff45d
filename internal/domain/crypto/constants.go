package crypto

// Algorithm names the engine refers to. Names are compared
// after upper-casing, so every constant is stored in its upper-case form.
const (
	AlgorithmAESCBC = "AES-CBC"
	AlgorithmAESCTR = "AES-CTR"
	AlgorithmAESGCM = "AES-GCM"
	AlgorithmSHA1   = "SHA-1"
	AlgorithmSHA256 = "SHA-256"
	AlgorithmSHA384 = "SHA-384"
	AlgorithmSHA512 = "SHA-512"
	AlgorithmHKDF   = "HKDF"
	AlgorithmPBKDF2 = "PBKDF2"
	AlgorithmECDSA  = "ECDSA"
)

// Operation names used as the second key of the capability table
type Operation string

// Operations exposed by the engine
const (
	OperationEncrypt     Operation = "encrypt"
	OperationDecrypt     Operation = "decrypt"
	OperationDigest      Operation = "digest"
	OperationGenerateKey Operation = "generateKey"
	OperationDeriveBits  Operation = "deriveBits"
	OperationImportKey   Operation = "importKey"
	OperationExportKey   Operation = "exportKey"
)

// KeyUsage is a permitted operation recorded on a key
type KeyUsage string

// Key usages
const (
	UsageEncrypt    KeyUsage = "encrypt"
	UsageDecrypt    KeyUsage = "decrypt"
	UsageSign       KeyUsage = "sign"
	UsageVerify     KeyUsage = "verify"
	UsageDeriveKey  KeyUsage = "deriveKey"
	UsageDeriveBits KeyUsage = "deriveBits"
	UsageWrapKey    KeyUsage = "wrapKey"
	UsageUnwrapKey  KeyUsage = "unwrapKey"
)

// KeyType is the WebCrypto key type
type KeyType string

// Key types
const (
	KeyTypeSecret  KeyType = "secret"
	KeyTypePublic  KeyType = "public"
	KeyTypePrivate KeyType = "private"
)

// KeyFormat is the serialization format used by import and export
type KeyFormat string

// Key formats
const (
	KeyFormatRaw   KeyFormat = "raw"
	KeyFormatSpki  KeyFormat = "spki"
	KeyFormatPkcs8 KeyFormat = "pkcs8"
	KeyFormatJwk   KeyFormat = "jwk"
)

// AESBlockSize is the AES block size in bytes
const AESBlockSize = 16

// AESKeySize128 is the 128-bit AES key size in bytes
const AESKeySize128 = 16

// AESKeySize192 is the 192-bit AES key size in bytes
const AESKeySize192 = 24

// AESKeySize256 is the 256-bit AES key size in bytes
const AESKeySize256 = 32

// JWKKeyTypeOctet is the JWK "kty" value of symmetric keys
const JWKKeyTypeOctet = "oct"
