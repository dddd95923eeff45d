// Package keys defines the keyring: metadata of stored AES keys, the
// repository contract that persists them and the service that moves keys
// between the keyring and the SubtleCrypto engine.
package keys
