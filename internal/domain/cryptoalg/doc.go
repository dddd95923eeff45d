// Package cryptoalg defines the processor contracts behind the subtle crypto engine:
// the AES cipher and key management, PBKDF2 derivation and SHA digests.
package cryptoalg
