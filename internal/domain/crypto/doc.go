// Package crypto defines the data model of the subtle cryptography engine: algorithm descriptors and their
// normalized variants, key handles and keys, JSON Web Keys, the error taxonomy and the engine contracts.
package crypto
