package domain

// Algorithm represents the authenticated encryption algorithm used to seal field values.
//
// Both supported algorithms are AEAD ciphers with a 256-bit key and a 96-bit nonce, so a
// key generated for one can be sized identically for the other; a key is nonetheless bound to
// the algorithm it was generated for.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM, the default field cipher.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the symmetric key length in bytes (256 bits).
	KeySize = 32

	// NonceSize is the IV length in bytes (96 bits) required by both supported ciphers.
	NonceSize = 12

	// DefaultMaxInputLength is the largest plaintext, in characters, accepted by Encrypt.
	DefaultMaxInputLength = 10000

	// DefaultMaxSensitiveFields is the largest number of leaves sealed by one tree walk.
	DefaultMaxSensitiveFields = 20
)

// ParseAlgorithm converts a configuration string to an Algorithm.
func ParseAlgorithm(alg string) (Algorithm, error) {
	switch Algorithm(alg) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
