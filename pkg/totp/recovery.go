package totp

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// RecoveryKeyAlphabet is the 62-symbol alphabet recovery keys are drawn from.
	RecoveryKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	DefaultRecoveryKeyLength = 16 // ~95 bits of entropy
	DefaultRecoveryHashCost  = 10
	RecoverySaltSize         = 16 // bytes before hex encoding

	// bcrypt rejects input over 72 bytes.
	maxHashInput = 72

	// MaxRecoveryKeyLength is the longest key whose key‖salt still fits bcrypt's input.
	MaxRecoveryKeyLength = maxHashInput - 2*RecoverySaltSize
)

var alphabetSize = big.NewInt(int64(len(RecoveryKeyAlphabet)))

// GenerateRecoveryKey creates a human-presentable recovery key of the given length.
// Symbols are drawn uniformly with crypto/rand.
func GenerateRecoveryKey(length int) (string, error) {
	if length < 1 || length > MaxRecoveryKeyLength {
		return "", ErrInvalidRecoveryKeyLength
	}

	key := make([]byte, length)
	for i := range key {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", errors.Join(ErrFailedToGenerateRecoveryKey, err)
		}
		key[i] = RecoveryKeyAlphabet[n.Int64()]
	}
	return string(key), nil
}

// ValidateRecoveryKey reports whether key could have been produced by
// GenerateRecoveryKey: 1..MaxRecoveryKeyLength symbols of RecoveryKeyAlphabet.
func ValidateRecoveryKey(key string) error {
	if key == "" || len(key) > MaxRecoveryKeyLength {
		return ErrInvalidRecoveryKey
	}
	for i := range len(key) {
		if strings.IndexByte(RecoveryKeyAlphabet, key[i]) < 0 {
			return ErrInvalidRecoveryKey
		}
	}
	return nil
}

// GenerateSalt returns a fresh hex-encoded random salt.
func GenerateSalt() (string, error) {
	b := make([]byte, RecoverySaltSize)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrFailedToGenerateSalt, err)
	}
	return hex.EncodeToString(b), nil
}

// RecoveryHasher derives the at-rest representation of recovery keys.
type RecoveryHasher struct {
	cost int
}

// NewRecoveryHasher returns a hasher with the given bcrypt cost.
func NewRecoveryHasher(cost int) (*RecoveryHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidHashCost
	}
	return &RecoveryHasher{cost: cost}, nil
}

// Hash computes bcrypt(key‖salt). The output never contains the plaintext.
func (h *RecoveryHasher) Hash(key, salt string) (string, error) {
	if len(key)+len(salt) > maxHashInput {
		return "", errors.Join(ErrFailedToHashRecoveryKey, ErrInvalidRecoveryKey)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key+salt), h.cost)
	if err != nil {
		return "", errors.Join(ErrFailedToHashRecoveryKey, err)
	}
	return string(hash), nil
}

// Verify recomputes the hash of candidate‖salt and compares it in constant time.
func (h *RecoveryHasher) Verify(candidate, salt, hash string) bool {
	if candidate == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate+salt)) == nil
}
