package totp

// Config holds the TOTP settings shared by every enrollment operation.
// It is loaded once at startup (see pkg/config) and passed explicitly.
type Config struct {
	Issuer            string `env:"TOTP_ISSUER" envDefault:"The Miracle One"`  // Issuer label shown in authenticator apps
	EncryptionKey     string `env:"TOTP_ENCRYPTION_KEY"`                       // Optional base64 AES-256 key for sealing secrets at rest
	RecoveryKeyLength int    `env:"TOTP_RECOVERY_KEY_LENGTH" envDefault:"16"`  // Length of generated recovery keys
	RecoveryHashCost  int    `env:"TOTP_RECOVERY_HASH_COST" envDefault:"10"`   // bcrypt cost for recovery key hashes
}

// SealingEnabled reports whether secrets should be encrypted before they are persisted.
func (c Config) SealingEnabled() bool {
	return c.EncryptionKey != ""
}
