// Package enrollment implements the second-factor enrollment lifecycle:
// issuing TOTP secrets, confirming setup, verifying codes and deactivating.
//
// A client is either inactive (no stored credentials) or active (secret,
// recovery hash and recovery salt all stored). The only way in is
// ConfirmSetup, the only ways out are Deactivate and DeactivateWithRecovery.
// Issue and VerifyOnly never touch storage.
//
// The Service keeps no per-client state. Legal transitions are resolved by a
// shared pkg/statemachine table against the state derived from the stored
// record, and every write is a single Store.Update call that replaces or
// clears all three credential fields at once.
//
// # Errors
//
// Every operation returns nil or an error carrying a Kind (see KindOf).
// Messages never contain secrets, codes, recovery keys or hashes, so callers
// may log or return them as is.
//
// # Usage
//
//	svc, err := enrollment.NewService(cfg.TOTP, enrollment.NewMemoryStore("client-42"))
//	if err != nil {
//		return err
//	}
//
//	e, _ := svc.Issue(ctx, "alice@example.com")
//	// the client scans e.QRCode, stores e.RecoveryKey, then sends a code
//	err = svc.ConfirmSetup(ctx, enrollment.ConfirmParams{
//		ClientID:    "client-42",
//		Secret:      e.Secret,
//		Code:        code,
//		RecoveryKey: e.RecoveryKey,
//	})
package enrollment
