package relay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// credentialHash computes the keyed hash of a channel password using
// the process-wide secret. The hex digest is what gets stored on the
// channel and compared on join, so it must stay stable across
// processes.
func credentialHash(secret, password string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// credentialMatch reports whether the supplied password hashes to the
// stored digest.
func credentialMatch(secret, password, storedHash string) bool {
	computed := credentialHash(secret, password)
	return hmac.Equal([]byte(computed), []byte(storedHash))
}
