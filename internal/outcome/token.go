package outcome

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewFairnessToken returns the opaque commitment stored on a wager at
// placement. It hashes a fresh random nonce; the reveal/verify step of
// a full provably-fair scheme is a future extension, the token only has
// to be unpredictable and fixed before the outcome is drawn.
func NewFairnessToken() string {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		panic(err)
	}
	sum := sha256.Sum256(nonce)
	return hex.EncodeToString(sum[:])
}
