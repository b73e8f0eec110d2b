package solanautil

import (
	"github.com/gagliardetto/solana-go"
)

// IsValidAddress reports whether s is a base58 encoded ed25519 public key.
// Program derived addresses are accepted as well.
func IsValidAddress(s string) bool {
	if s == "" {
		return false
	}

	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}
