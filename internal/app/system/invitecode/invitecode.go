// internal/app/system/invitecode/invitecode.go

// Package invitecode generates the short codes members share to pull
// friends onto their team. Codes are random enough that collisions are
// negligible across all teams in the system, but they are shareable,
// human-typed strings, not secrets.
package invitecode

import (
	"crypto/rand"
	"math/big"
)

// Length is the number of characters in a generated code.
const Length = 9

// alphabet avoids characters that read ambiguously when handwritten
// (0/O, 1/l/I).
const alphabet = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ"

// New returns a fresh invite code.
// Panics if the system's cryptographic random number generator fails.
func New() string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}
