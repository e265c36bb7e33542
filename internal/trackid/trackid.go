// Package trackid generates the customer-facing order tracking tokens.
package trackid

import (
	"crypto/rand"
	"math/big"
)

// Length of every generated token.
const Length = 16

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// New returns a 16-character token drawn uniformly from [A-Za-z0-9].
// Uniqueness is not checked here; the store's conditional create enforces it.
// A failing system randomness source is unrecoverable, hence the panic.
func New() string {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("trackid: crypto/rand unavailable: " + err.Error())
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}
