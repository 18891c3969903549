package game

import (
	"crypto/rand"
	"math/big"
)

// IntN returns a uniformly random int in [0, n). n is always > 0.
type IntN func(n int) int

// CryptoIntN draws from crypto/rand. A failed read panics: there is no
// sensible board to build without randomness.
func CryptoIntN(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("game: crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}

// Shuffle permutes s in place using Fisher–Yates: walking i from the last
// index down to 1, it swaps s[i] with s[j] for j drawn from [0, i].
// Slices of length 0 or 1 are left untouched.
func Shuffle[T any](s []T, intn IntN) {
	if intn == nil {
		intn = CryptoIntN
	}
	for i := len(s) - 1; i > 0; i-- {
		j := intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
