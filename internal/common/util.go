package common

import (
	"crypto/rand"
	"math/big"
)

const apiKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MakeRandAlphanumString generates a random alphanumeric string of length n,
// suitable for user API keys.
func MakeRandAlphanumString(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(apiKeyAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = apiKeyAlphabet[idx.Int64()]
	}
	return string(out), nil
}
