package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomString draws length symbols uniformly from alphabet using crypto/rand.
func RandomString(alphabet string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	if alphabet == "" {
		return "", fmt.Errorf("alphabet is required")
	}

	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
