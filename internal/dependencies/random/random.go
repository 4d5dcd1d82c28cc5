package random

import (
	"math/rand/v2"
)

// Random is the source behind id generation and answer shuffling.
// Tests substitute a deterministic implementation.
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// SystemRandom draws from the runtime's shared generator. It is safe for
// concurrent use and not suitable for secrets.
type SystemRandom struct{}

// New creates a new SystemRandom
func New() *SystemRandom {
	return &SystemRandom{}
}

// Intn returns an int in [0, n), or 0 when n is not positive
func (r *SystemRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}

// String generates a string of the given length from the given alphabet
func (r *SystemRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}
