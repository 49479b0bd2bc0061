package code

import (
	"crypto/rand"
	"math/big"
)

const (
	// Length is the number of characters in a game code
	Length = 6

	// Alphabet leaves out characters that are easy to misread (0/O, 1/I/L)
	Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_code.go github.com/KirkDiggler/mindmeld/internal/common/code Generator
type Generator interface {
	NewCode() (string, error)
}

// DefaultGenerator draws game codes from crypto/rand
type DefaultGenerator struct{}

func New() *DefaultGenerator {
	return &DefaultGenerator{}
}

// NewCode returns a random code of Length characters from Alphabet
func (g *DefaultGenerator) NewCode() (string, error) {
	out := make([]byte, Length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = Alphabet[n.Int64()]
	}
	return string(out), nil
}
