package strength

import (
	"crypto/rand"
	"math/big"
)

// Character classes for the generator.
const (
	classLower  = "abcdefghijklmnopqrstuvwxyz"
	classUpper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	classDigits = "0123456789"
	classSymbol = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// GenerateOptions selects which classes a generated password draws from.
// The zero value selects everything.
type GenerateOptions struct {
	NoLower   bool
	NoUpper   bool
	NoDigits  bool
	NoSymbols bool
}

// Generate produces a random password of the given length using crypto/rand,
// guaranteeing at least one character from each selected class (when length
// allows), then shuffling.
func Generate(length int, opts GenerateOptions) (string, error) {
	if length <= 0 {
		return "", nil
	}
	var sets []string
	if !opts.NoLower {
		sets = append(sets, classLower)
	}
	if !opts.NoUpper {
		sets = append(sets, classUpper)
	}
	if !opts.NoDigits {
		sets = append(sets, classDigits)
	}
	if !opts.NoSymbols {
		sets = append(sets, classSymbol)
	}
	if len(sets) == 0 {
		return "", nil
	}
	all := ""
	for _, s := range sets {
		all += s
	}

	out := make([]byte, length)
	for i := range out {
		c, err := randIndex(len(all))
		if err != nil {
			return "", err
		}
		out[i] = all[c]
	}

	// Force one character from each selected class at distinct positions.
	if length >= len(sets) {
		for i, set := range sets {
			c, err := randIndex(len(set))
			if err != nil {
				return "", err
			}
			out[i] = set[c]
		}
	}

	// Fisher-Yates shuffle.
	for i := length - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
