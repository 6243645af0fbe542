package accounts

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes credentials with bcrypt. Zero value uses the
// library default cost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(_ context.Context, plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var _ Hasher = BcryptHasher{}
