package auth

import "golang.org/x/crypto/bcrypt"

// PasswordEncoder hashes raw passwords and checks them against stored hashes.
type PasswordEncoder interface {
	Encode(raw string) (string, error)
	Matches(encoded, raw string) bool
}

// BcryptEncoder is a PasswordEncoder backed by bcrypt.
type BcryptEncoder struct {
	cost int
}

// NewBcryptEncoder returns an encoder using cost, or bcrypt.DefaultCost when cost is out of range.
func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptEncoder{cost: cost}
}

func (e *BcryptEncoder) Encode(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), e.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (e *BcryptEncoder) Matches(encoded, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw)) == nil
}
