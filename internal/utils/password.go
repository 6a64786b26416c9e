package utils

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor for stored passwords.
const DefaultCost = 12

// HashPassword returns a salted bcrypt hash of plain at the given cost.
// Costs outside bcrypt's accepted range fall back to DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares plain against hash with bcrypt's own
// constant-time routine. A malformed hash never verifies.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
