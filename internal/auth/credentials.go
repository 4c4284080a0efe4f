package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// VerifyAdminToken checks the shared operator token against its configured
// bcrypt hash. An empty hash disables login entirely.
func VerifyAdminToken(hash, token string) bool {
	if hash == "" || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// HashAdminToken produces the bcrypt hash stored in configuration.
func HashAdminToken(token string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
