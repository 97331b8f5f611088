package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var signingKey []byte

// SetSigningKey installs the HS256 key used for session and guest tokens.
// Called once from main before any handler issues a token.
func SetSigningKey(secret string) {
	signingKey = []byte(secret)
}

// issueJWT generates the HS256 session token handed back after login.
func issueJWT(email, role, userID, name, picture string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"name":    name,
		"picture": picture,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

func issueGuestToken(id string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    "guest",
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}
