// Package auth implement token issuing and local credential handling.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// SECRET_KEY signs access tokens.
var SECRET_KEY = os.Getenv("SECRET_KEY")

// JwtIssuer is the issuer claim stamped on every access token.
const JwtIssuer = "careerly"

// generateToken issues an HS256 access token for the given user id.
func generateToken(id uuid.UUID) (string, error) {
	return GenerateTokenWithDuration(id, time.Hour, JwtIssuer)
}

// GenerateTokenWithDuration issues an HS256 access token with a caller-chosen
// lifetime and issuer. Mostly useful for tests exercising expiry and issuer
// checks.
func GenerateTokenWithDuration(id uuid.UUID, duration time.Duration, issuer string) (string, error) {

	generatedAccessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   id.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := generatedAccessToken.SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %s", err)
	}

	return signedToken, nil
}

// ValidatedToken parses and verifies an access token string.
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("invalid token")
		}
		return []byte(SECRET_KEY), nil
	})
}
