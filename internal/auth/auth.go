// internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session tokens identify a player across reconnects. Rooms are joined by
// code, so there are no accounts; a token is minted when a client first
// announces a username and presented on every subsequent connection.

var (
	ErrNoSigningKey = errors.New("JWT_SECRET is not set")
	ErrInvalidToken = errors.New("invalid session token")
)

const tokenTTL = 24 * time.Hour

// Claims carries the player identity inside the JWT.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func signingKey() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrNoSigningKey
	}
	return []byte(secret), nil
}

// CreateSessionToken mints a signed token for a player.
func CreateSessionToken(playerID uuid.UUID, username string) (string, error) {
	key, err := signingKey()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken validates a token and returns the player identity.
func ParseSessionToken(tokenString string) (uuid.UUID, string, error) {
	key, err := signingKey()
	if err != nil {
		return uuid.Nil, "", err
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, "", ErrInvalidToken
	}
	playerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return playerID, claims.Username, nil
}
