package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Tyno1/bitescout-api/internal/types/users"
)

// Claims carried by every BiteScout access token.
type Claims struct {
	Role users.Role `json:"role"`
	jwt.RegisteredClaims
}

// CreateToken mints a signed token for a user id and role.
func CreateToken(userID string, role users.Role, secret string) (string, error) {
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token signature and returns the subject and role.
func ParseToken(tokenString, secret string) (string, users.Role, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", "", errors.New("invalid token")
	}

	role := claims.Role
	if role == "" {
		role = users.RoleUser
	}

	return claims.Subject, role, nil
}
