package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/grupomacor/vigilancia/internal/models"
)

// TokenTTL is how long a facade token stays valid. One shift plus margin.
const TokenTTL = 14 * time.Hour

// IssueToken signs the facade token handed to the UI after login
func IssueToken(u models.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"username":  u.Username,
		"name":      u.Name,
		"role":      u.Role,
		"matricula": u.Matricula,
		"exp":       time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token
func ValidateToken(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
