package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/eventboardhq/eventboard-backend/internal/config"
)

type InvalidTokenError struct {
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token: %s", e.Reason)
}

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) CreateToken(subject string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(config.TokenTTL())),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Secret()))
	if err != nil {
		return "", fmt.Errorf("SignedString: %w", err)
	}

	return signed, nil
}

func (m *Manager) GetSubjectFromToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &InvalidTokenError{Reason: fmt.Sprintf("unexpected signing method %v", t.Header["alg"])}
		}
		return []byte(config.Secret()), nil
	})
	if err != nil {
		ve := &jwt.ValidationError{}
		if errors.As(err, &ve) {
			return "", &InvalidTokenError{Reason: err.Error()}
		}
		return "", fmt.Errorf("jwt.ParseWithClaims: %w", err)
	}
	if !token.Valid {
		return "", &InvalidTokenError{Reason: "token not valid"}
	}

	return claims.Subject, nil
}
