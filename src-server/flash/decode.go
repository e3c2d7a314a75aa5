package flash

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func Decode(token string, secret string, now time.Time) ([]Message, error) {
	var c claims
	if _, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	); err != nil {
		return nil, fmt.Errorf("invalid flash token: %w", err)
	}
	return c.Messages, nil
}
