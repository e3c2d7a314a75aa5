package flash

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// a flash that is not shown within this window is dropped
const ttl = 5 * time.Minute

type claims struct {
	jwt.RegisteredClaims
	Messages []Message `json:"msg"`
}

func Encode(messages []Message, secret string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Messages: messages,
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("can't sign flash token: %w", err)
	}
	return signed, nil
}
