package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The session cookie carries only the session id, HMAC-signed so a client
// cannot forge someone else's id.

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func SignToken(secret, sessionID string) (string, error) {
	c := claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func ParseToken(secret, token string) (string, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("session: unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid || c.SessionID == "" {
		return "", errors.New("session: invalid token")
	}
	return c.SessionID, nil
}
