// Package auth issues and checks the bearer tokens that name a session.
// HTTP and gRPC share one Signer so a token works on either.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const devSecret = "dev_secret_change_me"

var ErrBadToken = errors.New("invalid token")

type Signer struct {
	secret []byte
}

// NewSigner signs with secret, or with a fixed development secret when it is empty.
func NewSigner(secret string) *Signer {
	if secret == "" {
		secret = devSecret
	}
	return &Signer{secret: []byte(secret)}
}

// Sign issues an HS256 token carrying the session id in "sid".
func (t *Signer) Sign(sid string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	})
	ss, err := tok.SignedString(t.secret)
	return ss, exp, err
}

// Parse returns the session id of a valid, unexpired token.
func (t *Signer) Parse(raw string) (string, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", ErrBadToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", ErrBadToken
	}
	return sid, nil
}

// Bearer extracts the token from an Authorization value, "" if the scheme is not Bearer.
func Bearer(header string) string {
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
