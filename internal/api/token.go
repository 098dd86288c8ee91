package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken means an auth response carried none of the known token fields.
var ErrNoToken = errors.New("no access token in response")

// tokenBody covers the field names different backend revisions have used for
// the same concept.
type tokenBody struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	CamelToken  string `json:"accessToken"`
}

// ParseAccessToken extracts the access token from an auth response body,
// whichever of the historical field spellings it uses. The probing lives
// here, once, instead of at every call site.
func ParseAccessToken(body []byte) (string, error) {
	var tb tokenBody
	if err := json.Unmarshal(body, &tb); err != nil {
		return "", ErrNoToken
	}
	for _, tok := range []string{tb.AccessToken, tb.Token, tb.CamelToken} {
		if tok != "" {
			return tok, nil
		}
	}
	return "", ErrNoToken
}

// TokenRemaining reads the exp claim of a bearer token without verifying the
// signature (the server remains the source of truth at every checkpoint; this
// only seeds the advisory countdown between checks). Returns false when the
// token is not a JWT or carries no expiry.
func TokenRemaining(token string, now time.Time) (int, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	remaining := int(exp.Time.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}
