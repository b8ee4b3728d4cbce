package api

import (
	"crypto/subtle"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/victornm/compass/internal/errors"
)

// Authenticator resolves the optional owner of a request from an HS256
// bearer token, the owner is the token subject.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator returns an authenticator verifying tokens with secret.
// With an empty secret every request is anonymous.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Owner returns the owner named by an Authorization header value, empty
// for an anonymous request.
func (a *Authenticator) Owner(authorization string) (string, error) {
	if a == nil || len(a.secret) == 0 || authorization == "" {
		return "", nil
	}

	raw, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok {
		return "", errors.New(errors.CodeUnauthenticated, errors.WithMessagef("authorization must be a bearer token"))
	}

	claims := new(jwt.RegisteredClaims)
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.New(errors.CodeUnauthenticated,
			errors.WithMessagef("invalid token"),
			errors.WithCause(err),
		)
	}

	if claims.Subject == "" {
		return "", errors.New(errors.CodeUnauthenticated, errors.WithMessagef("token has no subject"))
	}

	return claims.Subject, nil
}

func (a *API) checkAdmin(token string) error {
	if a.adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(a.adminToken)) != 1 {
		return errors.New(errors.CodeUnauthenticated, errors.WithMessagef("admin token required"))
	}
	return nil
}
