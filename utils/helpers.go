package utils

import (
	"context"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

type contextKey string

const browserSessionKey contextKey = "browserSession"

// GetSubject returns the identity provider's subject for a validated token.
func GetSubject(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}

// BearerToken returns the raw token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	token, err := jwtmiddleware.AuthHeaderTokenExtractor(r)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func WithBrowserSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, browserSessionKey, id)
}

func BrowserSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(browserSessionKey).(string)
	return id, ok && id != ""
}
