package middleware

import (
	"net/http"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashcards-web/auth"
	"github.com/andrewpaige1/flashcards-web/config"
	"github.com/andrewpaige1/flashcards-web/utils"
)

// SessionTTL bounds a browsing session; the cookie is a session cookie, so
// closing the browser ends it sooner.
const SessionTTL = 12 * time.Hour

// BrowserSession makes sure every request belongs to a browsing session,
// issuing a signed cookie when the request has none or an invalid one.
func BrowserSession(env config.Environment, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
				if id, err := auth.VerifySessionToken(env.SessionSecret, cookie.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(utils.WithBrowserSession(r.Context(), id)))
					return
				}
				logger.Debug("BrowserSession: replacing invalid session cookie")
			}

			id, err := gonanoid.New()
			if err != nil {
				logger.Error("BrowserSession: failed to generate session id", zap.Error(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			token, err := auth.CreateSessionToken(env.SessionSecret, id, SessionTTL)
			if err != nil {
				logger.Error("BrowserSession: failed to sign session", zap.Error(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			cookie := &http.Cookie{
				Name:     auth.SessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				Secure:   env.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			}
			if !env.IsDevelopment {
				cookie.Domain = env.Domain
			}
			http.SetCookie(w, cookie)

			next.ServeHTTP(w, r.WithContext(utils.WithBrowserSession(r.Context(), id)))
		})
	}
}
