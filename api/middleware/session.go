package middleware

import (
	"net/http"

	"github.com/avolkov/storefront-backend/api/responses"
	"github.com/avolkov/storefront-backend/pkg/config"
	pkgerrors "github.com/avolkov/storefront-backend/pkg/errors"
	"github.com/avolkov/storefront-backend/pkg/logger"
	"github.com/avolkov/storefront-backend/pkg/session"
)

// Session guarantees every request carries a browser session ID. A
// missing or empty cookie gets a fresh opaque ID minted and set on the
// response; the ID is seeded into the request context either way. The
// cart and guest-order markers are keyed off this ID, independent of
// whether the caller is logged in.
func Session(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				sessionID = cookie.Value
			}

			if sessionID == "" {
				fresh, err := session.NewSessionID()
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session id"))
					return
				}
				sessionID = fresh
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
