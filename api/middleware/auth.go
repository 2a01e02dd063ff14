package middleware

import (
	"net/http"
	"strings"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/responses"
	pkgauth "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/auth"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/config"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// partner and actor identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithActor(r.Context(), claims.PartnerID, claims.AuthorType, claims.AuthorID)

			if logg != nil {
				ctx = logg.WithPartnerID(ctx, claims.PartnerID.String())
				ctx = logg.WithAuthor(ctx, string(claims.AuthorType), claims.AuthorID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
