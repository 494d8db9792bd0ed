package middleware

import (
	"net/http"

	"github.com/cdma-ap/cmsnr-directory/internal/domain/auth"
	"github.com/cdma-ap/cmsnr-directory/internal/handler/http/response"
	"github.com/cdma-ap/cmsnr-directory/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// Admin guards mutating routes. With no signing secret configured the routes
// stay open; config validation refuses that combination in production.
func Admin(jwtService jwt.Service) func(http.Handler) http.Handler {
	if !jwtService.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	ja := jwtService.JWTAuth()
	verify := jwtauth.Verifier(ja)
	required := AuthRequired(ja)
	return func(next http.Handler) http.Handler {
		return verify(required(AdminOnly(next)))
	}
}
