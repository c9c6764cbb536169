package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/domain/auth"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-calendar-sync/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// TriggerRequired accepts only verified tokens of the trigger type. It must
// run after jwtauth.Verifier.
func TriggerRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
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
			if tokenType != jwt.TokenTypeTrigger || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
