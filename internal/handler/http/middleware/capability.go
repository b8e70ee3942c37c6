package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/peopleops-io/workforce-backend-go/internal/domain/employee"
	"github.com/peopleops-io/workforce-backend-go/internal/handler/http/response"
)

// RequireCapability guards a route behind a minimum visibility capability.
// The capability is resolved once at login and carried in the token; no role
// string matching happens here.
func RequireCapability(min employee.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient capability: required '%s'", min))
				return
			}

			capStr, ok := claims["capability"].(string)
			if !ok {
				response.Forbidden(w, fmt.Sprintf("Insufficient capability: required '%s'", min))
				return
			}

			granted := employee.Capability(capStr)
			if !granted.AtLeast(min) {
				response.Forbidden(w, fmt.Sprintf("Insufficient capability: required '%s', but '%s' was granted", min, granted))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
