package auth

import (
	"net/http"
	"time"

	authservice "anishelf/internal/service/auth"
)

// Register registers the authentication endpoints with the given mux.
func Register(mux *http.ServeMux, holder *authservice.Holder, secret []byte, ttl time.Duration) {
	mux.Handle("POST /auth/register", RegisterHandler{Holder: holder})
	mux.Handle("POST /auth/token", TokenHandler{Holder: holder, Secret: secret, TTL: ttl})
	mux.Handle("POST /auth/logout", LogoutHandler{Holder: holder})
}
