package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anishelf/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

// Claims is the authenticated identity extracted from a valid token.
type Claims struct {
	UserID int64
	Email  string
	Name   string
}

// ClaimsFromContext returns the authenticated identity, or false when the
// request did not pass through Authz.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(ctxClaims).(Claims)
	return claims, ok
}

// Authz requires a valid bearer JWT for every method on the wrapped
// handler. The authenticated identity is added to the request context.
func Authz(secret []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		claims, err := validateJWT(r.Header.Get("Authorization"), secret)
		RecordAuthzCheckDuration(time.Since(start).Seconds())
		if err != nil {
			respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: invalid token: %w", err))
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func validateJWT(authz string, secret []byte) (Claims, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return Claims{}, errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(authz, prefix)
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, errors.New("invalid token")
	}
	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	if exp, ok := mapClaims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return Claims{}, errors.New("token expired")
	}
	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return Claims{}, errors.New("invalid sub claim")
	}
	uid, ok := mapClaims["uid"].(float64)
	if !ok {
		return Claims{}, errors.New("invalid uid claim")
	}
	name, _ := mapClaims["name"].(string)
	return Claims{UserID: int64(uid), Email: sub, Name: name}, nil
}
