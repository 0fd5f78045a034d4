// Package auth provides the authentication HTTP endpoints and the JWT
// middleware protecting the review and watch list routes.
package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"anishelf/internal/handler/http/requestid"
	"anishelf/internal/handler/http/respond"
	authservice "anishelf/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 1 * time.Hour

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// RegisterHandler creates a new account. It never signs the caller in; a
// taken email comes back as 409.
type RegisterHandler struct {
	Holder *authservice.Holder
}

func (h RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	ok, err := h.Holder.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if !ok {
		logger.Warn("registration rejected", slog.String("reason", "email_taken"))
		respond.JSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
		return
	}

	logger.Info("account registered")
	respond.JSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// TokenHandler authenticates credentials against the session holder and
// issues an HS256 JWT.
type TokenHandler struct {
	Holder *authservice.Holder
	Secret []byte
	TTL    time.Duration
}

func (h TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RecordAuthRequest("failure")
		RecordAuthDuration(time.Since(start).Seconds())
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if !h.Holder.Login(r.Context(), req.Email, req.Password) {
		logger.Warn("authentication failed",
			slog.String("reason", "invalid_credentials"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		RecordAuthRequest("failure")
		RecordAuthDuration(time.Since(start).Seconds())
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	session := h.Holder.Current()
	ttl := h.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  session.Email,
		"uid":  session.UserID,
		"name": session.Name,
		"exp":  time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		logger.Error("token generation failed", slog.Any("error", err))
		RecordAuthRequest("failure")
		RecordAuthDuration(time.Since(start).Seconds())
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("authentication successful",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	RecordAuthRequest("success")
	RecordAuthDuration(time.Since(start).Seconds())
	respond.JSON(w, http.StatusOK, tokenResponse{Token: signed})
}

// LogoutHandler unconditionally clears the session.
type LogoutHandler struct {
	Holder *authservice.Holder
}

func (h LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Holder.Logout()
	respond.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
