package review

import (
	"net/http"
	"strconv"

	"anishelf/internal/handler/http/auth"
	"anishelf/internal/handler/http/respond"
	revUC "anishelf/internal/usecase/review"
)

// ByAnimeHandler lists reviews for a catalog entry. Storage failures show
// up as an empty list, never as an error status.
type ByAnimeHandler struct {
	Svc revUC.Service
}

func (h ByAnimeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	animeID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || animeID <= 0 {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid anime id"})
		return
	}

	reviews := h.Svc.ListByAnime(r.Context(), animeID)
	respond.JSON(w, http.StatusOK, toDTOs(reviews))
}

// RatingHandler serves the mean rating of a catalog entry. An entry
// without reviews and a failing store both read as 0.
type RatingHandler struct {
	Svc revUC.Service
}

func (h RatingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	animeID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || animeID <= 0 {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid anime id"})
		return
	}

	avg := h.Svc.AverageRating(r.Context(), animeID)
	respond.JSON(w, http.StatusOK, map[string]float64{"average_rating": avg})
}

// MineHandler lists the authenticated user's reviews.
type MineHandler struct {
	Svc revUC.Service
}

func (h MineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	reviews := h.Svc.ListMine(r.Context(), claims.UserID, claims.Email)
	respond.JSON(w, http.StatusOK, toDTOs(reviews))
}
