// Package review provides HTTP handlers for the review endpoints. Writes
// require authentication; reads per catalog entry are public.
package review

import (
	"time"

	"anishelf/internal/domain/entity"
)

// DTO represents the JSON structure for a review.
type DTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	AnimeID   int64     `json:"anime_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(r *entity.Review) DTO {
	return DTO{
		ID:        r.ID,
		UserID:    r.UserID,
		AnimeID:   r.AnimeID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		PhotoURL:  r.PhotoURL,
		CreatedAt: r.CreatedAt,
	}
}

func toDTOs(reviews []*entity.Review) []DTO {
	dtos := make([]DTO, 0, len(reviews))
	for _, r := range reviews {
		dtos = append(dtos, toDTO(r))
	}
	return dtos
}
