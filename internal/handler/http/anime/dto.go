// Package anime provides HTTP handlers for the catalog endpoints. Reads go
// through the cascading catalog service, so a response is served even when
// every upstream source is down.
package anime

import "anishelf/internal/domain/entity"

// DTO represents the JSON structure for a catalog entry.
type DTO struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	TitleEnglish string   `json:"title_english,omitempty"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url"`
	Rating       float64  `json:"rating"`
	Genres       []string `json:"genres"`
	Year         int      `json:"year,omitempty"`
	Status       string   `json:"status"`
	Episodes     int      `json:"episodes,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Studio       string   `json:"studio,omitempty"`
	SourceMedium string   `json:"source_medium,omitempty"`
}

func toDTO(a *entity.Anime) DTO {
	return DTO{
		ID:           a.ID,
		Title:        a.Title,
		TitleEnglish: a.TitleEnglish,
		Description:  a.Description,
		ImageURL:     a.ImageURL,
		Rating:       a.Rating,
		Genres:       a.Genres,
		Year:         a.Year,
		Status:       string(a.Status),
		Episodes:     a.Episodes,
		Duration:     a.Duration,
		Studio:       a.Studio,
		SourceMedium: a.SourceMedium,
	}
}

func toDTOs(entries []*entity.Anime) []DTO {
	dtos := make([]DTO, 0, len(entries))
	for _, a := range entries {
		dtos = append(dtos, toDTO(a))
	}
	return dtos
}
