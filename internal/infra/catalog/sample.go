package catalog

import (
	"context"
	"sort"
	"strings"

	"anishelf/internal/domain/entity"
)

// SampleProvider serves a static in-memory catalog. It sits at the end of
// the fetch cascade and never fails, so every fetch resolves to something
// even with no network at all.
//
// Thread safety: the sample set is read-only after construction.
type SampleProvider struct {
	entries []*entity.Anime
}

// NewSampleProvider creates a provider over the built-in sample set.
func NewSampleProvider() *SampleProvider {
	return &SampleProvider{entries: sampleEntries()}
}

// Name identifies this source in logs, metrics, and cascade resolution.
func (p *SampleProvider) Name() string { return "sample" }

// Trending returns a page of the sample set ordered by rating.
func (p *SampleProvider) Trending(_ context.Context, page, perPage int) ([]*entity.Anime, error) {
	sorted := make([]*entity.Anime, len(p.entries))
	copy(sorted, p.entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	return paginate(sorted, page, perPage), nil
}

// Search returns sample entries whose titles contain the query,
// case-insensitively. An empty result is a valid answer.
func (p *SampleProvider) Search(_ context.Context, query string, page, perPage int) ([]*entity.Anime, error) {
	needle := strings.ToLower(query)
	matched := make([]*entity.Anime, 0, len(p.entries))
	for _, a := range p.entries {
		if strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.TitleEnglish), needle) {
			matched = append(matched, a)
		}
	}
	return paginate(matched, page, perPage), nil
}

// Details returns the sample entry with the given ID, or ErrNotFound when
// the sample set has no such entry.
func (p *SampleProvider) Details(_ context.Context, id int64) (*entity.Anime, error) {
	for _, a := range p.entries {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, entity.ErrNotFound
}

// All returns the complete sample set.
func (p *SampleProvider) All() []*entity.Anime {
	out := make([]*entity.Anime, len(p.entries))
	copy(out, p.entries)
	return out
}

func paginate(entries []*entity.Anime, page, perPage int) []*entity.Anime {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = len(entries)
	}
	start := (page - 1) * perPage
	if start >= len(entries) {
		return []*entity.Anime{}
	}
	end := start + perPage
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

// sampleEntries builds the fallback catalog. IDs match the MyAnimeList IDs
// of the same titles so a later successful fetch upserts over the sample
// rows instead of duplicating them.
func sampleEntries() []*entity.Anime {
	return []*entity.Anime{
		{
			ID:           5114,
			Title:        "Hagane no Renkinjutsushi: Fullmetal Alchemist",
			TitleEnglish: "Fullmetal Alchemist: Brotherhood",
			Description:  "Two brothers search for the Philosopher's Stone to restore their bodies after a failed alchemical ritual.",
			ImageURL:     "https://cdn.myanimelist.net/images/anime/1208/94745l.jpg",
			Rating:       9.1,
			Genres:       []string{"Action", "Adventure", "Drama", "Fantasy"},
			Year:         2009,
			Status:       entity.StatusFinished,
			Episodes:     64,
			Duration:     "24 min",
			Studio:       "Bones",
			SourceMedium: "TV",
		},
		{
			ID:           1535,
			Title:        "Death Note",
			TitleEnglish: "Death Note",
			Description:  "A high school student discovers a notebook that kills anyone whose name is written in it.",
			ImageURL:     "https://cdn.myanimelist.net/images/anime/9/9453l.jpg",
			Rating:       8.6,
			Genres:       []string{"Supernatural", "Suspense"},
			Year:         2006,
			Status:       entity.StatusFinished,
			Episodes:     37,
			Duration:     "23 min",
			Studio:       "Madhouse",
			SourceMedium: "TV",
		},
		{
			ID:           16498,
			Title:        "Shingeki no Kyojin",
			TitleEnglish: "Attack on Titan",
			Description:  "Humanity fights for survival against man-eating giants from behind enormous walls.",
			ImageURL:     "https://cdn.myanimelist.net/images/anime/10/47347l.jpg",
			Rating:       8.5,
			Genres:       []string{"Action", "Drama", "Suspense"},
			Year:         2013,
			Status:       entity.StatusFinished,
			Episodes:     25,
			Duration:     "24 min",
			Studio:       "Wit Studio",
			SourceMedium: "TV",
		},
		{
			ID:           21,
			Title:        "One Piece",
			TitleEnglish: "One Piece",
			Description:  "Monkey D. Luffy sets sail to find the legendary One Piece and become King of the Pirates.",
			ImageURL:     "https://cdn.myanimelist.net/images/anime/6/73245l.jpg",
			Rating:       8.7,
			Genres:       []string{"Action", "Adventure", "Fantasy"},
			Year:         1999,
			Status:       entity.StatusAiring,
			Episodes:     0,
			Duration:     "24 min",
			Studio:       "Toei Animation",
			SourceMedium: "TV",
		},
		{
			ID:           38000,
			Title:        "Kimetsu no Yaiba",
			TitleEnglish: "Demon Slayer: Kimetsu no Yaiba",
			Description:  "A kind-hearted boy becomes a demon slayer after his family is slaughtered and his sister turned into a demon.",
			ImageURL:     "https://cdn.myanimelist.net/images/anime/1286/99889l.jpg",
			Rating:       8.4,
			Genres:       []string{"Action", "Fantasy"},
			Year:         2019,
			Status:       entity.StatusFinished,
			Episodes:     26,
			Duration:     "23 min",
			Studio:       "ufotable",
			SourceMedium: "TV",
		},
		{
			ID:           9253,
			Title:        "Steins;Gate",
			TitleEnglish: "Steins;Gate",
			Description:  "A self-proclaimed mad scientist accidentally invents a way to send messages to the past.",
			ImageURL:     "https://cdn.myanimelist.net/images/anime/1935/127974l.jpg",
			Rating:       9.0,
			Genres:       []string{"Drama", "Sci-Fi", "Suspense"},
			Year:         2011,
			Status:       entity.StatusFinished,
			Episodes:     24,
			Duration:     "24 min",
			Studio:       "White Fox",
			SourceMedium: "TV",
		},
	}
}
