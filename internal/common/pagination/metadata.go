package pagination

// Metadata is the paging block of a listing response.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewMetadata derives the metadata for one page of a listing with total
// matching entries.
func NewMetadata(params Params, total int64) Metadata {
	return Metadata{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages(total, params.Limit),
	}
}

// CalculateOffset converts a 1-based page into a slice or SQL offset.
func CalculateOffset(page, limit int) int {
	return (page - 1) * limit
}

// totalPages is ceil(total / limit), never less than 1: an empty listing
// still renders as one empty page.
func totalPages(total int64, limit int) int {
	if total == 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
