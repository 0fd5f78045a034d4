package pagination_test

import (
	"testing"

	"anishelf/internal/common/pagination"
)

func TestCalculateOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		page  int
		limit int
		want  int
	}{
		{"first page", 1, 20, 0},
		{"second page", 2, 20, 20},
		{"page 10 with limit 50", 10, 50, 450},
		{"limit of one", 1, 1, 0},
		{"deep page", 1000, 20, 19980},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pagination.CalculateOffset(tt.page, tt.limit); got != tt.want {
				t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func TestNewMetadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		params         pagination.Params
		total          int64
		wantTotalPages int
	}{
		{"empty listing still has one page", pagination.Params{Page: 1, Limit: 20}, 0, 1},
		{"partial page", pagination.Params{Page: 1, Limit: 20}, 10, 1},
		{"exact fit", pagination.Params{Page: 1, Limit: 20}, 20, 1},
		{"one entry over", pagination.Params{Page: 2, Limit: 20}, 21, 2},
		{"many pages", pagination.Params{Page: 3, Limit: 20}, 100, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := pagination.NewMetadata(tt.params, tt.total)
			if got.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantTotalPages)
			}
			if got.Total != tt.total || got.Page != tt.params.Page || got.Limit != tt.params.Limit {
				t.Errorf("Metadata = %+v, want echo of params and total", got)
			}
		})
	}
}
