package dto

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		total     int
		pageCount int
	}{
		{"exact fit", 1, 20, 40, 2},
		{"partial last page", 1, 20, 41, 3},
		{"single row", 1, 20, 1, 1},
		{"empty", 1, 20, 0, 0},
		{"zero page size", 1, 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize, tt.total)
			if p.PageCount != tt.pageCount {
				t.Errorf("NewPagination(%d, %d, %d).PageCount = %d, want %d",
					tt.page, tt.pageSize, tt.total, p.PageCount, tt.pageCount)
			}
			if p.Total != tt.total || p.Page != tt.page || p.PageSize != tt.pageSize {
				t.Errorf("pagination echo mismatch: %+v", p)
			}
		})
	}
}
