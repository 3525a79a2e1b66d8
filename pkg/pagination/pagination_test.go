package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	n := Params{}.Normalize()
	if n.Page != 1 {
		t.Fatalf("expected page 1, got %d", n.Page)
	}
	if n.PageSize != DefaultPageSize {
		t.Fatalf("expected page size %d, got %d", DefaultPageSize, n.PageSize)
	}
}

func TestNormalizeCapsPageSize(t *testing.T) {
	n := Params{Page: 3, PageSize: 5000}.Normalize()
	if n.PageSize != MaxPageSize {
		t.Fatalf("expected page size capped at %d, got %d", MaxPageSize, n.PageSize)
	}
	if n.Page != 3 {
		t.Fatalf("expected page preserved, got %d", n.Page)
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		page     int
		pageSize int
		want     int
	}{
		{0, 0, 0},
		{1, 20, 0},
		{2, 20, 20},
		{5, 10, 40},
	}
	for _, tc := range cases {
		got := Params{Page: tc.page, PageSize: tc.pageSize}.Offset()
		if got != tc.want {
			t.Fatalf("page=%d size=%d: expected offset %d, got %d", tc.page, tc.pageSize, tc.want, got)
		}
	}
}

func TestNewMetaRoundsPagesUp(t *testing.T) {
	meta := NewMeta(Params{Page: 1, PageSize: 20}, 41)
	if meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 41 rows, got %d", meta.TotalPages)
	}
	if meta.Total != 41 {
		t.Fatalf("expected total 41, got %d", meta.Total)
	}

	exact := NewMeta(Params{Page: 1, PageSize: 20}, 40)
	if exact.TotalPages != 2 {
		t.Fatalf("expected 2 pages for 40 rows, got %d", exact.TotalPages)
	}
}
