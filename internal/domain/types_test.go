package domain

import "testing"

func TestNewPaginationClamp(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{1, 0, 1, DefaultPageLimit},
		{1, -5, 1, 1},
		{0, 10000, 1, MaxPageLimit},
		{3, 20, 3, 20},
	}
	for _, tc := range cases {
		p := NewPagination(tc.page, tc.limit)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
			t.Fatalf("NewPagination(%d, %d) = %+v, want page %d limit %d", tc.page, tc.limit, p, tc.wantPage, tc.wantLimit)
		}
	}
	if off := NewPagination(3, 20).Offset(); off != 40 {
		t.Fatalf("offset: %d", off)
	}
}
