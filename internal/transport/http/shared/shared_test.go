package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-09-30")
	if err != nil {
		t.Fatalf("bare date rejected: %v", err)
	}
	if got != time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected date %v", got)
	}

	got, err = ParseDate("2026-09-30T12:00:00Z")
	if err != nil {
		t.Fatalf("RFC3339 rejected: %v", err)
	}
	if got.Hour() != 12 {
		t.Fatalf("timestamp lost its time component: %v", got)
	}

	got, err = ParseDate("")
	if err != nil || !got.IsZero() {
		t.Fatalf("empty value must parse to zero time, got %v, %v", got, err)
	}

	if _, err := ParseDate("30/09/2026"); err == nil {
		t.Fatal("unknown layout accepted")
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 25, 0},
		{"limit=10&offset=40", 10, 40},
		{"limit=9999", 100, 0},
		{"limit=-5&offset=-3", 25, 0},
		{"limit=abc&offset=xyz", 25, 0},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/?"+tt.query, nil)
		page := ParsePagination(r, 25, 100)
		if page.Limit != tt.wantLimit || page.Offset != tt.wantOffset {
			t.Fatalf("query %q: got limit=%d offset=%d, want %d/%d",
				tt.query, page.Limit, page.Offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
