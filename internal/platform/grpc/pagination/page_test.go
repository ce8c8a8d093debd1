package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 10, Max: 50}
	tests := []struct {
		in   int32
		want int
	}{
		{0, 10},
		{-3, 10},
		{25, 25},
		{500, 50},
	}
	for _, tt := range tests {
		if got := ClampPageSize(tt.in, cfg); got != tt.want {
			t.Errorf("ClampPageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("zero config page size = %d, want 1", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor("tribute-42")
	got, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "tribute-42" {
		t.Fatalf("cursor = %q", got)
	}
	if EncodeCursor("") != "" {
		t.Fatal("expected empty token for empty key")
	}
	if key, err := DecodeCursor(""); err != nil || key != "" {
		t.Fatalf("empty token = %q, %v", key, err)
	}
	if _, err := DecodeCursor("%%%"); err == nil {
		t.Fatal("expected malformed token error")
	}
}
