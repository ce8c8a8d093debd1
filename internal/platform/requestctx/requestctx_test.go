package requestctx

import (
	"context"
	"testing"
)

func TestReviewerIDRoundTrip(t *testing.T) {
	ctx := WithReviewerID(context.Background(), "admin-42")
	if got := ReviewerIDFromContext(ctx); got != "admin-42" {
		t.Fatalf("ReviewerIDFromContext = %q, want %q", got, "admin-42")
	}
}

func TestLocaleRoundTrip(t *testing.T) {
	ctx := WithLocale(context.Background(), "pt-BR")
	if got := LocaleFromContext(ctx); got != "pt-BR" {
		t.Fatalf("LocaleFromContext = %q, want %q", got, "pt-BR")
	}
	if got := ReviewerIDFromContext(ctx); got != "" {
		t.Fatalf("ReviewerIDFromContext = %q, want empty", got)
	}
}

func TestNilContext(t *testing.T) {
	if got := ReviewerIDFromContext(nil); got != "" {
		t.Fatalf("expected empty reviewer for nil context, got %q", got)
	}
	if got := LocaleFromContext(nil); got != "" {
		t.Fatalf("expected empty locale for nil context, got %q", got)
	}
	ctx := WithReviewerID(nil, "admin-1")
	if got := ReviewerIDFromContext(ctx); got != "admin-1" {
		t.Fatalf("ReviewerIDFromContext = %q, want %q", got, "admin-1")
	}
}
