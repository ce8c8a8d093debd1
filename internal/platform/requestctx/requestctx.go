// Package requestctx carries caller identity and locale through a request.
package requestctx

import "context"

type reviewerIDContextKey struct{}

type localeContextKey struct{}

// WithReviewerID stores the reviewing admin's identifier in context.
func WithReviewerID(ctx context.Context, reviewerID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, reviewerIDContextKey{}, reviewerID)
}

// ReviewerIDFromContext returns the reviewer identifier stored in context.
func ReviewerIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(reviewerIDContextKey{}).(string)
	return value
}

// WithLocale stores the caller's preferred locale in context.
func WithLocale(ctx context.Context, locale string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// LocaleFromContext returns the locale stored in context.
func LocaleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(localeContextKey{}).(string)
	return value
}
