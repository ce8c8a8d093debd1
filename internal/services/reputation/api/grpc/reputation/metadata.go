package reputation

import (
	"context"
	"strings"

	apperrors "github.com/louisbranch/faction-reputation/internal/platform/errors"
	"github.com/louisbranch/faction-reputation/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	// LocaleHeader carries the caller's preferred error message locale.
	LocaleHeader = "accept-language"
	// ReviewerHeader identifies the admin reviewing tributes.
	ReviewerHeader = "x-reviewer-id"
)

// UnaryServerInterceptor copies caller metadata into the request context.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(withCaller(ctx), req)
	}
}

func withCaller(ctx context.Context) context.Context {
	if locale := firstIncoming(ctx, LocaleHeader); locale != "" {
		ctx = requestctx.WithLocale(ctx, locale)
	}
	if reviewer := firstIncoming(ctx, ReviewerHeader); reviewer != "" {
		ctx = requestctx.WithReviewerID(ctx, reviewer)
	}
	return ctx
}

func firstIncoming(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, value := range md.Get(key) {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

// localeFromContext reads the interceptor's value, then raw metadata.
func localeFromContext(ctx context.Context) string {
	if locale := requestctx.LocaleFromContext(ctx); locale != "" {
		return locale
	}
	if locale := firstIncoming(ctx, LocaleHeader); locale != "" {
		return locale
	}
	return apperrors.DefaultLocale
}

// reviewerID prefers the request field and falls back to caller metadata.
func reviewerID(ctx context.Context, fromRequest string) string {
	if id := strings.TrimSpace(fromRequest); id != "" {
		return id
	}
	if id := requestctx.ReviewerIDFromContext(ctx); id != "" {
		return id
	}
	return firstIncoming(ctx, ReviewerHeader)
}

func handleErr(ctx context.Context, err error) error {
	return apperrors.HandleError(err, localeFromContext(ctx))
}
