package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/faction-reputation/internal/platform/grpc/pagination"
)

// ErrInvalidPageToken indicates a page token that no list call produced.
var ErrInvalidPageToken = errors.New("invalid page token")

// TributeCursor is the keyset position after the last tribute of a page.
type TributeCursor struct {
	SubmittedAt int64
	ID          string
}

// EncodeTributeCursor builds the page token that resumes after t.
func EncodeTributeCursor(t Tribute) string {
	return pagination.EncodeCursor(strconv.FormatInt(t.SubmittedAt.UnixMilli(), 10) + ":" + t.ID)
}

// DecodeTributeCursor parses a page token. An empty token yields a zero cursor.
func DecodeTributeCursor(token string) (TributeCursor, error) {
	raw, err := pagination.DecodeCursor(token)
	if err != nil {
		return TributeCursor{}, fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
	}
	if raw == "" {
		return TributeCursor{}, nil
	}
	millis, id, ok := strings.Cut(raw, ":")
	if !ok || id == "" {
		return TributeCursor{}, ErrInvalidPageToken
	}
	submittedAt, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return TributeCursor{}, fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
	}
	return TributeCursor{SubmittedAt: submittedAt, ID: id}, nil
}
