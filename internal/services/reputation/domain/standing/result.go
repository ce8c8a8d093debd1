package standing

import "github.com/louisbranch/faction-reputation/internal/services/reputation/storage"

// Change is the before and after of one trainer-faction pair.
type Change struct {
	FactionID  string
	OldValue   int
	NewValue   int
	OldTitleID string
	NewTitleID string
	// PendingTributeTitleID is the qualifying title held back by an
	// unapproved tribute, if any.
	PendingTributeTitleID string
}

// TitleChanged reports whether the stored title moved.
func (c Change) TitleChanged() bool {
	return c.OldTitleID != c.NewTitleID
}

// Failure is a neighbor that missed its secondary delta.
type Failure struct {
	FactionID string
	Delta     int
	Err       error
}

// Result is the outcome of one standing event.
type Result struct {
	Origin     Change
	Propagated []Change
	Failures   []Failure
}

func newChange(before, after storage.Standing, pendingID string) Change {
	return Change{
		FactionID:             after.FactionID,
		OldValue:              before.Value,
		NewValue:              after.Value,
		OldTitleID:            before.CurrentTitleID,
		NewTitleID:            after.CurrentTitleID,
		PendingTributeTitleID: pendingID,
	}
}
