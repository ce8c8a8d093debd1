// Package storage defines persistence contracts for faction reputation state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/faction-reputation/internal/services/reputation/domain/faction"
	"github.com/louisbranch/faction-reputation/internal/services/reputation/filter"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrSubmissionAlreadyUsed indicates a submission already funded a faction activity.
	ErrSubmissionAlreadyUsed = errors.New("submission already used")
	// ErrAlreadyMet indicates the trainer already met the person.
	ErrAlreadyMet = errors.New("person already met")
	// ErrDuplicatePendingTribute indicates a pending tribute exists for the trainer and title.
	ErrDuplicatePendingTribute = errors.New("tribute already pending")
	// ErrTributeNotPending indicates a review targeted a tribute that left the pending state.
	ErrTributeNotPending = errors.New("tribute is not pending")
)

// Standing is one trainer's reputation with one faction.
type Standing struct {
	TrainerID      string
	FactionID      string
	Value          int
	CurrentTitleID string
	// Persisted is false for the zero default of a pair never mutated.
	Persisted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MutateFunc derives the next standing from the current one. approved lists
// the trainer's approved tribute titles in the faction, read under the same
// lock as current. Returning an error aborts the mutation and leaves the
// stored record untouched.
type MutateFunc func(current Standing, approved []string) (Standing, error)

// StandingStore persists per-(trainer, faction) standing records.
type StandingStore interface {
	// GetStanding returns the record or a zero default without persisting it.
	GetStanding(ctx context.Context, trainerID, factionID string) (Standing, error)
	// MutateStanding runs fn under the pair's lock and writes its result,
	// returning the records before and after. Tribute approvals committed
	// before the lock is taken are visible to fn.
	MutateStanding(ctx context.Context, trainerID, factionID string, fn MutateFunc) (before, after Standing, err error)
	// ListStandings returns every persisted record for a trainer.
	ListStandings(ctx context.Context, trainerID string) ([]Standing, error)
}

// Activity names what consumed a submission.
type Activity string

const (
	ActivityFactionSubmission Activity = "faction_submission"
	ActivityTribute           Activity = "tribute"
	ActivityMeeting           Activity = "meeting"
)

// SubmissionUsage marks a submission as consumed by one faction activity.
type SubmissionUsage struct {
	SubmissionID string
	TrainerID    string
	FactionID    string
	Activity     Activity
	ReferenceID  string
	CreatedAt    time.Time
}

// FactionSubmission is the ledger entry of one scored submission.
type FactionSubmission struct {
	ID            string
	TrainerID     string
	FactionID     string
	SubmissionID  string
	PromptID      string
	TrainerStatus string
	TaskSize      string
	SpecialBonus  bool
	BaseScore     int
	FinalScore    int
	CreatedAt     time.Time
}

// SubmissionStore persists scored submissions and the usage ledger.
type SubmissionStore interface {
	// RecordFactionSubmission claims the submission and stores the entry
	// atomically. A claimed submission returns ErrSubmissionAlreadyUsed.
	RecordFactionSubmission(ctx context.Context, sub FactionSubmission) error
	// RevertFactionSubmission removes an entry and releases its claim.
	RevertFactionSubmission(ctx context.Context, id string) error
	ListFactionSubmissions(ctx context.Context, trainerID, factionID string) ([]FactionSubmission, error)
	GetSubmissionUsage(ctx context.Context, submissionID string) (SubmissionUsage, error)
}

// TributeStatus is the review state of a tribute.
type TributeStatus string

const (
	TributePending  TributeStatus = "pending"
	TributeApproved TributeStatus = "approved"
	TributeRejected TributeStatus = "rejected"
)

// DefaultSubmissionType is stored when a tribute names no submission type.
const DefaultSubmissionType = "other"

// Tribute is a trainer's offering to unlock a tribute-gated title.
type Tribute struct {
	ID           string
	TitleID      string
	FactionID    string
	TrainerID    string
	SubmissionID string
	// Requirements is the title's requirement payload at submission time.
	Requirements []faction.Requirement
	// SubmissionType and SubmissionURL describe the offered work; Note is
	// the trainer's description of it.
	SubmissionType string
	SubmissionURL  string
	Note           string
	Status         TributeStatus
	ReviewerID   string
	RejectReason string
	SubmittedAt  time.Time
	ReviewedAt   time.Time
}

// TributeReview moves a pending tribute to a terminal status.
type TributeReview struct {
	TributeID  string
	Status     TributeStatus
	ReviewerID string
	Reason     string
	ReviewedAt time.Time
}

// TributePage is one page of tributes.
type TributePage struct {
	Tributes      []Tribute
	NextPageToken string
}

// TributeStore persists tributes.
type TributeStore interface {
	// CreateTribute stores a pending tribute and claims its submission when
	// one is set. Fails with ErrDuplicatePendingTribute or ErrSubmissionAlreadyUsed.
	CreateTribute(ctx context.Context, tribute Tribute) error
	GetTribute(ctx context.Context, id string) (Tribute, error)
	// ReviewTribute applies review only while the tribute is pending.
	// Rejection releases the submission claim.
	ReviewTribute(ctx context.Context, review TributeReview) (Tribute, error)
	// ReopenTribute returns an approved tribute to pending.
	ReopenTribute(ctx context.Context, id string) error
	// ApprovedTitleIDs lists the titles a trainer unlocked in a faction.
	ApprovedTitleIDs(ctx context.Context, trainerID, factionID string) ([]string, error)
	// LatestTributes returns the most recent tribute per title for a trainer in a faction.
	LatestTributes(ctx context.Context, trainerID, factionID string) (map[string]Tribute, error)
	// ListTributes pages tributes matching cond ordered by id.
	ListTributes(ctx context.Context, cond filter.Condition, pageSize int, pageToken string) (TributePage, error)
}

// Meeting records a trainer meeting a person.
type Meeting struct {
	TrainerID    string
	PersonID     string
	FactionID    string
	SubmissionID string
	MetAt        time.Time
}

// MeetingStore persists person meetings.
type MeetingStore interface {
	// RecordMeeting claims the submission and stores the meeting atomically.
	// Fails with ErrAlreadyMet or ErrSubmissionAlreadyUsed.
	RecordMeeting(ctx context.Context, meeting Meeting) error
	// RevertMeeting removes a meeting and releases its claim.
	RevertMeeting(ctx context.Context, trainerID, personID string) error
	GetMeeting(ctx context.Context, trainerID, personID string) (Meeting, error)
	ListMeetings(ctx context.Context, trainerID, factionID string) ([]Meeting, error)
}

// AuditEvent is one operator-facing record of engine activity.
type AuditEvent struct {
	ID               int64
	Timestamp        time.Time
	EventName        string
	Severity         string
	TrainerID        string
	FactionID        string
	RelatedFactionID string
	Delta            int
	TraceID          string
	SpanID           string
	Attributes       map[string]string
}

// AuditStore persists audit events.
type AuditStore interface {
	AppendAuditEvent(ctx context.Context, evt AuditEvent) error
	// ListAuditEvents returns events with the given name, newest first.
	// An empty trainerID matches every trainer.
	ListAuditEvents(ctx context.Context, eventName, trainerID string, limit int) ([]AuditEvent, error)
}

// Store aggregates every reputation store.
type Store interface {
	StandingStore
	SubmissionStore
	TributeStore
	MeetingStore
	AuditStore
	Close() error
}
