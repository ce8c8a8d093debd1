// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request validation errors
	CodeTrainerIDRequired      Code = "TRAINER_ID_REQUIRED"
	CodeFactionIDRequired      Code = "FACTION_ID_REQUIRED"
	CodeFactionUnknown         Code = "FACTION_UNKNOWN"
	CodeSubmissionIDRequired   Code = "SUBMISSION_ID_REQUIRED"
	CodeReviewerIDRequired     Code = "REVIEWER_ID_REQUIRED"
	CodeFilterInvalid          Code = "FILTER_INVALID"
	CodePageTokenInvalid       Code = "PAGE_TOKEN_INVALID"
	CodeScoreTrainerStatus     Code = "SCORE_TRAINER_STATUS_INVALID"
	CodeScoreTaskSize          Code = "SCORE_TASK_SIZE_INVALID"
	CodeScorePromptUnavailable Code = "SCORE_PROMPT_UNAVAILABLE"
	CodeTitleIDRequired        Code = "TITLE_ID_REQUIRED"
	CodeTitleNotTributeGated   Code = "TITLE_NOT_TRIBUTE_GATED"
	CodeTributeIDRequired      Code = "TRIBUTE_ID_REQUIRED"
	CodePersonIDRequired       Code = "PERSON_ID_REQUIRED"
	CodeDeltaInvalid           Code = "DELTA_INVALID"
	CodeSubmissionTypeInvalid  Code = "SUBMISSION_TYPE_INVALID"

	// Lookup errors
	CodeNotFound       Code = "NOT_FOUND"
	CodeTitleUnknown   Code = "TITLE_UNKNOWN"
	CodeTributeUnknown Code = "TRIBUTE_UNKNOWN"
	CodePersonUnknown  Code = "PERSON_UNKNOWN"

	// Business rule conflicts
	CodeSubmissionAlreadyUsed   Code = "SUBMISSION_ALREADY_USED"
	CodePersonAlreadyMet        Code = "PERSON_ALREADY_MET"
	CodePersonStandingTooLow    Code = "PERSON_STANDING_TOO_LOW"
	CodeTributeDuplicatePending Code = "TRIBUTE_DUPLICATE_PENDING"
	CodeTributeNotPending       Code = "TRIBUTE_NOT_PENDING"
	CodeTributeAlreadyApproved  Code = "TRIBUTE_ALREADY_APPROVED"

	// Infrastructure errors
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
	CodePropagationFailed  Code = "PROPAGATION_FAILED"

	// Assertion failures
	CodeTitleGateViolation Code = "TITLE_GATE_VIOLATION"
)

// Category groups codes by how callers should react to them.
type Category string

const (
	CategoryValidation  Category = "validation"
	CategoryNotFound    Category = "not_found"
	CategoryConflict    Category = "conflict"
	CategoryStorage     Category = "storage"
	CategoryPropagation Category = "propagation"
	CategoryAssertion   Category = "assertion"
	CategoryUnknown     Category = "unknown"
)

// Category returns the taxonomy bucket for the code.
func (c Code) Category() Category {
	switch c {
	case CodeTrainerIDRequired,
		CodeFactionIDRequired,
		CodeFactionUnknown,
		CodeSubmissionIDRequired,
		CodeReviewerIDRequired,
		CodeFilterInvalid,
		CodePageTokenInvalid,
		CodeScoreTrainerStatus,
		CodeScoreTaskSize,
		CodeScorePromptUnavailable,
		CodeTitleIDRequired,
		CodeTitleNotTributeGated,
		CodeTributeIDRequired,
		CodePersonIDRequired,
		CodeDeltaInvalid,
		CodeSubmissionTypeInvalid:
		return CategoryValidation
	case CodeNotFound, CodeTitleUnknown, CodeTributeUnknown, CodePersonUnknown:
		return CategoryNotFound
	case CodeSubmissionAlreadyUsed,
		CodePersonAlreadyMet,
		CodePersonStandingTooLow,
		CodeTributeDuplicatePending,
		CodeTributeNotPending,
		CodeTributeAlreadyApproved:
		return CategoryConflict
	case CodeStorageUnavailable:
		return CategoryStorage
	case CodePropagationFailed:
		return CategoryPropagation
	case CodeTitleGateViolation:
		return CategoryAssertion
	default:
		return CategoryUnknown
	}
}

// Retryable reports whether retrying the same request may succeed.
func (c Code) Retryable() bool {
	return c.Category() == CategoryStorage
}

// GRPCCode maps the error code to a gRPC status code.
func (c Code) GRPCCode() codes.Code {
	switch c.Category() {
	case CategoryValidation:
		return codes.InvalidArgument
	case CategoryNotFound:
		return codes.NotFound
	case CategoryConflict:
		switch c {
		case CodePersonStandingTooLow, CodeTributeNotPending:
			return codes.FailedPrecondition
		default:
			return codes.AlreadyExists
		}
	case CategoryStorage:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}
