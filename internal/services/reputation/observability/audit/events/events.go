// Package events defines canonical reputation audit event names.
package events

const (
	// PropagationFailed records a related faction that missed its secondary delta.
	PropagationFailed = "standing.propagation_failed"
	// CompensationFailed records a claim that could not be released after a failed grant.
	CompensationFailed = "standing.compensation_failed"
	// TributeReviewed records a reviewer decision on a tribute.
	TributeReviewed = "tribute.reviewed"
)
