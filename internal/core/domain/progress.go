package domain

import "fmt"

// Progress aggregates fulfillment over a requirement catalog
type Progress struct {
	Completed         int `json:"completed"`
	Total             int `json:"total"`
	RequiredCompleted int `json:"requiredCompleted"`
	RequiredTotal     int `json:"requiredTotal"`
	Percent           int `json:"percent"`
}

// RequiredMissing is the number of required requirements without a latest submission
func (p Progress) RequiredMissing() int {
	return p.RequiredTotal - p.RequiredCompleted
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", p.Completed, p.Total, p.Percent)
}

// SubmissionStatus is a speaker's aggregate state
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusPartial  SubmissionStatus = "partial"
	StatusComplete SubmissionStatus = "complete"
)

// AnomalyKind names a detected-but-tolerated inconsistency in a submission list
type AnomalyKind string

const (
	// more than one submission flagged latest for the same requirement
	AnomalyDuplicateLatest AnomalyKind = "duplicate_latest"
	// submission points at a requirement that is not in the catalog
	AnomalyOrphanedSubmission AnomalyKind = "orphaned_submission"
	// submissions exist for a requirement but none is flagged latest
	AnomalyNoLatest AnomalyKind = "no_latest"
	// the latest-flagged submission is not the highest version
	AnomalyStaleLatest AnomalyKind = "stale_latest"
)

// Anomaly describes one inconsistency found while reconciling
type Anomaly struct {
	Kind          AnomalyKind `json:"kind"`
	RequirementID int64       `json:"requirementId"`
	SubmissionIDs []int64     `json:"submissionIds"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s (requirement %d, submissions %v)", a.Kind, a.RequirementID, a.SubmissionIDs)
}
