package services

import (
	"iter"
	"slices"
	"sort"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
)

// ReconciliationEngine combines a requirement catalog with a speaker's submission
// list. It holds no state: every method is a pure function of its arguments and
// never reorders or mutates the slices it is given.
type ReconciliationEngine struct{}

// NewReconciliationEngine creates a reconciliation engine
func NewReconciliationEngine() *ReconciliationEngine {
	return &ReconciliationEngine{}
}

// Fulfillment is the outcome of looking up a requirement's latest submission
type Fulfillment struct {
	Submission *domain.Submission
	// set when more than one submission claimed to be latest
	Anomaly *domain.Anomaly
}

// Found reports whether the requirement is fulfilled
func (f Fulfillment) Found() bool {
	return f.Submission != nil
}

// FulfillmentFor returns the submission flagged latest for the requirement.
// When several are flagged, the highest version wins (ties go to the newest
// upload, then the highest id) and the duplicate is reported as an anomaly.
func (e *ReconciliationEngine) FulfillmentFor(req domain.AssetRequirement, subs []domain.Submission) Fulfillment {
	var best *domain.Submission
	var ids []int64

	for i := range subs {
		s := subs[i]
		if s.AssetRequirementID != req.ID || !s.IsLatest {
			continue
		}
		ids = append(ids, s.ID)
		if best == nil || newerThan(s, *best) {
			picked := s
			best = &picked
		}
	}

	f := Fulfillment{Submission: best}
	if len(ids) > 1 {
		f.Anomaly = &domain.Anomaly{
			Kind:          domain.AnomalyDuplicateLatest,
			RequirementID: req.ID,
			SubmissionIDs: ids,
		}
	}
	return f
}

// VersionHistory yields every submission for the requirement, highest version
// first. The sequence is recomputed on each range, so it can be iterated any
// number of times.
func (e *ReconciliationEngine) VersionHistory(req domain.AssetRequirement, subs []domain.Submission) iter.Seq[domain.Submission] {
	return func(yield func(domain.Submission) bool) {
		for _, s := range chainFor(req.ID, subs) {
			if !yield(s) {
				return
			}
		}
	}
}

// Progress counts fulfilled requirements of the catalog. Submissions for
// requirements outside the catalog do not count.
func (e *ReconciliationEngine) Progress(catalog []domain.AssetRequirement, subs []domain.Submission) domain.Progress {
	latest := latestByRequirement(subs)

	var p domain.Progress
	p.Total = len(catalog)
	for _, req := range catalog {
		fulfilled := latest[req.ID]
		if req.IsRequired {
			p.RequiredTotal++
		}
		if !fulfilled {
			continue
		}
		p.Completed++
		if req.IsRequired {
			p.RequiredCompleted++
		}
	}

	if p.Total > 0 {
		p.Percent = p.Completed * 100 / p.Total
	}
	return p
}

// IsRequirementRequiredAndMissing is true for a required requirement without a
// latest submission.
func (e *ReconciliationEngine) IsRequirementRequiredAndMissing(req domain.AssetRequirement, subs []domain.Submission) bool {
	return req.IsRequired && !e.FulfillmentFor(req, subs).Found()
}

// Status classifies a speaker: pending when nothing in the catalog is
// fulfilled (including an empty catalog), complete when no required item is
// missing, partial otherwise.
func (e *ReconciliationEngine) Status(catalog []domain.AssetRequirement, subs []domain.Submission) domain.SubmissionStatus {
	return statusOf(e.Progress(catalog, subs))
}

func statusOf(p domain.Progress) domain.SubmissionStatus {
	switch {
	case p.Completed == 0:
		return domain.StatusPending
	case p.RequiredMissing() == 0:
		return domain.StatusComplete
	default:
		return domain.StatusPartial
	}
}

// RequirementView is the per-requirement row of a reconciliation
type RequirementView struct {
	Requirement     domain.AssetRequirement
	Latest          *domain.Submission
	Versions        int
	RequiredMissing bool
}

// Reconciliation is the full view model for one speaker
type Reconciliation struct {
	Rows      []RequirementView
	Orphans   []domain.Submission
	Anomalies []domain.Anomaly
	Progress  domain.Progress
	Status    domain.SubmissionStatus
}

// HasAnomalies reports whether any inconsistency was detected
func (r Reconciliation) HasAnomalies() bool {
	return len(r.Anomalies) > 0
}

// Reconcile builds rows in catalog sort order and collects every anomaly:
// duplicate or missing latest flags, stale latest flags and orphans.
func (e *ReconciliationEngine) Reconcile(catalog []domain.AssetRequirement, subs []domain.Submission) Reconciliation {
	ordered := domain.SortCatalog(catalog)
	known := make(map[int64]bool, len(ordered))

	var out Reconciliation
	for _, req := range ordered {
		known[req.ID] = true

		chain := chainFor(req.ID, subs)
		f := e.FulfillmentFor(req, subs)
		out.Rows = append(out.Rows, RequirementView{
			Requirement:     req,
			Latest:          f.Submission,
			Versions:        len(chain),
			RequiredMissing: req.IsRequired && !f.Found(),
		})

		if f.Anomaly != nil {
			out.Anomalies = append(out.Anomalies, *f.Anomaly)
		}
		if len(chain) > 0 && !f.Found() {
			out.Anomalies = append(out.Anomalies, domain.Anomaly{
				Kind:          domain.AnomalyNoLatest,
				RequirementID: req.ID,
				SubmissionIDs: submissionIDs(chain),
			})
		}
		if f.Found() && chain[0].Version > f.Submission.Version {
			out.Anomalies = append(out.Anomalies, domain.Anomaly{
				Kind:          domain.AnomalyStaleLatest,
				RequirementID: req.ID,
				SubmissionIDs: []int64{f.Submission.ID, chain[0].ID},
			})
		}
	}

	orphansByReq := make(map[int64][]int64)
	var orphanReqs []int64
	for _, s := range subs {
		if known[s.AssetRequirementID] {
			continue
		}
		out.Orphans = append(out.Orphans, s)
		if _, seen := orphansByReq[s.AssetRequirementID]; !seen {
			orphanReqs = append(orphanReqs, s.AssetRequirementID)
		}
		orphansByReq[s.AssetRequirementID] = append(orphansByReq[s.AssetRequirementID], s.ID)
	}
	for _, reqID := range orphanReqs {
		out.Anomalies = append(out.Anomalies, domain.Anomaly{
			Kind:          domain.AnomalyOrphanedSubmission,
			RequirementID: reqID,
			SubmissionIDs: orphansByReq[reqID],
		})
	}

	out.Progress = e.Progress(catalog, subs)
	out.Status = statusOf(out.Progress)
	return out
}

// chainFor copies the requirement's submissions and orders them newest first
func chainFor(reqID int64, subs []domain.Submission) []domain.Submission {
	var chain []domain.Submission
	for _, s := range subs {
		if s.AssetRequirementID == reqID {
			chain = append(chain, s)
		}
	}
	sort.SliceStable(chain, func(i, j int) bool {
		return newerThan(chain[i], chain[j])
	})
	return chain
}

// newerThan orders by version, then upload time, then id
func newerThan(a, b domain.Submission) bool {
	if a.Version != b.Version {
		return a.Version > b.Version
	}
	if ta, tb := a.Timestamp(), b.Timestamp(); !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a.ID > b.ID
}

func latestByRequirement(subs []domain.Submission) map[int64]bool {
	latest := make(map[int64]bool)
	for _, s := range subs {
		if s.IsLatest {
			latest[s.AssetRequirementID] = true
		}
	}
	return latest
}

func submissionIDs(subs []domain.Submission) []int64 {
	ids := make([]int64, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.ID)
	}
	slices.Sort(ids)
	return ids
}
