package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/ports"
)

// LedgerService reads a speaker's submissions
type LedgerService struct {
	api ports.SubmissionAPI
}

func NewLedgerService(api ports.SubmissionAPI) *LedgerService {
	return &LedgerService{api: api}
}

// LedgerRequest selects the submissions to return
type LedgerRequest struct {
	SpeakerID     int64
	RequirementID int64 // optional
	LatestOnly    bool
}

// LedgerResponse holds submissions newest first
type LedgerResponse struct {
	Submissions []domain.Submission
	Total       int
}

// Execute fetches and filters the ledger. The backend order is not trusted.
func (s *LedgerService) Execute(ctx context.Context, req LedgerRequest) (*LedgerResponse, error) {
	subs, err := s.api.ListSubmissions(ctx, req.SpeakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	var filtered []domain.Submission
	for _, sub := range subs {
		if req.RequirementID != 0 && sub.AssetRequirementID != req.RequirementID {
			continue
		}
		if req.LatestOnly && !sub.IsLatest {
			continue
		}
		filtered = append(filtered, sub)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp().After(filtered[j].Timestamp())
	})

	return &LedgerResponse{Submissions: filtered, Total: len(filtered)}, nil
}

// All returns the unfiltered ledger in backend order
func (s *LedgerService) All(ctx context.Context, speakerID int64) ([]domain.Submission, error) {
	subs, err := s.api.ListSubmissions(ctx, speakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}
