package services

import (
	"context"
	"errors"
	"testing"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/ports/mocks"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
)

func TestReportService_Execute(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockBackend)
		expectError    bool
		expectedOrder  []int64
		expectedCounts map[domain.SubmissionStatus]int
		expectedAvg    int
	}{
		{
			name: "mixed progress ordered by percent",
			setupMocks: func(b *mocks.MockBackend) {
				b.AddEvent(domain.Event{ID: 1, Name: "GopherCon"})
				seedCatalog(b, 1)
				b.AddSpeaker(domain.Speaker{ID: 7, EventID: 1, FirstName: "Zoe"})
				b.AddSpeaker(domain.Speaker{ID: 8, EventID: 1, FirstName: "Bob"})
				b.AddSpeaker(domain.Speaker{ID: 9, EventID: 1, FirstName: "Amy"})
				b.AddSpeaker(domain.Speaker{ID: 10, EventID: 1, FirstName: "Cal"})

				// Zoe: everything
				for i, req := range []int64{1, 2, 3} {
					b.AddSubmission(domain.Submission{ID: int64(100 + i), SpeakerID: 7, AssetRequirementID: req, Version: 1, IsLatest: true})
				}
				// Bob and Amy: headshot only
				b.AddSubmission(domain.Submission{ID: 200, SpeakerID: 8, AssetRequirementID: 1, Version: 1, IsLatest: true})
				b.AddSubmission(domain.Submission{ID: 300, SpeakerID: 9, AssetRequirementID: 1, Version: 1, IsLatest: true})
				// Cal: nothing
			},
			expectedOrder: []int64{7, 9, 8, 10},
			expectedCounts: map[domain.SubmissionStatus]int{
				domain.StatusComplete: 1,
				domain.StatusPartial:  2,
				domain.StatusPending:  1,
			},
			// (100 + 33 + 33 + 0) / 4
			expectedAvg: 41,
		},
		{
			name: "event without speakers",
			setupMocks: func(b *mocks.MockBackend) {
				b.AddEvent(domain.Event{ID: 1, Name: "Empty"})
				seedCatalog(b, 1)
			},
			expectedCounts: map[domain.SubmissionStatus]int{},
		},
		{
			name:        "unknown event",
			setupMocks:  func(b *mocks.MockBackend) {},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := mocks.NewMockBackend()
			tt.setupMocks(backend)
			catalog := NewCatalogService(backend, nil, logger.Nop(), false)
			svc := NewReportService(backend, catalog, NewLedgerService(backend), 2, logger.Nop())

			report, err := svc.Execute(context.Background(), 1)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(report.Speakers) != len(tt.expectedOrder) {
				t.Fatalf("got %d speakers, want %d", len(report.Speakers), len(tt.expectedOrder))
			}
			for i, id := range tt.expectedOrder {
				if report.Speakers[i].Speaker.ID != id {
					t.Errorf("speaker[%d] = %d, want %d", i, report.Speakers[i].Speaker.ID, id)
				}
			}
			for status, n := range tt.expectedCounts {
				if report.StatusCounts[status] != n {
					t.Errorf("StatusCounts[%s] = %d, want %d", status, report.StatusCounts[status], n)
				}
			}
			if got := report.AveragePercent(); got != tt.expectedAvg {
				t.Errorf("AveragePercent() = %d, want %d", got, tt.expectedAvg)
			}
		})
	}
}

func TestReportService_MissingLabels(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.AddEvent(domain.Event{ID: 1, Name: "GopherCon"})
	seedCatalog(backend, 1)
	backend.AddSpeaker(domain.Speaker{ID: 8, EventID: 1, FirstName: "Bob"})
	backend.AddSubmission(domain.Submission{ID: 200, SpeakerID: 8, AssetRequirementID: 1, Version: 1, IsLatest: true})
	backend.AddSubmission(domain.Submission{ID: 201, SpeakerID: 8, AssetRequirementID: 77, Version: 1, IsLatest: true})

	catalog := NewCatalogService(backend, nil, logger.Nop(), false)
	report, err := NewReportService(backend, catalog, NewLedgerService(backend), 1, logger.Nop()).Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := report.Speakers[0]
	if len(row.Missing) != 1 || row.Missing[0] != "Bio" {
		t.Errorf("Missing = %v, want [Bio]", row.Missing)
	}
	if row.Anomalies != 1 {
		t.Errorf("Anomalies = %d, want 1 orphan", row.Anomalies)
	}
	if row.Status != domain.StatusPartial {
		t.Errorf("Status = %s, want partial", row.Status)
	}
}

func TestReportService_LedgerFailure(t *testing.T) {
	backend := mocks.NewMockBackend()
	backend.AddEvent(domain.Event{ID: 1, Name: "GopherCon"})
	backend.AddSpeaker(domain.Speaker{ID: 8, EventID: 1, FirstName: "Bob"})
	catalog := NewCatalogService(backend, nil, logger.Nop(), false)
	svc := NewReportService(failingLedgerAPI{backend}, catalog, NewLedgerService(failingLedgerAPI{backend}), 1, logger.Nop())

	if _, err := svc.Execute(context.Background(), 1); err == nil {
		t.Error("expected ledger failure to fail the report")
	}
}

// failingLedgerAPI serves events normally but fails every ledger read
type failingLedgerAPI struct {
	*mocks.MockBackend
}

func (failingLedgerAPI) ListSubmissions(ctx context.Context, speakerID int64) ([]domain.Submission, error) {
	return nil, errors.New("ledger unavailable")
}
