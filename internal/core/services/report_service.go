package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/ports"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
)

// ReportService aggregates submission progress across an event's speakers
type ReportService struct {
	events  ports.EventAPI
	catalog *CatalogService
	ledger  *LedgerService
	engine  *ReconciliationEngine
	workers int
	log     *logger.Logger
}

func NewReportService(events ports.EventAPI, catalog *CatalogService, ledger *LedgerService, workers int, log *logger.Logger) *ReportService {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportService{
		events:  events,
		catalog: catalog,
		ledger:  ledger,
		engine:  NewReconciliationEngine(),
		workers: workers,
		log:     log.With("service", "ReportService"),
	}
}

// SpeakerReport is one speaker's row of an event report
type SpeakerReport struct {
	Speaker   domain.Speaker
	Progress  domain.Progress
	Status    domain.SubmissionStatus
	Missing   []string // labels of required items without a latest submission
	Anomalies int
}

// EventReport is the event-wide completion summary
type EventReport struct {
	Event         *domain.Event
	Requirements  []domain.AssetRequirement
	Speakers      []SpeakerReport
	StatusCounts  map[domain.SubmissionStatus]int
	CatalogCached bool
}

// AveragePercent is the mean speaker completion, floor-rounded
func (r *EventReport) AveragePercent() int {
	if len(r.Speakers) == 0 {
		return 0
	}
	sum := 0
	for _, s := range r.Speakers {
		sum += s.Progress.Percent
	}
	return sum / len(r.Speakers)
}

// Execute fetches the catalog once and every speaker's ledger concurrently.
// Rows are ordered by percent descending, then name.
func (s *ReportService) Execute(ctx context.Context, eventID int64) (*EventReport, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	speakers, err := s.events.ListSpeakers(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list speakers: %w", err)
	}
	catalog, err := s.catalog.Fetch(ctx, eventID)
	if err != nil {
		return nil, err
	}

	report := &EventReport{
		Event:         event,
		Requirements:  catalog.Requirements,
		Speakers:      make([]SpeakerReport, len(speakers)),
		StatusCounts:  make(map[domain.SubmissionStatus]int),
		CatalogCached: catalog.FromCache,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, sp := range speakers {
		g.Go(func() error {
			subs, err := s.ledger.All(gctx, sp.ID)
			if err != nil {
				return fmt.Errorf("speaker %d: %w", sp.ID, err)
			}
			rec := s.engine.Reconcile(catalog.Requirements, subs)

			row := SpeakerReport{
				Speaker:   sp,
				Progress:  rec.Progress,
				Status:    rec.Status,
				Anomalies: len(rec.Anomalies),
			}
			for _, v := range rec.Rows {
				if v.RequiredMissing {
					row.Missing = append(row.Missing, v.Requirement.Label)
				}
			}
			if row.Anomalies > 0 {
				s.log.Warn("speaker has submission anomalies", "speaker_id", sp.ID, "count", row.Anomalies)
			}

			mu.Lock()
			report.Speakers[i] = row
			report.StatusCounts[row.Status]++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(report.Speakers, func(i, j int) bool {
		a, b := report.Speakers[i], report.Speakers[j]
		if a.Progress.Percent != b.Progress.Percent {
			return a.Progress.Percent > b.Progress.Percent
		}
		return strings.ToLower(a.Speaker.FullName()) < strings.ToLower(b.Speaker.FullName())
	})
	return report, nil
}
