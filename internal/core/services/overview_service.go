package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/ports"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
)

// OverviewService joins a speaker's catalog and ledger into a reconciliation
type OverviewService struct {
	events  ports.EventAPI
	catalog *CatalogService
	ledger  *LedgerService
	engine  *ReconciliationEngine
	log     *logger.Logger
}

func NewOverviewService(events ports.EventAPI, catalog *CatalogService, ledger *LedgerService, log *logger.Logger) *OverviewService {
	if log == nil {
		log = logger.Nop()
	}
	return &OverviewService{
		events:  events,
		catalog: catalog,
		ledger:  ledger,
		engine:  NewReconciliationEngine(),
		log:     log.With("service", "OverviewService"),
	}
}

// OverviewRequest identifies the speaker. EventID may be zero when the
// speaker record can be fetched to find it.
type OverviewRequest struct {
	EventID   int64
	SpeakerID int64
}

// SpeakerOverview is everything the status and dashboard views render
type SpeakerOverview struct {
	Speaker        *domain.Speaker
	EventID        int64
	Submissions    []domain.Submission
	CatalogCached  bool
	Reconciliation Reconciliation
}

// Execute fetches catalog and ledger concurrently and reconciles them.
// Anomalies are tolerated and logged.
func (s *OverviewService) Execute(ctx context.Context, req OverviewRequest) (*SpeakerOverview, error) {
	out := &SpeakerOverview{EventID: req.EventID}

	if s.events != nil {
		speaker, err := s.events.GetSpeaker(ctx, req.SpeakerID)
		switch {
		case err == nil:
			out.Speaker = speaker
			if out.EventID == 0 {
				out.EventID = speaker.EventID
			}
		case out.EventID == 0:
			return nil, fmt.Errorf("failed to resolve speaker %d: %w", req.SpeakerID, err)
		default:
			s.log.Debug("speaker lookup failed", "speaker_id", req.SpeakerID, "error", err)
		}
	}
	if out.EventID == 0 {
		return nil, fmt.Errorf("event id required for speaker %d", req.SpeakerID)
	}

	var catalog *CatalogResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := s.catalog.Fetch(gctx, out.EventID)
		catalog = resp
		return err
	})
	g.Go(func() error {
		subs, err := s.ledger.All(gctx, req.SpeakerID)
		out.Submissions = subs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.CatalogCached = catalog.FromCache
	out.Reconciliation = s.engine.Reconcile(catalog.Requirements, out.Submissions)

	for _, a := range out.Reconciliation.Anomalies {
		s.log.Warn("submission anomaly",
			"kind", string(a.Kind),
			"speaker_id", req.SpeakerID,
			"requirement_id", a.RequirementID,
			"submission_ids", a.SubmissionIDs,
		)
	}
	return out, nil
}

// Catalog exposes the catalog rows in processing order
func (o *SpeakerOverview) Catalog() []domain.AssetRequirement {
	out := make([]domain.AssetRequirement, 0, len(o.Reconciliation.Rows))
	for _, row := range o.Reconciliation.Rows {
		out = append(out, row.Requirement)
	}
	return out
}
