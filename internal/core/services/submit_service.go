package services

import (
	"context"
	"fmt"
	"os"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/ports"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
)

// SubmitService validates a local file against a requirement and, when it
// passes, uploads it as the speaker's next version.
type SubmitService struct {
	catalog   *CatalogService
	ledger    *LedgerService
	api       ports.SubmissionAPI
	transport ports.FileTransport
	inspector ports.FileInspector
	gate      *UploadGate
	engine    *ReconciliationEngine
	log       *logger.Logger
}

func NewSubmitService(
	catalog *CatalogService,
	ledger *LedgerService,
	api ports.SubmissionAPI,
	transport ports.FileTransport,
	inspector ports.FileInspector,
	log *logger.Logger,
) *SubmitService {
	if log == nil {
		log = logger.Nop()
	}
	return &SubmitService{
		catalog:   catalog,
		ledger:    ledger,
		api:       api,
		transport: transport,
		inspector: inspector,
		gate:      NewUploadGate(),
		engine:    NewReconciliationEngine(),
		log:       log.With("service", "SubmitService"),
	}
}

// SubmitRequest describes one upload
type SubmitRequest struct {
	EventID       int64
	SpeakerID     int64
	RequirementID int64
	Path          string
	DryRun        bool
}

// SubmitResponse reports the gate verdict and, for real uploads, the result
type SubmitResponse struct {
	Requirement domain.AssetRequirement
	File        domain.FileCandidate
	Validation  domain.ValidationResult
	Submission  *domain.Submission
	Replaced    *domain.Submission
}

// Execute runs inspect, validate, upload, create. A failed validation returns
// the result together with a *domain.ValidationError and touches no network
// beyond the catalog read.
func (s *SubmitService) Execute(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	requirement, err := s.catalog.Find(ctx, req.EventID, req.RequirementID)
	if err != nil {
		return nil, err
	}

	file, err := s.inspector.Inspect(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect file: %w", err)
	}

	resp := &SubmitResponse{
		Requirement: requirement,
		File:        file,
		Validation:  s.gate.Validate(requirement, file),
	}
	if !resp.Validation.IsOk() {
		s.log.Info("file rejected", "requirement_id", requirement.ID, "kind", string(resp.Validation.Kind), "file", file.FileName)
		return resp, resp.Validation.Err()
	}
	if req.DryRun {
		return resp, nil
	}

	// remember what the new version will replace before the flag moves
	if subs, err := s.ledger.All(ctx, req.SpeakerID); err == nil {
		if f := s.engine.FulfillmentFor(requirement, subs); f.Found() {
			resp.Replaced = f.Submission
		}
	} else {
		s.log.Debug("could not read ledger before upload", "speaker_id", req.SpeakerID, "error", err)
	}

	body, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer body.Close()

	uploaded, err := s.transport.Upload(ctx, file, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	created, err := s.api.CreateSubmission(ctx, req.SpeakerID, domain.NewSubmissionRequest(requirement.ID, *uploaded))
	if err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}
	resp.Submission = created

	s.log.Info("submission created",
		"speaker_id", req.SpeakerID,
		"requirement_id", requirement.ID,
		"submission_id", created.ID,
		"version", created.Version,
	)
	return resp, nil
}

// MatchService reports which requirements of a catalog accept a local file
type MatchService struct {
	catalog   *CatalogService
	inspector ports.FileInspector
	gate      *UploadGate
}

func NewMatchService(catalog *CatalogService, inspector ports.FileInspector) *MatchService {
	return &MatchService{catalog: catalog, inspector: inspector, gate: NewUploadGate()}
}

// MatchResponse pairs every requirement with the gate's verdict for the file
type MatchResponse struct {
	File    domain.FileCandidate
	Results []MatchResult
}

// Accepted lists the requirements the file satisfies, in catalog order
func (r *MatchResponse) Accepted() []domain.AssetRequirement {
	var out []domain.AssetRequirement
	for _, m := range r.Results {
		if m.Result.IsOk() {
			out = append(out, m.Requirement)
		}
	}
	return out
}

func (s *MatchService) Execute(ctx context.Context, eventID int64, path string) (*MatchResponse, error) {
	file, err := s.inspector.Inspect(path)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect file: %w", err)
	}
	catalog, err := s.catalog.Fetch(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &MatchResponse{File: file, Results: s.gate.Match(catalog.Requirements, file)}, nil
}

// ValidateFile checks a file against one requirement without any catalog lookup
func (s *MatchService) ValidateFile(req domain.AssetRequirement, path string) (domain.FileCandidate, domain.ValidationResult, error) {
	file, err := s.inspector.Inspect(path)
	if err != nil {
		return domain.FileCandidate{}, domain.ValidationResult{}, fmt.Errorf("failed to inspect file: %w", err)
	}
	return file, s.gate.Validate(req, file), nil
}
