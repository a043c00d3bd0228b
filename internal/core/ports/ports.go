package ports

import (
	"context"
	"io"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
)

// EventAPI defines the port for reading events and their speakers
type EventAPI interface {
	// ListEvents returns the events visible to the current token
	ListEvents(ctx context.Context) ([]domain.Event, error)

	// GetEvent retrieves one event
	GetEvent(ctx context.Context, eventID int64) (*domain.Event, error)

	// ListSpeakers returns the speakers invited to an event
	ListSpeakers(ctx context.Context, eventID int64) ([]domain.Speaker, error)

	// GetSpeaker retrieves one speaker
	GetSpeaker(ctx context.Context, speakerID int64) (*domain.Speaker, error)
}

// RequirementAPI defines the port for an event's requirement catalog
type RequirementAPI interface {
	// ListRequirements returns the event's asset requirements (any order)
	ListRequirements(ctx context.Context, eventID int64) ([]domain.AssetRequirement, error)

	// CreateRequirement adds a requirement to an event
	CreateRequirement(ctx context.Context, eventID int64, req domain.AssetRequirement) (*domain.AssetRequirement, error)

	// UpdateRequirement replaces the mutable fields of a requirement
	UpdateRequirement(ctx context.Context, req domain.AssetRequirement) (*domain.AssetRequirement, error)

	// DeleteRequirement removes a requirement
	DeleteRequirement(ctx context.Context, requirementID int64) error
}

// SubmissionAPI defines the port for a speaker's submission ledger
type SubmissionAPI interface {
	// ListSubmissions returns every submission of a speaker, all versions
	ListSubmissions(ctx context.Context, speakerID int64) ([]domain.Submission, error)

	// CreateSubmission records a new version for a requirement
	CreateSubmission(ctx context.Context, speakerID int64, req domain.SubmissionRequest) (*domain.Submission, error)
}

// FileTransport defines the port that moves file bytes
type FileTransport interface {
	// Upload stores the file and returns where it lives
	Upload(ctx context.Context, file domain.FileCandidate, body io.Reader) (*domain.UploadedFile, error)

	// Download streams a stored file into w and returns the bytes written
	Download(ctx context.Context, fileURL string, w io.Writer) (int64, error)
}

// CatalogCache defines the port for local requirement catalog snapshots
type CatalogCache interface {
	// Get returns the cached catalog of an event, or os.ErrNotExist
	Get(ctx context.Context, eventID int64) ([]domain.AssetRequirement, error)

	// Save replaces the cached catalog of an event
	Save(ctx context.Context, eventID int64, reqs []domain.AssetRequirement) error
}

// FileInspector defines the port for describing a local file before upload
type FileInspector interface {
	// Inspect reads size, MIME type and image dimensions
	Inspect(path string) (domain.FileCandidate, error)
}
