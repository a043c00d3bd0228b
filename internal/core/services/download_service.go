package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/ports"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
)

// DownloadService fetches the latest file of every fulfilled requirement
type DownloadService struct {
	overview  *OverviewService
	events    ports.EventAPI
	transport ports.FileTransport
	workers   int
	log       *logger.Logger
}

func NewDownloadService(overview *OverviewService, events ports.EventAPI, transport ports.FileTransport, workers int, log *logger.Logger) *DownloadService {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DownloadService{
		overview:  overview,
		events:    events,
		transport: transport,
		workers:   workers,
		log:       log.With("service", "DownloadService"),
	}
}

// DownloadRequest selects one speaker, or every speaker of an event when
// SpeakerID is zero.
type DownloadRequest struct {
	EventID   int64
	SpeakerID int64
	Dir       string
	Overwrite bool
}

// DownloadedFile is one file written to disk
type DownloadedFile struct {
	SpeakerID     int64
	RequirementID int64
	SubmissionID  int64
	Path          string
	Bytes         int64
	Skipped       bool
}

// DownloadResponse lists written files and any per-file failures
type DownloadResponse struct {
	Files  []DownloadedFile
	Failed map[string]error
}

// Total returns the bytes written
func (r *DownloadResponse) Total() int64 {
	var n int64
	for _, f := range r.Files {
		n += f.Bytes
	}
	return n
}

type downloadJob struct {
	speakerID int64
	sub       domain.Submission
	path      string
}

// Execute downloads with at most the configured number of files in flight.
// A failed file does not stop the others.
func (s *DownloadService) Execute(ctx context.Context, req DownloadRequest, progress func(done, total int)) (*DownloadResponse, error) {
	if req.Dir == "" {
		return nil, fmt.Errorf("download directory required")
	}

	jobs, err := s.plan(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &DownloadResponse{Failed: make(map[string]error)}
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, job := range jobs {
		g.Go(func() error {
			file, err := s.fetch(gctx, job, req.Overwrite)

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				resp.Failed[job.path] = err
				s.log.Warn("download failed", "submission_id", job.sub.ID, "error", err)
			} else {
				resp.Files = append(resp.Files, file)
			}
			if progress != nil {
				progress(done, len(jobs))
			}
			// only cancellation aborts the batch
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return resp, err
	}
	return resp, nil
}

// plan lists the files to fetch in catalog order
func (s *DownloadService) plan(ctx context.Context, req DownloadRequest) ([]downloadJob, error) {
	if req.SpeakerID != 0 {
		return s.planSpeaker(ctx, req.EventID, req.SpeakerID, req.Dir)
	}
	if req.EventID == 0 {
		return nil, fmt.Errorf("event or speaker id required")
	}

	speakers, err := s.events.ListSpeakers(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list speakers: %w", err)
	}
	var jobs []downloadJob
	for _, sp := range speakers {
		dir := filepath.Join(req.Dir, SpeakerDirName(sp))
		speakerJobs, err := s.planSpeaker(ctx, req.EventID, sp.ID, dir)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, speakerJobs...)
	}
	return jobs, nil
}

func (s *DownloadService) planSpeaker(ctx context.Context, eventID, speakerID int64, dir string) ([]downloadJob, error) {
	ov, err := s.overview.Execute(ctx, OverviewRequest{EventID: eventID, SpeakerID: speakerID})
	if err != nil {
		return nil, err
	}
	var jobs []downloadJob
	for i, row := range ov.Reconciliation.Rows {
		if row.Latest == nil || row.Latest.FileURL == "" {
			continue
		}
		jobs = append(jobs, downloadJob{
			speakerID: speakerID,
			sub:       *row.Latest,
			path:      filepath.Join(dir, DownloadFileName(i+1, row.Requirement, *row.Latest)),
		})
	}
	return jobs, nil
}

// fetch writes through a temp file so an interrupted download leaves nothing behind
func (s *DownloadService) fetch(ctx context.Context, job downloadJob, overwrite bool) (DownloadedFile, error) {
	out := DownloadedFile{
		SpeakerID:     job.speakerID,
		RequirementID: job.sub.AssetRequirementID,
		SubmissionID:  job.sub.ID,
		Path:          job.path,
	}

	if !overwrite {
		if info, err := os.Stat(job.path); err == nil {
			out.Bytes = info.Size()
			out.Skipped = true
			return out, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(job.path), 0755); err != nil {
		return out, fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(job.path), ".download-*")
	if err != nil {
		return out, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := s.transport.Download(ctx, job.sub.FileURL, tmp)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return out, err
	}
	if err := os.Rename(tmp.Name(), job.path); err != nil {
		os.Remove(tmp.Name())
		return out, fmt.Errorf("failed to move download into place: %w", err)
	}

	out.Bytes = n
	return out, nil
}

// DownloadFileName builds "NN-<label-slug>-v<version><ext>"
func DownloadFileName(position int, req domain.AssetRequirement, sub domain.Submission) string {
	return fmt.Sprintf("%02d-%s-v%d%s", position, domain.GenerateSlug(req.Label), sub.Version, sub.Extension())
}

// SpeakerDirName builds "<id>-<name-slug>"
func SpeakerDirName(sp domain.Speaker) string {
	return fmt.Sprintf("%d-%s", sp.ID, domain.GenerateSlug(sp.FullName()))
}
