package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
)

// MockBackend is an in-memory implementation of the event, requirement,
// submission and file transport ports.
type MockBackend struct {
	mu           sync.RWMutex
	events       map[int64]domain.Event
	speakers     map[int64]domain.Speaker
	requirements map[int64]domain.AssetRequirement
	submissions  map[int64][]domain.Submission
	files        map[string][]byte
	nextID       int64

	// Err, when set, is returned by every call
	Err error
	// Calls counts invocations per method name
	Calls map[string]int
}

// NewMockBackend creates an empty backend
func NewMockBackend() *MockBackend {
	return &MockBackend{
		events:       make(map[int64]domain.Event),
		speakers:     make(map[int64]domain.Speaker),
		requirements: make(map[int64]domain.AssetRequirement),
		submissions:  make(map[int64][]domain.Submission),
		files:        make(map[string][]byte),
		nextID:       1000,
		Calls:        make(map[string]int),
	}
}

func (m *MockBackend) record(name string) error {
	m.Calls[name]++
	return m.Err
}

// AddEvent seeds an event
func (m *MockBackend) AddEvent(e domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = e
}

// AddSpeaker seeds a speaker
func (m *MockBackend) AddSpeaker(s domain.Speaker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speakers[s.ID] = s
}

// AddRequirement seeds a requirement
func (m *MockBackend) AddRequirement(r domain.AssetRequirement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requirements[r.ID] = r
}

// AddSubmission seeds a submission as-is, flags included
func (m *MockBackend) AddSubmission(s domain.Submission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[s.SpeakerID] = append(m.submissions[s.SpeakerID], s)
}

// AddFile seeds downloadable content
func (m *MockBackend) AddFile(url string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[url] = content
}

// CallCount returns how many times a method was called
func (m *MockBackend) CallCount(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Calls[name]
}

func (m *MockBackend) ListEvents(ctx context.Context) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListEvents"); err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBackend) GetEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetEvent"); err != nil {
		return nil, err
	}
	e, ok := m.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %d: %w", eventID, os.ErrNotExist)
	}
	return &e, nil
}

func (m *MockBackend) ListSpeakers(ctx context.Context, eventID int64) ([]domain.Speaker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListSpeakers"); err != nil {
		return nil, err
	}
	var out []domain.Speaker
	for _, s := range m.speakers {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBackend) GetSpeaker(ctx context.Context, speakerID int64) (*domain.Speaker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetSpeaker"); err != nil {
		return nil, err
	}
	s, ok := m.speakers[speakerID]
	if !ok {
		return nil, fmt.Errorf("speaker %d: %w", speakerID, os.ErrNotExist)
	}
	return &s, nil
}

func (m *MockBackend) ListRequirements(ctx context.Context, eventID int64) ([]domain.AssetRequirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListRequirements"); err != nil {
		return nil, err
	}
	var out []domain.AssetRequirement
	for _, r := range m.requirements {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	// reverse id order so callers cannot rely on backend ordering
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockBackend) CreateRequirement(ctx context.Context, eventID int64, req domain.AssetRequirement) (*domain.AssetRequirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateRequirement"); err != nil {
		return nil, err
	}
	m.nextID++
	req.ID = m.nextID
	req.EventID = eventID
	m.requirements[req.ID] = req
	return &req, nil
}

func (m *MockBackend) UpdateRequirement(ctx context.Context, req domain.AssetRequirement) (*domain.AssetRequirement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateRequirement"); err != nil {
		return nil, err
	}
	existing, ok := m.requirements[req.ID]
	if !ok {
		return nil, fmt.Errorf("requirement %d: %w", req.ID, os.ErrNotExist)
	}
	req.EventID = existing.EventID
	m.requirements[req.ID] = req
	return &req, nil
}

func (m *MockBackend) DeleteRequirement(ctx context.Context, requirementID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteRequirement"); err != nil {
		return err
	}
	if _, ok := m.requirements[requirementID]; !ok {
		return fmt.Errorf("requirement %d: %w", requirementID, os.ErrNotExist)
	}
	delete(m.requirements, requirementID)
	return nil
}

func (m *MockBackend) ListSubmissions(ctx context.Context, speakerID int64) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListSubmissions"); err != nil {
		return nil, err
	}
	return append([]domain.Submission(nil), m.submissions[speakerID]...), nil
}

// CreateSubmission mimics the backend: it versions the chain and moves the
// latest flag to the new row.
func (m *MockBackend) CreateSubmission(ctx context.Context, speakerID int64, req domain.SubmissionRequest) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateSubmission"); err != nil {
		return nil, err
	}

	m.nextID++
	sub := domain.Submission{
		ID:                 m.nextID,
		SpeakerID:          speakerID,
		AssetRequirementID: req.AssetRequirementID,
		FileName:           req.FileName,
		FileURL:            req.FileURL,
		FileSize:           req.FileSize,
		MimeType:           req.MimeType,
		ImageWidth:         req.ImageWidth,
		ImageHeight:        req.ImageHeight,
		Version:            1,
		IsLatest:           true,
	}

	subs := m.submissions[speakerID]
	for i := range subs {
		if subs[i].AssetRequirementID != req.AssetRequirementID {
			continue
		}
		if subs[i].Version >= sub.Version {
			sub.Version = subs[i].Version + 1
		}
		if subs[i].IsLatest {
			id := subs[i].ID
			sub.ReplacesSubmissionID = &id
			subs[i].IsLatest = false
		}
	}
	m.submissions[speakerID] = append(subs, sub)
	return &sub, nil
}

func (m *MockBackend) Upload(ctx context.Context, file domain.FileCandidate, body io.Reader) (*domain.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Upload"); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	m.nextID++
	url := fmt.Sprintf("https://files.test/%d/%s", m.nextID, file.FileName)
	m.files[url] = data

	up := &domain.UploadedFile{
		FileName: file.FileName,
		FileURL:  url,
		FileSize: int64(len(data)),
		MimeType: file.MimeType,
	}
	if file.ImageDimensions != nil {
		w, h := file.ImageDimensions.Width, file.ImageDimensions.Height
		up.Width, up.Height = &w, &h
	}
	return up, nil
}

func (m *MockBackend) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	m.mu.Lock()
	if err := m.record("Download"); err != nil {
		m.mu.Unlock()
		return 0, err
	}
	data, ok := m.files[fileURL]
	m.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("file %s: %w", fileURL, os.ErrNotExist)
	}
	return io.Copy(w, bytes.NewReader(data))
}

// MockCatalogCache is an in-memory CatalogCache
type MockCatalogCache struct {
	mu       sync.Mutex
	catalogs map[int64][]domain.AssetRequirement
	SaveErr  error
}

func NewMockCatalogCache() *MockCatalogCache {
	return &MockCatalogCache{catalogs: make(map[int64][]domain.AssetRequirement)}
}

func (c *MockCatalogCache) Get(ctx context.Context, eventID int64) ([]domain.AssetRequirement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reqs, ok := c.catalogs[eventID]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]domain.AssetRequirement(nil), reqs...), nil
}

func (c *MockCatalogCache) Save(ctx context.Context, eventID int64, reqs []domain.AssetRequirement) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SaveErr != nil {
		return c.SaveErr
	}
	c.catalogs[eventID] = append([]domain.AssetRequirement(nil), reqs...)
	return nil
}

// MockInspector returns canned file descriptions by path
type MockInspector struct {
	Files map[string]domain.FileCandidate
}

func NewMockInspector() *MockInspector {
	return &MockInspector{Files: make(map[string]domain.FileCandidate)}
}

func (i *MockInspector) Inspect(path string) (domain.FileCandidate, error) {
	f, ok := i.Files[path]
	if !ok {
		return domain.FileCandidate{}, fmt.Errorf("inspect %s: %w", path, os.ErrNotExist)
	}
	return f, nil
}
