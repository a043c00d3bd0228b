package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
)

// requirementPayload is the writable part of a requirement. Nil limits are
// sent as null so an update can clear them.
type requirementPayload struct {
	AssetType         domain.AssetType `json:"assetType"`
	Label             string           `json:"label"`
	Description       string           `json:"description,omitempty"`
	IsRequired        bool             `json:"isRequired"`
	AcceptedFileTypes []string         `json:"acceptedFileTypes"`
	MaxFileSizeMB     *int             `json:"maxFileSizeMb"`
	MinImageWidth     *int             `json:"minImageWidth"`
	MinImageHeight    *int             `json:"minImageHeight"`
	SortOrder         int              `json:"sortOrder"`
}

func toPayload(r domain.AssetRequirement) requirementPayload {
	accepted := r.AcceptedFileTypes
	if accepted == nil {
		accepted = []string{}
	}
	return requirementPayload{
		AssetType:         r.AssetType,
		Label:             r.Label,
		Description:       r.Description,
		IsRequired:        r.IsRequired,
		AcceptedFileTypes: accepted,
		MaxFileSizeMB:     r.MaxFileSizeMB,
		MinImageWidth:     r.MinImageWidth,
		MinImageHeight:    r.MinImageHeight,
		SortOrder:         r.SortOrder,
	}
}

func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.doJSON(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	var event domain.Event
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/events/%d", eventID), nil, &event); err != nil {
		return nil, fmt.Errorf("get event %d: %w", eventID, err)
	}
	return &event, nil
}

func (c *Client) ListSpeakers(ctx context.Context, eventID int64) ([]domain.Speaker, error) {
	var speakers []domain.Speaker
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/events/%d/speakers", eventID), nil, &speakers); err != nil {
		return nil, fmt.Errorf("list speakers of event %d: %w", eventID, err)
	}
	return speakers, nil
}

func (c *Client) GetSpeaker(ctx context.Context, speakerID int64) (*domain.Speaker, error) {
	var speaker domain.Speaker
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/speakers/%d", speakerID), nil, &speaker); err != nil {
		return nil, fmt.Errorf("get speaker %d: %w", speakerID, err)
	}
	return &speaker, nil
}

func (c *Client) ListRequirements(ctx context.Context, eventID int64) ([]domain.AssetRequirement, error) {
	var reqs []domain.AssetRequirement
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/events/%d/asset-requirements", eventID), nil, &reqs); err != nil {
		return nil, fmt.Errorf("list requirements of event %d: %w", eventID, err)
	}
	return reqs, nil
}

func (c *Client) CreateRequirement(ctx context.Context, eventID int64, req domain.AssetRequirement) (*domain.AssetRequirement, error) {
	var created domain.AssetRequirement
	path := fmt.Sprintf("/events/%d/asset-requirements", eventID)
	if err := c.doJSON(ctx, http.MethodPost, path, toPayload(req), &created); err != nil {
		return nil, fmt.Errorf("create requirement: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateRequirement(ctx context.Context, req domain.AssetRequirement) (*domain.AssetRequirement, error) {
	var updated domain.AssetRequirement
	path := fmt.Sprintf("/asset-requirements/%d", req.ID)
	if err := c.doJSON(ctx, http.MethodPatch, path, toPayload(req), &updated); err != nil {
		return nil, fmt.Errorf("update requirement %d: %w", req.ID, err)
	}
	return &updated, nil
}

func (c *Client) DeleteRequirement(ctx context.Context, requirementID int64) error {
	path := fmt.Sprintf("/asset-requirements/%d", requirementID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete requirement %d: %w", requirementID, err)
	}
	return nil
}

func (c *Client) ListSubmissions(ctx context.Context, speakerID int64) ([]domain.Submission, error) {
	var subs []domain.Submission
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/speakers/%d/submissions", speakerID), nil, &subs); err != nil {
		return nil, fmt.Errorf("list submissions of speaker %d: %w", speakerID, err)
	}
	return subs, nil
}

func (c *Client) CreateSubmission(ctx context.Context, speakerID int64, req domain.SubmissionRequest) (*domain.Submission, error) {
	var created domain.Submission
	path := fmt.Sprintf("/speakers/%d/submissions", speakerID)
	if err := c.doJSON(ctx, http.MethodPost, path, req, &created); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return &created, nil
}
