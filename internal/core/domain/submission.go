package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var ErrNoFulfillment = errors.New("requirement has no latest submission")

// Submission is one uploaded file fulfilling a requirement for a speaker.
// Versions of the same (SpeakerID, AssetRequirementID) pair form a chain linked
// through ReplacesSubmissionID; exactly one of them is expected to be latest.
type Submission struct {
	ID                   int64     `json:"id"`
	SpeakerID            int64     `json:"speakerId"`
	AssetRequirementID   int64     `json:"assetRequirementId"`
	FileName             string    `json:"fileName"`
	FileURL              string    `json:"fileUrl"`
	FileSize             int64     `json:"fileSize"`
	MimeType             string    `json:"mimeType"`
	ImageWidth           *int      `json:"imageWidth,omitempty"`
	ImageHeight          *int      `json:"imageHeight,omitempty"`
	Version              int       `json:"version"`
	IsLatest             bool      `json:"isLatest"`
	ReplacesSubmissionID *int64    `json:"replacesSubmissionId,omitempty"`
	UploadedAt           time.Time `json:"uploadedAt,omitempty"`
	CreatedAt            time.Time `json:"createdAt,omitempty"`
}

// IsImage reports whether the stored file is an image
func (s Submission) IsImage() bool {
	return IsImageMime(s.MimeType)
}

// Timestamp returns UploadedAt, falling back to CreatedAt
func (s Submission) Timestamp() time.Time {
	if !s.UploadedAt.IsZero() {
		return s.UploadedAt
	}
	return s.CreatedAt
}

// GetDimensionsString returns "WxH" for images and "-" otherwise
func (s Submission) GetDimensionsString() string {
	if s.ImageWidth == nil || s.ImageHeight == nil {
		return "-"
	}
	return fmt.Sprintf("%dx%d", *s.ImageWidth, *s.ImageHeight)
}

// Extension returns the lowercased final extension of the file name (".pdf")
func (s Submission) Extension() string {
	return FileExtension(s.FileName)
}

// UploadedFile is what the file transport returns after storing the bytes
type UploadedFile struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
	Width    *int   `json:"width,omitempty"`
	Height   *int   `json:"height,omitempty"`
}

// SubmissionRequest is the POST body for a new submission; version, latest flag
// and chain link are assigned by the backend.
type SubmissionRequest struct {
	AssetRequirementID int64  `json:"assetRequirementId"`
	FileName           string `json:"fileName"`
	FileURL            string `json:"fileUrl"`
	FileSize           int64  `json:"fileSize"`
	MimeType           string `json:"mimeType"`
	ImageWidth         *int   `json:"imageWidth,omitempty"`
	ImageHeight        *int   `json:"imageHeight,omitempty"`
}

// NewSubmissionRequest builds the creation body from a transport result
func NewSubmissionRequest(requirementID int64, f UploadedFile) SubmissionRequest {
	req := SubmissionRequest{
		AssetRequirementID: requirementID,
		FileName:           f.FileName,
		FileURL:            f.FileURL,
		FileSize:           f.FileSize,
		MimeType:           f.MimeType,
	}
	// dimensions only travel with images
	if IsImageMime(f.MimeType) {
		req.ImageWidth = f.Width
		req.ImageHeight = f.Height
	}
	return req
}

// IsImageMime reports whether a MIME type is in the image/ category
func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// FileExtension returns the lowercased final ".ext" of a file name, or ""
func FileExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
