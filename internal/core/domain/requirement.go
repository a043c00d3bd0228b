package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	ErrRequirementNotFound = errors.New("asset requirement not found")
	ErrInvalidRequirement  = errors.New("invalid asset requirement")
)

// AssetType is the closed set of asset kinds an organizer can request
type AssetType string

const (
	AssetHeadshot     AssetType = "headshot"
	AssetBio          AssetType = "bio"
	AssetPresentation AssetType = "presentation"
	AssetLogo         AssetType = "logo"
	AssetOther        AssetType = "other"
)

// AssetTypes lists every known asset type in display order
var AssetTypes = []AssetType{AssetHeadshot, AssetBio, AssetPresentation, AssetLogo, AssetOther}

// Valid reports whether t is one of the known asset types
func (t AssetType) Valid() bool {
	for _, known := range AssetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseAssetType converts user input ("Headshot", " logo ") into an AssetType
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown asset type %q", ErrInvalidRequirement, s)
	}
	return t, nil
}

// AssetRequirement defines one asset speakers must (or may) submit for an event
type AssetRequirement struct {
	ID                int64     `json:"id" yaml:"id"`
	EventID           int64     `json:"eventId,omitempty" yaml:"event_id,omitempty"`
	AssetType         AssetType `json:"assetType" yaml:"asset_type"`
	Label             string    `json:"label" yaml:"label"`
	Description       string    `json:"description,omitempty" yaml:"description,omitempty"`
	IsRequired        bool      `json:"isRequired" yaml:"is_required"`
	AcceptedFileTypes []string  `json:"acceptedFileTypes,omitempty" yaml:"accepted_file_types,omitempty"`
	MaxFileSizeMB     *int      `json:"maxFileSizeMb,omitempty" yaml:"max_file_size_mb,omitempty"`
	MinImageWidth     *int      `json:"minImageWidth,omitempty" yaml:"min_image_width,omitempty"`
	MinImageHeight    *int      `json:"minImageHeight,omitempty" yaml:"min_image_height,omitempty"`
	SortOrder         int       `json:"sortOrder" yaml:"sort_order"`
	CreatedAt         time.Time `json:"createdAt,omitempty" yaml:"-"`
	UpdatedAt         time.Time `json:"updatedAt,omitempty" yaml:"-"`
}

// MaxFileSizeBytes returns the size limit in bytes and whether one is set
func (r AssetRequirement) MaxFileSizeBytes() (int64, bool) {
	if r.MaxFileSizeMB == nil {
		return 0, false
	}
	return int64(*r.MaxFileSizeMB) * 1024 * 1024, true
}

// AcceptsAnyType is true when no file type restriction is configured
func (r AssetRequirement) AcceptsAnyType() bool {
	return len(r.AcceptedFileTypes) == 0
}

// GetAcceptedString returns accepted types as a comma-separated string
func (r AssetRequirement) GetAcceptedString() string {
	if r.AcceptsAnyType() {
		return "any"
	}
	return strings.Join(r.AcceptedFileTypes, ", ")
}

// GetConstraintsString summarizes size and dimension limits for display
func (r AssetRequirement) GetConstraintsString() string {
	var parts []string
	if r.MaxFileSizeMB != nil {
		parts = append(parts, fmt.Sprintf("≤ %d MB", *r.MaxFileSizeMB))
	}
	if r.MinImageWidth != nil || r.MinImageHeight != nil {
		w, h := "?", "?"
		if r.MinImageWidth != nil {
			w = fmt.Sprintf("%d", *r.MinImageWidth)
		}
		if r.MinImageHeight != nil {
			h = fmt.Sprintf("%d", *r.MinImageHeight)
		}
		parts = append(parts, fmt.Sprintf("≥ %sx%s px", w, h))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// ValidateRequirement checks an organizer-supplied requirement before it is sent
// to the backend and normalizes its accepted file types in place.
func ValidateRequirement(r *AssetRequirement) error {
	label := strings.TrimSpace(r.Label)
	if label == "" {
		return fmt.Errorf("%w: label cannot be empty", ErrInvalidRequirement)
	}
	if len(label) > 200 {
		return fmt.Errorf("%w: label too long (max 200 characters)", ErrInvalidRequirement)
	}
	r.Label = label

	if !r.AssetType.Valid() {
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidRequirement, r.AssetType)
	}

	if err := positive("max file size", r.MaxFileSizeMB); err != nil {
		return err
	}
	if err := positive("minimum image width", r.MinImageWidth); err != nil {
		return err
	}
	if err := positive("minimum image height", r.MinImageHeight); err != nil {
		return err
	}

	r.AcceptedFileTypes = NormalizeFileTypes(r.AcceptedFileTypes)
	return nil
}

func positive(name string, v *int) error {
	if v != nil && *v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidRequirement, name, *v)
	}
	return nil
}

// NormalizeFileTypes trims, lowercases and deduplicates acceptance tokens,
// keeping the first occurrence order.
func NormalizeFileTypes(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortCatalog returns a copy of reqs ordered by SortOrder, then ID
func SortCatalog(reqs []AssetRequirement) []AssetRequirement {
	sorted := make([]AssetRequirement, len(reqs))
	copy(sorted, reqs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// FindRequirement looks up a requirement by id
func FindRequirement(reqs []AssetRequirement, id int64) (AssetRequirement, bool) {
	for _, r := range reqs {
		if r.ID == id {
			return r, true
		}
	}
	return AssetRequirement{}, false
}

// GenerateSlug creates a file-name-friendly slug from a label
// Converts "Speaker Headshot (Color)" -> "speaker-headshot-color"
func GenerateSlug(label string) string {
	slug := strings.ToLower(label)

	reg := regexp.MustCompile(`[^a-z0-9]+`)
	slug = reg.ReplaceAllString(slug, "-")

	slug = strings.Trim(slug, "-")

	if slug == "" {
		return "asset"
	}
	return slug
}
