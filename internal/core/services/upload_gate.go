package services

import (
	"fmt"
	"strings"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
)

// UploadGate checks a candidate file against a requirement before anything is
// uploaded. It has no side effects, so it is safe to call on every selection.
type UploadGate struct{}

// NewUploadGate creates an upload gate
func NewUploadGate() *UploadGate {
	return &UploadGate{}
}

// Validate runs the size, format and dimension checks in that order and
// returns the first failure.
func (g *UploadGate) Validate(req domain.AssetRequirement, file domain.FileCandidate) domain.ValidationResult {
	if res := checkSize(req, file); !res.IsOk() {
		return res
	}
	if res := checkFormat(req, file); !res.IsOk() {
		return res
	}
	return checkDimensions(req, file)
}

// Accepts is shorthand for Validate(...).IsOk()
func (g *UploadGate) Accepts(req domain.AssetRequirement, file domain.FileCandidate) bool {
	return g.Validate(req, file).IsOk()
}

func checkSize(req domain.AssetRequirement, file domain.FileCandidate) domain.ValidationResult {
	limit, ok := req.MaxFileSizeBytes()
	if !ok || file.SizeBytes <= limit {
		return domain.Ok()
	}
	return domain.Reject(
		domain.KindSize,
		fmt.Sprintf("%s is %s, which exceeds the %d MB limit for %s",
			file.FileName, formatMB(file.SizeBytes), *req.MaxFileSizeMB, req.Label),
		"Compress the file or export it at a lower quality, then try again.",
	)
}

func checkFormat(req domain.AssetRequirement, file domain.FileCandidate) domain.ValidationResult {
	if req.AcceptsAnyType() || MatchesFileType(req.AcceptedFileTypes, file.FileName, file.MimeType) {
		return domain.Ok()
	}

	found := domain.FileExtension(file.FileName)
	if found == "" {
		found = file.MimeType
	}
	return domain.Reject(
		domain.KindFormat,
		fmt.Sprintf("%s (%s) is not an accepted format for %s", file.FileName, found, req.Label),
		fmt.Sprintf("Convert the file to one of: %s.", req.GetAcceptedString()),
	)
}

func checkDimensions(req domain.AssetRequirement, file domain.FileCandidate) domain.ValidationResult {
	// non-image formats skip dimension limits entirely
	if !file.IsImage() || file.ImageDimensions == nil {
		return domain.Ok()
	}
	dims := *file.ImageDimensions

	if req.MinImageWidth != nil && dims.Width < *req.MinImageWidth {
		return domain.Reject(
			domain.KindDimensions,
			fmt.Sprintf("Image width is %dpx; %s needs at least %dpx", dims.Width, req.Label, *req.MinImageWidth),
			fmt.Sprintf("Upload a larger image (at least %s).", minSizeString(req)),
		)
	}
	if req.MinImageHeight != nil && dims.Height < *req.MinImageHeight {
		return domain.Reject(
			domain.KindDimensions,
			fmt.Sprintf("Image height is %dpx; %s needs at least %dpx", dims.Height, req.Label, *req.MinImageHeight),
			fmt.Sprintf("Upload a larger image (at least %s).", minSizeString(req)),
		)
	}
	return domain.Ok()
}

// MatchResult pairs a requirement with the gate's verdict for one file
type MatchResult struct {
	Requirement domain.AssetRequirement
	Result      domain.ValidationResult
}

// Match validates a file against every requirement of a catalog, in catalog
// order. Callers use it to suggest where a dropped file belongs.
func (g *UploadGate) Match(catalog []domain.AssetRequirement, file domain.FileCandidate) []MatchResult {
	ordered := domain.SortCatalog(catalog)
	results := make([]MatchResult, 0, len(ordered))
	for _, req := range ordered {
		results = append(results, MatchResult{Requirement: req, Result: g.Validate(req, file)})
	}
	return results
}

// Accepted filters Match down to the requirements that accept the file
func (g *UploadGate) Accepted(catalog []domain.AssetRequirement, file domain.FileCandidate) []domain.AssetRequirement {
	var out []domain.AssetRequirement
	for _, m := range g.Match(catalog, file) {
		if m.Result.IsOk() {
			out = append(out, m.Requirement)
		}
	}
	return out
}

// MatchesFileType reports whether a file satisfies any acceptance token. A token
// matches by extension (".jpg" or "jpg", case-insensitive), by category
// wildcard ("image/*" against the MIME prefix) or by exact MIME type.
func MatchesFileType(accepted []string, fileName, mimeType string) bool {
	ext := domain.FileExtension(fileName)
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))

	for _, raw := range accepted {
		tok := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case tok == "":
			continue
		case strings.HasSuffix(tok, "/*"):
			if mimeType != "" && strings.HasPrefix(mimeType, strings.TrimSuffix(tok, "*")) {
				return true
			}
		case strings.Contains(tok, "/"):
			if mimeType == tok {
				return true
			}
		default:
			if !strings.HasPrefix(tok, ".") {
				tok = "." + tok
			}
			if ext != "" && ext == tok {
				return true
			}
		}
	}
	return false
}

func minSizeString(req domain.AssetRequirement) string {
	w, h := "any", "any"
	if req.MinImageWidth != nil {
		w = fmt.Sprintf("%d", *req.MinImageWidth)
	}
	if req.MinImageHeight != nil {
		h = fmt.Sprintf("%d", *req.MinImageHeight)
	}
	return w + "x" + h + " px"
}

func formatMB(n int64) string {
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}
