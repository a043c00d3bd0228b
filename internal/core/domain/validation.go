package domain

import "fmt"

// Dimensions are pixel sizes of an image
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FileCandidate is a file the user intends to submit, described before upload
type FileCandidate struct {
	FileName        string      `json:"fileName"`
	SizeBytes       int64       `json:"sizeBytes"`
	MimeType        string      `json:"mimeType"`
	ImageDimensions *Dimensions `json:"imageDimensions,omitempty"`
	Path            string      `json:"-"`
}

// IsImage reports whether the candidate's MIME type is an image type
func (f FileCandidate) IsImage() bool {
	return IsImageMime(f.MimeType)
}

// ValidationKind classifies why a candidate file was rejected
type ValidationKind string

const (
	KindSize       ValidationKind = "size"
	KindFormat     ValidationKind = "format"
	KindDimensions ValidationKind = "dimensions"
)

// ValidationResult is either Ok (zero Kind) or a rejection carrying a kind
// and a user-facing message/suggestion pair.
type ValidationResult struct {
	Kind       ValidationKind `json:"kind,omitempty"`
	Message    string         `json:"message,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// Ok returns the passing result
func Ok() ValidationResult {
	return ValidationResult{}
}

// Reject returns a failing result
func Reject(kind ValidationKind, message, suggestion string) ValidationResult {
	return ValidationResult{Kind: kind, Message: message, Suggestion: suggestion}
}

// IsOk reports whether validation passed
func (r ValidationResult) IsOk() bool {
	return r.Kind == ""
}

// Err returns nil for Ok and a *ValidationError otherwise
func (r ValidationResult) Err() error {
	if r.IsOk() {
		return nil
	}
	return &ValidationError{Result: r}
}

// ValidationError lets a rejected result travel as an error
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s check failed: %s", e.Result.Kind, e.Result.Message)
}
