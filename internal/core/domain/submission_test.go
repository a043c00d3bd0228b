package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSubmissionTimestamp(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	uploaded := created.Add(time.Hour)

	if got := (Submission{CreatedAt: created, UploadedAt: uploaded}).Timestamp(); !got.Equal(uploaded) {
		t.Errorf("Timestamp() = %v, want upload time", got)
	}
	if got := (Submission{CreatedAt: created}).Timestamp(); !got.Equal(created) {
		t.Errorf("Timestamp() = %v, want creation time", got)
	}
}

func TestSubmissionHelpers(t *testing.T) {
	w, h := 1200, 800
	img := Submission{FileName: "Me.JPEG", MimeType: "image/jpeg", ImageWidth: &w, ImageHeight: &h}
	doc := Submission{FileName: "bio", MimeType: "text/plain"}

	if !img.IsImage() || doc.IsImage() {
		t.Error("IsImage() misclassified")
	}
	if img.GetDimensionsString() != "1200x800" || doc.GetDimensionsString() != "-" {
		t.Errorf("GetDimensionsString() = %q / %q", img.GetDimensionsString(), doc.GetDimensionsString())
	}
	if img.Extension() != ".jpeg" || doc.Extension() != "" {
		t.Errorf("Extension() = %q / %q", img.Extension(), doc.Extension())
	}
}

func TestNewSubmissionRequest(t *testing.T) {
	w, h := 640, 480

	img := NewSubmissionRequest(3, UploadedFile{FileName: "a.png", FileURL: "u", FileSize: 10, MimeType: "image/png", Width: &w, Height: &h})
	if img.AssetRequirementID != 3 || img.ImageWidth == nil || *img.ImageWidth != 640 {
		t.Errorf("image request = %+v", img)
	}

	pdf := NewSubmissionRequest(4, UploadedFile{FileName: "a.pdf", MimeType: "application/pdf", Width: &w, Height: &h})
	if pdf.ImageWidth != nil || pdf.ImageHeight != nil {
		t.Error("dimensions should not travel with non-image files")
	}
}

func TestValidationResult(t *testing.T) {
	if !Ok().IsOk() || Ok().Err() != nil {
		t.Error("Ok() should pass without error")
	}

	r := Reject(KindFormat, "bad format", "convert it")
	err := r.Err()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Err() = %T, want *ValidationError", err)
	}
	if verr.Result.Kind != KindFormat {
		t.Errorf("kind = %s", verr.Result.Kind)
	}
	if err.Error() != "format check failed: bad format" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestProgressAndAnomalyStrings(t *testing.T) {
	p := Progress{Completed: 2, Total: 3, RequiredCompleted: 1, RequiredTotal: 2, Percent: 66}
	if p.String() != "2/3 (66%)" {
		t.Errorf("String() = %q", p.String())
	}
	if p.RequiredMissing() != 1 {
		t.Errorf("RequiredMissing() = %d", p.RequiredMissing())
	}

	a := Anomaly{Kind: AnomalyDuplicateLatest, RequirementID: 4, SubmissionIDs: []int64{1, 2}}
	if a.String() != "duplicate_latest (requirement 4, submissions [1 2])" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestSpeakerFullName(t *testing.T) {
	if got := (Speaker{FirstName: "Ada", LastName: "Lovelace"}).FullName(); got != "Ada Lovelace" {
		t.Errorf("FullName() = %q", got)
	}
	if got := (Speaker{FirstName: "Ada"}).FullName(); got != "Ada" {
		t.Errorf("FullName() = %q", got)
	}
	if got := (Speaker{Email: "ada@example.com"}).FullName(); got != "ada@example.com" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestEventDisplayDate(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := (Event{StartDate: &start}).GetDisplayDate("2006-01-02"); got != "2025-06-01" {
		t.Errorf("GetDisplayDate() = %q", got)
	}
	if got := (Event{}).GetDisplayDate("2006-01-02"); got != "-" {
		t.Errorf("GetDisplayDate() = %q", got)
	}
}
