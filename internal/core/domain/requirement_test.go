package domain

import (
	"errors"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestValidateRequirement(t *testing.T) {
	tests := []struct {
		name        string
		req         AssetRequirement
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid requirement",
			req:  AssetRequirement{AssetType: AssetHeadshot, Label: "Headshot", MaxFileSizeMB: intPtr(5)},
		},
		{
			name:        "empty label",
			req:         AssetRequirement{AssetType: AssetHeadshot, Label: ""},
			expectError: true,
			errorMsg:    "label cannot be empty",
		},
		{
			name:        "whitespace only label",
			req:         AssetRequirement{AssetType: AssetHeadshot, Label: "   "},
			expectError: true,
			errorMsg:    "label cannot be empty",
		},
		{
			name:        "label too long",
			req:         AssetRequirement{AssetType: AssetBio, Label: strings.Repeat("a", 201)},
			expectError: true,
			errorMsg:    "label too long",
		},
		{
			name:        "unknown asset type",
			req:         AssetRequirement{AssetType: "poster", Label: "Poster"},
			expectError: true,
			errorMsg:    "unknown asset type",
		},
		{
			name:        "zero size limit",
			req:         AssetRequirement{AssetType: AssetLogo, Label: "Logo", MaxFileSizeMB: intPtr(0)},
			expectError: true,
			errorMsg:    "max file size must be positive",
		},
		{
			name:        "negative width",
			req:         AssetRequirement{AssetType: AssetLogo, Label: "Logo", MinImageWidth: intPtr(-1)},
			expectError: true,
			errorMsg:    "minimum image width",
		},
		{
			name:        "negative height",
			req:         AssetRequirement{AssetType: AssetLogo, Label: "Logo", MinImageHeight: intPtr(-10)},
			expectError: true,
			errorMsg:    "minimum image height",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequirement(&tt.req)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, ErrInvalidRequirement) {
					t.Errorf("expected ErrInvalidRequirement, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRequirementNormalizes(t *testing.T) {
	req := AssetRequirement{
		AssetType:         AssetPresentation,
		Label:             "  Slides  ",
		AcceptedFileTypes: []string{" .PDF", ".pdf", "", "application/vnd.ms-powerpoint", ".pptx"},
	}
	if err := ValidateRequirement(&req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Label != "Slides" {
		t.Errorf("Label = %q, want trimmed", req.Label)
	}
	want := []string{".pdf", "application/vnd.ms-powerpoint", ".pptx"}
	if len(req.AcceptedFileTypes) != len(want) {
		t.Fatalf("AcceptedFileTypes = %v, want %v", req.AcceptedFileTypes, want)
	}
	for i := range want {
		if req.AcceptedFileTypes[i] != want[i] {
			t.Errorf("AcceptedFileTypes[%d] = %q, want %q", i, req.AcceptedFileTypes[i], want[i])
		}
	}
}

func TestNormalizeFileTypesBlankOnly(t *testing.T) {
	if got := NormalizeFileTypes([]string{" ", ""}); got != nil {
		t.Errorf("NormalizeFileTypes() = %v, want nil", got)
	}
}

func TestParseAssetType(t *testing.T) {
	tests := []struct {
		input   string
		want    AssetType
		wantErr bool
	}{
		{"headshot", AssetHeadshot, false},
		{" Logo ", AssetLogo, false},
		{"PRESENTATION", AssetPresentation, false},
		{"poster", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAssetType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAssetType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAssetType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSortCatalog(t *testing.T) {
	reqs := []AssetRequirement{
		{ID: 3, SortOrder: 1},
		{ID: 1, SortOrder: 2},
		{ID: 2, SortOrder: 1},
	}
	sorted := SortCatalog(reqs)

	for i, id := range []int64{2, 3, 1} {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d] = %d, want %d", i, sorted[i].ID, id)
		}
	}
	if reqs[0].ID != 3 {
		t.Error("SortCatalog modified its input")
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Speaker Headshot (Color)", "speaker-headshot-color"},
		{"Bio", "bio"},
		{"  Slides -- Final  ", "slides-final"},
		{"Café Logo", "caf-logo"},
		{"***", "asset"},
	}
	for _, tt := range tests {
		if got := GenerateSlug(tt.label); got != tt.want {
			t.Errorf("GenerateSlug(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestRequirementDisplayHelpers(t *testing.T) {
	req := AssetRequirement{
		MaxFileSizeMB:     intPtr(10),
		MinImageWidth:     intPtr(800),
		AcceptedFileTypes: []string{".jpg", ".png"},
	}
	if got := req.GetConstraintsString(); got != "≤ 10 MB, ≥ 800x? px" {
		t.Errorf("GetConstraintsString() = %q", got)
	}
	if got := req.GetAcceptedString(); got != ".jpg, .png" {
		t.Errorf("GetAcceptedString() = %q", got)
	}
	if n, ok := req.MaxFileSizeBytes(); !ok || n != 10*1024*1024 {
		t.Errorf("MaxFileSizeBytes() = %d, %v", n, ok)
	}

	empty := AssetRequirement{}
	if empty.GetConstraintsString() != "-" || empty.GetAcceptedString() != "any" {
		t.Errorf("unexpected display for unconstrained requirement")
	}
	if _, ok := empty.MaxFileSizeBytes(); ok {
		t.Error("MaxFileSizeBytes() should report no limit")
	}
}

func TestFindRequirement(t *testing.T) {
	reqs := []AssetRequirement{{ID: 1, Label: "A"}, {ID: 2, Label: "B"}}
	if r, ok := FindRequirement(reqs, 2); !ok || r.Label != "B" {
		t.Errorf("FindRequirement(2) = %+v, %v", r, ok)
	}
	if _, ok := FindRequirement(reqs, 3); ok {
		t.Error("FindRequirement(3) should miss")
	}
}
