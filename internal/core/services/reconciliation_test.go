package services

import (
	"slices"
	"testing"
	"time"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
)

func testCatalog() []domain.AssetRequirement {
	return []domain.AssetRequirement{
		{ID: 1, Label: "Headshot", AssetType: domain.AssetHeadshot, IsRequired: true, SortOrder: 1},
		{ID: 2, Label: "Bio", AssetType: domain.AssetBio, IsRequired: true, SortOrder: 2},
		{ID: 3, Label: "Logo", AssetType: domain.AssetLogo, IsRequired: false, SortOrder: 3},
	}
}

func sub(id, reqID int64, version int, latest bool) domain.Submission {
	return domain.Submission{
		ID:                 id,
		SpeakerID:          9,
		AssetRequirementID: reqID,
		FileName:           "file.bin",
		Version:            version,
		IsLatest:           latest,
		UploadedAt:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
	}
}

func TestReconciliationEngine_FulfillmentFor(t *testing.T) {
	engine := NewReconciliationEngine()
	req := testCatalog()[0]

	tests := []struct {
		name        string
		subs        []domain.Submission
		expectedID  int64
		expectFound bool
		expectDup   bool
	}{
		{
			name: "no submissions",
		},
		{
			name:        "single latest among versions",
			subs:        []domain.Submission{sub(1, 1, 1, false), sub(2, 1, 2, true)},
			expectedID:  2,
			expectFound: true,
		},
		{
			name: "latest of another requirement ignored",
			subs: []domain.Submission{sub(1, 2, 1, true)},
		},
		{
			name: "no submission flagged latest",
			subs: []domain.Submission{sub(1, 1, 1, false), sub(2, 1, 2, false)},
		},
		{
			name:        "duplicate latest picks highest version",
			subs:        []domain.Submission{sub(5, 1, 3, true), sub(4, 1, 2, true), sub(6, 1, 1, true)},
			expectedID:  5,
			expectFound: true,
			expectDup:   true,
		},
		{
			name:        "duplicate latest same version picks newest upload",
			subs:        []domain.Submission{sub(7, 1, 2, true), sub(8, 1, 2, true)},
			expectedID:  8,
			expectFound: true,
			expectDup:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := slices.Clone(tt.subs)
			f := engine.FulfillmentFor(req, tt.subs)

			if f.Found() != tt.expectFound {
				t.Fatalf("Found() = %v, want %v", f.Found(), tt.expectFound)
			}
			if tt.expectFound && f.Submission.ID != tt.expectedID {
				t.Errorf("submission id = %d, want %d", f.Submission.ID, tt.expectedID)
			}
			if (f.Anomaly != nil) != tt.expectDup {
				t.Errorf("anomaly = %v, want duplicate %v", f.Anomaly, tt.expectDup)
			}
			if f.Anomaly != nil && f.Anomaly.Kind != domain.AnomalyDuplicateLatest {
				t.Errorf("anomaly kind = %s", f.Anomaly.Kind)
			}
			if !slices.EqualFunc(before, tt.subs, func(a, b domain.Submission) bool { return a.ID == b.ID && a.IsLatest == b.IsLatest }) {
				t.Error("FulfillmentFor mutated or reordered its input")
			}
		})
	}
}

func TestReconciliationEngine_FulfillmentForOrphan(t *testing.T) {
	engine := NewReconciliationEngine()
	orphanReq := domain.AssetRequirement{ID: 99, Label: "Deleted"}
	subs := []domain.Submission{sub(1, 99, 1, true)}

	f := engine.FulfillmentFor(orphanReq, subs)
	if !f.Found() || f.Submission.ID != 1 {
		t.Error("orphaned submission should still be found when queried by id")
	}

	p := engine.Progress(testCatalog(), subs)
	if p.Completed != 0 {
		t.Errorf("orphan counted in progress: %+v", p)
	}
}

func TestReconciliationEngine_VersionHistory(t *testing.T) {
	engine := NewReconciliationEngine()
	req := testCatalog()[0]
	subs := []domain.Submission{sub(2, 1, 2, false), sub(9, 2, 1, true), sub(3, 1, 3, true), sub(1, 1, 1, false)}

	collect := func() []int {
		var versions []int
		for s := range engine.VersionHistory(req, subs) {
			versions = append(versions, s.Version)
		}
		return versions
	}

	first := collect()
	second := collect()
	want := []int{3, 2, 1}
	if !slices.Equal(first, want) {
		t.Errorf("VersionHistory() = %v, want %v", first, want)
	}
	if !slices.Equal(first, second) {
		t.Errorf("second iteration %v differs from first %v", second, first)
	}
	if subs[0].ID != 2 || subs[3].ID != 1 {
		t.Error("VersionHistory reordered its input")
	}

	// early break stops the sequence
	count := 0
	for range engine.VersionHistory(req, subs) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected break after 1 element, got %d", count)
	}
}

func TestReconciliationEngine_Progress(t *testing.T) {
	engine := NewReconciliationEngine()

	tests := []struct {
		name     string
		catalog  []domain.AssetRequirement
		subs     []domain.Submission
		expected domain.Progress
	}{
		{
			name:     "empty catalog",
			expected: domain.Progress{},
		},
		{
			name:     "nothing submitted",
			catalog:  testCatalog(),
			expected: domain.Progress{Total: 3, RequiredTotal: 2},
		},
		{
			name:     "required items fulfilled",
			catalog:  testCatalog(),
			subs:     []domain.Submission{sub(1, 1, 1, true), sub(2, 2, 1, true)},
			expected: domain.Progress{Completed: 2, Total: 3, RequiredCompleted: 2, RequiredTotal: 2, Percent: 66},
		},
		{
			name:     "everything fulfilled",
			catalog:  testCatalog(),
			subs:     []domain.Submission{sub(1, 1, 1, true), sub(2, 2, 1, true), sub(3, 3, 1, true)},
			expected: domain.Progress{Completed: 3, Total: 3, RequiredCompleted: 2, RequiredTotal: 2, Percent: 100},
		},
		{
			name:     "superseded versions do not count",
			catalog:  testCatalog(),
			subs:     []domain.Submission{sub(1, 3, 1, false)},
			expected: domain.Progress{Total: 3, RequiredTotal: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Progress(tt.catalog, tt.subs)
			if got != tt.expected {
				t.Errorf("Progress() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestReconciliationEngine_Status(t *testing.T) {
	engine := NewReconciliationEngine()

	tests := []struct {
		name     string
		catalog  []domain.AssetRequirement
		subs     []domain.Submission
		expected domain.SubmissionStatus
	}{
		{"empty catalog is pending", nil, nil, domain.StatusPending},
		{"nothing fulfilled", testCatalog(), nil, domain.StatusPending},
		{"optional only", testCatalog(), []domain.Submission{sub(1, 3, 1, true)}, domain.StatusPartial},
		{"one required missing", testCatalog(), []domain.Submission{sub(1, 1, 1, true)}, domain.StatusPartial},
		{"required complete", testCatalog(), []domain.Submission{sub(1, 1, 1, true), sub(2, 2, 1, true)}, domain.StatusComplete},
		{
			"all optional catalog with one fulfilled",
			[]domain.AssetRequirement{{ID: 5, Label: "Extra"}, {ID: 6, Label: "More"}},
			[]domain.Submission{sub(1, 5, 1, true)},
			domain.StatusComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.Status(tt.catalog, tt.subs); got != tt.expected {
				t.Errorf("Status() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestReconciliationEngine_IsRequirementRequiredAndMissing(t *testing.T) {
	engine := NewReconciliationEngine()
	catalog := testCatalog()
	subs := []domain.Submission{sub(1, 1, 1, true)}

	if engine.IsRequirementRequiredAndMissing(catalog[0], subs) {
		t.Error("fulfilled requirement reported missing")
	}
	if !engine.IsRequirementRequiredAndMissing(catalog[1], subs) {
		t.Error("required unfulfilled requirement not reported")
	}
	if engine.IsRequirementRequiredAndMissing(catalog[2], subs) {
		t.Error("optional requirement reported as required-missing")
	}
}

func TestReconciliationEngine_Reconcile(t *testing.T) {
	engine := NewReconciliationEngine()
	catalog := []domain.AssetRequirement{
		{ID: 3, Label: "Logo", SortOrder: 3},
		{ID: 1, Label: "Headshot", IsRequired: true, SortOrder: 1},
		{ID: 2, Label: "Bio", IsRequired: true, SortOrder: 2},
	}
	subs := []domain.Submission{
		sub(10, 1, 1, true),
		sub(11, 1, 2, true), // duplicate latest
		sub(12, 2, 1, false),
		sub(13, 2, 2, false), // no latest flagged
		sub(14, 3, 2, false),
		sub(15, 3, 1, true), // stale latest
		sub(16, 42, 1, true),
	}

	rec := engine.Reconcile(catalog, subs)

	if len(rec.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rec.Rows))
	}
	for i, wantID := range []int64{1, 2, 3} {
		if rec.Rows[i].Requirement.ID != wantID {
			t.Errorf("row %d = requirement %d, want %d", i, rec.Rows[i].Requirement.ID, wantID)
		}
	}

	if rec.Rows[0].Latest == nil || rec.Rows[0].Latest.ID != 11 || rec.Rows[0].Versions != 2 {
		t.Errorf("headshot row = %+v", rec.Rows[0])
	}
	if rec.Rows[1].Latest != nil || !rec.Rows[1].RequiredMissing {
		t.Errorf("bio row should be required and missing: %+v", rec.Rows[1])
	}
	if rec.Rows[2].Latest == nil || rec.Rows[2].Latest.ID != 15 {
		t.Errorf("logo row should use the flagged submission: %+v", rec.Rows[2])
	}

	if len(rec.Orphans) != 1 || rec.Orphans[0].ID != 16 {
		t.Errorf("orphans = %v", rec.Orphans)
	}

	kinds := map[domain.AnomalyKind]int{}
	for _, a := range rec.Anomalies {
		kinds[a.Kind]++
	}
	for _, k := range []domain.AnomalyKind{
		domain.AnomalyDuplicateLatest,
		domain.AnomalyNoLatest,
		domain.AnomalyStaleLatest,
		domain.AnomalyOrphanedSubmission,
	} {
		if kinds[k] != 1 {
			t.Errorf("expected one %s anomaly, got %d (%v)", k, kinds[k], rec.Anomalies)
		}
	}
	if !rec.HasAnomalies() {
		t.Error("HasAnomalies() = false")
	}

	want := domain.Progress{Completed: 2, Total: 3, RequiredCompleted: 1, RequiredTotal: 2, Percent: 66}
	if rec.Progress != want {
		t.Errorf("Progress = %+v, want %+v", rec.Progress, want)
	}
	if rec.Status != domain.StatusPartial {
		t.Errorf("Status = %s, want partial", rec.Status)
	}
}

func TestScenarios(t *testing.T) {
	gate := NewUploadGate()
	engine := NewReconciliationEngine()

	imageReq := domain.AssetRequirement{ID: 1, Label: "Photo", MaxFileSizeMB: intPtr(5), AcceptedFileTypes: []string{".jpg", ".png"}}

	t.Run("A oversized", func(t *testing.T) {
		r := gate.Validate(imageReq, domain.FileCandidate{SizeBytes: 6_000_000, MimeType: "image/jpeg", FileName: "a.jpg"})
		if r.Kind != domain.KindSize {
			t.Errorf("kind = %q, want size", r.Kind)
		}
	})

	t.Run("B wrong format", func(t *testing.T) {
		r := gate.Validate(imageReq, domain.FileCandidate{SizeBytes: 1_000_000, MimeType: "application/pdf", FileName: "a.pdf"})
		if r.Kind != domain.KindFormat {
			t.Errorf("kind = %q, want format", r.Kind)
		}
	})

	t.Run("C too narrow", func(t *testing.T) {
		req := domain.AssetRequirement{ID: 2, Label: "Banner", MinImageWidth: intPtr(800), MinImageHeight: intPtr(600)}
		r := gate.Validate(req, domain.FileCandidate{
			SizeBytes:       100_000,
			MimeType:        "image/png",
			FileName:        "p.png",
			ImageDimensions: &domain.Dimensions{Width: 700, Height: 650},
		})
		if r.Kind != domain.KindDimensions {
			t.Errorf("kind = %q, want dimensions", r.Kind)
		}
	})

	t.Run("D required complete", func(t *testing.T) {
		subs := []domain.Submission{sub(1, 1, 1, true), sub(2, 2, 1, true)}
		want := domain.Progress{Completed: 2, Total: 3, RequiredCompleted: 2, RequiredTotal: 2, Percent: 66}
		if got := engine.Progress(testCatalog(), subs); got != want {
			t.Errorf("Progress() = %+v, want %+v", got, want)
		}
		if got := engine.Status(testCatalog(), subs); got != domain.StatusComplete {
			t.Errorf("Status() = %s, want complete", got)
		}
	})

	t.Run("E empty", func(t *testing.T) {
		if got := engine.Status(nil, nil); got != domain.StatusPending {
			t.Errorf("Status() = %s, want pending", got)
		}
		if got := engine.Progress(nil, nil); got.Percent != 0 {
			t.Errorf("Percent = %d, want 0", got.Percent)
		}
	})
}
