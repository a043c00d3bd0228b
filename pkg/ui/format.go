package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
)

// StatusBadge renders an aggregate speaker status with its icon and color
func StatusBadge(status domain.SubmissionStatus) string {
	switch status {
	case domain.StatusComplete:
		return StyleSuccess.Render(IconComplete + " complete")
	case domain.StatusPartial:
		return StyleWarning.Render(IconPartial + " partial")
	default:
		return StyleMuted.Render(IconPending + " pending")
	}
}

// RequirementState renders one row's fulfillment state
func RequirementState(fulfilled, required bool) string {
	switch {
	case fulfilled:
		return StyleSuccess.Render(IconSuccess + " submitted")
	case required:
		return StyleError.Render(IconError + " missing")
	default:
		return StyleMuted.Render("- optional")
	}
}

// FormatBytes renders a byte count in binary units ("2.0 MiB")
func FormatBytes(n int64) string {
	if n < 0 {
		return "-"
	}
	return humanize.IBytes(uint64(n))
}

// FormatAgo renders a timestamp relative to now ("3 hours ago")
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// FormatDate renders a timestamp with the configured layout
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(layout)
}

// ProgressBar renders a static completion bar followed by the progress text
func ProgressBar(p domain.Progress, width int) string {
	if width <= 0 {
		width = 30
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(width), progress.WithoutPercentage())
	return fmt.Sprintf("%s %s", bar.ViewAs(float64(p.Percent)/100), StyleBold.Render(p.String()))
}
