package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
)

// RenderEventReport writes a standalone HTML page with one bar per speaker:
// overall completion and required-item completion, both in percent.
func RenderEventReport(w io.Writer, report *services.EventReport) error {
	if report == nil || report.Event == nil {
		return fmt.Errorf("empty report")
	}

	names := make([]string, 0, len(report.Speakers))
	overall := make([]opts.BarData, 0, len(report.Speakers))
	required := make([]opts.BarData, 0, len(report.Speakers))
	for _, sp := range report.Speakers {
		names = append(names, sp.Speaker.FullName())
		overall = append(overall, opts.BarData{Value: sp.Progress.Percent})
		required = append(required, opts.BarData{Value: requiredPercent(sp.Progress)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: report.Event.Name + " asset report",
			Width:     "1100px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    report.Event.Name,
			Subtitle: subtitle(report),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "%", Min: 0, Max: 100}),
		charts.WithLegendOpts(opts.Legend{Right: "5%"}),
	)
	bar.SetXAxis(names).
		AddSeries("Completion", overall).
		AddSeries("Required items", required)

	return bar.Render(w)
}

func requiredPercent(p domain.Progress) int {
	if p.RequiredTotal == 0 {
		return 100
	}
	return p.RequiredCompleted * 100 / p.RequiredTotal
}

func subtitle(report *services.EventReport) string {
	return fmt.Sprintf("%d speakers, %d requirements, average %d%% (complete %d, partial %d, pending %d)",
		len(report.Speakers),
		len(report.Requirements),
		report.AveragePercent(),
		report.StatusCounts[domain.StatusComplete],
		report.StatusCounts[domain.StatusPartial],
		report.StatusCounts[domain.StatusPending],
	)
}
