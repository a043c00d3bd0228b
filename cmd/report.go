package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/adapters/chart"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var (
	reportHTML bool
	reportOpen bool
	reportJSON bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize submission progress across all speakers of an event",
	Long: `Reconcile every speaker of the event and print one row per speaker,
ordered by completion. --html additionally writes a bar chart page to the
workspace reports folder.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportHTML, "html", false, "Write an HTML chart of the report")
	reportCmd.Flags().BoolVarP(&reportOpen, "open", "o", false, "Open the HTML report after writing it (implies --html)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	eventID, err := resolveEventID()
	if err != nil {
		return err
	}

	report, err := reportService.Execute(getContext(), eventID)
	if err != nil {
		return err
	}

	if reportJSON {
		return printJSON(report)
	}

	printCacheNotice(report.CatalogCached)
	fmt.Println(ui.FormatTitle(report.Event.Name))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Speakers", strconv.Itoa(len(report.Speakers))))
	fmt.Println(ui.RenderKeyValue("Requirements", strconv.Itoa(len(report.Requirements))))
	fmt.Println(ui.RenderKeyValue("Average", fmt.Sprintf("%d%%", report.AveragePercent())))
	fmt.Println(ui.RenderKeyValue("Statuses", fmt.Sprintf("%d complete, %d partial, %d pending",
		report.StatusCounts[domain.StatusComplete],
		report.StatusCounts[domain.StatusPartial],
		report.StatusCounts[domain.StatusPending])))
	fmt.Println()

	if len(report.Speakers) > 0 {
		fmt.Print(renderReportTable(report))
	} else {
		fmt.Println(ui.FormatWarning("No speakers invited yet"))
	}

	if reportHTML || reportOpen {
		path, err := writeHTMLReport(report)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(ui.FormatSuccess("Chart written to " + path))
		if reportOpen {
			return OpenFile(path)
		}
	}
	return nil
}

func renderReportTable(report *services.EventReport) string {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "SPEAKER", MaxWidth: 28},
		{Header: "PROGRESS"},
		{Header: "STATUS"},
		{Header: "MISSING", MaxWidth: 40},
	})
	for _, row := range report.Speakers {
		missing := strings.Join(row.Missing, ", ")
		if row.Anomalies > 0 {
			missing = strings.TrimPrefix(missing+fmt.Sprintf(" (%d anomalies)", row.Anomalies), " ")
		}
		table.AddRow([]string{
			strconv.FormatInt(row.Speaker.ID, 10),
			row.Speaker.FullName(),
			ui.ProgressBar(row.Progress, 12),
			ui.StatusBadge(row.Status),
			missing,
		})
	}
	return table.Render()
}

func writeHTMLReport(report *services.EventReport) (string, error) {
	if err := os.MkdirAll(appWorkspace.ReportsPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}
	path := appWorkspace.ReportPath(fmt.Sprintf("event-%d.html", report.Event.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	if err := chart.RenderEventReport(f, report); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
