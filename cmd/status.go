package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show a speaker's submission progress (alias: st)",
	Long: `Reconcile the event's requirement catalog with the speaker's submissions.

Shows one row per requirement in display order with its latest version,
overall progress and the aggregate status (pending, partial, complete).
Inconsistencies in the submission data are listed but never fatal.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the reconciliation as JSON")
}

// statusRow is the JSON shape of one requirement line
type statusRow struct {
	RequirementID int64              `json:"requirementId"`
	Label         string             `json:"label"`
	AssetType     domain.AssetType   `json:"assetType"`
	Required      bool               `json:"required"`
	Fulfilled     bool               `json:"fulfilled"`
	Versions      int                `json:"versions"`
	Latest        *domain.Submission `json:"latest,omitempty"`
}

type statusOutput struct {
	EventID   int64                   `json:"eventId"`
	SpeakerID int64                   `json:"speakerId"`
	Status    domain.SubmissionStatus `json:"status"`
	Progress  domain.Progress         `json:"progress"`
	Rows      []statusRow             `json:"requirements"`
	Anomalies []domain.Anomaly        `json:"anomalies"`
	Cached    bool                    `json:"catalogFromCache"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	eventID, speakerID, err := resolveEventAndSpeaker()
	if err != nil {
		return err
	}

	overview, err := overviewService.Execute(getContext(), services.OverviewRequest{
		EventID:   eventID,
		SpeakerID: speakerID,
	})
	if err != nil {
		return err
	}

	if statusJSON {
		return printJSON(toStatusOutput(speakerID, overview))
	}

	printCacheNotice(overview.CatalogCached)
	rec := overview.Reconciliation

	name := fmt.Sprintf("Speaker %d", speakerID)
	if overview.Speaker != nil {
		name = overview.Speaker.FullName()
	}
	fmt.Println(ui.FormatTitle(name))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Status", ui.StatusBadge(rec.Status)))
	fmt.Println(ui.RenderKeyValue("Progress", ui.ProgressBar(rec.Progress, 30)))
	if rec.Progress.RequiredTotal > 0 {
		fmt.Println(ui.RenderKeyValue("Required", fmt.Sprintf("%d/%d submitted",
			rec.Progress.RequiredCompleted, rec.Progress.RequiredTotal)))
	}
	fmt.Println()

	if len(rec.Rows) == 0 {
		fmt.Println(ui.FormatWarning("This event has no asset requirements yet"))
		return nil
	}

	fmt.Print(renderStatusTable(rec))
	printAnomalies(rec)
	return nil
}

func renderStatusTable(rec services.Reconciliation) string {
	layout := displayDateFormat()
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "REQUIREMENT", MaxWidth: 32},
		{Header: "STATE"},
		{Header: "FILE", MaxWidth: 28},
		{Header: "VER", Align: "right"},
		{Header: "SIZE", Align: "right"},
		{Header: "UPLOADED"},
	})
	for _, row := range rec.Rows {
		label := row.Requirement.Label
		if row.Requirement.IsRequired {
			label += " *"
		}
		file, version, size, uploaded := "-", "-", "-", "-"
		if row.Latest != nil {
			file = row.Latest.FileName
			version = "v" + strconv.Itoa(row.Latest.Version)
			size = ui.FormatBytes(row.Latest.FileSize)
			uploaded = ui.FormatDate(row.Latest.Timestamp(), layout)
		}
		table.AddRow([]string{
			strconv.FormatInt(row.Requirement.ID, 10),
			label,
			ui.RequirementState(row.Latest != nil, row.Requirement.IsRequired),
			file,
			version,
			size,
			uploaded,
		})
	}
	return table.Render()
}

func printAnomalies(rec services.Reconciliation) {
	if !rec.HasAnomalies() {
		return
	}
	fmt.Println()
	fmt.Println(ui.FormatWarning(fmt.Sprintf("%d data inconsistencies detected", len(rec.Anomalies))))
	items := make([]string, 0, len(rec.Anomalies))
	for _, a := range rec.Anomalies {
		items = append(items, a.String())
	}
	fmt.Print(ui.RenderSimpleList(items))
}

func toStatusOutput(speakerID int64, o *services.SpeakerOverview) statusOutput {
	rec := o.Reconciliation
	out := statusOutput{
		EventID:   o.EventID,
		SpeakerID: speakerID,
		Status:    rec.Status,
		Progress:  rec.Progress,
		Anomalies: rec.Anomalies,
		Cached:    o.CatalogCached,
		Rows:      make([]statusRow, 0, len(rec.Rows)),
	}
	if out.Anomalies == nil {
		out.Anomalies = []domain.Anomaly{}
	}
	for _, row := range rec.Rows {
		out.Rows = append(out.Rows, statusRow{
			RequirementID: row.Requirement.ID,
			Label:         row.Requirement.Label,
			AssetType:     row.Requirement.AssetType,
			Required:      row.Requirement.IsRequired,
			Fulfilled:     row.Latest != nil,
			Versions:      row.Versions,
			Latest:        row.Latest,
		})
	}
	return out
}
