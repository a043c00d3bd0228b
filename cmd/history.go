package cmd

import (
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var (
	historyJSON bool
	historyCopy bool
)

var historyCmd = &cobra.Command{
	Use:     "history [requirement-id]",
	Aliases: []string{"versions"},
	Short:   "Show every submitted version of one requirement",
	Long: `List all versions a speaker submitted for a requirement, newest first.

Without an id, pick the requirement interactively. --copy puts the URL of
the latest version on the clipboard.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print versions as JSON")
	historyCmd.Flags().BoolVarP(&historyCopy, "copy", "c", false, "Copy the latest file URL to the clipboard")
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	var req domain.AssetRequirement
	if len(args) == 1 {
		id, err := parseID("requirement", args[0])
		if err != nil {
			return err
		}
		found, ok := domain.FindRequirement(overview.Catalog(), id)
		if !ok {
			return fmt.Errorf("%w: %d", domain.ErrRequirementNotFound, id)
		}
		req = found
	} else {
		if req, err = pickRequirement(overview.Catalog()); err != nil {
			return err
		}
	}

	engine := services.NewReconciliationEngine()
	var versions []domain.Submission
	for s := range engine.VersionHistory(req, overview.Submissions) {
		versions = append(versions, s)
	}
	latest := engine.FulfillmentFor(req, overview.Submissions)

	if historyCopy {
		if !latest.Found() {
			return fmt.Errorf("%w: %s", domain.ErrNoFulfillment, req.Label)
		}
		if err := clipboard.WriteAll(latest.Submission.FileURL); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Println(ui.FormatSuccess("Copied " + latest.Submission.FileURL))
		return nil
	}

	if historyJSON {
		if versions == nil {
			versions = []domain.Submission{}
		}
		return printJSON(versions)
	}

	fmt.Println(ui.FormatTitle(req.Label))
	fmt.Println(ui.FormatMuted(requirementLine(req)))
	fmt.Println()

	if len(versions) == 0 {
		fmt.Println(ui.FormatWarning("No submissions yet"))
		return nil
	}

	layout := displayDateFormat() + " 15:04"
	table := ui.NewTable([]ui.TableColumn{
		{Header: "VER", Align: "right"},
		{Header: "ID", Align: "right"},
		{Header: "FILE", MaxWidth: 34},
		{Header: "SIZE", Align: "right"},
		{Header: "DIMENSIONS"},
		{Header: "UPLOADED"},
		{Header: ""},
	})
	for _, s := range versions {
		marker := ""
		if latest.Found() && s.ID == latest.Submission.ID {
			marker = ui.StyleSuccess.Render("latest")
		}
		table.AddRow([]string{
			"v" + strconv.Itoa(s.Version),
			strconv.FormatInt(s.ID, 10),
			s.FileName,
			ui.FormatBytes(s.FileSize),
			s.GetDimensionsString(),
			ui.FormatDate(s.Timestamp(), layout) + " " + ui.FormatMuted("("+ui.FormatAgo(s.Timestamp())+")"),
			marker,
		})
	}
	fmt.Print(table.Render())
	return nil
}
