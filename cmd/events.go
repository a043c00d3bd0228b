package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"ev"},
	Short:   "List events visible to your token (alias: ev)",
	RunE:    runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	events, err := apiClient.ListEvents(getContext())
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println(ui.FormatWarning("No events found"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "NAME", MaxWidth: 40},
		{Header: "STARTS"},
		{Header: "DEADLINE"},
		{Header: "STATUS"},
	})
	layout := displayDateFormat()
	for _, e := range events {
		deadline := "-"
		if e.Deadline != nil {
			deadline = e.Deadline.Format(layout)
		}
		table.AddRow([]string{
			strconv.FormatInt(e.ID, 10),
			e.Name,
			e.GetDisplayDate(layout),
			deadline,
			e.Status,
		})
	}

	fmt.Println(ui.FormatTitle("Events"))
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d events", len(events))))
	return nil
}

var speakersCmd = &cobra.Command{
	Use:     "speakers",
	Aliases: []string{"sp"},
	Short:   "List the speakers of an event with their progress (alias: sp)",
	RunE:    runSpeakers,
}

var speakersWithProgress bool

func init() {
	speakersCmd.Flags().BoolVarP(&speakersWithProgress, "progress", "p", false, "Reconcile every speaker's submissions (slower)")
}

func runSpeakers(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	eventID, err := resolveEventID()
	if err != nil {
		return err
	}

	if speakersWithProgress {
		report, err := reportService.Execute(ctx, eventID)
		if err != nil {
			return err
		}
		printCacheNotice(report.CatalogCached)

		table := ui.NewTable([]ui.TableColumn{
			{Header: "ID", Align: "right"},
			{Header: "NAME", MaxWidth: 30},
			{Header: "EMAIL", MaxWidth: 32},
			{Header: "PROGRESS", Align: "right"},
			{Header: "STATUS"},
		})
		for _, row := range report.Speakers {
			table.AddRow([]string{
				strconv.FormatInt(row.Speaker.ID, 10),
				row.Speaker.FullName(),
				row.Speaker.Email,
				row.Progress.String(),
				ui.StatusBadge(row.Status),
			})
		}
		fmt.Println(ui.FormatTitle(report.Event.Name + " - Speakers"))
		fmt.Println()
		fmt.Print(table.Render())
		return nil
	}

	speakers, err := apiClient.ListSpeakers(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to list speakers: %w", err)
	}
	if len(speakers) == 0 {
		fmt.Println(ui.FormatWarning("No speakers invited yet"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "NAME", MaxWidth: 30},
		{Header: "EMAIL", MaxWidth: 32},
		{Header: "COMPANY", MaxWidth: 24},
	})
	for _, s := range speakers {
		table.AddRow([]string{strconv.FormatInt(s.ID, 10), s.FullName(), s.Email, s.Company})
	}
	fmt.Println(ui.FormatTitle(fmt.Sprintf("Speakers of event %d", eventID)))
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d speakers", len(speakers))))
	return nil
}
