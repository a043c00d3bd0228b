package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached requirement catalogs",
	Long: `Remove the requirement catalogs kept for offline fallback.

Without --event the whole cache directory is emptied. With --event only that
event's snapshot is removed; the next online fetch writes a fresh one.

Examples:
  stageassets clean            # Wipe every cached catalog
  stageassets clean -e 12      # Forget the catalog of event 12`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	if flagEventID == 0 {
		fmt.Print(ui.StyleWarning.Render("Cleaning catalog cache... "))
		if err := appWorkspace.CleanCache(); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Done"))
		return nil
	}

	path := appWorkspace.CatalogSnapshotPath(flagEventID)
	fmt.Printf("%s catalog of event %d... ", ui.StyleWarning.Render("Cleaning"), flagEventID)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Println(ui.FormatMuted("nothing cached"))
			return nil
		}
		fmt.Println(ui.FormatError("Failed"))
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	appLogger.Debug("catalog snapshot removed", "event_id", flagEventID, "path", path)
	fmt.Println(ui.FormatSuccess("Done"))
	return nil
}
