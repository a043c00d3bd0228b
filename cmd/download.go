package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var (
	downloadDir       string
	downloadOverwrite bool
	downloadAll       bool
)

var downloadCmd = &cobra.Command{
	Use:     "download",
	Aliases: []string{"dl", "pull"},
	Short:   "Download the latest version of every submitted asset (alias: dl)",
	Long: `Download each requirement's latest submission into a local directory.

Files are named "NN-<requirement>-v<version>.<ext>" in catalog order.
With --all every speaker of the event is downloaded into its own
"<id>-<name>" subdirectory. Existing files are kept unless --overwrite.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "Target directory (defaults to the workspace downloads folder)")
	downloadCmd.Flags().BoolVar(&downloadOverwrite, "overwrite", false, "Replace files that already exist")
	downloadCmd.Flags().BoolVarP(&downloadAll, "all", "a", false, "Download every speaker of the event")
}

func runDownload(cmd *cobra.Command, args []string) error {
	req := services.DownloadRequest{Overwrite: downloadOverwrite}

	if downloadAll {
		eventID, err := resolveEventID()
		if err != nil {
			return err
		}
		req.EventID = eventID
		req.Dir = downloadTarget(fmt.Sprintf("event-%d", eventID))
	} else {
		eventID, speakerID, err := resolveEventAndSpeaker()
		if err != nil {
			return err
		}
		req.EventID = eventID
		req.SpeakerID = speakerID
		req.Dir = downloadTarget(filepath.Base(appWorkspace.SpeakerDownloadDir(speakerID)))
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("%s Downloading into %s", ui.IconDownload, req.Dir)))

	interactive := isatty.IsTerminal(os.Stdout.Fd())
	resp, err := downloadService.Execute(getContext(), req, func(done, total int) {
		if !interactive {
			return
		}
		p := domain.Progress{Completed: done, Total: total, Percent: done * 100 / total}
		fmt.Printf("\r%s", ui.ProgressBar(p, 30))
		if done == total {
			fmt.Println()
		}
	})
	if err != nil && resp == nil {
		return err
	}

	printDownloadSummary(resp)
	if err != nil {
		return err
	}
	if len(resp.Failed) > 0 {
		return fmt.Errorf("%d downloads failed", len(resp.Failed))
	}
	return nil
}

// downloadTarget returns --dir as given, or name under the configured folder
func downloadTarget(name string) string {
	if downloadDir != "" {
		return downloadDir
	}
	base := appConfig.DownloadDir
	if base == "" {
		base = appWorkspace.DownloadsPath
	}
	return filepath.Join(base, name)
}

func printDownloadSummary(resp *services.DownloadResponse) {
	if len(resp.Files) == 0 && len(resp.Failed) == 0 {
		fmt.Println(ui.FormatWarning("Nothing submitted yet"))
		return
	}

	written, skipped := 0, 0
	for _, f := range resp.Files {
		if f.Skipped {
			skipped++
		} else {
			written++
		}
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%d files downloaded (%s)", written, ui.FormatBytes(resp.Total()))))
	if skipped > 0 {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("%d existing files kept, use --overwrite to replace them", skipped)))
	}

	if len(resp.Failed) == 0 {
		return
	}
	paths := make([]string, 0, len(resp.Failed))
	for p := range resp.Failed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	items := make([]string, 0, len(paths))
	for _, p := range paths {
		items = append(items, fmt.Sprintf("%s: %v", filepath.Base(p), resp.Failed[p]))
	}
	fmt.Println(ui.FormatError(fmt.Sprintf("%d downloads failed", len(resp.Failed))))
	fmt.Print(ui.RenderSimpleList(items))
}
