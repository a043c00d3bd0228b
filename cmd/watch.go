package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var (
	watchSubmit bool
	watchQuiet  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Check files dropped into a folder against the event's requirements",
	Long: `Watch a folder and validate every new or changed file against the
event's asset requirements as soon as it is saved.

With --submit (and a speaker), a file accepted by exactly one requirement
is uploaded automatically. Files accepted by several requirements are only
reported; submit those with 'stageassets submit'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchSubmit, "submit", false, "Upload files that match exactly one requirement")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Only print accepted files and errors")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	var eventID, speakerID int64
	if watchSubmit {
		if eventID, speakerID, err = resolveEventAndSpeaker(); err != nil {
			return err
		}
	} else if eventID, err = resolveEventID(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	fmt.Println(ui.FormatRocket(fmt.Sprintf("Watching %s for event %d", dir, eventID)))
	if watchSubmit {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Auto-submitting for speaker %d", speakerID)))
	}
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
	fmt.Println()

	// editors write in bursts; collect paths and check once things settle
	var (
		mu            sync.Mutex
		pending       = make(map[string]bool)
		debounceTimer *time.Timer
	)
	debounce := appConfig.WatchDebounce()

	flush := func() {
		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]bool)
		mu.Unlock()

		sort.Strings(paths)
		for _, p := range paths {
			checkWatchedFile(eventID, speakerID, p)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoredWatchFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			mu.Lock()
			pending[event.Name] = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLogger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
			fmt.Println()
			fmt.Println(ui.FormatMuted("Watch stopped"))
			return nil
		}
	}
}

// ignoredWatchFile skips hidden, editor temp and partial download files
func ignoredWatchFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return true
	}
	for _, suffix := range []string{"~", ".swp", ".tmp", ".part", ".crdownload"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func checkWatchedFile(eventID, speakerID int64, path string) {
	ctx := getContext()
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	match, err := matchService.Execute(ctx, eventID, path)
	if err != nil {
		fmt.Println(ui.FormatError(fmt.Sprintf("%s: %v", name, err)))
		return
	}

	accepted := match.Accepted()
	switch {
	case len(accepted) == 0:
		if !watchQuiet {
			fmt.Println(ui.FormatWarning(name + ": no requirement accepts this file"))
			fmt.Print(renderMatchTable(match.Results))
		}
		return
	case len(accepted) > 1 || !watchSubmit:
		labels := make([]string, 0, len(accepted))
		for _, r := range accepted {
			labels = append(labels, fmt.Sprintf("%s (%d)", r.Label, r.ID))
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s: accepted by %s", name, strings.Join(labels, ", "))))
		return
	}

	resp, err := submitService.Execute(ctx, services.SubmitRequest{
		EventID:       eventID,
		SpeakerID:     speakerID,
		RequirementID: accepted[0].ID,
		Path:          path,
	})
	if err != nil {
		fmt.Println(ui.FormatError(fmt.Sprintf("%s: %v", name, err)))
		return
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s %s: submitted as v%d of %q",
		ui.IconUpload, name, resp.Submission.Version, accepted[0].Label)))
}
