package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var (
	submitRequirementID int64
	submitDryRun        bool
)

var submitCmd = &cobra.Command{
	Use:     "submit <file>",
	Aliases: []string{"up", "upload"},
	Short:   "Validate and upload a file for a speaker (alias: up)",
	Long: `Upload a file as the next version of a speaker's submission.

The file is checked locally first; rejected files never leave the machine.
Without --requirement you choose among the requirements that accept the file.
A new upload replaces the previous latest version, which stays in history.`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().Int64VarP(&submitRequirementID, "requirement", "r", 0, "Requirement id to submit for")
	submitCmd.Flags().BoolVarP(&submitDryRun, "dry-run", "n", false, "Only validate, do not upload")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	path := args[0]
	eventID, speakerID, err := resolveEventAndSpeaker()
	if err != nil {
		return err
	}

	reqID := submitRequirementID
	if reqID == 0 {
		if reqID, err = chooseAcceptingRequirement(eventID, path); err != nil {
			return err
		}
	}

	if !submitDryRun {
		fmt.Println(ui.FormatInfo(fmt.Sprintf("%s Uploading %s...", ui.IconUpload, path)))
	}
	resp, err := submitService.Execute(getContext(), services.SubmitRequest{
		EventID:       eventID,
		SpeakerID:     speakerID,
		RequirementID: reqID,
		Path:          path,
		DryRun:        submitDryRun,
	})
	return reportSubmit(resp, err)
}

// chooseAcceptingRequirement matches the file against the catalog and picks
// the only accepting requirement, or asks when several accept it.
func chooseAcceptingRequirement(eventID int64, path string) (int64, error) {
	match, err := matchService.Execute(getContext(), eventID, path)
	if err != nil {
		return 0, err
	}
	accepted := match.Accepted()
	switch len(accepted) {
	case 0:
		printFileSummary(match.File)
		fmt.Println()
		fmt.Print(renderMatchTable(match.Results))
		fmt.Println()
		fmt.Println(ui.FormatWarning("No requirement of this event accepts the file"))
		return 0, errRejected
	case 1:
		fmt.Println(ui.FormatMuted("Matched requirement: " + requirementLine(accepted[0])))
		return accepted[0].ID, nil
	}
	picked, err := pickRequirement(accepted)
	if err != nil {
		return 0, err
	}
	return picked.ID, nil
}

func reportSubmit(resp *services.SubmitResponse, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		printFileSummary(resp.File)
		fmt.Println()
		printValidation(resp.Validation)
		return errRejected
	}
	if err != nil {
		return err
	}

	if resp.Submission == nil {
		printFileSummary(resp.File)
		fmt.Println()
		printValidation(resp.Validation)
		fmt.Println(ui.FormatMuted("Dry run: nothing uploaded"))
		return nil
	}

	s := resp.Submission
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Submitted %s as v%d of %q", s.FileName, s.Version, resp.Requirement.Label)))
	fmt.Println(ui.RenderKeyValue("Submission", fmt.Sprintf("%d", s.ID)))
	fmt.Println(ui.RenderKeyValue("Size", ui.FormatBytes(s.FileSize)))
	fmt.Println(ui.RenderKeyValue("URL", s.FileURL))
	if resp.Replaced != nil {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Replaces v%d (%s)", resp.Replaced.Version, resp.Replaced.FileName)))
	}
	return nil
}
