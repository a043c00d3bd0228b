package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var (
	validateRequirementID   int64
	validateRequirementFile string
)

// errRejected signals a non-zero exit after the rejection was already printed
var errRejected = errors.New("file rejected")

var validateCmd = &cobra.Command{
	Use:     "validate <file>",
	Aliases: []string{"check"},
	Short:   "Check a local file against asset requirements without uploading",
	Long: `Run the upload checks (size, then format, then image dimensions) locally.

With --requirement the file is checked against one requirement of the event.
With --requirement-file the requirement is read from YAML and no backend is
contacted. Without either, every requirement of the event is listed with
its verdict.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Int64VarP(&validateRequirementID, "requirement", "r", 0, "Requirement id to check against")
	validateCmd.Flags().StringVar(&validateRequirementFile, "requirement-file", "", "YAML requirement definition to check against")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	if validateRequirementFile != "" {
		req, err := loadRequirementFile(validateRequirementFile)
		if err != nil {
			return err
		}
		return validateAgainst(req, path)
	}

	eventID, err := resolveEventID()
	if err != nil {
		return err
	}

	if validateRequirementID != 0 {
		req, err := catalogService.Find(getContext(), eventID, validateRequirementID)
		if err != nil {
			return err
		}
		return validateAgainst(req, path)
	}

	resp, err := matchService.Execute(getContext(), eventID, path)
	if err != nil {
		return err
	}
	printFileSummary(resp.File)
	fmt.Println()
	fmt.Print(renderMatchTable(resp.Results))

	accepted := resp.Accepted()
	fmt.Println()
	if len(accepted) == 0 {
		fmt.Println(ui.FormatWarning("No requirement of this event accepts the file"))
		return errRejected
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Accepted by %d of %d requirements", len(accepted), len(resp.Results))))
	return nil
}

func validateAgainst(req domain.AssetRequirement, path string) error {
	file, result, err := matchService.ValidateFile(req, path)
	if err != nil {
		return err
	}
	printFileSummary(file)
	fmt.Println(ui.RenderKeyValue("Requirement", requirementLine(req)))
	fmt.Println()
	printValidation(result)
	if !result.IsOk() {
		return errRejected
	}
	return nil
}

func printFileSummary(file domain.FileCandidate) {
	fmt.Println(ui.FormatTitle(file.FileName))
	fmt.Println(ui.RenderKeyValue("Type", file.MimeType))
	fmt.Println(ui.RenderKeyValue("Size", ui.FormatBytes(file.SizeBytes)))
	if d := file.ImageDimensions; d != nil {
		fmt.Println(ui.RenderKeyValue("Dimensions", fmt.Sprintf("%dx%d", d.Width, d.Height)))
	}
}

func printValidation(result domain.ValidationResult) {
	if result.IsOk() {
		fmt.Println(ui.FormatSuccess("File meets the requirement"))
		return
	}
	fmt.Println(ui.FormatError(fmt.Sprintf("%s: %s", result.Kind, result.Message)))
	if result.Suggestion != "" {
		fmt.Println(ui.FormatMuted("  " + result.Suggestion))
	}
}

func renderMatchTable(results []services.MatchResult) string {
	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "REQUIREMENT", MaxWidth: 32},
		{Header: "VERDICT"},
		{Header: "REASON", MaxWidth: 48},
	})
	for _, m := range results {
		verdict := ui.StyleSuccess.Render(ui.IconSuccess + " ok")
		reason := ""
		if !m.Result.IsOk() {
			verdict = ui.StyleError.Render(ui.IconError + " " + string(m.Result.Kind))
			reason = m.Result.Message
		}
		table.AddRow([]string{
			strconv.FormatInt(m.Requirement.ID, 10),
			m.Requirement.Label,
			verdict,
			reason,
		})
	}
	return table.Render()
}

func loadRequirementFile(path string) (domain.AssetRequirement, error) {
	var req domain.AssetRequirement
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read requirement file: %w", err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse requirement file: %w", err)
	}
	if err := domain.ValidateRequirement(&req); err != nil {
		return req, err
	}
	return req, nil
}
