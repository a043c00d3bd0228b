package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var requirementsCmd = &cobra.Command{
	Use:     "requirements",
	Aliases: []string{"req", "reqs"},
	Short:   "List or manage the asset requirements of an event (alias: req)",
	Long: `List the asset catalog of an event in display order.

Organizers can manage the catalog with the add, update and delete
subcommands. Definitions can be given as flags or as a YAML file:

  asset_type: headshot
  label: Speaker headshot
  is_required: true
  accepted_file_types: [image/*]
  max_file_size_mb: 5
  min_image_width: 800
  min_image_height: 800`,
	RunE: runRequirementsList,
}

var requirementsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a requirement to the event catalog",
	RunE:  runRequirementsAdd,
}

var requirementsUpdateCmd = &cobra.Command{
	Use:   "update <requirement-id>",
	Short: "Change an existing requirement",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequirementsUpdate,
}

var requirementsDeleteCmd = &cobra.Command{
	Use:     "delete <requirement-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a requirement from the event catalog",
	Args:    cobra.ExactArgs(1),
	RunE:    runRequirementsDelete,
}

var (
	reqFile        string
	reqType        string
	reqLabel       string
	reqDescription string
	reqRequired    bool
	reqAccepts     []string
	reqMaxSize     int
	reqMinWidth    int
	reqMinHeight   int
	reqSortOrder   int
	reqForce       bool
)

func init() {
	for _, c := range []*cobra.Command{requirementsAddCmd, requirementsUpdateCmd} {
		f := c.Flags()
		f.StringVarP(&reqFile, "file", "f", "", "YAML file with the requirement definition")
		f.StringVarP(&reqType, "type", "t", "", "Asset type (headshot, bio, presentation, logo, other)")
		f.StringVarP(&reqLabel, "label", "l", "", "Label shown to speakers")
		f.StringVar(&reqDescription, "description", "", "Longer instructions")
		f.BoolVar(&reqRequired, "required", false, "Speakers must submit this asset")
		f.StringSliceVar(&reqAccepts, "accept", nil, "Accepted types: extensions (.pdf), MIME types (image/png) or wildcards (image/*)")
		f.IntVar(&reqMaxSize, "max-size", 0, "Maximum file size in MB")
		f.IntVar(&reqMinWidth, "min-width", 0, "Minimum image width in pixels")
		f.IntVar(&reqMinHeight, "min-height", 0, "Minimum image height in pixels")
		f.IntVar(&reqSortOrder, "order", 0, "Display position (0 appends)")
	}
	requirementsDeleteCmd.Flags().BoolVar(&reqForce, "force", false, "Skip confirmation")

	requirementsCmd.AddCommand(requirementsAddCmd)
	requirementsCmd.AddCommand(requirementsUpdateCmd)
	requirementsCmd.AddCommand(requirementsDeleteCmd)
}

func runRequirementsList(cmd *cobra.Command, args []string) error {
	eventID, err := resolveEventID()
	if err != nil {
		return err
	}

	resp, err := catalogService.Fetch(getContext(), eventID)
	if err != nil {
		return err
	}
	printCacheNotice(resp.FromCache)

	if len(resp.Requirements) == 0 {
		fmt.Println(ui.FormatWarning("No asset requirements defined"))
		fmt.Println(ui.FormatMuted("Add one with: stageassets requirements add --type headshot --label \"Headshot\""))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID", Align: "right"},
		{Header: "TYPE"},
		{Header: "LABEL", MaxWidth: 36},
		{Header: "REQ", Align: "center"},
		{Header: "ACCEPTS", MaxWidth: 30},
		{Header: "LIMITS"},
	})
	for _, r := range resp.Requirements {
		required := ""
		if r.IsRequired {
			required = "*"
		}
		table.AddRow([]string{
			strconv.FormatInt(r.ID, 10),
			string(r.AssetType),
			r.Label,
			required,
			r.GetAcceptedString(),
			r.GetConstraintsString(),
		})
	}

	fmt.Println(ui.FormatTitle(fmt.Sprintf("Asset requirements for event %d", eventID)))
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted("* required"))
	return nil
}

func runRequirementsAdd(cmd *cobra.Command, args []string) error {
	eventID, err := resolveEventID()
	if err != nil {
		return err
	}

	req, err := requirementFromInput(cmd, domain.AssetRequirement{})
	if err != nil {
		return err
	}

	created, err := catalogService.Create(getContext(), eventID, req)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Added requirement %d: %s", created.ID, created.Label)))
	fmt.Println(ui.RenderKeyValue("Accepts", created.GetAcceptedString()))
	fmt.Println(ui.RenderKeyValue("Limits", created.GetConstraintsString()))
	return nil
}

func runRequirementsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID("requirement", args[0])
	if err != nil {
		return err
	}
	eventID, err := resolveEventID()
	if err != nil {
		return err
	}

	current, err := catalogService.Find(getContext(), eventID, id)
	if err != nil {
		return err
	}

	req, err := requirementFromInput(cmd, current)
	if err != nil {
		return err
	}
	req.ID = id
	req.EventID = eventID

	updated, err := catalogService.Update(getContext(), req)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Updated requirement %d: %s", updated.ID, updated.Label)))
	return nil
}

func runRequirementsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID("requirement", args[0])
	if err != nil {
		return err
	}
	eventID, err := resolveEventID()
	if err != nil {
		return err
	}

	req, err := catalogService.Find(getContext(), eventID, id)
	if err != nil {
		return err
	}

	if !reqForce && !confirm(fmt.Sprintf("Delete requirement %d (%s)? Existing submissions become orphaned.", req.ID, req.Label)) {
		fmt.Println(ui.FormatInfo("Deletion cancelled"))
		return nil
	}

	if err := catalogService.Delete(getContext(), eventID, id); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Deleted requirement %d", id)))
	return nil
}

// requirementFromInput starts from base, overlays --file, then overlays every
// flag the user explicitly set.
func requirementFromInput(cmd *cobra.Command, base domain.AssetRequirement) (domain.AssetRequirement, error) {
	req := base

	if reqFile != "" {
		data, err := os.ReadFile(reqFile)
		if err != nil {
			return req, fmt.Errorf("failed to read requirement file: %w", err)
		}
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse requirement file: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("type") {
		t, err := domain.ParseAssetType(reqType)
		if err != nil {
			return req, err
		}
		req.AssetType = t
	}
	if flags.Changed("label") {
		req.Label = reqLabel
	}
	if flags.Changed("description") {
		req.Description = reqDescription
	}
	if flags.Changed("required") {
		req.IsRequired = reqRequired
	}
	if flags.Changed("accept") {
		req.AcceptedFileTypes = splitAccepts(reqAccepts)
	}
	if flags.Changed("max-size") {
		req.MaxFileSizeMB = optionalInt(reqMaxSize)
	}
	if flags.Changed("min-width") {
		req.MinImageWidth = optionalInt(reqMinWidth)
	}
	if flags.Changed("min-height") {
		req.MinImageHeight = optionalInt(reqMinHeight)
	}
	if flags.Changed("order") {
		req.SortOrder = reqSortOrder
	}

	if req.AssetType == "" {
		return req, fmt.Errorf("asset type is required (--type)")
	}
	return req, nil
}

// splitAccepts also accepts a single space-separated value ("pdf pptx")
func splitAccepts(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Fields(v)...)
	}
	return out
}

// optionalInt maps 0 to "no limit"
func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
