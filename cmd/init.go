package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/config"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/workspace"
)

var (
	initAPIURL string
	initToken  string
	initEvent  int64
	initForce  bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the stageassets workspace",
	Long: `Initialize the local workspace and write a config file.

This creates:
  - ~/.local/share/stageassets/downloads/ : Downloaded speaker assets
  - ~/.local/share/stageassets/reports/   : Generated HTML reports
  - ~/.cache/stageassets/                 : Cached requirement catalogs
  - ~/.config/stageassets/config.yaml     : Global configuration

The API token can also be supplied later through STAGEASSETS_API_TOKEN.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initAPIURL, "api-url", "", "Backend base URL (e.g. https://assets.example.com/api)")
	initCmd.Flags().StringVar(&initToken, "token", "", "API bearer token")
	initCmd.Flags().Int64Var(&initEvent, "default-event", 0, "Event used when --event is omitted")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	ws, err := workspace.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine workspace location"))
		return err
	}

	_, statErr := os.Stat(ws.ConfigPath)
	configExists := statErr == nil
	if ws.Exists() && configExists && !initForce {
		fmt.Println(ui.FormatWarning("Workspace already initialized"))
		fmt.Println(ui.FormatMuted("Config: " + ws.ConfigPath))
		fmt.Println(ui.FormatMuted("Use --force to rewrite it, or 'stageassets config set <key> <value>'"))
		return nil
	}

	fmt.Println(ui.FormatRocket("Initializing stageassets workspace..."))
	fmt.Println()

	if err := ws.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize workspace"))
		return err
	}

	cfg := config.DefaultConfig()
	if configExists {
		if loaded, err := config.LoadFile(ws.ConfigPath); err == nil {
			cfg = loaded
		}
	}
	if initAPIURL != "" {
		if err := cfg.Set("api_base_url", initAPIURL); err != nil {
			return err
		}
	}
	if initToken != "" {
		cfg.APIToken = initToken
	}
	if initEvent != 0 {
		cfg.DefaultEvent = initEvent
	}
	cfg.DownloadDir = ws.DownloadsPath

	if err := cfg.Save(ws.ConfigPath); err != nil {
		fmt.Println(ui.FormatError("Failed to write config"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Workspace initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Config", ws.ConfigPath))
	fmt.Println(ui.RenderKeyValue("Downloads", ws.DownloadsPath))
	fmt.Println(ui.RenderKeyValue("Cache", ws.CachePath))
	fmt.Println(ui.RenderKeyValue("API", cfg.APIBaseURL))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	if cfg.APIToken == "" {
		fmt.Println(ui.FormatMuted("  1. Set your token: stageassets config set api_token <token>"))
	} else {
		fmt.Println(ui.FormatMuted("  1. Token saved"))
	}
	fmt.Println(ui.FormatMuted("  2. List your events: stageassets events"))
	fmt.Println(ui.FormatMuted("  3. Check a speaker: stageassets status --event <id> --speaker <id>"))

	return nil
}
