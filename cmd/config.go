package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/config"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the stageassets configuration",
	Long: `Show the effective configuration (file plus STAGEASSETS_* environment overrides).

Subcommands:
  get <key>          Print one setting
  set <key> <value>  Change one setting in the config file
  edit               Open the config file in $EDITOR`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := appConfig.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appWorkspace.ConfigPath

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config file not found at %s", path)
		}

		fmt.Println(ui.FormatInfo("Opening config: " + path))

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("Configuration"))
	fmt.Println(ui.FormatMuted(appWorkspace.ConfigPath))
	fmt.Println()
	for _, key := range config.Keys() {
		v, err := appConfig.Get(key)
		if err != nil {
			return err
		}
		if v == "" {
			v = ui.FormatMuted("(unset)")
		}
		fmt.Println(ui.RenderKeyValue(key, v))
	}
	return nil
}

// runConfigSet edits the file, not the env-merged view, so overrides are not persisted
func runConfigSet(cmd *cobra.Command, args []string) error {
	onDisk, err := config.LoadFile(appWorkspace.ConfigPath)
	if err != nil {
		return err
	}

	if err := onDisk.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := onDisk.Save(appWorkspace.ConfigPath); err != nil {
		return err
	}

	shown, _ := onDisk.Get(args[0])
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s = %s", args[0], shown)))
	return nil
}
