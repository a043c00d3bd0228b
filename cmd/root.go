package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/adapters/api"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/adapters/probe"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/adapters/repository"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/services"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/config"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/ui"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/workspace"
)

var (
	// Global workspace and settings
	appWorkspace *workspace.Workspace
	appConfig    *config.Config
	appLogger    *logger.Logger

	// Adapters
	apiClient    *api.Client
	catalogCache *repository.FileCatalogCache
	inspector    *probe.Inspector

	// Services
	catalogService  *services.CatalogService
	ledgerService   *services.LedgerService
	overviewService *services.OverviewService
	submitService   *services.SubmitService
	matchService    *services.MatchService
	downloadService *services.DownloadService
	reportService   *services.ReportService

	// Global flags
	flagEventID   int64
	flagSpeakerID int64
	flagVerbose   bool
	flagOffline   bool

	rootCtx = context.Background()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stageassets",
	Short: "Collect and review speaker assets for events",
	Long: ui.StyleTitle.Render("stageassets") + " - Speaker Asset Collection\n\n" +
		"Track which headshots, bios, slide decks and logos each speaker still owes,\n" +
		"check files against an event's requirements before uploading, and pull\n" +
		"everything down once it is in.",
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			appLogger.Sync()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCtx = ctx

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// rejections and aborted pickers were already reported
		if !errors.Is(err, errRejected) && !errors.Is(err, errAborted) {
			fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(speakersCmd)
	rootCmd.AddCommand(requirementsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(cleanCmd)

	rootCmd.PersistentFlags().Int64VarP(&flagEventID, "event", "e", 0, "Event id (defaults to config default_event)")
	rootCmd.PersistentFlags().Int64VarP(&flagSpeakerID, "speaker", "s", 0, "Speaker id (defaults to config default_speaker)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "no-cache-fallback", false, "Fail instead of using cached requirement catalogs")
}

// skipsInitialization lists commands that must run before a workspace exists
func skipsInitialization(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "init", "version", "help", "completion", "__complete":
		return true
	}
	return false
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	if skipsInitialization(cmd) {
		return nil
	}

	ws, err := workspace.New()
	if err != nil {
		return fmt.Errorf("failed to resolve workspace: %w", err)
	}
	appWorkspace = ws

	if !appWorkspace.Exists() {
		fmt.Println(ui.FormatError("Workspace not initialized"))
		fmt.Println(ui.FormatInfo("Run 'stageassets init --api-url <url>' first"))
		os.Exit(1)
	}

	cfg, err := config.Load(appWorkspace.ConfigPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	log, err := logger.New(cfg.LogMode, level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	appLogger = log

	// config commands only need the settings
	if cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config") {
		return nil
	}

	return wireServices()
}

// wireServices builds adapters and services from the loaded configuration
func wireServices() error {
	client, err := api.New(appLogger, api.Config{
		BaseURL:           appConfig.APIBaseURL,
		Token:             appConfig.APIToken,
		Timeout:           appConfig.Timeout(),
		MaxRetries:        appConfig.MaxRetries,
		RequestsPerSecond: appConfig.RequestsPerSecond,
		UserAgent:         "stageassets-cli/" + Version,
	})
	if err != nil {
		return fmt.Errorf("failed to configure api client: %w", err)
	}
	apiClient = client

	catalogCache = repository.NewFileCatalogCache(appWorkspace)
	inspector = probe.NewInspector()

	fallback := appConfig.OfflineFallback && !flagOffline
	catalogService = services.NewCatalogService(apiClient, catalogCache, appLogger, fallback)
	ledgerService = services.NewLedgerService(apiClient)
	overviewService = services.NewOverviewService(apiClient, catalogService, ledgerService, appLogger)
	submitService = services.NewSubmitService(catalogService, ledgerService, apiClient, apiClient, inspector, appLogger)
	matchService = services.NewMatchService(catalogService, inspector)
	downloadService = services.NewDownloadService(overviewService, apiClient, apiClient, appConfig.DownloadWorkers, appLogger)
	reportService = services.NewReportService(apiClient, catalogService, ledgerService, appConfig.DownloadWorkers, appLogger)

	return nil
}

// getContext returns a context for operations, canceled on Ctrl+C
func getContext() context.Context {
	return rootCtx
}
