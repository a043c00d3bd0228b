package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const appName = "stageassets"

// Workspace is the set of local directories the CLI reads and writes
type Workspace struct {
	RootPath      string
	CachePath     string
	DownloadsPath string
	ReportsPath   string
	ConfigPath    string
}

// New resolves XDG-compliant paths without touching the filesystem
func New() (*Workspace, error) {
	rootPath, err := dataRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to determine data root: %w", err)
	}
	configPath, err := configFile()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}
	cachePath, err := cacheRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to determine cache root: %w", err)
	}

	return &Workspace{
		RootPath:      rootPath,
		CachePath:     cachePath,
		DownloadsPath: filepath.Join(rootPath, "downloads"),
		ReportsPath:   filepath.Join(rootPath, "reports"),
		ConfigPath:    configPath,
	}, nil
}

// dataRoot follows XDG_DATA_HOME on Unix and APPDATA on Windows
func dataRoot() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

func cacheRoot() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		return filepath.Join(local, appName, "cache"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

func configFile() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.yaml"), nil
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), nil
}

// Initialize creates the directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	for _, dir := range []string{w.RootPath, w.CachePath, w.DownloadsPath, w.ReportsPath, filepath.Dir(w.ConfigPath)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CatalogSnapshotPath returns where an event's requirement catalog is cached
func (w *Workspace) CatalogSnapshotPath(eventID int64) string {
	return filepath.Join(w.CachePath, "catalogs", "event-"+strconv.FormatInt(eventID, 10)+".json")
}

// SpeakerDownloadDir returns the default download directory of one speaker
func (w *Workspace) SpeakerDownloadDir(speakerID int64) string {
	return filepath.Join(w.DownloadsPath, "speaker-"+strconv.FormatInt(speakerID, 10))
}

// ReportPath returns the full path for a generated report file
func (w *Workspace) ReportPath(filename string) string {
	return filepath.Join(w.ReportsPath, filename)
}

// CleanCache removes all cached catalog snapshots
func (w *Workspace) CleanCache() error {
	entries, err := os.ReadDir(w.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(w.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}
