package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global console directory
	GlobalDirName = ".kbc"
)

// GlobalDir returns the global console directory path (~/.kbc)
func GlobalDir() string {
	if dir := os.Getenv("KBC_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return GlobalDirName
	}
	return filepath.Join(home, GlobalDirName)
}

// GlobalDBPath returns the local state database path (~/.kbc/kbc.db)
func GlobalDBPath() string {
	return filepath.Join(GlobalDir(), "kbc.db")
}

// GlobalConfigPath returns the global config file path (~/.kbc/config.yaml)
func GlobalConfigPath() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// GlobalLogPath returns the log file used while the TUI owns the terminal
func GlobalLogPath() string {
	return filepath.Join(GlobalDir(), "kbc.log")
}

// DownloadsDir returns the default directory for downloaded document versions
func DownloadsDir() string {
	return filepath.Join(GlobalDir(), "downloads")
}

// EnsureGlobalDirs creates all global directories
func EnsureGlobalDirs() error {
	dirs := []string{
		GlobalDir(),
		DownloadsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}
