package session

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.portal.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".portal")
}

// Dir returns the profile-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "sessions", name)
}

// LockPath returns the lock file path for a profile.
func LockPath(name string) string {
	return filepath.Join(Dir(name), "LOCK")
}

// AppDBPath returns the portal.db path holding preferences, analytics and
// the amenity/facility cache.
func AppDBPath(name string) string {
	return filepath.Join(Dir(name), "portal.db")
}

// ThumbnailDir returns the directory search thumbnails are cached in.
func ThumbnailDir(name string) string {
	return filepath.Join(Dir(name), "thumbnails")
}

// LogDir returns the log directory for a profile.
func LogDir(name string) string {
	return filepath.Join(Dir(name), "logs")
}

// LogPath returns the client log file path.
func LogPath(name string) string {
	return filepath.Join(LogDir(name), "portal.log")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// EnsureDir creates the profile directory tree with proper permissions.
func EnsureDir(name string) error {
	dirs := []string{
		Dir(name),
		LogDir(name),
		ThumbnailDir(name),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
