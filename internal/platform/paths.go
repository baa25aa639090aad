// Package platform locates the two per-user places canban touches: the config
// file it reads and the directory dev-mode logs are appended to.
package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Locations holds the resolved config file and log directory.
type Locations struct {
	ConfigPath string
	LogDir     string
}

// Resolver derives Locations from an OS name and lookup hooks.
type Resolver struct {
	GOOS      string
	Getenv    func(string) string
	ConfigDir func() (string, error)
	HomeDir   func() (string, error)
}

// System returns a resolver bound to the running process.
func System() Resolver {
	return Resolver{
		GOOS:      runtime.GOOS,
		Getenv:    os.Getenv,
		ConfigDir: os.UserConfigDir,
		HomeDir:   os.UserHomeDir,
	}
}

// Resolve returns the locations for appName. Dev mode appends "-dev" so a
// development build never reads a release config.
func (r Resolver) Resolve(appName string, devMode bool) (Locations, error) {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return Locations{}, errors.New("empty app name")
	}
	if devMode {
		appName += "-dev"
	}

	configBase, err := r.configBase()
	if err != nil {
		return Locations{}, err
	}
	logBase, err := r.logBase(configBase)
	if err != nil {
		return Locations{}, err
	}
	return Locations{
		ConfigPath: filepath.Join(configBase, appName, "config.toml"),
		LogDir:     filepath.Join(logBase, appName),
	}, nil
}

// configBase picks the directory that holds per-app config folders.
func (r Resolver) configBase() (string, error) {
	switch r.GOOS {
	case "linux":
		if v := r.env("XDG_CONFIG_HOME"); v != "" {
			return v, nil
		}
	case "windows":
		if v := r.env("APPDATA"); v != "" {
			return v, nil
		}
	}
	if r.ConfigDir == nil {
		return "", errors.New("no user config dir")
	}
	dir, err := r.ConfigDir()
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", errors.New("no user config dir")
	}
	return dir, nil
}

// logBase picks the directory that holds per-app log folders. Linux follows
// XDG state, macOS uses ~/Library/Logs, and everything else shares the
// config base.
func (r Resolver) logBase(configBase string) (string, error) {
	switch r.GOOS {
	case "linux":
		if v := r.env("XDG_STATE_HOME"); v != "" {
			return v, nil
		}
		home, err := r.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "state"), nil
	case "darwin":
		home, err := r.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Logs"), nil
	case "windows":
		if v := r.env("LOCALAPPDATA"); v != "" {
			return v, nil
		}
	}
	return configBase, nil
}

func (r Resolver) env(key string) string {
	if r.Getenv == nil {
		return ""
	}
	return strings.TrimSpace(r.Getenv(key))
}

func (r Resolver) home() (string, error) {
	if r.HomeDir == nil {
		return "", errors.New("no home dir")
	}
	home, err := r.HomeDir()
	if err != nil {
		return "", err
	}
	if home == "" {
		return "", errors.New("no home dir")
	}
	return home, nil
}
