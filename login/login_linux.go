//go:build linux

// Package login manages starting snip automatically when the user logs in.
package login

import (
	"fmt"
	"os"
	"path/filepath"
)

func desktopPath() string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		config = filepath.Join(home, ".config")
	}
	return filepath.Join(config, "autostart", "snip.desktop")
}

func Enabled() bool {
	path := desktopPath()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	path := desktopPath()
	if path == "" {
		return fmt.Errorf("no home directory")
	}
	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=snip
Exec=%s -gui
X-GNOME-Autostart-enabled=true
`, exe)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(entry), 0644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func Disable() error {
	path := desktopPath()
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}
