package browser

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Keywords that suggest an installed extension is Eightify. The manifest
// name varies between releases, so the match is deliberately loose.
var extensionKeywords = []string{
	"eightify",
	"eight",
	"transcript",
	"summary",
	"youtube transcript",
	"summarize",
}

type extensionManifest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProfileDir returns the default Chrome user data directory for the current OS.
func ProfileDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local", "Google", "Chrome", "User Data")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "google-chrome")
	}
}

// DiscoverExtensionIDs scans the profile's installed extensions and returns
// the IDs whose manifest name or description looks like Eightify. Unreadable
// manifests are skipped.
func DiscoverExtensionIDs(userDataDir, profileName string) []string {
	extensionsPath := filepath.Join(userDataDir, profileName, "Extensions")

	entries, err := os.ReadDir(extensionsPath)
	if err != nil {
		log.Printf("No extensions directory at %s: %v", extensionsPath, err)
		return nil
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		extID := entry.Name()

		versions, err := os.ReadDir(filepath.Join(extensionsPath, extID))
		if err != nil {
			continue
		}
		for _, version := range versions {
			data, err := os.ReadFile(filepath.Join(extensionsPath, extID, version.Name(), "manifest.json"))
			if err != nil {
				continue
			}
			var manifest extensionManifest
			if err := json.Unmarshal(data, &manifest); err != nil {
				continue
			}
			if matchesExtensionKeywords(manifest.Name) || matchesExtensionKeywords(manifest.Description) {
				log.Printf("Found potential Eightify extension: %s - %s", extID, manifest.Name)
				found = append(found, extID)
				break
			}
		}
	}

	return found
}

func matchesExtensionKeywords(s string) bool {
	s = strings.ToLower(s)
	for _, keyword := range extensionKeywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
