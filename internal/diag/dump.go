// Package diag saves page snapshots for failed extractions so a human can
// inspect what the browser actually saw.
package diag

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Dumper writes debug artifacts under a diagnostics directory
type Dumper struct {
	dir string
}

// NewDumper creates a new diagnostics dumper
func NewDumper(dir string) *Dumper {
	return &Dumper{
		dir: dir,
	}
}

// Dir returns the diagnostics root directory.
func (d *Dumper) Dir() string {
	return d.dir
}

// SavePageSource saves the page HTML and a metadata sidecar to a dated
// directory and returns the HTML path. extra fields from the caller
// (URL, stage, error) are merged into the sidecar.
func (d *Dumper) SavePageSource(videoID, html string, extra map[string]interface{}) (string, error) {
	now := time.Now()
	dateDir, err := d.datedDir(now)
	if err != nil {
		return "", err
	}

	// Filename: 20250123_143022_eightify_debug_dQw4w9WgXcQ.html
	timestamp := now.Format("20060102_150405")
	baseFilename := fmt.Sprintf("%s_eightify_debug_%s", timestamp, sanitizeFilename(videoID))

	htmlPath := filepath.Join(dateDir, baseFilename+".html")
	metaPath := filepath.Join(dateDir, baseFilename+"_meta.json")

	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to save page source: %v", err)
	}

	metadata := map[string]interface{}{
		"video_id":   videoID,
		"html_path":  htmlPath,
		"created_at": now,
	}
	for k, v := range extra {
		metadata[k] = v
	}

	metaJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal debug metadata: %v", err)
	}

	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to save debug metadata: %v", err)
	}

	log.Printf("Saved page source to %s for debugging", htmlPath)
	return htmlPath, nil
}

// SaveScreenshot saves a PNG captured at failure time and returns its path.
func (d *Dumper) SaveScreenshot(videoID string, png []byte) (string, error) {
	now := time.Now()
	dateDir, err := d.datedDir(now)
	if err != nil {
		return "", err
	}

	timestamp := now.Format("20060102_150405")
	pngPath := filepath.Join(dateDir,
		fmt.Sprintf("%s_eightify_error_%s.png", timestamp, sanitizeFilename(videoID)))

	if err := os.WriteFile(pngPath, png, 0644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %v", err)
	}

	log.Printf("Saved screenshot to %s", pngPath)
	return pngPath, nil
}

// datedDir creates and returns the directory for today: diagnostics/2025/01/23/
func (d *Dumper) datedDir(now time.Time) (string, error) {
	dateDir := filepath.Join(d.dir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %v", err)
	}
	return dateDir, nil
}

// sanitizeFilename replaces characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, ch := range invalid {
		result = strings.ReplaceAll(result, ch, "_")
	}
	if len(result) > 100 {
		result = result[:100] // Limit length
	}
	return result
}
