package config

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

// EnsureInputFile creates a placeholder URL file when none exists so a
// first run leaves the user something to fill in.
func EnsureInputFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte("# Enter one YouTube URL per line\n"), 0644); err != nil {
		return fmt.Errorf("failed to create input file: %v", err)
	}
	log.Printf("Created empty input file: %s", path)
	return nil
}

// LoadURLs reads the newline-delimited URL list. Blank lines and lines
// starting with # are skipped.
func LoadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %v", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %v", err)
	}

	log.Printf("Found %d URLs to process in %s", len(urls), path)
	return urls, nil
}
