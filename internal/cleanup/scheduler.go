package cleanup

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Scheduler handles retention of diagnostic artifacts
type Scheduler struct {
	diagDir         string
	intervalMinutes int
	maxAgeHours     int
	stopChan        chan struct{}
}

// NewScheduler creates a new cleanup scheduler
func NewScheduler(diagDir string, intervalMinutes, maxAgeHours int) *Scheduler {
	return &Scheduler{
		diagDir:         diagDir,
		intervalMinutes: intervalMinutes,
		maxAgeHours:     maxAgeHours,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the cleanup scheduler
func (s *Scheduler) Start() {
	// Run initial cleanup on startup
	log.Println("Running initial diagnostics cleanup...")
	s.cleanOldFiles()

	// Start periodic cleanup
	ticker := time.NewTicker(time.Duration(s.intervalMinutes) * time.Minute)

	go func() {
		for {
			select {
			case <-ticker.C:
				s.cleanOldFiles()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Cleanup scheduler started (interval: %dm, max age: %dh)",
		s.intervalMinutes, s.maxAgeHours)
}

// Stop stops the cleanup scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	log.Println("Cleanup scheduler stopped")
}

// cleanOldFiles removes artifacts older than maxAgeHours from the
// diagnostics directory, then prunes dated directories left empty
func (s *Scheduler) cleanOldFiles() {
	now := time.Now()
	maxAge := time.Duration(s.maxAgeHours) * time.Hour

	var deletedCount int
	var deletedSize int64

	err := filepath.Walk(s.diagDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		// Check file age
		age := now.Sub(info.ModTime())
		if age > maxAge {
			size := info.Size()
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to delete old artifact %s: %v", path, err)
			} else {
				deletedCount++
				deletedSize += size
				log.Printf("Deleted old diagnostic artifact: %s (age: %s, size: %dKB)",
					filepath.Base(path), age.Round(time.Hour), size/1024)
			}
		}

		return nil
	})

	if err != nil {
		log.Printf("Error during cleanup: %v", err)
	}

	if deletedCount > 0 {
		log.Printf("Cleanup complete: %d artifacts deleted, %.2fMB freed",
			deletedCount, float64(deletedSize)/(1024*1024))
		s.removeEmptyDatedDirs()
	}
}

// removeEmptyDatedDirs prunes date directories whose artifacts have all
// aged out. The diagnostics root itself is kept.
func (s *Scheduler) removeEmptyDatedDirs() {
	var dirs []string
	filepath.Walk(s.diagDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() && path != s.diagDir {
			dirs = append(dirs, path)
		}
		return nil
	})

	// Deepest first, so day directories empty out before month and year
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err == nil {
			log.Printf("Removed empty diagnostics directory: %s", dir)
		}
	}
}

// EnsureDirExists creates the diagnostics directory if it doesn't exist
func EnsureDirExists(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	log.Printf("Diagnostics directory ready: %s", dir)
	return nil
}
