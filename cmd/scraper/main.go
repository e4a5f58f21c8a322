package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/codebuildervaibhav/eightify-scraper/internal/backup"
	"github.com/codebuildervaibhav/eightify-scraper/internal/browser"
	"github.com/codebuildervaibhav/eightify-scraper/internal/cleanup"
	"github.com/codebuildervaibhav/eightify-scraper/internal/config"
	"github.com/codebuildervaibhav/eightify-scraper/internal/diag"
	"github.com/codebuildervaibhav/eightify-scraper/internal/runner"
	"github.com/codebuildervaibhav/eightify-scraper/internal/status"
	"github.com/codebuildervaibhav/eightify-scraper/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "eightify-scraper",
		Usage: "Batch-extract Eightify summaries for YouTube videos",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config/config.yaml",
				Usage: "path to the YAML config file",
			},
			&cli.StringFlag{
				Name:  "input",
				Usage: "input file with one YouTube URL per line (overrides config)",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "output JSON file for extracted sections (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "serve",
				Usage: "run the monitoring HTTP server during the scrape",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "monitoring server address as host:port (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "fresh",
				Usage: "kill any running Chrome and start from a fresh browser",
			},
			&cli.BoolFlag{
				Name:  "keep-open",
				Value: true,
				Usage: "keep the browser window open after the run",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Scraper failed: %v", err)
	}
}

func run(c *cli.Context) (err error) {
	// A panic here is not per-URL (those are recovered in the runner). Log
	// it and fail the process after the deferred teardowns have run.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("PANIC in run loop: %v\n%s", rec, string(debug.Stack()))
			err = fmt.Errorf("unrecoverable error: %v", rec)
		}
	}()

	// Load configuration
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}
	if c.IsSet("input") {
		cfg.Input.File = c.String("input")
	}
	if c.IsSet("output") {
		cfg.Output.File = c.String("output")
	}
	if c.IsSet("listen") {
		host, port, err := net.SplitHostPort(c.String("listen"))
		if err != nil {
			return fmt.Errorf("invalid listen address: %v", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid listen port: %v", err)
		}
		cfg.Server.Host = host
		cfg.Server.Port = p
	}
	if c.Bool("fresh") {
		cfg.Browser.CloseExisting = true
	}

	// Ensure working files and directories exist
	if err := config.EnsureInputFile(cfg.Input.File); err != nil {
		return err
	}
	if err := cleanup.EnsureDirExists(cfg.Diagnostics.Dir); err != nil {
		return fmt.Errorf("failed to create diagnostics directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{
		lines: make([]string, 0, 1000),
	}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	// Initialize components
	log.Println("Initializing components...")

	urls, err := config.LoadURLs(cfg.Input.File)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		log.Printf("No URLs found. Add YouTube URLs to %s, one per line, and rerun.", cfg.Input.File)
		return nil
	}

	// Existing results double as the resume ledger
	results := store.OpenResults(cfg.Output.File)

	// Run history database (optional)
	var history *store.HistoryDB
	if cfg.History.Database != "" {
		history, err = store.NewHistoryDB(cfg.History.Database)
		if err != nil {
			log.Printf("WARNING: Run history not available: %v", err)
			history = nil
		} else {
			defer history.Close()
		}
	}

	// Google Drive client (optional - may fail if credentials not set up)
	var driveClient *backup.DriveClient
	if _, err := os.Stat(cfg.GoogleDrive.CredentialsFile); err == nil {
		driveClient, err = backup.NewDriveClient(
			cfg.GoogleDrive.CredentialsFile,
			cfg.GoogleDrive.TokenFile,
			cfg.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
			log.Println("Results will only be saved locally")
			driveClient = nil
		} else {
			log.Println("Google Drive integration enabled")
		}
	} else {
		log.Println("Google Drive credentials not found - saving locally only")
	}

	// Cleanup scheduler for old diagnostic artifacts
	cleanupScheduler := cleanup.NewScheduler(
		cfg.Diagnostics.Dir,
		cfg.Diagnostics.CleanupIntervalMinutes,
		cfg.Diagnostics.MaxAgeHours,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	dumper := diag.NewDumper(cfg.Diagnostics.Dir)

	if version := browser.ChromeVersion(); version != "" {
		log.Printf("Detected Chrome version: %s", version)
	}

	sessions := browser.NewManager(cfg)
	defer sessions.Release()

	// Ctrl+C stops the batch after the in-flight URL
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Monitoring server (optional)
	var tracker *status.Tracker
	if c.Bool("serve") {
		tracker = status.NewTracker()
		server := status.NewServer(cfg, tracker, results, history, logBuffer)
		go func() {
			if err := server.Start(); err != nil {
				log.Printf("Monitoring server failed: %v", err)
			}
		}()
		defer server.Shutdown()
	}

	r := runner.NewRunner(cfg, sessions, results, history, tracker, dumper)
	stats := r.ProcessURLs(ctx, urls)

	// Back up the results file to Google Drive (with retry)
	if driveClient != nil {
		summary := map[string]interface{}{
			"run_id":      r.RunID(),
			"input_file":  cfg.Input.File,
			"total":       stats.Total,
			"processed":   stats.Processed,
			"succeeded":   stats.Succeeded,
			"failed":      stats.Failed,
			"skipped":     stats.Skipped,
			"finished_at": time.Now(),
		}

		var driveURL string
		var uploadErr error
		for attempt := 1; attempt <= 3; attempt++ {
			driveURL, uploadErr = driveClient.UploadResults(r.RunID(), cfg.Output.File, summary)
			if uploadErr == nil {
				log.Printf("Results backed up to Google Drive: %s", driveURL)
				break
			}
			log.Printf("Google Drive upload attempt %d/3 failed: %v", attempt, uploadErr)
			if attempt < 3 {
				time.Sleep(time.Duration(attempt*attempt) * time.Second) // Exponential backoff
			}
		}
		if uploadErr != nil {
			log.Println("WARNING: Google Drive upload failed after 3 attempts, results remain local only")
		}
	}

	if c.Bool("keep-open") && ctx.Err() == nil {
		r.KeepBrowserOpen(ctx)
	}

	return nil
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Append new line
	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Return copy of slice
	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}
