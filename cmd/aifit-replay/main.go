package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abhiram-Bhat/aifit/internal/pose"
	"github.com/Abhiram-Bhat/aifit/internal/replay"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "AI-FIT server URL (e.g. https://aifit.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "API key for the detection endpoints")
	recordingsPath := flag.String("path", "", "directory of recorded frame files (.jsonl, one PoseNet frame per line)")
	dryRun := flag.Bool("dry-run", false, "analyze recordings locally without a server")
	threshold := flag.Float64("confidence-threshold", pose.DefaultConfidenceThreshold, "landmark confidence gate for dry-run analysis")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("aifit-replay", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *recordingsPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: aifit-replay -server <URL> -api-key <key> -path <recordings dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *serverURL == "" && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	info, err := os.Stat(*recordingsPath)
	if err != nil || !info.IsDir() {
		log.Error("recordings directory not found", "path", *recordingsPath)
		os.Exit(1)
	}

	var rep *replay.Replayer
	if *dryRun {
		log.Info("DRY RUN mode: analyzing locally, nothing sent or recorded")
		rep = replay.NewDryRun(*recordingsPath, *threshold, log)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}

		state, err := replay.OpenStateDB(filepath.Join(homeDir, ".aifit-replay"))
		if err != nil {
			log.Error("failed to open state database", "error", err)
			os.Exit(1)
		}
		defer state.Close()

		client := replay.NewClient(*serverURL, *apiKey)
		rep = replay.New(client, state, *recordingsPath, log)
	}

	stats, err := rep.Run()
	printStats(log, stats)
	if err != nil {
		log.Error("replay failed", "error", err)
		os.Exit(1)
	}
	log.Info("replay complete")
}

func printStats(log *slog.Logger, stats *replay.Stats) {
	log.Info("replay summary",
		"files_total", stats.FilesTotal,
		"files_replayed", stats.FilesReplayed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"frames_sent", stats.FramesSent,
		"frames_dropped", stats.FramesDropped,
		"reps_counted", stats.RepsCounted,
	)
}
