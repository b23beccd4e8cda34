package replay

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Abhiram-Bhat/aifit/internal/models"
	"github.com/Abhiram-Bhat/aifit/internal/pose"
	"github.com/Abhiram-Bhat/aifit/internal/storage"
)

// Stats tracks replay progress.
type Stats struct {
	FilesTotal    int
	FilesReplayed int
	FilesSkipped  int
	FilesErrored  int

	FramesSent    int
	FramesDropped int
	RepsCounted   int
}

// sessionSink receives one recording's detection session. The HTTP Client
// and the local dry-run tracker both satisfy it.
type sessionSink interface {
	Start(exercise string, opts pose.StartOptions) error
	Observe(frame []byte) (*pose.Analysis, bool, error)
	Save() (*models.SessionSummary, error)
}

// Replayer walks a directory of recorded keypoint frames (.jsonl, one frame
// per line) and replays each file as a detection session. The exercise name
// is the filename up to the first underscore, e.g. push-ups_2026-01-03.jsonl.
type Replayer struct {
	sink  sessionSink
	state *StateDB
	dir   string
	log   *slog.Logger
	stats Stats
}

// New creates a Replayer sending sessions to the given server.
func New(client *Client, state *StateDB, dir string, log *slog.Logger) *Replayer {
	return &Replayer{sink: client, state: state, dir: dir, log: log}
}

// NewDryRun creates a Replayer that analyzes recordings locally against an
// in-memory history, without a server or a state database.
func NewDryRun(dir string, defaultThreshold float64, log *slog.Logger) *Replayer {
	tracker := pose.NewTracker(pose.NewRegistry(), storage.NewMemory(), defaultThreshold, log)
	return &Replayer{sink: &localSink{tracker: tracker}, dir: dir, log: log}
}

// Run replays every unprocessed recording, oldest filename first.
func (r *Replayer) Run() (*Stats, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return &r.stats, fmt.Errorf("reading %s: %w", r.dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	r.stats.FilesTotal = len(files)

	for _, name := range files {
		path := filepath.Join(r.dir, name)

		skip, size, hash, err := r.alreadyReplayed(name, path)
		if err != nil {
			return &r.stats, err
		}
		if skip {
			r.stats.FilesSkipped++
			r.log.Info("skipping recording", "file", name, "reason", "already replayed")
			continue
		}

		summary, err := r.replayFile(name, path)
		if err != nil {
			r.stats.FilesErrored++
			r.log.Error("replay failed", "file", name, "error", err)
			continue
		}

		r.stats.FilesReplayed++
		r.stats.RepsCounted += summary.Reps
		r.log.Info("recording replayed",
			"file", name,
			"exercise", summary.Exercise,
			"reps", summary.Reps,
			"duration_sec", summary.DurationSec,
		)

		if r.state != nil {
			if err := r.state.MarkReplayed(name, size, hash); err != nil {
				r.log.Warn("failed to mark recording replayed", "file", name, "error", err)
			}
		}
	}

	return &r.stats, nil
}

func (r *Replayer) alreadyReplayed(name, path string) (skip bool, size int64, hash string, err error) {
	if r.state == nil {
		return false, 0, "", nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, 0, "", fmt.Errorf("stat %s: %w", path, err)
	}
	hash, err = HashFile(path)
	if err != nil {
		return false, 0, "", fmt.Errorf("hashing %s: %w", path, err)
	}

	skip, err = r.state.IsReplayed(name, info.Size(), hash)
	if err != nil {
		return false, 0, "", fmt.Errorf("checking state for %s: %w", path, err)
	}
	return skip, info.Size(), hash, nil
}

func (r *Replayer) replayFile(name, path string) (*models.SessionSummary, error) {
	exercise := exerciseFromFilename(name)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	if err := r.sink.Start(exercise, pose.StartOptions{}); err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		_, dropped, err := r.sink.Observe([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("observing frame: %w", err)
		}
		if dropped {
			r.stats.FramesDropped++
			continue
		}
		r.stats.FramesSent++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}

	summary, err := r.sink.Save()
	if err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return summary, nil
}

// exerciseFromFilename strips the extension and anything after the first
// underscore: "push-ups_2026-01-03.jsonl" → "push-ups".
func exerciseFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return base
}

// localSink runs sessions through an in-process tracker for dry runs.
type localSink struct {
	tracker *pose.Tracker
}

func (l *localSink) Start(exercise string, opts pose.StartOptions) error {
	l.tracker.Start(exercise, opts)
	return nil
}

func (l *localSink) Observe(frame []byte) (*pose.Analysis, bool, error) {
	snap, err := models.ParseFrame(frame)
	if err != nil {
		return nil, true, nil
	}
	analysis := l.tracker.Observe(snap)
	if analysis == nil {
		return nil, false, fmt.Errorf("no active session")
	}
	return analysis, false, nil
}

func (l *localSink) Save() (*models.SessionSummary, error) {
	summary, err := l.tracker.Save(context.Background())
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
