// Package report records the outcome of every evaluated example and keeps
// the last run on disk.
package report

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/jorge-barreto/doccmd/internal/atomicfile"
)

const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Entry is one evaluated example.
type Entry struct {
	Path     string    `json:"path"`
	Line     int       `json:"line"`
	Column   int       `json:"column"`
	Status   string    `json:"status"`
	Error    string    `json:"error,omitempty"`
	ExitCode int       `json:"exit_code,omitempty"`
	Start    time.Time `json:"start"`
	Duration string    `json:"duration"`
}

// Report collects entries from concurrent document workers.
type Report struct {
	mu       sync.Mutex
	Command  []string  `json:"command"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished,omitempty"`
	Entries  []Entry   `json:"entries"`
	// Updated lists documents whose code blocks were rewritten.
	Updated []string `json:"updated,omitempty"`
}

// New starts a report for a run of command.
func New(command []string) *Report {
	return &Report{Command: command, Started: time.Now()}
}

// Add records an entry whose example started at start.
func (r *Report) Add(e Entry, start time.Time) {
	e.Start = start
	e.Duration = formatDuration(time.Since(start))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, e)
}

// AddUpdated records that path was rewritten.
func (r *Report) AddUpdated(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.Updated, path) {
		r.Updated = append(r.Updated, path)
	}
}

// Counts returns how many entries passed, failed and were skipped.
func (r *Report) Counts() (passed, failed, skipped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Entries {
		switch e.Status {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return passed, failed, skipped
}

// Sorted returns the entries ordered by path and position.
func (r *Report) Sorted() []Entry {
	r.mu.Lock()
	entries := slices.Clone(r.Entries)
	r.mu.Unlock()
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Line, b.Line), cmp.Compare(a.Column, b.Column))
	})
	return entries
}

// Finish stamps the end of the run.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Finished = time.Now()
}

// Save writes the report to path as JSON.
func (r *Report) Save(path string) error {
	r.mu.Lock()
	data, err := json.MarshalIndent(r, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

// Load reads a report saved by Save.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}
