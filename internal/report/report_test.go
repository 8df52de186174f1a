package report

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestAdd_Concurrent(t *testing.T) {
	r := New([]string{"ruff", "check"})
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status := StatusPassed
			if i%2 == 0 {
				status = StatusFailed
			}
			r.Add(Entry{Path: "doc.md", Line: i + 1, Status: status}, time.Now())
		}()
	}
	wg.Wait()

	passed, failed, skipped := r.Counts()
	if passed != 10 || failed != 10 || skipped != 0 {
		t.Fatalf("counts = %d/%d/%d, want 10/10/0", passed, failed, skipped)
	}
}

func TestSorted(t *testing.T) {
	r := New(nil)
	now := time.Now()
	r.Add(Entry{Path: "b.md", Line: 1}, now)
	r.Add(Entry{Path: "a.md", Line: 9}, now)
	r.Add(Entry{Path: "a.md", Line: 2}, now)

	got := r.Sorted()
	want := []string{"a.md:2", "a.md:9", "b.md:1"}
	for i, e := range got {
		if s := fmt.Sprintf("%s:%d", e.Path, e.Line); s != want[i] {
			t.Fatalf("entry %d = %s, want %s", i, s, want[i])
		}
	}
}

func TestAddUpdated_Dedupes(t *testing.T) {
	r := New(nil)
	r.AddUpdated("doc.md")
	r.AddUpdated("doc.md")
	r.AddUpdated("other.md")
	if len(r.Updated) != 2 {
		t.Fatalf("Updated = %v", r.Updated)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := New([]string{"mypy"})
	r.Add(Entry{Path: "doc.md", Line: 3, Column: 1, Status: StatusFailed, Error: "boom", ExitCode: 1}, time.Now())
	r.AddUpdated("doc.md")
	r.Finish()
	if err := r.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(loaded.Entries))
	}
	e := loaded.Entries[0]
	if e.Error != "boom" || e.ExitCode != 1 || e.Duration == "" {
		t.Fatalf("entry = %+v", e)
	}
	if loaded.Command[0] != "mypy" || loaded.Updated[0] != "doc.md" || loaded.Finished.IsZero() {
		t.Fatalf("report = %+v", loaded)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("got %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		250 * time.Millisecond: "250ms",
		65 * time.Second:       "1m 05s",
	}
	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Fatalf("formatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}
