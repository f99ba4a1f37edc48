package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/topherjaynes/Screenshot-Holmes/internal/classify"
	"github.com/topherjaynes/Screenshot-Holmes/internal/vision"
)

func lexicographic(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool { return cands[i].Path < cands[j].Path })
}

func TestSnapshotFiltersCandidates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "Screenshot one.png")
	writePNG(t, dir, "screen_shot_two.png")
	writePNG(t, dir, "holiday.png")
	writePNG(t, dir, "screenshot.jpg.txt")
	if err := os.Mkdir(filepath.Join(dir, "Screenshot dir.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cands, err := Snapshot(dir, classify.New(nil))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	names := make([]string, 0, len(cands))
	for _, c := range cands {
		names = append(names, c.Filename)
		if c.SizeBytes <= 0 {
			t.Errorf("candidate %s has no size", c.Filename)
		}
	}
	sort.Strings(names)
	want := []string{"Screenshot one.png", "screen_shot_two.png"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Fatalf("candidates = %v, want %v", names, want)
	}
}

func TestRunFailureIsolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Three healthy screenshots and two that will fail extraction.
	for _, name := range []string{"screenshot_a.png", "screenshot_b.png", "screenshot_c.png"} {
		writePNG(t, dir, name)
	}
	var failPaths []string
	for _, name := range []string{"screenshot_x.png", "screenshot_y.png"} {
		failPaths = append(failPaths, writePNG(t, dir, name))
	}
	failBytes := map[string][]byte{}
	for _, p := range failPaths {
		b, _ := os.ReadFile(p)
		failBytes[p] = b
	}

	ext := &pathAwareExtractor{failSuffix: []string{"screenshot_x.png", "screenshot_y.png"}}
	namer := &sequenceNamer{prefix: "described"}
	runner := &Runner{Extractor: ext, Namer: namer, Workers: 3, Order: lexicographic}

	summary, results, err := runner.Run(context.Background(), dir, classify.New(nil), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Total != 5 || summary.Succeeded != 3 || summary.Failed != 2 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	failedResults := 0
	for _, res := range results {
		if res.Status == StatusFailed {
			failedResults++
			if res.Stage != StageContentExtraction {
				t.Errorf("failed stage = %s, want content_extraction", res.Stage)
			}
		}
	}
	if failedResults != 2 {
		t.Errorf("failed results = %d, want 2", failedResults)
	}

	// The failing files stay at their original paths, byte for byte.
	for _, p := range failPaths {
		after, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("failed candidate moved: %v", err)
		}
		if !bytes.Equal(after, failBytes[p]) {
			t.Errorf("failed candidate %s modified", p)
		}
	}
}

func TestRunConcurrentRenamesNeverCollide(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	const n = 8
	for i := 0; i < n; i++ {
		writePNG(t, dir, "Screenshot "+string(rune('a'+i))+".png")
	}

	// Every candidate gets the same name proposal; the collision policy has
	// to fan them out to dashboard.png, dashboard_1.png, ...
	ext := &pathAwareExtractor{}
	runner := &Runner{
		Extractor: ext,
		Namer:     &sequenceNamer{fixed: "dashboard"},
		Workers:   4,
		Order:     lexicographic,
	}

	summary, results, err := runner.Run(context.Background(), dir, classify.New(nil), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Succeeded != n {
		t.Fatalf("succeeded = %d, want %d (summary %+v)", summary.Succeeded, n, summary)
	}

	seen := map[string]bool{}
	for _, res := range results {
		if seen[res.NewPath] {
			t.Fatalf("two transactions landed on %s", res.NewPath)
		}
		seen[res.NewPath] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != n {
		t.Fatalf("folder has %d files, want %d", len(entries), n)
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "dashboard") {
			t.Errorf("unexpected leftover file %s", entry.Name())
		}
	}
}

func TestRunProgressUpdates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "screenshot_1.png")
	writePNG(t, dir, "screenshot_2.png")

	ext := &pathAwareExtractor{}
	runner := &Runner{Extractor: ext, Namer: &sequenceNamer{prefix: "named"}, Order: lexicographic}

	updates := make(chan ProgressUpdate, 16)
	var total, succeeded int
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for u := range updates {
			total += u.TotalDelta
			succeeded += u.SucceededDelta
		}
	}()

	if _, _, err := runner.Run(context.Background(), dir, classify.New(nil), updates); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(updates)
	<-drained

	if total != 2 || succeeded != 2 {
		t.Errorf("progress totals = %d/%d, want 2/2", succeeded, total)
	}
}

func TestRunOnResultStreamsEveryOutcome(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "screenshot_ok.png")
	writePNG(t, dir, "screenshot_x.png")

	ext := &pathAwareExtractor{failSuffix: []string{"screenshot_x.png"}}
	var mu sync.Mutex
	var observed []Result
	runner := &Runner{
		Extractor: ext,
		Namer:     &sequenceNamer{prefix: "ok"},
		Order:     lexicographic,
		OnResult: func(res Result) {
			mu.Lock()
			observed = append(observed, res)
			mu.Unlock()
		},
	}

	if _, _, err := runner.Run(context.Background(), dir, classify.New(nil), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(observed) != 2 {
		t.Fatalf("OnResult saw %d results, want 2", len(observed))
	}
}

func TestRunCanceledContextStopsDispatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writePNG(t, dir, "screenshot_"+string(rune('a'+i))+".png")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ext := &pathAwareExtractor{}
	runner := &Runner{Extractor: ext, Namer: &sequenceNamer{prefix: "n"}, Order: lexicographic}
	summary, _, err := runner.Run(ctx, dir, classify.New(nil), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 0 {
		t.Errorf("canceled run still processed %d candidates", summary.Total)
	}
}

func TestRunUnreadableFolderFailsFast(t *testing.T) {
	t.Parallel()

	runner := &Runner{Extractor: &pathAwareExtractor{}, Namer: &sequenceNamer{prefix: "n"}}
	_, _, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), classify.New(nil), nil)
	if err == nil {
		t.Fatal("expected an error for an unreadable folder")
	}
}

// pathAwareExtractor fails for files whose names appear in failSuffix. The
// adapter only sees raw bytes; writePNG bakes the file name into the PNG
// trailer so failures can be targeted per file.
type pathAwareExtractor struct {
	mu         sync.Mutex
	calls      int
	failSuffix []string
}

func (e *pathAwareExtractor) ExtractContent(_ context.Context, imageBytes []byte, _ bool) (vision.Extraction, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	for _, suffix := range e.failSuffix {
		if bytes.Contains(imageBytes, []byte(suffix)) {
			return vision.Extraction{}, &vision.Error{Op: "extract_content", Kind: vision.KindNetwork, Err: errors.New("injected failure")}
		}
	}
	return vision.Extraction{Description: "a screenshot of something useful", PromptTokens: 10, TotalTokens: 12}, nil
}

// sequenceNamer returns fixed when set, otherwise prefix_<n> per call.
type sequenceNamer struct {
	mu     sync.Mutex
	calls  int
	fixed  string
	prefix string
}

func (n *sequenceNamer) GenerateName(_ context.Context, _ string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.fixed != "" {
		return n.fixed, nil
	}
	return n.prefix + "_" + string(rune('a'+n.calls-1)), nil
}
