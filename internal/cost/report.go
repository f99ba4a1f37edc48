package cost

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/topherjaynes/Screenshot-Holmes/internal/classify"
	"github.com/topherjaynes/Screenshot-Holmes/pkg/imgutil"
)

// FileEstimate is one row of the cost report: the per-file geometry plus the
// original and halved submission estimates. Rows are independent; batch
// totals are plain sums.
type FileEstimate struct {
	Path       string
	Width      int
	Height     int
	SizeBytes  int64
	Comparison Comparison
	Err        error
}

// Totals aggregates the successful rows of a report.
type Totals struct {
	Files           int
	OriginalCostUSD float64
	HalvedCostUSD   float64
	SavingsUSD      float64
	OriginalTokens  int
	HalvedTokens    int
	UnreadableFiles int
}

// ScanFolder builds a cost report row for every screenshot-named PNG in
// folder. The listing is read once; files are only opened for header probing,
// never modified, and nothing touches the network. Rows come back in
// lexicographic path order so reports are stable.
func ScanFolder(folder string, cls *classify.Classifier) ([]FileEstimate, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var rows []FileEstimate
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		if !cls.IsScreenshot(entry.Name()) {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		row := FileEstimate{Path: path}

		dims, err := imgutil.Probe(path)
		if err != nil {
			row.Err = err
			rows = append(rows, row)
			continue
		}
		row.Width = dims.Width
		row.Height = dims.Height
		row.SizeBytes = dims.SizeBytes

		cmp, err := Compare(dims.Width, dims.Height)
		if err != nil {
			row.Err = err
			rows = append(rows, row)
			continue
		}
		row.Comparison = cmp
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	return rows, nil
}

// Sum folds the successful rows into batch totals.
func Sum(rows []FileEstimate) Totals {
	var t Totals
	for _, row := range rows {
		if row.Err != nil {
			t.UnreadableFiles++
			continue
		}
		t.Files++
		t.OriginalCostUSD += row.Comparison.Original.CostUSD
		t.HalvedCostUSD += row.Comparison.Halved.CostUSD
		t.SavingsUSD += row.Comparison.SavingsUSD
		t.OriginalTokens += row.Comparison.Original.Tokens
		t.HalvedTokens += row.Comparison.Halved.Tokens
	}
	return t
}

var reportHeader = []string{
	"file_path", "width_px", "height_px", "size_kb",
	"original_tiles", "original_tokens", "original_cost_usd",
	"halved_width_px", "halved_height_px", "halved_tiles", "halved_tokens",
	"halved_cost_usd", "savings_usd",
}

// WriteReport writes the cost report as CSV, one row per scanned candidate.
// Rows that failed to probe keep their path with every metric column empty,
// so the report still accounts for each candidate.
func WriteReport(path string, rows []FileEstimate) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(reportHeader); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writer.Write(reportRecord(row)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func reportRecord(row FileEstimate) []string {
	if row.Err != nil {
		record := make([]string, len(reportHeader))
		record[0] = row.Path
		return record
	}
	c := row.Comparison
	return []string{
		row.Path,
		strconv.Itoa(row.Width),
		strconv.Itoa(row.Height),
		fmt.Sprintf("%.1f", float64(row.SizeBytes)/1024),
		strconv.Itoa(c.Original.Tiles),
		strconv.Itoa(c.Original.Tokens),
		formatUSD(c.Original.CostUSD),
		strconv.Itoa(c.HalvedWidth),
		strconv.Itoa(c.HalvedHeight),
		strconv.Itoa(c.Halved.Tiles),
		strconv.Itoa(c.Halved.Tokens),
		formatUSD(c.Halved.CostUSD),
		formatUSD(c.SavingsUSD),
	}
}

func formatUSD(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
