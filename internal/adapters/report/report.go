// Package report writes finished rankings to disk and reads them back.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/podium/internal/domain/types"
)

// Output file names, after the prefix.
const (
	FullFile    = "full_rankings.csv"
	SummaryFile = "rankings.csv"
	JSONFile    = "rankings.json"
)

// Column headers of the full rankings table.
const (
	colRank       = "Rank"
	colSchool     = "School"
	colName       = "Name"
	colAdjusted   = "Adjusted Rating"
	colDeviation  = "Deviation"
	colMatches    = "Matches"
	colRating     = "Rating"
	colVolatility = "Volatility"
	colHash       = "Hash"
)

//nolint:gochecknoglobals // fixed table layouts
var (
	fullHeader    = []string{colRank, colSchool, colName, colAdjusted, colDeviation, colMatches, colRating, colVolatility, colHash}
	summaryHeader = []string{colRank, colSchool, colName, colRating, colHash}
)

// Document is the JSON report.
type Document struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Rows        []types.RankingRow `json:"rows"`
}

// Paths lists the files a Write call produced.
type Paths struct {
	Full    string
	Summary string
	JSON    string // empty when disabled
}

// Writer writes ranking reports into one directory.
type Writer struct {
	dir    string
	prefix string
	json   bool
}

// NewWriter creates a Writer for dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir, json: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write produces the full table, the summary table and the JSON document.
// The summary lists the adjusted rating, rounded to two decimals, as Rating.
func (w *Writer) Write(doc Document) (Paths, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}
	p := Paths{
		Full:    filepath.Join(w.dir, w.prefix+FullFile),
		Summary: filepath.Join(w.dir, w.prefix+SummaryFile),
	}

	if err := writeFile(p.Full, func(f io.Writer) error { return writeFull(f, doc.Rows) }); err != nil {
		return Paths{}, err
	}
	if err := writeFile(p.Summary, func(f io.Writer) error { return writeSummary(f, doc.Rows) }); err != nil {
		return Paths{}, err
	}
	if w.json {
		p.JSON = filepath.Join(w.dir, w.prefix+JSONFile)
		if err := writeFile(p.JSON, func(f io.Writer) error {
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}); err != nil {
			return Paths{}, err
		}
	}
	return p, nil
}

// writeFile writes through a temp file so readers never see a partial report.
func writeFile(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeFull(out io.Writer, rows []types.RankingRow) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(fullHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Rank),
			r.Affiliation,
			r.DisplayName,
			formatFloat(r.AdjustedRating),
			formatFloat(r.Deviation),
			strconv.Itoa(r.MatchCount),
			formatFloat(r.Rating),
			formatFloat(r.Volatility),
			r.Identity,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSummary(out io.Writer, rows []types.RankingRow) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Rank),
			r.Affiliation,
			r.DisplayName,
			strconv.FormatFloat(math.Round(r.AdjustedRating*100)/100, 'f', 2, 64),
			r.Identity,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadFull parses a full rankings table written by Writer.
func ReadFull(path string) ([]types.RankingRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rankings: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedReport, path, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, h := range fullHeader {
		if _, ok := cols[h]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrMalformedReport, path, h)
		}
	}

	var rows []types.RankingRow
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedReport, path, err)
		}
		row, err := parseFull(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedReport, path, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFull(rec []string, cols map[string]int) (types.RankingRow, error) {
	var (
		row  types.RankingRow
		errs []error
	)
	atoi := func(col string) int {
		n, err := strconv.Atoi(rec[cols[col]])
		errs = append(errs, err)
		return n
	}
	atof := func(col string) float64 {
		v, err := strconv.ParseFloat(rec[cols[col]], 64)
		errs = append(errs, err)
		return v
	}
	row.Rank = atoi(colRank)
	row.Affiliation = rec[cols[colSchool]]
	row.DisplayName = rec[cols[colName]]
	row.AdjustedRating = atof(colAdjusted)
	row.Deviation = atof(colDeviation)
	row.MatchCount = atoi(colMatches)
	row.Rating = atof(colRating)
	row.Volatility = atof(colVolatility)
	row.Identity = rec[cols[colHash]]
	return row, errors.Join(errs...)
}

// FindByName returns the first row whose display name equals name.
func FindByName(rows []types.RankingRow, name string) (types.RankingRow, error) {
	for _, r := range rows {
		if r.DisplayName == name {
			return r, nil
		}
	}
	return types.RankingRow{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}
