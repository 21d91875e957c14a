package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/podium/internal/domain/model"
)

const (
	defaultEntriesFile = "entries.csv"
	tableExt           = ".csv"
	utf8BOM            = "\ufeff"
)

// Column headers, matched case-insensitively after trimming.
const (
	colInstitution = "institution"
	colEntry       = "entry"
	colCode        = "code"
	colAff         = "aff"
	colNeg         = "neg"
	colWin         = "win"
)

// CSVStore reads tournaments laid out as <root>/<tournament>/*.csv.
// It holds no state beyond its configuration and is safe for concurrent use.
type CSVStore struct {
	root        string
	entriesFile string
	comma       rune
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore creates a store rooted at root.
func NewCSVStore(root string, opts ...Option) *CSVStore {
	s := &CSVStore{
		root:        root,
		entriesFile: defaultEntriesFile,
		comma:       ',',
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the directory holding the tournament directories.
func (s *CSVStore) Root() string { return s.root }

// LoadEntries implements Store.
func (s *CSVStore) LoadEntries(ctx context.Context, tournament string) ([]model.Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.root, tournament, s.entriesFile)
	t, err := s.readTable(path, colInstitution, colEntry, colCode)
	if err != nil {
		return nil, err
	}
	regs := make([]model.Registration, 0, len(t.rows))
	for _, row := range t.rows {
		regs = append(regs, model.Registration{
			Affiliation: t.get(row, colInstitution),
			Name:        t.get(row, colEntry),
			Code:        t.get(row, colCode),
		})
	}
	return regs, nil
}

// ListRounds implements Store. Rounds are sorted by file name, which fixes
// the period order within a tournament.
func (s *CSVStore) ListRounds(ctx context.Context, tournament string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, tournament)
	des, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	stem := strings.TrimSuffix(s.entriesFile, filepath.Ext(s.entriesFile))
	rounds := make([]string, 0, len(des))
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.EqualFold(filepath.Ext(name), tableExt) || strings.HasPrefix(name, stem) {
			continue
		}
		rounds = append(rounds, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	sort.Strings(rounds)
	return rounds, nil
}

// LoadRound implements Store.
func (s *CSVStore) LoadRound(ctx context.Context, tournament, round string) ([]model.RoundRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.root, tournament, round+tableExt)
	t, err := s.readTable(path, colAff, colNeg, colWin)
	if err != nil {
		return nil, err
	}
	rows := make([]model.RoundRow, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, model.RoundRow{
			First:   t.get(row, colAff),
			Second:  t.get(row, colNeg),
			Outcome: t.get(row, colWin),
		})
	}
	return rows, nil
}

// LoadTournament implements Store.
func (s *CSVStore) LoadTournament(ctx context.Context, tournament string) (Tournament, error) {
	entries, err := s.LoadEntries(ctx, tournament)
	if err != nil {
		return Tournament{}, err
	}
	names, err := s.ListRounds(ctx, tournament)
	if err != nil {
		return Tournament{}, err
	}
	t := Tournament{Name: tournament, Entries: entries, Rounds: make([]Round, 0, len(names))}
	for _, name := range names {
		rows, err := s.LoadRound(ctx, tournament, name)
		if err != nil {
			return Tournament{}, err
		}
		t.Rounds = append(t.Rounds, Round{Name: name, Rows: rows})
	}
	return t, nil
}

// table is a parsed CSV file with its header index.
type table struct {
	cols map[string]int
	rows [][]string
}

// get returns the trimmed cell of column col, or "" when the row is short.
func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (s *CSVStore) readTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = s.comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: empty file", ErrMalformedTable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedTable, path, err)
	}

	t := &table{cols: make(map[string]int, len(header))}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := t.cols[key]; !dup {
			t.cols[key] = i
		}
	}
	for _, col := range required {
		if _, ok := t.cols[col]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrMalformedTable, path, col)
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedTable, path, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}
