package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeader indicates the input has no header row.
var ErrNoHeader = errors.New("no header row")

// ErrUnsupported indicates a file extension with no reader.
var ErrUnsupported = errors.New("unsupported table format")

// ReadOptions controls ingestion.
type ReadOptions struct {
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, sniffs among ',', ';', '\t'.
	Delimiter rune
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultReadOptions returns reasonable ingestion defaults.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{MaxRows: 100000, SheetIndex: 1}
}

// Read picks a reader by file extension.
func Read(path string, opt ReadOptions) (*Table, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return ReadXLSX(path, opt)
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".txt"):
		return ReadCSV(path, opt)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// ReadCSV loads a delimited file. Blank cells become nil.
func ReadCSV(path string, opt ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	kind := "csv"
	if delim == '\t' {
		kind = "tsv"
	}
	t, err := DecodeCSV(f, delim, opt.MaxRows)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	t.Kind = kind
	return t, nil
}

// DecodeCSV reads delimited text from r. It is the shared core of ReadCSV.
func DecodeCSV(r io.Reader, delim rune, maxRows int) (*Table, error) {
	if delim == 0 {
		delim = ','
	}
	t, err := decodeDelimited(r, delim, maxRows)
	if err != nil {
		return nil, err
	}
	t.Kind = "csv"
	return t, nil
}

func decodeDelimited(in io.Reader, delim rune, maxRows int) (*Table, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := headerNames(header)
	if len(cols) == 0 {
		return nil, ErrNoHeader
	}
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	t := &Table{Columns: cols}
	line := 1
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++
		if len(t.Rows) >= maxRows {
			continue
		}
		t.Rows = append(t.Rows, recordToRow(cols, rec))
	}
	return t, nil
}

// ReadXLSX loads one sheet of a workbook. The first non-empty row is the header.
func ReadXLSX(path string, opt ReadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook '%s' has no sheets", filepath.Base(path))
	}
	sheet := ""
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				opt.SheetName, filepath.Base(path), strings.Join(sheets, ", "))
		}
	} else {
		idx := opt.SheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
		}
		sheet = sheets[idx-1]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	start := 0
	for start < len(rows) && isBlankRecord(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, ErrNoHeader
	}
	cols := headerNames(rows[start])
	if len(cols) == 0 {
		return nil, ErrNoHeader
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	t := &Table{Name: filepath.Base(path), Kind: "xlsx", Columns: cols}
	for _, rec := range rows[start+1:] {
		if len(t.Rows) >= maxRows {
			break
		}
		if isBlankRecord(rec) {
			continue
		}
		t.Rows = append(t.Rows, recordToRow(cols, rec))
	}
	return t, nil
}

// headerNames trims header cells, names blanks by position and de-duplicates.
func headerNames(header []string) []string {
	seen := map[string]int{}
	cols := make([]string, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		cols = append(cols, name)
	}
	return cols
}

func recordToRow(cols []string, rec []string) Row {
	row := make(Row, len(cols))
	for i, c := range cols {
		if i >= len(rec) {
			row[c] = nil
			continue
		}
		v := strings.TrimSpace(rec[i])
		if v == "" {
			row[c] = nil
			continue
		}
		row[c] = v
	}
	return row
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sniffDelimiter uses the extension first, then counts separators on the first line.
func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	f, err := os.Open(path)
	if err != nil {
		return ','
	}
	defer f.Close()
	line, _ := bufio.NewReader(f).ReadString('\n')
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
