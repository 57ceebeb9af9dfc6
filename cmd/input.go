package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/glance-cli/internal/table"
)

// inputFlags are the ingestion flags shared by every command that reads a file.
type inputFlags struct {
	delimiter  string
	maxRows    int
	sampleRows int
	sheetName  string
	sheetIndex int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed if omitted)")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum rows to read (0 = config max_rows)")
	cmd.Flags().IntVar(&f.sampleRows, "sample-rows", 0, "profile only the first N rows read (0 = all)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (f *inputFlags) reset() {
	*f = inputFlags{sheetIndex: 1}
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

// readTable applies flags over config and loads path.
func (f *inputFlags) readTable(path string) (table.Table, error) {
	c := currentConfig()
	opt := table.DefaultReadOptions()
	opt.MaxRows = c.MaxRows
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	delim := f.delimiter
	if delim == "" {
		delim = c.Delimiter
	}
	d, err := parseDelimiter(strings.TrimSpace(delim))
	if err != nil {
		return table.Table{}, err
	}
	opt.Delimiter = d
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}

	t, err := table.Read(path, opt)
	if err != nil {
		return table.Table{}, err
	}
	sample := c.SampleRows
	if f.sampleRows > 0 {
		sample = f.sampleRows
	}
	if sample > 0 && sample < len(t.Rows) {
		logger.Infof("profiling first %d of %d rows", sample, len(t.Rows))
	}
	logger.Debugf("read %s: %d rows, %d columns", t.Name, len(t.Rows), len(t.Columns))
	return t.Head(sample), nil
}
