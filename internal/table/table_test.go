package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestDecodeCSVHeaderAndBlanks(t *testing.T) {
	in := "\ufeffname,,name,amount\nalice, ,x,10\nbob,y\n"
	tbl, err := DecodeCSV(strings.NewReader(in), ',', 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"name", "column_2", "name_2", "amount"}
	if strings.Join(tbl.Columns, "|") != strings.Join(want, "|") {
		t.Fatalf("columns = %v, want %v", tbl.Columns, want)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0]["column_2"] != nil {
		t.Fatalf("blank cell should be nil, got %#v", tbl.Rows[0]["column_2"])
	}
	if tbl.Rows[1]["amount"] != nil {
		t.Fatalf("short record should pad with nil, got %#v", tbl.Rows[1]["amount"])
	}
	if tbl.Rows[0]["amount"] != "10" {
		t.Fatalf("amount = %#v", tbl.Rows[0]["amount"])
	}
}

func TestDecodeCSVMaxRowsAndEmpty(t *testing.T) {
	tbl, err := DecodeCSV(strings.NewReader("a\n1\n2\n3\n"), ',', 2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if _, err := DecodeCSV(strings.NewReader(""), ',', 0); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestReadCSVSniffsDelimiter(t *testing.T) {
	dir := t.TempDir()
	semi := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(semi, []byte("city;temp\nOslo;4,5\nRome;18,0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Read(semi, DefaultReadOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Rows[0]["temp"] != "4,5" {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if tbl.Kind != "csv" || tbl.Name != "data.csv" {
		t.Fatalf("kind/name = %s/%s", tbl.Kind, tbl.Name)
	}

	tsv := filepath.Join(dir, "data.tsv")
	if err := os.WriteFile(tsv, []byte("a\tb\n1\t2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err = Read(tsv, DefaultReadOptions())
	if err != nil {
		t.Fatalf("read tsv: %v", err)
	}
	if tbl.Kind != "tsv" || tbl.Rows[0]["b"] != "2" {
		t.Fatalf("unexpected tsv table: %+v", tbl)
	}
}

func TestReadCSVMatchesDecodeCSV(t *testing.T) {
	const in = "name,qty\nA,1\nB,\nC,3\n"
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte(in), 0o644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := ReadCSV(path, ReadOptions{MaxRows: 2, Delimiter: ','})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	decoded, err := DecodeCSV(strings.NewReader(in), ',', 2)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fromFile.Rows) != 2 || len(decoded.Rows) != 2 {
		t.Fatalf("rows = %d/%d, want 2", len(fromFile.Rows), len(decoded.Rows))
	}
	if fromFile.Rows[1]["qty"] != nil || decoded.Rows[1]["qty"] != nil {
		t.Fatalf("blank cell should be nil: %+v / %+v", fromFile.Rows[1], decoded.Rows[1])
	}
	if fromFile.Name != "items.csv" || decoded.Name != "" {
		t.Fatalf("names = %q/%q", fromFile.Name, decoded.Name)
	}
}

func TestReadUnsupported(t *testing.T) {
	if _, err := Read("notes.pdf", DefaultReadOptions()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestReadXLSXSheetSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	if _, err := f.NewSheet("Sales"); err != nil {
		t.Fatal(err)
	}
	// leading blank row on the second sheet
	rows := [][]any{{"region", "revenue"}, {"North", 120}, {"South", 80}}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow("Sales", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SetCellValue("Sheet1", "A1", "only"); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	tbl, err := Read(path, ReadOptions{SheetName: "sales"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tbl.Kind != "xlsx" || len(tbl.Rows) != 2 {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	if tbl.Rows[1]["region"] != "South" || tbl.Rows[1]["revenue"] != "80" {
		t.Fatalf("row = %+v", tbl.Rows[1])
	}

	if _, err := Read(path, ReadOptions{SheetIndex: 5}); err == nil {
		t.Fatal("expected out-of-range sheet index error")
	}
	if _, err := Read(path, ReadOptions{SheetName: "Missing"}); err == nil || !strings.Contains(err.Error(), "Available sheets") {
		t.Fatalf("expected sheet list in error, got %v", err)
	}
}

func TestColumnNamesOrder(t *testing.T) {
	rows := []Row{
		{"b": 1.0, "a": 2.0},
		{"a": 3.0, "c": 4.0},
	}
	got := strings.Join(ColumnNames(rows), ",")
	if got != "a,b,c" {
		t.Fatalf("columns = %s", got)
	}
}

func TestIsMissingAndMeta(t *testing.T) {
	for _, v := range []any{nil, "", "   ", time.Time{}} {
		if !IsMissing(v) {
			t.Fatalf("%#v should be missing", v)
		}
	}
	for _, v := range []any{0.0, "x", false} {
		if IsMissing(v) {
			t.Fatalf("%#v should not be missing", v)
		}
	}
	tbl := FromRows([]Row{{"a": 1.0, "b": nil}, {"a": " ", "b": "x"}})
	tbl.Kind = "json"
	m := tbl.Meta()
	if m.RowCount != 2 || m.ColumnCount != 2 || m.MissingCount != 2 || m.FileKind != "json" {
		t.Fatalf("meta = %+v", m)
	}
}

func TestHead(t *testing.T) {
	tbl := FromRows([]Row{{"a": 1.0}, {"a": 2.0}, {"a": 3.0}})
	if got := tbl.Head(2); len(got.Rows) != 2 || got.Meta().RowCount != 2 {
		t.Fatalf("Head(2) kept %d rows", len(got.Rows))
	}
	if got := tbl.Head(0); len(got.Rows) != 3 {
		t.Fatalf("Head(0) should keep all rows, got %d", len(got.Rows))
	}
	if got := tbl.Head(10); len(got.Rows) != 3 {
		t.Fatalf("Head(10) should keep all rows, got %d", len(got.Rows))
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("Head must not modify the receiver")
	}
}
