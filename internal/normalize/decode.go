package normalize

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// maxXLSRows bounds how many rows are read from legacy workbooks.
const maxXLSRows = 100000

var errEmptyTable = errors.New("table is empty")

// Decode reads an uploaded statement and normalises it. Any decoding
// failure, including an empty sheet, returns FallbackDataset with the
// failure recorded in Analysis.FallbackReason.
func (n *Normalizer) Decode(content []byte, filename string) Result {
	t, err := ReadTable(content, filename)
	if err != nil {
		return FallbackDataset(err.Error())
	}
	return n.NormalizeTable(t)
}

// ReadTable decodes .xlsx, .xls and delimited text into a Table.
// Text is tried as utf-8, then latin-1, then cp1252.
func ReadTable(content []byte, filename string) (Table, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return Table{}, errEmptyTable
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(content)
	case ".xls":
		rows, err = readXLS(content)
	default:
		rows, err = readCSV(content)
	}
	if err != nil {
		return Table{}, err
	}
	return toTable(rows)
}

func readXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// readXLS recovers from panics raised by the BIFF reader on corrupt files.
func readXLS(content []byte) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("read xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	return wb.ReadAllCells(maxXLSRows), nil
}

func readCSV(content []byte) ([][]string, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// decodeText converts raw bytes to a string using the first encoding
// candidate that accepts them.
func decodeText(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if utf8.Valid(content) {
		return string(content), nil
	}
	for _, enc := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		out, err := enc.NewDecoder().Bytes(content)
		if err == nil {
			return string(out), nil
		}
	}
	return "", errors.New("could not decode file with utf-8, latin-1 or cp1252")
}

// toTable takes the first non-blank row as header and drops blank rows.
func toTable(rows [][]string) (Table, error) {
	var t Table
	for _, r := range rows {
		if blank(r) {
			continue
		}
		if t.Header == nil {
			t.Header = trimAll(r)
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	if len(t.Rows) == 0 {
		return Table{}, errEmptyTable
	}
	return t, nil
}

func blank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(r []string) []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
