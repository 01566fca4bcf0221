package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/gge-dashboard/internal/domain"
)

type Options struct {
	// SkipRows leading metadata rows are discarded before the header row.
	SkipRows int
	// Sheet selects an xlsx sheet by name; empty means the first sheet.
	Sheet string
}

// ReadTable decodes an uploaded file into a header plus data rows. The
// format is chosen by file extension.
func ReadTable(name string, data []byte, opts Options) (*domain.RawTable, error) {
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	skip := opts.SkipRows
	if skip < 0 {
		skip = 0
	}
	var (
		rows  [][]string
		sheet string
		err   error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		rows, sheet, err = readXLSX(data, opts.Sheet)
	case ".csv", ".txt":
		rows, err = readCSV(data, skip)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFile, filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	if skip >= len(rows) {
		return &domain.RawTable{Sheet: sheet}, nil
	}
	rows = rows[skip:]
	return &domain.RawTable{Sheet: sheet, Header: trimHeader(rows[0]), Rows: rows[1:]}, nil
}

func readXLSX(data []byte, want string) ([][]string, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", errors.New("xlsx: workbook has no sheets")
	}
	sheet := sheets[0]
	if want != "" {
		found := false
		for _, sh := range sheets {
			if strings.EqualFold(sh, want) {
				sheet, found = sh, true
				break
			}
		}
		if !found {
			return nil, "", fmt.Errorf("xlsx: sheet %q not found (have %s)", want, strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("xlsx: read %s: %w", sheet, err)
	}
	return rows, sheet, nil
}

func readCSV(data []byte, skip int) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data, skip)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// sniffDelimiter picks ';' (pt-BR exports) when the header line has more
// semicolons than commas. Falls back to the first line when skip runs past
// the end.
func sniffDelimiter(data []byte, skip int) rune {
	lines := bytes.SplitN(data, []byte("\n"), skip+2)
	line := lines[0]
	if skip > 0 && skip < len(lines) {
		line = lines[skip]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func trimHeader(h []string) []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
