package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goimpact/domain/core"
	"goimpact/domain/impact"
	"goimpact/internal"

	"github.com/xuri/excelize/v2"
)

// FileType is the tabular format of an input file
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// DetectFileType picks the format from a file name's extension.
// Anything that is not .xlsx, .xlsm or .xltx is read as CSV.
func DetectFileType(name string) FileType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx":
		return FileTypeXLSX
	default:
		return FileTypeCSV
	}
}

// DataReader handles reading Excel and CSV files into tables
type DataReader struct {
	filePath string
	fileType FileType
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return &DataReader{
		filePath: filePath,
		fileType: DetectFileType(filePath),
		logger:   internal.NewDiscardLogger(),
	}
}

// WithLogger sets the logger used for read timings
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// ReadTable reads the file into a table. Every failure is a data error
// naming the file.
func (r *DataReader) ReadTable() (impact.Table, error) {
	start := time.Now()

	f, err := os.Open(r.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return impact.Table{}, core.NewDataError(r.filePath, fmt.Sprintf("%s file not found", strings.ToUpper(string(r.fileType))))
		}
		return impact.Table{}, core.WrapDataError(r.filePath, err)
	}
	defer f.Close()

	var table impact.Table
	switch r.fileType {
	case FileTypeXLSX:
		table, err = ReadXLSX(f, r.filePath)
	default:
		table, err = ReadCSV(f, r.filePath)
	}
	if err != nil {
		return impact.Table{}, err
	}

	r.logger.Debug("data file read",
		"file", r.filePath,
		"type", string(r.fileType),
		"columns", len(table.Columns),
		"rows", len(table.Records),
		"elapsed_ms", float64(time.Since(start).Nanoseconds())/1e6)
	return table, nil
}

// ReadFrom reads an in-memory upload, choosing the format from name.
func ReadFrom(rd io.Reader, name string) (impact.Table, error) {
	if DetectFileType(name) == FileTypeXLSX {
		return ReadXLSX(rd, name)
	}
	return ReadCSV(rd, name)
}

// ReadCSV reads comma-separated rows with a header line.
func ReadCSV(rd io.Reader, source string) (impact.Table, error) {
	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return impact.Table{}, core.WrapDataError(source, fmt.Errorf("failed to read CSV: %w", err))
	}
	return processRows(rows, source)
}

// ReadXLSX reads the first worksheet of a workbook.
func ReadXLSX(rd io.Reader, source string) (impact.Table, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return impact.Table{}, core.WrapDataError(source, fmt.Errorf("failed to open Excel workbook: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return impact.Table{}, core.NewDataError(source, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return impact.Table{}, core.WrapDataError(source, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err))
	}
	return processRows(rows, source)
}

// processRows converts raw string rows into a table. Short rows are padded
// with empty cells; cells beyond the header are ignored.
func processRows(rows [][]string, source string) (impact.Table, error) {
	if len(rows) < 2 {
		return impact.Table{}, core.NewDataError(source, "file must have at least a header row and one data row")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		header = strings.TrimSpace(header)
		if header == "" {
			return impact.Table{}, core.NewDataError(source, fmt.Sprintf("column %d has an empty header", i+1))
		}
		if seen[header] {
			return impact.Table{}, core.NewDataError(source, fmt.Sprintf("duplicate column %q", header))
		}
		seen[header] = true
		headers[i] = header
	}

	records := make([]impact.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(impact.RawRecord, len(headers))
		for j, h := range headers {
			if j < len(row) {
				rec[h] = strings.TrimSpace(row[j])
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}

	return impact.Table{Columns: headers, Records: records, Source: source}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
