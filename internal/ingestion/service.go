// Package ingestion imports movies in bulk from uploaded CSV or XLSX tables.
package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/logging"
	"github.com/rpattn/moviesapi/internal/service"
	"github.com/rpattn/moviesapi/internal/validation"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported file format", domain.ErrInvalidArgument)

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// Column aliases accepted in the header row, after normalisation.
var (
	titleColumns  = []string{"title", "name"}
	yearColumns   = []string{"yearofrelease", "year_of_release", "year"}
	genresColumns = []string{"genres", "genre"}
)

// MovieCreator persists one validated movie.
type MovieCreator interface {
	Create(ctx context.Context, input service.MovieInput) (domain.Movie, error)
}

// Service imports tabular movie data.
type Service struct {
	movies MovieCreator
}

// NewService creates a new ingestion service.
func NewService(movies MovieCreator) *Service {
	return &Service{movies: movies}
}

// Request describes the ingestion input.
type Request struct {
	FileName string
	// HeaderRowIndex selects the header row (0-based); nil picks the first non-empty row.
	HeaderRowIndex *int
	// DryRun validates every row without creating movies.
	DryRun bool
	Data   io.Reader
}

// RowError reports why one data row was not imported. Row is 1-based as shown in a spreadsheet.
type RowError struct {
	Row     int                     `json:"row"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// Summary returns ingestion level metrics.
type Summary struct {
	TotalRows      int         `json:"totalRows"`
	ValidRows      int         `json:"validRows"`
	InvalidRows    int         `json:"invalidRows"`
	CreatedIDs     []uuid.UUID `json:"createdIds"`
	Errors         []RowError  `json:"errors"`
	DryRun         bool        `json:"dryRun"`
	HeaderRowIndex int         `json:"headerRowIndex"`
}

type tableData struct {
	headers        []string
	rows           [][]string
	rowNumbers     []int
	headerRowIndex int
}

type columnMap struct {
	title, year, genres int
}

// Ingest reads the uploaded file and creates one movie per valid row. Invalid rows
// and slug conflicts are reported in the summary; any other failure aborts the import.
func (s *Service) Ingest(ctx context.Context, req Request) (Summary, error) {
	summary := Summary{
		CreatedIDs: []uuid.UUID{},
		Errors:     []RowError{},
		DryRun:     req.DryRun,
	}
	if req.Data == nil {
		return summary, validation.NewFieldError("file", "file is required")
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return summary, fmt.Errorf("failed to read upload: %w", err)
	}

	table, err := parseTable(req.FileName, payload, req.HeaderRowIndex)
	if err != nil {
		return summary, err
	}
	columns, err := mapColumns(table.headers)
	if err != nil {
		return summary, err
	}

	summary.TotalRows = len(table.rows)
	summary.HeaderRowIndex = table.headerRowIndex

	for i, row := range table.rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rowNumber := table.rowNumbers[i]

		input, err := columns.input(row)
		switch {
		case err != nil:
		case req.DryRun:
			err = validation.ValidateStruct(input)
		default:
			var movie domain.Movie
			if movie, err = s.movies.Create(ctx, input); err == nil {
				summary.CreatedIDs = append(summary.CreatedIDs, movie.ID)
			}
		}

		switch {
		case err == nil:
			summary.ValidRows++
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrConflict):
			summary.InvalidRows++
			summary.Errors = append(summary.Errors, rowError(rowNumber, err))
		default:
			return summary, fmt.Errorf("failed to import row %d: %w", rowNumber, err)
		}
	}

	logging.Ctx(ctx).Info().
		Str("file", req.FileName).
		Bool("dry_run", req.DryRun).
		Int("total_rows", summary.TotalRows).
		Int("valid_rows", summary.ValidRows).
		Int("invalid_rows", summary.InvalidRows).
		Msg("movie import finished")

	return summary, nil
}

func rowError(rowNumber int, err error) RowError {
	re := RowError{Row: rowNumber, Message: err.Error()}
	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		re.Fields = ve.Fields
	}
	return re
}

func mapColumns(headers []string) (columnMap, error) {
	find := func(aliases []string) int {
		for idx, header := range headers {
			name := strings.ToLower(header)
			for _, alias := range aliases {
				if name == alias {
					return idx
				}
			}
		}
		return -1
	}

	columns := columnMap{title: find(titleColumns), year: find(yearColumns), genres: find(genresColumns)}
	var missing []string
	if columns.title < 0 {
		missing = append(missing, "title")
	}
	if columns.year < 0 {
		missing = append(missing, "yearOfRelease")
	}
	if columns.genres < 0 {
		missing = append(missing, "genres")
	}
	if len(missing) > 0 {
		return columnMap{}, validation.NewFieldError("file", "missing columns: "+strings.Join(missing, ", "))
	}
	return columns, nil
}

func (c columnMap) input(row []string) (service.MovieInput, error) {
	input := service.MovieInput{
		Title:  strings.TrimSpace(row[c.title]),
		Genres: splitGenres(row[c.genres]),
	}

	rawYear := strings.TrimSpace(row[c.year])
	if rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			return input, validation.NewFieldError("yearOfRelease", "yearOfRelease must be an integer")
		}
		input.YearOfRelease = year
	}
	return input, nil
}

// splitGenres accepts genres separated by |, ; or commas.
func splitGenres(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ';' || r == ','
	})
	genres := make([]string, 0, len(fields))
	for _, field := range fields {
		if genre := strings.TrimSpace(field); genre != "" {
			genres = append(genres, genre)
		}
	}
	return genres
}

func parseTable(fileName string, payload []byte, headerRowIndex *int) (tableData, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload, headerRowIndex)
	case ".xlsx":
		return parseExcel(payload, headerRowIndex)
	default:
		return tableData{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte, headerRowIndex *int) (tableData, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return tableData{}, validation.NewFieldError("file", fmt.Sprintf("failed to read csv: %v", err))
	}
	return normalizeTable(records, headerRowIndex)
}

func parseExcel(payload []byte, headerRowIndex *int) (tableData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return tableData{}, validation.NewFieldError("file", fmt.Sprintf("failed to open xlsx: %v", err))
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tableData{}, validation.NewFieldError("file", "excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return normalizeTable(rows, headerRowIndex)
}

func normalizeTable(records [][]string, headerRowIndex *int) (tableData, error) {
	if len(records) == 0 {
		return tableData{}, validation.NewFieldError("file", "no rows found in file")
	}

	headerIndex := -1
	if headerRowIndex != nil {
		if *headerRowIndex < 0 || *headerRowIndex >= len(records) {
			return tableData{}, validation.NewFieldError("headerRow", fmt.Sprintf("header row index %d out of range", *headerRowIndex))
		}
		if isEmptyRow(records[*headerRowIndex]) {
			return tableData{}, validation.NewFieldError("headerRow", fmt.Sprintf("selected header row %d is empty", *headerRowIndex+1))
		}
		headerIndex = *headerRowIndex
	} else {
		for idx, row := range records {
			if !isEmptyRow(row) {
				headerIndex = idx
				break
			}
		}
	}
	if headerIndex < 0 {
		return tableData{}, validation.NewFieldError("file", "header row could not be detected")
	}

	headers := sanitizeHeaders(records[headerIndex])
	table := tableData{headers: headers, headerRowIndex: headerIndex}
	for idx := headerIndex + 1; idx < len(records); idx++ {
		if isEmptyRow(records[idx]) {
			continue
		}
		table.rows = append(table.rows, padRow(records[idx], len(headers)))
		table.rowNumbers = append(table.rowNumbers, idx+1)
	}
	return table, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func sanitizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int)

	for idx, value := range raw {
		name := strings.TrimSpace(value)
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, ".", "_")
		name = strings.ReplaceAll(name, "-", "_")
		name = strings.Trim(name, "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}

	return headers
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}
