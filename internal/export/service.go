// Package export renders a user's ratings as a downloadable CSV or XLSX file.
package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/rpattn/moviesapi/internal/domain"
	"github.com/rpattn/moviesapi/internal/logging"
	"github.com/rpattn/moviesapi/internal/validation"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv or xlsx in any case; empty means csv.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", validation.NewFieldError("format", "format must be one of [csv xlsx]")
	}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// RatingLister lists one user's ratings.
type RatingLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.UserRating, error)
}

// MovieFetcher resolves the rated movies in one batch.
type MovieFetcher interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID, userID *uuid.UUID) ([]domain.Movie, error)
}

var headers = []string{"movie_id", "slug", "title", "year_of_release", "rating", "average_rating"}

type Service struct {
	ratings RatingLister
	movies  MovieFetcher

	sheetName string
	now       func() time.Time
}

type Option func(*Service)

func WithSheetName(name string) Option {
	return func(s *Service) {
		if strings.TrimSpace(name) != "" {
			s.sheetName = name
		}
	}
}

// WithClock overrides the time used in file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(ratings RatingLister, movies MovieFetcher, opts ...Option) *Service {
	service := &Service{
		ratings:   ratings,
		movies:    movies,
		sheetName: "Ratings",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Result describes a written export.
type Result struct {
	FileName    string
	ContentType string
	Rows        int
	Bytes       int64
}

// FileName is the download name for an export created at now.
func (s *Service) FileName(format Format) string {
	return fmt.Sprintf("ratings-%s.%s", s.now().UTC().Format("20060102-150405"), format)
}

// Export writes userID's ratings to w in the requested format.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, format Format, w io.Writer) (Result, error) {
	rows, err := s.collectRows(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	counter := &countingWriter{writer: w}
	switch format {
	case FormatXLSX:
		err = s.writeXLSX(counter, rows)
	default:
		err = writeCSV(counter, rows)
	}
	if err != nil {
		return Result{}, err
	}

	logging.Ctx(ctx).Debug().
		Str("user_id", userID.String()).
		Str("format", string(format)).
		Int("rows", len(rows)).
		Int64("bytes", counter.count).
		Msg("ratings exported")

	return Result{
		FileName:    s.FileName(format),
		ContentType: format.ContentType(),
		Rows:        len(rows),
		Bytes:       counter.count,
	}, nil
}

func (s *Service) collectRows(ctx context.Context, userID uuid.UUID) ([][]string, error) {
	ratings, err := s.ratings.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	if len(ratings) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(ratings))
	for i, rating := range ratings {
		ids[i] = rating.MovieID
	}
	movies, err := s.movies.GetByIDs(ctx, ids, &userID)
	if err != nil {
		return nil, fmt.Errorf("load rated movies: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Movie, len(movies))
	for _, movie := range movies {
		byID[movie.ID] = movie
	}

	rows := make([][]string, 0, len(ratings))
	for _, rating := range ratings {
		movie := byID[rating.MovieID]
		rows = append(rows, []string{
			rating.MovieID.String(),
			rating.Slug,
			movie.Title,
			formatYear(movie.YearOfRelease),
			strconv.Itoa(rating.Rating),
			formatAverage(movie.Rating),
		})
	}
	return rows, nil
}

func writeCSV(w io.Writer, rows [][]string) error {
	buffered := bufio.NewWriter(w)
	csvWriter := csv.NewWriter(buffered)

	if err := csvWriter.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		return fmt.Errorf("write rating rows: %w", err)
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (s *Service) writeXLSX(w io.Writer, rows [][]string) error {
	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	if err := file.SetSheetName("Sheet1", s.sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	stream, err := file.NewStreamWriter(s.sheetName)
	if err != nil {
		return fmt.Errorf("open sheet stream: %w", err)
	}

	if err := stream.SetRow("A1", toCells(headers)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := stream.SetRow(cell, xlsxRow(row)); err != nil {
			return fmt.Errorf("write rating row: %w", err)
		}
	}
	if err := stream.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// xlsxRow keeps numeric columns numeric in the sheet.
func xlsxRow(row []string) []interface{} {
	cells := toCells(row)
	for _, idx := range []int{3, 4, 5} {
		if n, err := strconv.ParseFloat(row[idx], 64); err == nil {
			cells[idx] = n
		}
	}
	return cells
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func formatAverage(avg *float64) string {
	if avg == nil {
		return ""
	}
	return strconv.FormatFloat(*avg, 'f', 1, 64)
}

type countingWriter struct {
	writer io.Writer
	count  int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.count += int64(n)
	return n, err
}
