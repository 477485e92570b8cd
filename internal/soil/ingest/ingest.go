package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/soilviz/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/soilviz/internal/soil/entity"
)

// FailedMessage is shown in place of a table when a file cannot be read.
const FailedMessage = "There was an error processing this file."

// DefaultParallelism bounds how many files of one batch are parsed at once.
const DefaultParallelism = 4

var errNotParsed = errors.New("file was not parsed")

type Ingester struct {
	parallelism int
}

func New(parallelism int) *Ingester {
	if parallelism < 1 {
		parallelism = DefaultParallelism
	}
	return &Ingester{parallelism: parallelism}
}

// Parse decodes and parses one file. It never fails: errors are logged and
// reported through the result's Outcome.
func (in *Ingester) Parse(ctx context.Context, file entity.UploadedFile) entity.ParseResult {
	format := DetectFormat(file.Filename)
	if format == entity.FormatUnknown {
		slog.WarnContext(ctx, "unsupported upload format", "filename", file.Filename)
		return entity.ParseResult{
			Outcome: entity.OutcomeUnsupported,
			Format:  format,
			Message: UnsupportedMessage(file.Filename),
		}
	}

	data, err := Decode(file)
	if err != nil {
		return failed(ctx, file, format, fmt.Errorf("decode: %w", err))
	}

	var table *entity.Table
	switch format {
	case entity.FormatCSV:
		table, err = ParseCSV(data)
	case entity.FormatSpreadsheet:
		table, err = ParseSpreadsheet(data)
	}
	if err != nil {
		return failed(ctx, file, format, err)
	}

	slog.InfoContext(ctx, "upload parsed",
		"filename", file.Filename,
		"format", format,
		"rows", table.Rows(),
		"columns", len(table.Columns()),
	)

	return entity.ParseResult{
		Outcome: entity.OutcomeTable,
		Format:  format,
		Table:   table,
	}
}

// ParseBatch parses files independently and returns results in input order.
// A file whose parse panics or is canceled still gets a failed result.
func (in *Ingester) ParseBatch(ctx context.Context, files []entity.UploadedFile) []entity.ParseResult {
	results := make([]entity.ParseResult, len(files))

	err := pkgroutine.ForEach(ctx, in.parallelism, len(files), func(ctx context.Context, i int) error {
		results[i] = in.Parse(ctx, files[i])
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "batch finished with unparsed files", "error", err)
	}

	for i := range results {
		if results[i].Outcome == "" {
			cause := errNotParsed
			if ctx.Err() != nil {
				cause = ctx.Err()
			}
			results[i] = failed(ctx, files[i], DetectFormat(files[i].Filename), cause)
		}
	}

	return results
}

func UnsupportedMessage(filename string) string {
	return fmt.Sprintf("unsupported file format: %s (expected a csv or xls/xlsx file)", filename)
}

func failed(ctx context.Context, file entity.UploadedFile, format entity.Format, err error) entity.ParseResult {
	slog.ErrorContext(ctx, "failed to process upload", "filename", file.Filename, "format", format, "error", err)
	return entity.ParseResult{
		Outcome: entity.OutcomeFailed,
		Format:  format,
		Message: FailedMessage,
		Err:     err,
	}
}
