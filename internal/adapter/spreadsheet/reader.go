package spreadsheet

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/cherry-blossom-eda/internal/domain"
)

// logRows is how many raw rows the header and debug logs include.
const logRows = 3

// Reader loads flowering records from a spreadsheet file.
// It implements pipeline.Extractor.
type Reader struct {
	path   string
	opts   Options
	logger *slog.Logger
}

// NewReader creates a Reader for the given file.
func NewReader(path string, opts Options, logger *slog.Logger) *Reader {
	return &Reader{path: path, opts: opts, logger: logger}
}

// Extract performs the single blocking read of the input file.
func (r *Reader) Extract(ctx context.Context) ([]domain.FlowerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, sheet, err := Load(r.path, r.opts)
	if err != nil {
		if sheet != nil {
			r.logger.Error("spreadsheet header did not match",
				"path", r.path,
				"sheet", sheet.Name,
				"skip_rows", r.opts.SkipRows,
				"header", sheet.Header,
				"first_rows", sheet.Head(logRows),
			)
		}
		return nil, err
	}

	r.logger.Info("spreadsheet loaded",
		"path", r.path,
		"sheet", sheet.Name,
		"skip_rows", r.opts.SkipRows,
		"data_rows", len(sheet.Rows),
		"records", len(records),
	)
	r.logger.Debug("spreadsheet rows",
		"header", sheet.Header,
		"first_rows", sheet.Head(logRows),
		"last_rows", sheet.Tail(logRows),
	)
	return records, nil
}
