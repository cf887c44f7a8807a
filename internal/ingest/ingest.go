package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/restaurant-hours/backend/internal/domain"
	"github.com/restaurant-hours/backend/internal/hours"
	"github.com/restaurant-hours/backend/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Mode decides what happens to the entries derived before a parse failure.
type Mode string

const (
	// BestEffort persists the restaurant and every entry parsed before the
	// first failure, then records the row as failed.
	BestEffort Mode = "best-effort"
	// AllOrNothing persists nothing for a row whose hours fail to parse.
	AllOrNothing Mode = "all-or-nothing"
)

var (
	ErrUnknownMode = errors.New("unknown ingest mode")
	ErrEmptyName   = errors.New("empty restaurant name")
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", BestEffort:
		return BestEffort, nil
	case AllOrNothing:
		return AllOrNothing, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Row is one source record. Line is 1-based and only used for reporting.
type Row struct {
	Line  int
	Name  string
	Hours string
}

type Store interface {
	SaveParsedHours(ctx context.Context, name string, entries []hours.Entry) (*domain.SaveResult, error)
}

type RowResult struct {
	Line      int                `json:"line"`
	Name      string             `json:"name"`
	Persisted bool               `json:"persisted"`
	Saved     *domain.SaveResult `json:"saved,omitempty"`
	Err       error              `json:"-"`
	Error     string             `json:"error,omitempty"`
}

type Failure struct {
	Line  int    `json:"line"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type Summary struct {
	Rows           int       `json:"rows"`
	Persisted      int       `json:"persisted"`
	WindowsCreated int       `json:"windowsCreated"`
	Failures       []Failure `json:"failures"`
}

type Ingester struct {
	store   Store
	mode    Mode
	workers int
}

func New(store Store, workers int) *Ingester {
	if workers < 1 {
		workers = 1
	}
	return &Ingester{
		store:   store,
		mode:    BestEffort,
		workers: workers,
	}
}

func (in *Ingester) WithMode(mode Mode) *Ingester {
	cp := *in
	cp.mode = mode
	return &cp
}

func (in *Ingester) Mode() Mode {
	return in.mode
}

type parsedRow struct {
	entries []hours.Entry
	err     error
}

func parseRow(row Row) parsedRow {
	if strings.TrimSpace(row.Name) == "" {
		return parsedRow{entries: []hours.Entry{}, err: ErrEmptyName}
	}
	entries, err := hours.ParseHours(row.Hours)
	return parsedRow{entries: entries, err: err}
}

// IngestRow parses and persists a single row. A parse failure is reported in
// the RowResult; the returned error is reserved for store failures.
func (in *Ingester) IngestRow(ctx context.Context, row Row) (RowResult, error) {
	return in.persist(ctx, row, parseRow(row))
}

func (in *Ingester) persist(ctx context.Context, row Row, parsed parsedRow) (RowResult, error) {
	res := RowResult{Line: row.Line, Name: strings.TrimSpace(row.Name)}

	if parsed.err != nil {
		res.Err = parsed.err
		res.Error = parsed.err.Error()
		metrics.IncParseFailure(failureKind(parsed.err))
		slog.Warn("failed to parse hours", "line", row.Line, "name", res.Name, "hours", row.Hours, "error", parsed.err)

		if errors.Is(parsed.err, ErrEmptyName) || in.mode == AllOrNothing {
			metrics.IncIngestedRow("rejected")
			return res, nil
		}
	}

	saved, err := in.store.SaveParsedHours(ctx, res.Name, parsed.entries)
	if err != nil {
		return res, fmt.Errorf("save hours for %q: %w", res.Name, err)
	}

	res.Persisted = true
	res.Saved = saved
	metrics.AddWindowsCreated(saved.WindowsCreated)
	if parsed.err != nil {
		metrics.IncIngestedRow("partial")
	} else {
		metrics.IncIngestedRow("persisted")
	}

	return res, nil
}

// IngestRows parses all rows concurrently and persists them sequentially in
// input order. It stops at the first store failure; parse failures only end
// up in the summary.
func (in *Ingester) IngestRows(ctx context.Context, rows []Row) (Summary, error) {
	summary := Summary{Rows: len(rows), Failures: []Failure{}}

	parsed := make([]parsedRow, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)
	for i := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = parseRow(rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	for i, row := range rows {
		res, err := in.persist(ctx, row, parsed[i])
		if err != nil {
			return summary, err
		}
		if res.Persisted {
			summary.Persisted++
			summary.WindowsCreated += res.Saved.WindowsCreated
		}
		if res.Err != nil {
			summary.Failures = append(summary.Failures, Failure{Line: res.Line, Name: res.Name, Error: res.Error})
		}
	}

	slog.Info("ingested rows",
		"mode", in.mode,
		"rows", summary.Rows,
		"persisted", summary.Persisted,
		"windowsCreated", summary.WindowsCreated,
		"failures", len(summary.Failures),
	)

	return summary, nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrEmptyName):
		return "empty_name"
	case errors.Is(err, hours.ErrInvalidTime):
		return "invalid_time"
	case errors.Is(err, hours.ErrUnknownDay):
		return "unknown_day"
	case errors.Is(err, hours.ErrMalformedSegment):
		return "malformed_segment"
	default:
		return "other"
	}
}
