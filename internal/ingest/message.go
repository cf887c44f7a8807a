package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/restaurant-hours/backend/internal/domain"
)

var ErrEmptyBatch = errors.New("ingest message has no rows")

func DecodeMessage(body []byte) (*domain.IngestMessage, error) {
	var msg domain.IngestMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("decode ingest message: %w", err)
	}
	if _, err := ParseMode(msg.Mode); err != nil {
		return nil, err
	}
	if len(msg.Rows) == 0 {
		return nil, ErrEmptyBatch
	}
	return &msg, nil
}

func RowsFromMessage(msg *domain.IngestMessage) []Row {
	rows := make([]Row, 0, len(msg.Rows))
	for i, r := range msg.Rows {
		rows = append(rows, Row{Line: i + 1, Name: r.Name, Hours: r.Hours})
	}
	return rows
}

// ProcessMessage ingests a decoded batch using the mode it carries.
func (in *Ingester) ProcessMessage(ctx context.Context, msg *domain.IngestMessage) (Summary, error) {
	mode, err := ParseMode(msg.Mode)
	if err != nil {
		return Summary{}, err
	}
	return in.WithMode(mode).IngestRows(ctx, RowsFromMessage(msg))
}
