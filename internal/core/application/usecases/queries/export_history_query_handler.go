package queries

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/ports"
)

// csvHeader is the column layout of CSV exports.
var csvHeader = []string{"order_id", "from_status", "to_status", "reason", "actor_id", "occurred_at"}

// HistoryRecord is the flat export form of a ledger entry. FromStatus is empty
// for the seeding entry; OccurredAt is RFC 3339 with nanoseconds, in UTC.
type HistoryRecord struct {
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Reason     string `json:"reason"`
	ActorID    string `json:"actor_id"`
	OccurredAt string `json:"occurred_at"`
}

// NewHistoryRecord flattens an entry.
func NewHistoryRecord(e *history.StatusTransition) HistoryRecord {
	r := HistoryRecord{
		OrderID:    e.OrderID().String(),
		ToStatus:   e.To().String(),
		Reason:     e.Reason(),
		ActorID:    e.ActorID().String(),
		OccurredAt: e.OccurredAt().UTC().Format(time.RFC3339Nano),
	}
	if !e.IsInitial() {
		r.FromStatus = e.From().String()
	}
	return r
}

func (r HistoryRecord) row() []string {
	return []string{r.OrderID, r.FromStatus, r.ToStatus, r.Reason, r.ActorID, r.OccurredAt}
}

// ReadHistoryCSV parses a CSV export back into records.
func ReadHistoryCSV(r io.Reader) ([]HistoryRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, name := range csvHeader {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected csv column %d: %q", i, header[i])
		}
	}

	records := make([]HistoryRecord, 0)
	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
		records = append(records, HistoryRecord{
			OrderID:    row[0],
			FromStatus: row[1],
			ToStatus:   row[2],
			Reason:     row[3],
			ActorID:    row[4],
			OccurredAt: row[5],
		})
	}
	return records, nil
}

// ExportHistoryQueryHandler streams a window of the ledger to a writer. The
// unfiltered export pages through the ledger in (order, time) order; the
// status-filtered one is a single range query in time order.
type ExportHistoryQueryHandler struct {
	ledger    ports.HistoryLedger
	batchSize int
}

func NewExportHistoryQueryHandler(ledger ports.HistoryLedger, batchSize int) ExportHistoryQueryHandler {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return ExportHistoryQueryHandler{ledger: ledger, batchSize: batchSize}
}

func (h ExportHistoryQueryHandler) Handle(ctx context.Context, query ExportHistoryQuery, w io.Writer) error {
	if err := query.Validate(); err != nil {
		return err
	}

	var sink recordSink
	if query.Format() == ExportFormatCSV {
		sink = newCSVSink(w)
	} else {
		sink = newJSONSink(w)
	}

	if err := sink.begin(); err != nil {
		return err
	}
	if err := h.each(ctx, query, sink.write); err != nil {
		return err
	}
	return sink.end()
}

func (h ExportHistoryQueryHandler) each(ctx context.Context, query ExportHistoryQuery, fn func(HistoryRecord) error) error {
	if status := query.Status(); status != nil {
		entries, err := h.ledger.ByStatusInRange(ctx, *status, query.Window())
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err = fn(NewHistoryRecord(e)); err != nil {
				return err
			}
		}
		return nil
	}

	var cursor *ports.LedgerCursor
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := h.ledger.InRange(ctx, query.Window(), cursor, h.batchSize)
		if err != nil {
			return err
		}
		for _, e := range page.Entries {
			if err = fn(NewHistoryRecord(e)); err != nil {
				return err
			}
		}
		if page.Next == nil {
			return nil
		}
		cursor = page.Next
	}
}

type recordSink interface {
	begin() error
	write(HistoryRecord) error
	end() error
}

type csvSink struct {
	w *csv.Writer
}

func newCSVSink(w io.Writer) *csvSink {
	return &csvSink{w: csv.NewWriter(w)}
}

func (s *csvSink) begin() error {
	return s.w.Write(csvHeader)
}

func (s *csvSink) write(r HistoryRecord) error {
	return s.w.Write(r.row())
}

func (s *csvSink) end() error {
	s.w.Flush()
	return s.w.Error()
}

type jsonSink struct {
	w     io.Writer
	count int
}

func newJSONSink(w io.Writer) *jsonSink {
	return &jsonSink{w: w}
}

func (s *jsonSink) begin() error {
	_, err := io.WriteString(s.w, "[")
	return err
}

func (s *jsonSink) write(r HistoryRecord) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if s.count > 0 {
		if _, err = io.WriteString(s.w, ","); err != nil {
			return err
		}
	}
	s.count++
	_, err = s.w.Write(b)
	return err
}

func (s *jsonSink) end() error {
	_, err := io.WriteString(s.w, "]\n")
	return err
}
