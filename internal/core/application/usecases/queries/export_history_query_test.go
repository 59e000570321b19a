package queries_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"servicedesk/internal/core/application/usecases/queries"
	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/kernel"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture(t *testing.T) (*fakeLedger, history.Window, kernel.UUID) {
	t.Helper()
	window, err := history.NewWindow(t0, t0.Add(24*time.Hour))
	require.NoError(t, err)

	orderID := kernel.NewUUID()
	ledger := newFakeLedger(
		buildLedger(t, orderID,
			step{to: order.Received},
			step{to: order.Diagnosing, at: time.Hour + 250*time.Microsecond},
			step{to: order.Repairing, at: 3 * time.Hour},
		),
		buildLedger(t, kernel.NewUUID(),
			step{to: order.Received, at: 2 * time.Hour},
			step{to: order.Cancelled, at: 26 * time.Hour},
		),
	)
	return ledger, window, orderID
}

func TestExportHistoryQueryHandler_CSVRoundTrip(t *testing.T) {
	ledger, window, orderID := exportFixture(t)
	handler := queries.NewExportHistoryQueryHandler(ledger, 2)
	query, err := queries.NewExportHistoryQuery(window, queries.ExportFormatCSV, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, handler.Handle(t.Context(), query, &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("order_id,from_status,to_status,reason,actor_id,occurred_at\n")))

	records, err := queries.ReadHistoryCSV(&buf)
	require.NoError(t, err)
	require.Len(t, records, 4, "the cancellation is outside the window")

	entries, err := ledger.ByOrder(t.Context(), orderID)
	require.NoError(t, err)
	got := make([]queries.HistoryRecord, 0)
	for _, r := range records {
		if r.OrderID == orderID.String() {
			got = append(got, r)
		}
	}
	require.Len(t, got, len(entries))
	for i, e := range entries {
		assert.Equal(t, queries.NewHistoryRecord(e), got[i])
	}

	assert.Empty(t, got[0].FromStatus)
	assert.Equal(t, "RECEIVED", got[1].FromStatus)
	at, err := time.Parse(time.RFC3339Nano, got[1].OccurredAt)
	require.NoError(t, err)
	assert.True(t, at.Equal(t0.Add(time.Hour+250*time.Microsecond)))
}

func TestExportHistoryQueryHandler_JSON(t *testing.T) {
	ledger, window, _ := exportFixture(t)
	handler := queries.NewExportHistoryQueryHandler(ledger, 1)
	query, err := queries.NewExportHistoryQuery(window, queries.ExportFormatJSON, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, handler.Handle(t.Context(), query, &buf))

	var records []queries.HistoryRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	assert.Len(t, records, 4)
}

func TestExportHistoryQueryHandler_StatusFilter(t *testing.T) {
	ledger, window, _ := exportFixture(t)
	handler := queries.NewExportHistoryQueryHandler(ledger, 0)
	status := order.Received
	query, err := queries.NewExportHistoryQuery(window, queries.ExportFormatJSON, &status)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, handler.Handle(t.Context(), query, &buf))

	var records []queries.HistoryRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "RECEIVED", r.ToStatus)
	}
	assert.LessOrEqual(t, records[0].OccurredAt, records[1].OccurredAt)
}

func TestExportHistoryQueryHandler_EmptyWindow(t *testing.T) {
	window, err := history.NewWindow(t0.Add(-48*time.Hour), t0.Add(-24*time.Hour))
	require.NoError(t, err)
	handler := queries.NewExportHistoryQueryHandler(newFakeLedger(), 0)
	query, err := queries.NewExportHistoryQuery(window, queries.ExportFormatJSON, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, handler.Handle(t.Context(), query, &buf))
	assert.JSONEq(t, "[]", buf.String())
}

func TestParseExportFormat(t *testing.T) {
	f, err := queries.ParseExportFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", f.ContentType())

	f, err = queries.ParseExportFormat("json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", f.ContentType())

	_, err = queries.ParseExportFormat("xml")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
