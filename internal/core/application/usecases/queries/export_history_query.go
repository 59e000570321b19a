package queries

import (
	"errors"
	"fmt"

	"servicedesk/internal/core/domain/model/history"
	"servicedesk/internal/core/domain/model/order"
	"servicedesk/internal/pkg/errs"
	"servicedesk/internal/pkg/guard"
)

var ErrExportHistoryQueryIsNotConstructed = errors.New(
	"ExportHistoryQuery must be created via NewExportHistoryQuery constructor",
)

// ExportFormat selects the serialization of an export.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

// ParseExportFormat accepts "json" and "csv".
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportFormatJSON, ExportFormatCSV:
		return f, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("format", fmt.Errorf("%q is not json or csv", s))
	}
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportFormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// ExportHistoryQuery asks for the raw ledger of a window, optionally only the
// entries moving into one status.
type ExportHistoryQuery struct {
	window history.Window
	format ExportFormat
	status *order.Status

	guard guard.ConstructorGuard
}

func NewExportHistoryQuery(window history.Window, format ExportFormat, status *order.Status) (ExportHistoryQuery, error) {
	if err := validateWindow(window); err != nil {
		return ExportHistoryQuery{}, err
	}
	if _, err := ParseExportFormat(string(format)); err != nil {
		return ExportHistoryQuery{}, err
	}
	q := ExportHistoryQuery{window: window, format: format, guard: guard.NewConstructorGuard()}
	if status != nil {
		if err := status.Validate(); err != nil {
			return ExportHistoryQuery{}, err
		}
		s := *status
		q.status = &s
	}
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q ExportHistoryQuery) Validate() error {
	return q.guard.Validate(ErrExportHistoryQueryIsNotConstructed)
}

func (q ExportHistoryQuery) Window() history.Window {
	return q.window
}

func (q ExportHistoryQuery) Format() ExportFormat {
	return q.format
}

func (q ExportHistoryQuery) Status() *order.Status {
	return q.status
}
