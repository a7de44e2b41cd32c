package models

import (
	"database/sql/driver"
	"time"
)

// ExportFormat enumerates supported shortlist export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob is a persisted shortlist export.
type ExportJob struct {
	ID           string       `db:"id" json:"id"`
	Params       ExportParams `db:"params" json:"params"`
	Status       ExportStatus `db:"status" json:"status"`
	Progress     int          `db:"progress" json:"progress"`
	ResultURL    *string      `db:"result_url" json:"result_url,omitempty"`
	CreatedBy    string       `db:"created_by" json:"created_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage *string      `db:"error_message" json:"error_message,omitempty"`
}

// ExportParams stores the criteria snapshot and format as JSONB.
type ExportParams struct {
	Criteria FilterCriteria `json:"criteria"`
	Format   ExportFormat   `json:"format"`
}

// Value marshals params for persistence.
func (p ExportParams) Value() (driver.Value, error) { return jsonValue(p) }

// Scan unmarshals params from JSONB.
func (p *ExportParams) Scan(value interface{}) error {
	*p = ExportParams{}
	return jsonScan(value, p)
}
