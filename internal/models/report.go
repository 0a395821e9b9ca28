package models

// AbsentValue is rendered in place of a field that could not be extracted.
const AbsentValue = "nil"

// ReportRow is one line of the final report.
type ReportRow struct {
	ID      TraceID `csv:"ID" json:"id" yaml:"id"`
	Status  string  `csv:"STATUS" json:"status" yaml:"status"`
	RetCode string  `csv:"RETCODE" json:"retcode" yaml:"retcode"`
}

// NewReportRow builds a row, substituting AbsentValue for missing fields.
func NewReportRow(id TraceID, status string, hasStatus bool, retCode string, hasRetCode bool) ReportRow {
	row := ReportRow{ID: id, Status: AbsentValue, RetCode: AbsentValue}
	if hasStatus {
		row.Status = status
	}
	if hasRetCode {
		row.RetCode = retCode
	}
	return row
}

// HasStatus reports whether the status was extracted.
func (r ReportRow) HasStatus() bool {
	return r.Status != AbsentValue
}

// HasRetCode reports whether the return code was extracted.
func (r ReportRow) HasRetCode() bool {
	return r.RetCode != AbsentValue
}
