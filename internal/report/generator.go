// Package report turns aggregated trace records into report rows and
// renders them in the supported output formats.
package report

import (
	"fjacquet/ud-extract/internal/extracterror"
	"fjacquet/ud-extract/internal/logging"
	"fjacquet/ud-extract/internal/models"
)

// FieldExtractor pulls the reported fields out of a record's text.
type FieldExtractor interface {
	Status(text string) (string, bool)
	RetCode(text string) (string, bool)
}

// Generator builds report rows from aggregated records.
type Generator struct {
	extractor FieldExtractor
	logger    logging.Logger
}

// NewGenerator creates a Generator. A nil logger discards diagnostics.
func NewGenerator(extractor FieldExtractor, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Generator{
		extractor: extractor,
		logger:    logger.WithField("component", "ReportGenerator"),
	}
}

// Generate returns one row per record, in record iteration order. Status and
// return code are searched independently over the whole record text; a
// missing field is logged and rendered as models.AbsentValue.
func (g *Generator) Generate(records *models.AggregatedRecords) []models.ReportRow {
	rows := make([]models.ReportRow, 0, records.Len())

	records.Each(func(id models.TraceID, text string) {
		status, hasStatus := g.extractor.Status(text)
		if !hasStatus {
			g.logger.Warn("Can't find status",
				logging.F(logging.FieldTraceID, string(id)),
				logging.F(logging.FieldLine, extracterror.Snippet(text)))
		}

		retCode, hasRetCode := g.extractor.RetCode(text)
		if !hasRetCode {
			g.logger.Warn("Can't find retCode",
				logging.F(logging.FieldTraceID, string(id)),
				logging.F(logging.FieldLine, extracterror.Snippet(text)))
		}

		rows = append(rows, models.NewReportRow(id, status, hasStatus, retCode, hasRetCode))
	})

	g.logger.Debug("Report rows generated", logging.F(logging.FieldCount, len(rows)))
	return rows
}
