package services

import (
	"context"
	"fmt"

	"clinicrev/internal/amqp"
	"clinicrev/internal/core"
	"clinicrev/internal/export"
	applog "clinicrev/internal/log"
	"clinicrev/internal/pipeline"
	"clinicrev/internal/report"
	"clinicrev/internal/sheets"
)

// Publisher hands a finished report to downstream consumers.
type Publisher interface {
	PublishReport(ctx context.Context, msg *amqp.ReportReadyMessage) error
}

var _ Publisher = (*amqp.Client)(nil)

// ReportService orchestrates one reporting run: read the export, run the
// pipeline, write the outputs, and announce them.
type ReportService struct {
	reader    sheets.ExportReader
	pipeline  *pipeline.Pipeline
	writer    *export.Writer
	publisher Publisher
	takeover  core.Date
	logger    *applog.Logger
}

// NewReportService wires a run. publisher may be nil.
func NewReportService(reader sheets.ExportReader, p *pipeline.Pipeline, w *export.Writer, publisher Publisher, takeover core.Date, logger *applog.Logger) *ReportService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if takeover.IsEmpty() {
		takeover = report.DefaultTakeoverDate
	}
	return &ReportService{
		reader:    reader,
		pipeline:  p,
		writer:    w,
		publisher: publisher,
		takeover:  takeover,
		logger:    logger,
	}
}

// Outcome summarizes a run for the caller.
type Outcome struct {
	Result   *pipeline.Result
	Takeover report.Takeover
	Files    []string
}

// Run executes the full report. Schema errors from the pipeline are returned
// unwrapped so callers can match them with errors.As.
func (s *ReportService) Run(ctx context.Context) (*Outcome, error) {
	source := sheets.Describe(s.reader)
	s.logger.InfoContext(ctx, "Reading export", applog.FieldSource, source)

	sl := applog.NewStructuredLogger(s.logger)
	raw, err := s.reader.ReadExport(ctx)
	if err != nil {
		sl.LogError(ctx, "Failed to read export", err, applog.OpRead,
			applog.NewFields().
				With(applog.FieldSource, source).
				With(applog.FieldErrorType, applog.ErrorTypeIO))
		return nil, fmt.Errorf("read export from %s: %w", source, err)
	}
	s.logger.InfoContext(ctx, "Export read",
		applog.FieldStage, applog.StageRead,
		applog.FieldSource, source,
		applog.FieldRowsIn, len(raw.Rows),
	)

	res, err := s.pipeline.Run(ctx, raw)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Result:   res,
		Takeover: report.BuildTakeover(res.Rollups.Total, s.takeover),
	}

	if s.writer != nil {
		files, err := s.writer.WriteAll(ctx, res.Encounters, res.Rollups, out.Takeover)
		out.Files = files
		if err != nil {
			return out, fmt.Errorf("write outputs: %w", err)
		}
	}

	if err := s.publish(ctx, source, out); err != nil {
		// Outputs are on disk; the notification is best effort.
		sl.LogError(ctx, "Failed to publish report message", err, applog.OpPublish,
			applog.NewFields().
				WithRunID(res.RunID.String()).
				With(applog.FieldErrorType, applog.ErrorTypeNetwork))
	}

	s.logger.InfoContext(ctx, "Report complete",
		applog.FieldRunID, res.RunID.String(),
		applog.FieldRowsIn, res.RawRows,
		applog.FieldRowsOut, len(res.Encounters),
		applog.FieldMonths, len(res.Rollups.Total),
		applog.FieldRevenue, res.TotalRevenue().String(),
		applog.FieldTakeover, s.takeover.String(),
		applog.FieldDuration, res.Elapsed.Milliseconds(),
	)
	return out, nil
}

func (s *ReportService) publish(ctx context.Context, source string, out *Outcome) error {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping report message")
		return nil
	}
	dir := ""
	if s.writer != nil {
		dir = s.writer.Dir
	}
	msg := amqp.NewReportReadyMessage(
		out.Result.RunID.String(),
		source,
		dir,
		out.Files,
		len(out.Result.Encounters),
		out.Result.Rollups.Total,
		s.takeover,
	)
	return s.publisher.PublishReport(ctx, msg)
}
