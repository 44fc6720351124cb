package amqp

import (
	"encoding/json"
	"time"

	"clinicrev/internal/core"
)

// MonthSummary is one month of the revenue totals carried by a report message.
type MonthSummary struct {
	Month      core.Date  `json:"month"`
	Encounters int        `json:"encounters"`
	Units      int        `json:"total_units"`
	Revenue    core.Money `json:"revenue"`
}

// ReportReadyMessage announces a finished run to downstream consumers.
// It carries headline numbers only; consumers read the files for detail.
type ReportReadyMessage struct {
	RunID        string         `json:"run_id"`
	Source       string         `json:"source"`
	OutputDir    string         `json:"output_dir"`
	Files        []string       `json:"files"`
	Encounters   int            `json:"encounters"`
	TotalRevenue core.Money     `json:"total_revenue"`
	TakeoverDate core.Date      `json:"takeover_date"`
	Months       []MonthSummary `json:"months"`
	Timestamp    time.Time      `json:"timestamp"`
}

// NewReportReadyMessage builds a message from the monthly totals of a run.
func NewReportReadyMessage(runID, source, outputDir string, files []string, encounters int, totals []core.MonthlyTotal, takeover core.Date) *ReportReadyMessage {
	msg := &ReportReadyMessage{
		RunID:        runID,
		Source:       source,
		OutputDir:    outputDir,
		Files:        files,
		Encounters:   encounters,
		TakeoverDate: takeover,
		Months:       make([]MonthSummary, 0, len(totals)),
		Timestamp:    time.Now(),
	}
	for _, m := range totals {
		msg.TotalRevenue = msg.TotalRevenue.Add(m.Revenue)
		msg.Months = append(msg.Months, MonthSummary{
			Month:      m.Month,
			Encounters: m.Encounters,
			Units:      m.Units,
			Revenue:    m.Revenue,
		})
	}
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *ReportReadyMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportReadyMessageFromJSON creates a message from JSON bytes
func ReportReadyMessageFromJSON(data []byte) (*ReportReadyMessage, error) {
	var msg ReportReadyMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
