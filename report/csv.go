package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

var csvHeader = []string{
	"TargetProjectName",
	"TargetProjectPath",
	"TriggeringType",
	"ConsumerProjectName",
	"ConsumerProjectPath",
	"PipelineName",
	"ConsumerFileSummaries",
}

// WriteCSV writes the report as CSV. The summaries column holds a JSON
// object per row (file path to summary text), keeping the format flat.
func WriteCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		summaries := record.ConsumerFileSummaries
		if summaries == nil {
			summaries = map[string]string{}
		}
		encoded, err := json.Marshal(summaries)
		if err != nil {
			return fmt.Errorf("failed to encode summaries: %w", err)
		}

		row := []string{
			record.TargetProjectName,
			record.TargetProjectPath,
			record.TriggeringType,
			record.ConsumerProjectName,
			record.ConsumerProjectPath,
			record.PipelineName,
			string(encoded),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
