// Package pipeline loads the optional project-to-pipeline label mapping used
// to annotate consumer reports.
package pipeline

import (
	"encoding/csv"
	"log/slog"
	"os"
	"strings"
)

const (
	projectHeader  = "Project Name"
	pipelineHeader = "Pipeline Name"
)

// Load reads a CSV mapping of project names to pipeline names. Every failure
// degrades to an empty mapping with a warning: pipeline labels are
// annotations, never a reason to abort an analysis. Duplicate project names
// keep the last entry.
func Load(path string, log *slog.Logger) map[string]string {
	pipelines := make(map[string]string)
	if path == "" {
		return pipelines
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warn("pipeline CSV not readable, proceeding without pipeline data", "path", path, "error", err)
		return pipelines
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		log.Warn("pipeline CSV is empty or unreadable, proceeding without pipeline data", "path", path, "error", err)
		return pipelines
	}

	projectCol, pipelineCol := -1, -1
	for i, name := range header {
		// Excel exports prefix the first header with a UTF-8 BOM.
		switch strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF") {
		case projectHeader:
			projectCol = i
		case pipelineHeader:
			pipelineCol = i
		}
	}
	if projectCol < 0 || pipelineCol < 0 {
		log.Warn("pipeline CSV missing required columns, proceeding without pipeline data",
			"path", path, "required", projectHeader+", "+pipelineHeader)
		return pipelines
	}

	loaded := 0
	duplicates := 0
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		if projectCol >= len(row) || pipelineCol >= len(row) {
			continue
		}
		proj := strings.TrimSpace(row[projectCol])
		pipe := strings.TrimSpace(row[pipelineCol])
		if proj == "" || pipe == "" {
			continue
		}
		if _, exists := pipelines[proj]; exists {
			duplicates++
		}
		pipelines[proj] = pipe
		loaded++
	}

	log.Info("loaded pipeline mappings", "count", loaded, "duplicates", duplicates)
	return pipelines
}
