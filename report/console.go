package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteConsole renders the report for a terminal: a preamble describing the
// run, then the relationships grouped by (target, triggering type), each
// consumer on its own line with an optional pipeline suffix and indented
// per-file summaries.
func WriteConsole(w io.Writer, preamble []string, records []Record) {
	fmt.Fprintln(w, "--- Combined Consumer Analysis Report ---")
	for _, line := range preamble {
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Consuming Relationships Found ---")

	if len(records) == 0 {
		fmt.Fprintln(w, "(None)")
	}

	var lastGroup string
	for _, record := range records {
		group := record.TargetProjectName + "\x00" + record.TriggeringType
		if group != lastGroup {
			fmt.Fprintf(w, "\nTarget: %s (%s)\n", record.TargetProjectName, record.TargetProjectPath)
			fmt.Fprintf(w, "  Type/Level: %s\n", record.TriggeringType)
			lastGroup = group
		}

		pipelineSuffix := ""
		if record.PipelineName != "" {
			pipelineSuffix = fmt.Sprintf(" [Pipeline: %s]", record.PipelineName)
		}
		fmt.Fprintf(w, "    -> Consumed by: %s (%s)%s\n",
			record.ConsumerProjectName, record.ConsumerProjectPath, pipelineSuffix)

		writeSummaries(w, record.ConsumerFileSummaries)
	}

	fmt.Fprintf(w, "\n--- Total Consuming Relationships Found: %d ---\n", len(records))
}

func writeSummaries(w io.Writer, summaries map[string]string) {
	if len(summaries) == 0 {
		return
	}

	files := make([]string, 0, len(summaries))
	for file := range summaries {
		files = append(files, file)
	}
	sort.Strings(files)

	fmt.Fprintln(w, "       Summaries:")
	for _, file := range files {
		fmt.Fprintf(w, "         File: %s\n", file)
		fmt.Fprintln(w, indent(summaries[file], 11))
	}
}

func indent(text string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
