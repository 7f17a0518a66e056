// Package report holds the plain result records of an analysis run and
// renders them to the console or to CSV.
package report

import "sort"

// Record is one consuming relationship found by an analysis.
type Record struct {
	TargetProjectName string
	TargetProjectPath string

	// TriggeringType describes the symbol or precision level that caused
	// the match ("Widget", "Widget.Render", "N/A (Project Reference)").
	TriggeringType string

	ConsumerProjectName string
	ConsumerProjectPath string
	PipelineName        string

	// ConsumerFileSummaries maps relevant consumer file paths to their
	// generated summaries. Empty when summarization is disabled.
	ConsumerFileSummaries map[string]string
}

// Sort orders records by (target name, triggering type, consumer name), the
// report's stable presentation order.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.TargetProjectName != b.TargetProjectName {
			return a.TargetProjectName < b.TargetProjectName
		}
		if a.TriggeringType != b.TriggeringType {
			return a.TriggeringType < b.TriggeringType
		}
		return a.ConsumerProjectName < b.ConsumerProjectName
	})
}
