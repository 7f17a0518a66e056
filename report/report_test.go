package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{
			TargetProjectName:   "Core",
			TargetProjectPath:   "/src/Core/Core.csproj",
			TriggeringType:      "Widget",
			ConsumerProjectName: "Alpha",
			ConsumerProjectPath: "/src/Alpha/Alpha.csproj",
			PipelineName:        "alpha-ci",
			ConsumerFileSummaries: map[string]string{
				"/src/Alpha/Screen.cs": "Draws widgets on screen.\nAlso handles layout.",
			},
		},
		{
			TargetProjectName:   "Core",
			TargetProjectPath:   "/src/Core/Core.csproj",
			TriggeringType:      "Widget",
			ConsumerProjectName: "Beta",
			ConsumerProjectPath: "/src/Beta/Beta.csproj",
		},
		{
			TargetProjectName:   "Core",
			TargetProjectPath:   "/src/Core/Core.csproj",
			TriggeringType:      "Widget.Render",
			ConsumerProjectName: "Alpha",
			ConsumerProjectPath: "/src/Alpha/Alpha.csproj",
		},
	}
}

func TestSort(t *testing.T) {
	records := []Record{
		{TargetProjectName: "Zeta", TriggeringType: "A", ConsumerProjectName: "X"},
		{TargetProjectName: "Core", TriggeringType: "Widget.Render", ConsumerProjectName: "Alpha"},
		{TargetProjectName: "Core", TriggeringType: "Widget", ConsumerProjectName: "Beta"},
		{TargetProjectName: "Core", TriggeringType: "Widget", ConsumerProjectName: "Alpha"},
	}

	Sort(records)

	keys := make([][3]string, len(records))
	for i, record := range records {
		keys[i] = [3]string{record.TargetProjectName, record.TriggeringType, record.ConsumerProjectName}
	}
	assert.Equal(t, [][3]string{
		{"Core", "Widget", "Alpha"},
		{"Core", "Widget", "Beta"},
		{"Core", "Widget.Render", "Alpha"},
		{"Zeta", "A", "X"},
	}, keys)
}

func TestSort_Stable(t *testing.T) {
	records := []Record{
		{TargetProjectName: "Core", TriggeringType: "Widget", ConsumerProjectName: "Alpha", PipelineName: "first"},
		{TargetProjectName: "Core", TriggeringType: "Widget", ConsumerProjectName: "Alpha", PipelineName: "second"},
	}

	Sort(records)
	assert.Equal(t, "first", records[0].PipelineName)
	assert.Equal(t, "second", records[1].PipelineName)
}

func TestWriteConsole(t *testing.T) {
	preamble := []string{
		"Mode: Target Project Analysis",
		"Target Project: /src/Core/Core.csproj",
		"Search Scope: /src",
		"Filter: Type 'Widget'",
	}

	var buf bytes.Buffer
	WriteConsole(&buf, preamble, sampleRecords())

	g := goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
	g.Assert(t, "console_report", buf.Bytes())
}

func TestWriteConsole_NoRecords(t *testing.T) {
	var buf bytes.Buffer
	WriteConsole(&buf, []string{"Mode: Target Project Analysis"}, nil)

	g := goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
	g.Assert(t, "console_report_empty", buf.Bytes())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"Core",
		"/src/Core/Core.csproj",
		"Widget",
		"Alpha",
		"/src/Alpha/Alpha.csproj",
		"alpha-ci",
		`{"/src/Alpha/Screen.cs":"Draws widgets on screen.\nAlso handles layout."}`,
	}, rows[1])

	// Absent summaries serialize as an empty JSON object, not null.
	assert.Equal(t, "{}", rows[2][6])
}

func TestWriteCSV_NoRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, csvHeader, rows[0])
}
