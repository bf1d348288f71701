package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sales-insights-go/internal/config"
)

const tripsCSV = `Date Created,Consultant,Trip Name,Destination,New or Repeat,B2B or B2C,Passed Through Date,Quote Sent Date,Hot Pass Date
2025-03-03,Alice,Trip 01,Iceland,New,B2C,2025-03-03,2025-03-04,
2025-03-04,Alice,Trip 02,Iceland,New,B2C,2025-03-05,,
2025-03-05,Ben,Trip 03,Peru,Repeat,B2B,,,
`

const quotesCSV = `Quote Sent Date,Consultant,Trip Name
2025-03-04,Alice,Trip 01
`

// Flag values live in package vars, so each run starts from defaults.
func resetFlags() {
	analyzeWorkbook = ""
	analyzeTrips = ""
	analyzeQuotes = ""
	analyzePassthroughs = ""
	analyzeHotPasses = ""
	analyzeBookings = ""
	analyzeNonConverted = ""
	analyzeParamsPath = ""
	analyzeTimeframe = ""
	analyzeOut = ""
	analyzeCompact = false
	initOut = "params.yaml"
	initForce = false
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyze_CSVInput(t *testing.T) {
	trips := writeFixture(t, "trips.csv", tripsCSV)
	quotes := writeFixture(t, "quotes.csv", quotesCSV)

	out, err := execute(t, "analyze", "--trips", trips, "--quotes", quotes, "--compact")
	require.NoError(t, err)

	var rep struct {
		RunID  string `json:"run_id"`
		Source struct {
			Trips  int `json:"trips"`
			Quotes int `json:"quotes"`
		} `json:"source_rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.NotEmpty(t, rep.RunID)
	require.Equal(t, 3, rep.Source.Trips)
	require.Equal(t, 1, rep.Source.Quotes)
}

func TestAnalyze_WritesOutFile(t *testing.T) {
	trips := writeFixture(t, "trips.csv", tripsCSV)
	outPath := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, "analyze", "--trips", trips, "--out", outPath)
	require.NoError(t, err)
	require.Contains(t, out, "report written to")

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.True(t, json.Valid(raw))
}

func TestAnalyze_NoInput(t *testing.T) {
	_, err := execute(t, "analyze")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no input")
}

func TestAnalyze_UnknownTimeframe(t *testing.T) {
	trips := writeFixture(t, "trips.csv", tripsCSV)

	_, err := execute(t, "analyze", "--trips", trips, "--timeframe", "fortnight")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown timeframe")
}

func TestInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")

	out, err := execute(t, "init", "--out", path)
	require.NoError(t, err)
	require.Contains(t, out, "default parameters written")

	params, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "all", params.Timeframe)

	_, err = execute(t, "init", "--out", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "salesinsights")
}
