package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sales-insights-go/internal/config"
	"sales-insights-go/internal/dataset"
	"sales-insights-go/internal/processor"
	"sales-insights-go/internal/temporal"
	"sales-insights-go/internal/types"
)

var (
	analyzeWorkbook     string
	analyzeTrips        string
	analyzeQuotes       string
	analyzePassthroughs string
	analyzeHotPasses    string
	analyzeBookings     string
	analyzeNonConverted string
	analyzeParamsPath   string
	analyzeTimeframe    string
	analyzeOut          string
	analyzeCompact      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis and write the report as JSON",
	Long: `Analyze loads activity data from an xlsx workbook (or from individual
per-collection CSV files), runs every analysis stage, and writes the
report as JSON to stdout or a file.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeWorkbook, "workbook", "w", "", "Path to the xlsx activity workbook")
	analyzeCmd.Flags().StringVar(&analyzeTrips, "trips", "", "CSV file with trip enquiries")
	analyzeCmd.Flags().StringVar(&analyzeQuotes, "quotes", "", "CSV file with sent quotes")
	analyzeCmd.Flags().StringVar(&analyzePassthroughs, "passthroughs", "", "CSV file with passthroughs")
	analyzeCmd.Flags().StringVar(&analyzeHotPasses, "hot-passes", "", "CSV file with hot passes")
	analyzeCmd.Flags().StringVar(&analyzeBookings, "bookings", "", "CSV file with bookings")
	analyzeCmd.Flags().StringVar(&analyzeNonConverted, "non-converted", "", "CSV file with non-converted leads")
	analyzeCmd.Flags().StringVarP(&analyzeParamsPath, "params", "p", "", "YAML parameter file (defaults apply when omitted)")
	analyzeCmd.Flags().StringVarP(&analyzeTimeframe, "timeframe", "t", "", "Timeframe override (all, last_week, this_month, last_month, this_quarter, last_quarter, last_year)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeCompact, "compact", false, "Emit compact JSON instead of indented")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	bundle, err := loadBundle()
	if err != nil {
		return err
	}

	params := config.Default()
	if analyzeParamsPath != "" {
		params, err = config.Load(analyzeParamsPath)
		if err != nil {
			return fmt.Errorf("failed to load params: %w", err)
		}
	}
	if analyzeTimeframe != "" {
		if _, ok := temporal.ParseTimeframe(analyzeTimeframe); !ok {
			return fmt.Errorf("unknown timeframe %q", analyzeTimeframe)
		}
		params.Timeframe = analyzeTimeframe
	}

	rep, err := processor.Run(ctx, bundle, params)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	var buf []byte
	if analyzeCompact {
		buf, err = json.Marshal(rep)
	} else {
		buf, err = json.MarshalIndent(rep, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	buf = append(buf, '\n')

	if analyzeOut == "" {
		_, err = cmd.OutOrStdout().Write(buf)
		return err
	}
	if err := os.WriteFile(analyzeOut, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", analyzeOut)
	return nil
}

// loadBundle gathers input rows from the workbook when one is named,
// otherwise from whichever per-collection CSV files were passed.
func loadBundle() (*types.Bundle, error) {
	if analyzeWorkbook != "" {
		bundle, _, err := dataset.LoadWorkbook(analyzeWorkbook)
		if err != nil {
			return nil, fmt.Errorf("failed to load workbook: %w", err)
		}
		return bundle, nil
	}

	bundle := &types.Bundle{}
	sources := []struct {
		path string
		dst  *[]types.Record
	}{
		{analyzeTrips, &bundle.Trips},
		{analyzeQuotes, &bundle.Quotes},
		{analyzePassthroughs, &bundle.Passthroughs},
		{analyzeHotPasses, &bundle.HotPasses},
		{analyzeBookings, &bundle.Bookings},
		{analyzeNonConverted, &bundle.NonConverted},
	}
	loaded := 0
	for _, src := range sources {
		if src.path == "" {
			continue
		}
		rows, err := dataset.LoadCSV(src.path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", src.path, err)
		}
		*src.dst = rows
		loaded++
	}
	if loaded == 0 {
		return nil, fmt.Errorf("no input: pass --workbook or at least one collection CSV")
	}
	return bundle, nil
}
