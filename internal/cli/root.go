package cli

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "salesinsights",
	Short: "Sales funnel analytics for travel enquiries",
	Long: `Salesinsights analyzes travel-sales activity data and reports conversion
rates, trend fits, segment performance, agent deviations, actionable
recommendations, and quartile cohort comparisons across the
enquiry-to-booking funnel.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
