package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sales-insights-go/internal/config"
)

var (
	initOut   string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a parameter file with the default settings",
	Long: `Init writes a YAML parameter file holding the default analysis settings,
ready to edit and pass back with 'analyze --params'.`,
	RunE: runInitParams,
}

func init() {
	initCmd.Flags().StringVarP(&initOut, "out", "o", "params.yaml", "Where to write the parameter file")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
}

func runInitParams(cmd *cobra.Command, args []string) error {
	if !initForce {
		if _, err := os.Stat(initOut); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", initOut)
		}
	}
	if err := config.Default().Save(initOut); err != nil {
		return fmt.Errorf("failed to write params: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "default parameters written to %s\n", initOut)
	return nil
}
