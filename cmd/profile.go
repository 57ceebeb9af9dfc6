package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/glance-cli/internal/report"
	"github.com/KaramelBytes/glance-cli/internal/utils"
)

var (
	profInput  inputFlags
	profFormat string
	profOutput string
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a CSV/TSV/XLSX file: schema, KPIs, charts and insights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := buildReport(cmd, &profInput, args[0])
		if err != nil {
			return err
		}
		kind := profFormat
		if kind == "" {
			kind = currentConfig().Format
		}
		out, err := rep.Render(kind)
		if err != nil {
			return err
		}
		if profOutput != "" {
			if err := utils.SafeWriteFile(profOutput, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s report to %s\n", kind, profOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// buildReport reads path with the given flags and runs the pipeline.
func buildReport(cmd *cobra.Command, in *inputFlags, path string) (*report.Report, error) {
	t, err := in.readTable(path)
	if err != nil {
		return nil, err
	}
	if len(t.Rows) == 0 {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s has a header but no data rows\n", t.Name)
	}
	return report.Analyze(cmd.Context(), t, t.Meta(), currentConfig().Heuristics)
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profInput.register(profileCmd)
	profileCmd.Flags().StringVarP(&profFormat, "format", "f", "", "report format: markdown | html | json | yaml (default from config)")
	profileCmd.Flags().StringVarP(&profOutput, "output", "o", "", "write the report to a file instead of stdout")
}
