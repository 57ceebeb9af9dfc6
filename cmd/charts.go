package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/glance-cli/internal/utils"
)

var (
	chartsInput  inputFlags
	chartsOutput string
)

var chartsCmd = &cobra.Command{
	Use:   "charts <file>",
	Short: "Print the selected chart specifications as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := buildReport(cmd, &chartsInput, args[0])
		if err != nil {
			return err
		}
		body, err := utils.PrettyJSON(rep.Charts)
		if err != nil {
			return err
		}
		body = append(body, '\n')
		if chartsOutput != "" {
			if err := utils.SafeWriteFile(chartsOutput, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d chart(s) to %s\n", len(rep.Charts), chartsOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsInput.register(chartsCmd)
	chartsCmd.Flags().StringVarP(&chartsOutput, "output", "o", "", "write the chart specs to a file")
}
