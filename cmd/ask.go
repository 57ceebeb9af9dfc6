package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askInput inputFlags

var askCmd = &cobra.Command{
	Use:   "ask <file> <question...>",
	Short: "Answer a plain-language question about a dataset",
	Example: `  glance ask sales.csv "what stands out?"
  glance ask sales.csv explain revenue`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args[1:], " "))
		if question == "" {
			return fmt.Errorf("question is empty")
		}
		rep, err := buildReport(cmd, &askInput, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rep.Ask(question))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askInput.register(askCmd)
}
