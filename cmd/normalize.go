package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"dietpix/services/normalizer"

	"github.com/spf13/cobra"
)

var normalizeIndent bool

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize a raw AI diet response into a diet plan",
	Long:  "Reads a raw AI diet response from file (or stdin when omitted) and prints the normalized plan as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			in = f
		}
		raw, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		plan := normalizer.ParseDietResponse(string(raw))
		enc := json.NewEncoder(cmd.OutOrStdout())
		if normalizeIndent {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(plan); err != nil {
			return err
		}
		if normalizer.IsErrorPlan(plan) {
			return fmt.Errorf("input is not a usable diet response")
		}
		return nil
	},
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeIndent, "pretty", true, "Indent the JSON output")
	rootCmd.AddCommand(normalizeCmd)
}
