package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-normalizer/internal/models"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List supported bank formats and their effective settings",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s %-6s %-9s %s\n", "FORMAT", "KIND", "CURRENCY", "CHARSET")
		for _, f := range models.Formats {
			kind := "csv"
			charset := cfg.For(f).Charset
			if f.IsXML() {
				kind = "xml"
				charset = "declared"
			}
			fmt.Fprintf(out, "%-20s %-6s %-9s %s\n", f, kind, cfg.For(f).Currency, charset)
		}
	},
}

func init() {
	rootCmd.AddCommand(banksCmd)
}
