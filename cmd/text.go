package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michaelloftdk/rejsekort-parser/internal/pdftext"
	"github.com/michaelloftdk/rejsekort-parser/internal/receipt"
)

// textCmd prints what the parser sees. Useful when a receipt yields
// unexpected results.
var textCmd = &cobra.Command{
	Use:   "text <file.pdf>",
	Short: "Print the normalized text extracted from a receipt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := pdftext.ExtractFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), receipt.Normalize(text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(textCmd)
}
