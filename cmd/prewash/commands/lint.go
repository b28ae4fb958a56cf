package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-prewash/prewash/pkg/bindings"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check a bindings file for unknown cleaners and malformed refs",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("bindings")

		doc, err := bindings.FromFile(path)
		if err != nil {
			return err
		}

		errs := doc.Validate()
		for _, e := range errs {
			logError("%v", e)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d problem(s) in %s", len(errs), path)
		}

		logInfo("%s: %d binding(s), all valid", path, len(doc.Refs()))
		return nil
	},
}

func init() {
	lintCmd.Flags().StringP("bindings", "b", "", "bindings file (YAML or JSON)")
	_ = lintCmd.MarkFlagRequired("bindings")
	rootCmd.AddCommand(lintCmd)
}
