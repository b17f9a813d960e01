package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrKriegler/go-renewals/internal/core"
)

func TemplateCmd() *cobra.Command {
	var records string
	var ledger bool
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the enrichment CSV template for a records file",
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(records, ledger)
			if err != nil {
				return err
			}
			return core.WriteEnrichmentTemplate(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().StringVarP(&records, "records", "r", "", "JSON file of records")
	cmd.Flags().BoolVar(&ledger, "ledger", false, "Records file holds ledger policies with wei amounts")
	_ = cmd.MarkFlagRequired("records")
	return cmd
}
