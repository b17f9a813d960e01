package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MrKriegler/go-renewals/internal/core"
)

func WeightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weights",
		Short: "Print the default factor weights as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(core.DefaultWeights())
		},
	}
}
