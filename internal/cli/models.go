package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/digitbench/internal/config"
)

func newModelsCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the configured models with their sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tARCH\tCOEFFICIENTS\tMULTIPLICATIONS")
			for _, m := range cfg.Descriptors() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", m.Name, m.Arch, m.Arch.CoefficientCount(), m.Arch.MultiplyCount())
			}
			return w.Flush()
		},
	}
}
