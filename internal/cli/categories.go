package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCategoriesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the selectable meal categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(v)
			if err != nil {
				return err
			}

			s, err := rt.load(cmd.Context())
			if err != nil {
				return err
			}

			counts := s.Dataset.TypeCounts()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tLABEL\tITEMS")
			for _, c := range rt.engine.Categories(s.Dataset) {
				n := counts[c.String()]
				if c == filter.All {
					n = s.Dataset.Len()
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c, c.Label(), n)
			}
			return tw.Flush()
		},
	}
}
