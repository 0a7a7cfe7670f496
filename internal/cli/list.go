package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Lixing-Zhang/food-finder/internal/filter"
	"github.com/Lixing-Zhang/food-finder/internal/models"
	"github.com/Lixing-Zhang/food-finder/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type listOptions struct {
	search   string
	category string
	asJSON   bool
}

func newListCmd(v *viper.Viper) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items matching a search and a category",
		Long: `List prints the catalog items whose name contains the search text
(case-insensitive) and whose type matches the category, in catalog order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, v, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "q", "", "search text matched against item names")
	cmd.Flags().StringVarP(&opts.category, "category", "c", string(filter.All), "meal category")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print items as JSON")
	return cmd
}

func runList(cmd *cobra.Command, v *viper.Viper, opts *listOptions) error {
	rt, err := newRuntime(v)
	if err != nil {
		return err
	}

	s, err := rt.load(cmd.Context())
	if err != nil {
		return err
	}

	events := []session.Event{
		session.SelectCategory{Category: filter.ParseCategory(opts.category)},
		session.SetSearchText{Text: opts.search},
	}
	for _, ev := range events {
		if s, err = s.Update(rt.engine, ev); err != nil {
			return err
		}
	}

	if opts.asJSON {
		return writeItemsJSON(cmd.OutOrStdout(), s.Visible)
	}
	return writeItemsTable(cmd.OutOrStdout(), s.Visible)
}

func writeItemsJSON(w io.Writer, items []models.FoodItem) error {
	if items == nil {
		items = []models.FoodItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeItemsTable(w io.Writer, items []models.FoodItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No matching items")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tPRICE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Name, item.Type, priceText(item))
	}
	return tw.Flush()
}

// priceText renders the pass-through price: numbers with two decimals,
// strings as they are, anything else verbatim
func priceText(item models.FoodItem) string {
	raw, ok := item.Attribute("price")
	if !ok || string(raw) == "null" {
		return "-"
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	return string(raw)
}
