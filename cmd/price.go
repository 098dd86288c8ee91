package cmd

import (
	"fmt"
	"sort"

	"github.com/lifehealth/dietcli/internal/output"
	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:     "price",
	Short:   "Estimate and assign grocery prices",
	GroupID: "plan",
}

var pricePreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show estimated prices for the open grocery list",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()
		if !app.requireSession("price preview") {
			return nil
		}

		preview, err := app.API.PricePreview()
		if err != nil {
			output.Error("price preview: %v", err)
			return err
		}
		if len(preview.Items) == 0 {
			fmt.Println("Nothing to price; the grocery list is empty.")
			return nil
		}

		output.Title("Estimated prices")
		fmt.Printf("%-24s %-14s %8s %10s %10s\n", "Item", "Store", "Qty", "Unit", "Total")
		for _, it := range preview.Items {
			qty := "?"
			if q, ok := it.DerivedQuantity(); ok {
				qty = fmt.Sprintf("%.2g", q)
			}
			fmt.Printf("%-24s %-14s %8s %10s %10s\n",
				it.Name, it.SuggestedStore, qty,
				output.Money(it.UnitPrice), output.Money(it.TotalPrice))
		}

		// Per-store totals come from the server; sorted for stable output.
		stores := make([]string, 0, len(preview.Totals))
		for store := range preview.Totals {
			stores = append(stores, store)
		}
		sort.Strings(stores)
		fmt.Println()
		for _, store := range stores {
			fmt.Printf("%-24s %s\n", store, output.Money(preview.Totals[store]))
		}
		output.Title(fmt.Sprintf("%-24s %s", "Grand total", output.Money(preview.GrandTotal)))
		return nil
	},
}

var priceAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Persist the previewed prices onto the grocery items",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()
		if !app.requireSession("price assign") {
			return nil
		}

		result, err := app.API.PriceAssign()
		if err != nil {
			output.Error("price assign: %v", err)
			return err
		}
		output.Success("Assigned prices to %d items", result.Updated)
		if result.Persist.Backend != "" {
			where := result.Persist.Backend
			if result.Persist.Path != "" {
				where += " (" + result.Persist.Path + ")"
			}
			output.Subtle("Persisted via %s", where)
		}
		return nil
	},
}

func init() {
	priceCmd.AddCommand(pricePreviewCmd)
	priceCmd.AddCommand(priceAssignCmd)
	rootCmd.AddCommand(priceCmd)
}
