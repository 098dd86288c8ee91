package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lifehealth/dietcli/internal/api"
	"github.com/lifehealth/dietcli/internal/models"
	"github.com/lifehealth/dietcli/internal/output"
	"github.com/lifehealth/dietcli/internal/syncengine"
	"github.com/spf13/cobra"
)

var groceryCmd = &cobra.Command{
	Use:     "grocery",
	Aliases: []string{"groceries", "g"},
	Short:   "Manage the grocery list",
	GroupID: "plan",
}

// loadGroceries reads the mirrored list; an empty list is the fallback.
func loadGroceries(app *App) []models.GroceryItem {
	items := []models.GroceryItem{}
	app.Mirror.Load(keyGroceries, &items)
	return items
}

func saveGroceries(app *App, items []models.GroceryItem) {
	app.Mirror.Save(keyGroceries, items)
}

var groceryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the mirrored grocery list",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		items := loadGroceries(app)
		if len(items) == 0 {
			fmt.Println("No items yet. Add one with 'diet grocery add'.")
			return nil
		}
		for _, it := range items {
			qty := ""
			if it.Quantity > 0 {
				qty = strconv.FormatFloat(it.Quantity, 'f', -1, 64)
				if it.Unit != "" {
					qty += " " + it.Unit
				}
			}
			fmt.Printf("%s %-10d %-24s %-12s %s\n",
				output.Checkbox(it.Purchased), it.ID, it.Name, qty,
				output.FormatSyncStatus(it.Status))
		}
		return nil
	},
}

var groceryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item (applies locally, syncs opportunistically)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		qty, _ := cmd.Flags().GetFloat64("qty")
		unit, _ := cmd.Flags().GetString("unit")

		items := loadGroceries(app)
		item := models.GroceryItem{
			ID:       models.NewLocalGroceryID(time.Now()),
			Name:     args[0],
			Quantity: qty,
			Unit:     unit,
		}
		idx := len(items)

		out := app.Engine.Mutate(syncengine.Mutation{
			Feature:  keyGroceries,
			EntityID: strconv.FormatInt(item.ID, 10),
			Action:   "add",
			Apply:    func() { items = append(items, item) },
			Persist:  func() { saveGroceries(app, items) },
			Push: func() error {
				return app.API.AddGrocery(api.GroceryCreate{
					Name: item.Name, Quantity: item.Quantity, Unit: item.Unit,
				})
			},
			Reconcile: func(err error) {
				if err != nil {
					items[idx].Status = models.SyncLocalOnly
				} else {
					items[idx].Status = models.SyncConfirmed
				}
			},
		})

		report(out)
		return nil
	},
}

var groceryToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Toggle an item's purchased flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad item id %q", args[0])
		}

		items := loadGroceries(app)
		idx := -1
		for i := range items {
			if items[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			output.Error("no item with id %d", id)
			return fmt.Errorf("not found")
		}
		next := !items[idx].Purchased

		out := app.Engine.Mutate(syncengine.Mutation{
			Feature:  keyGroceries,
			EntityID: args[0],
			Action:   "toggle",
			Apply:    func() { items[idx].Purchased = next },
			Persist:  func() { saveGroceries(app, items) },
			Push:     func() error { return app.API.PatchGrocery(id, next) },
			Reconcile: func(err error) {
				if err != nil {
					items[idx].Status = models.SyncLocalOnly
				} else {
					items[idx].Status = models.SyncConfirmed
				}
			},
		})

		report(out)
		return nil
	},
}

var groceryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an item from the local list",
	Long: `Remove an item from the local mirror.

There is no delete contract with the API, so removal is a local-only
projection; the item may reappear on the next full re-sync.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad item id %q", args[0])
		}

		items := loadGroceries(app)
		out := app.Engine.Mutate(syncengine.Mutation{
			Feature:  keyGroceries,
			EntityID: args[0],
			Action:   "remove",
			Apply: func() {
				kept := items[:0]
				for _, it := range items {
					if it.ID != id {
						kept = append(kept, it)
					}
				}
				items = kept
			},
			Persist: func() { saveGroceries(app, items) },
			// No Push: removal never claims to have synchronized.
		})

		report(out)
		return nil
	},
}

var groceryPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local list with the server's",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		items := loadGroceries(app)
		out := app.Engine.Resync(keyGroceries, "pull", nil, func() error {
			fetched, err := app.API.Groceries()
			if err != nil {
				return err
			}
			items = fetched
			saveGroceries(app, items)
			return nil
		})

		report(out)
		if out.Status == models.SyncSuperseded {
			output.Subtle("%d items", len(items))
		}
		return nil
	},
}

var groceryBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the list from the meal plan window",
	Long: `Ask the server to generate groceries from the planned meals, then
replace the local mirror with the result. Generation content is not known
client-side, so this is a full re-sync rather than a per-item update.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		days, _ := cmd.Flags().GetInt("days")
		replace, _ := cmd.Flags().GetBool("replace")

		start := time.Now().Format("2006-01-02")
		end := time.Now().AddDate(0, 0, days-1).Format("2006-01-02")
		fmt.Printf("Building from meal plan %s..%s\n", start, end)

		items := loadGroceries(app)
		out := app.Engine.Resync(keyGroceries, "build",
			func() error {
				return app.API.SyncFromMeals(start, end, true, replace, false)
			},
			func() error {
				fetched, err := app.API.Groceries()
				if err != nil {
					return err
				}
				items = fetched
				saveGroceries(app, items)
				return nil
			},
		)

		report(out)
		if out.Status == models.SyncSuperseded {
			output.Subtle("Built from meal plan (%d items)", len(items))
		}
		return nil
	},
}

// report prints a sync outcome in its human-readable form.
func report(out syncengine.Outcome) {
	switch out.Status {
	case models.SyncConfirmed, models.SyncSuperseded:
		output.Success("%s", out.Detail)
	default:
		output.Warning("%s", out.Detail)
	}
}

func init() {
	groceryAddCmd.Flags().Float64("qty", 1, "Quantity")
	groceryAddCmd.Flags().String("unit", "", "Unit (ct, gallon, lb, ...)")
	groceryBuildCmd.Flags().Int("days", 7, "Days of meals to cover")
	groceryBuildCmd.Flags().Bool("replace", true, "Clear existing items first")

	groceryCmd.AddCommand(groceryListCmd)
	groceryCmd.AddCommand(groceryAddCmd)
	groceryCmd.AddCommand(groceryToggleCmd)
	groceryCmd.AddCommand(groceryRemoveCmd)
	groceryCmd.AddCommand(groceryPullCmd)
	groceryCmd.AddCommand(groceryBuildCmd)
	rootCmd.AddCommand(groceryCmd)
}
