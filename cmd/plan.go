package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/lifehealth/dietcli/internal/api"
	"github.com/lifehealth/dietcli/internal/models"
	"github.com/lifehealth/dietcli/internal/output"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:     "plan",
	Short:   "Generate and browse meal plans",
	GroupID: "plan",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a meal plan from the intake",
	Long: `Generate a meal plan. The intake is rationalized first; if the server
flags the goals as needing a safety confirmation, generation proceeds only
after an explicit yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()
		if !app.requireSession("plan generate") {
			return nil
		}

		days, _ := cmd.Flags().GetInt("days")
		recipes, _ := cmd.Flags().GetBool("recipes")
		persist, _ := cmd.Flags().GetBool("persist")
		yes, _ := cmd.Flags().GetBool("yes")

		rz, err := app.API.Rationalize()
		if err != nil {
			output.Error("rationalize: %v", err)
			return err
		}
		printRationalization(rz)

		confirm := false
		if rz.SafetyRequired {
			if yes {
				confirm = true
			} else {
				prompt := huh.NewConfirm().
					Title("Generate anyway?").
					Description("The stated goals were flagged as aggressive.").
					Value(&confirm)
				if err := huh.NewForm(huh.NewGroup(prompt)).Run(); err != nil {
					return err
				}
			}
			if !confirm {
				fmt.Println("Plan generation cancelled.")
				return nil
			}
		}

		plan, err := app.API.GeneratePlan(api.PlanRequest{
			Days:           days,
			Persist:        persist,
			IncludeRecipes: recipes,
			Confirm:        confirm,
		})
		if err != nil {
			output.Error("generate plan: %v", err)
			return err
		}

		app.Mirror.Save(keyPlan, plan)
		printPlan(plan, recipes)
		if w := plan.PlanWindow(); w != nil && persist {
			output.Subtle("Saved plan %s..%s", w.Start, w.End)
		}
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved plan windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()
		if !app.requireSession("plan list") {
			return nil
		}

		plans, err := app.API.ListPlans()
		if err != nil {
			output.Error("list plans: %v", err)
			return err
		}
		if len(plans) == 0 {
			fmt.Println("No saved plans. Run 'diet plan generate --persist'.")
			return nil
		}
		for _, p := range plans {
			fmt.Printf("%s..%s  (%d days)\n", p.Start, p.End, p.Days)
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show [start-date]",
	Short: "Show a plan (the local mirror when no date is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		recipes, _ := cmd.Flags().GetBool("recipes")

		var plan *models.Plan
		if len(args) == 1 {
			if !app.requireSession("plan show") {
				return nil
			}
			fetched, err := app.API.GetPlan(args[0])
			if err != nil {
				output.Error("get plan: %v", err)
				return err
			}
			plan = fetched
			app.Mirror.Save(keyPlan, plan)
		} else {
			var mirrored models.Plan
			if !app.Mirror.Load(keyPlan, &mirrored) {
				fmt.Println("No mirrored plan. Generate one or name a start date.")
				return nil
			}
			plan = &mirrored
		}

		printPlan(plan, recipes)
		return nil
	},
}

var planGroceriesCmd = &cobra.Command{
	Use:   "groceries",
	Short: "Build the grocery list for the mirrored plan's window",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		var plan models.Plan
		if !app.Mirror.Load(keyPlan, &plan) {
			fmt.Println("No mirrored plan. Run 'diet plan generate' first.")
			return nil
		}
		w := plan.PlanWindow()
		if w == nil {
			fmt.Println("The mirrored plan has no dates.")
			return nil
		}
		replace, _ := cmd.Flags().GetBool("replace")
		fmt.Printf("Building groceries for plan %s..%s\n", w.Start, w.End)

		out := app.Engine.Resync(keyGroceries, "build",
			func() error {
				return app.API.SyncFromMeals(w.Start, w.End, true, replace, false)
			},
			func() error {
				fetched, err := app.API.Groceries()
				if err != nil {
					return err
				}
				app.Mirror.Save(keyGroceries, fetched)
				return nil
			},
		)
		report(out)
		return nil
	},
}

// printPlan renders the day-by-day table; withRecipes additionally renders
// each meal's ingredients and steps as markdown.
func printPlan(plan *models.Plan, withRecipes bool) {
	if plan == nil || len(plan.Days) == 0 {
		fmt.Println("Empty plan.")
		return
	}
	if w := plan.PlanWindow(); w != nil {
		output.Title(fmt.Sprintf("Meal plan %s..%s", w.Start, w.End))
	}
	for _, day := range plan.Days {
		fmt.Println()
		output.Title(day.Date)
		for _, meal := range day.Meals {
			line := fmt.Sprintf("  %-10s %s", meal.Time, meal.Title)
			if meal.Carbs != nil {
				line += fmt.Sprintf("  (%.0fg carbs", *meal.Carbs)
				if meal.Kcal != nil {
					line += fmt.Sprintf(", %d kcal", *meal.Kcal)
				}
				line += ")"
			} else if meal.Kcal != nil {
				line += fmt.Sprintf("  (%d kcal)", *meal.Kcal)
			}
			fmt.Println(line)
		}
	}
	if withRecipes {
		fmt.Println()
		if md := planRecipes(plan); md != "" {
			rendered, err := glamour.Render(md, "auto")
			if err != nil {
				fmt.Println(md)
				return
			}
			fmt.Print(rendered)
		}
	}
}

// planRecipes collects the recipe markdown for meals that carry one.
func planRecipes(plan *models.Plan) string {
	var b strings.Builder
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			if len(meal.Ingredients) == 0 && len(meal.Steps) == 0 {
				continue
			}
			fmt.Fprintf(&b, "## %s (%s %s)\n\n", meal.Title, day.Date, meal.Time)
			if len(meal.Ingredients) > 0 {
				b.WriteString("**Ingredients**\n\n")
				for _, ing := range meal.Ingredients {
					fmt.Fprintf(&b, "- %s\n", ing)
				}
				b.WriteString("\n")
			}
			for i, step := range meal.Steps {
				fmt.Fprintf(&b, "%d. %s\n", i+1, step)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func init() {
	planGenerateCmd.Flags().Int("days", 7, "Plan length in days")
	planGenerateCmd.Flags().Bool("recipes", false, "Include full recipes")
	planGenerateCmd.Flags().Bool("persist", true, "Save the plan server-side")
	planGenerateCmd.Flags().Bool("yes", false, "Skip the safety confirmation prompt")
	planShowCmd.Flags().Bool("recipes", false, "Render recipes for each meal")
	planGroceriesCmd.Flags().Bool("replace", true, "Clear existing items first")

	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planGroceriesCmd)
	rootCmd.AddCommand(planCmd)
}
