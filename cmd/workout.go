package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lifehealth/dietcli/internal/models"
	"github.com/lifehealth/dietcli/internal/output"
	"github.com/lifehealth/dietcli/internal/syncengine"
	"github.com/spf13/cobra"
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"workouts", "w"},
	Short:   "Browse and track workout sessions",
	GroupID: "track",
}

func loadWorkouts(app *App) []models.Workout {
	workouts := []models.Workout{}
	app.Mirror.Load(keyWorkouts, &workouts)
	return workouts
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the mirrored workout sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		workouts := loadWorkouts(app)
		if len(workouts) == 0 {
			fmt.Println("No workouts mirrored. Run 'diet workout pull' or 'diet workout generate'.")
			return nil
		}
		for _, w := range workouts {
			title := w.Title
			if title == "" {
				title = "Session"
			}
			output.Title(fmt.Sprintf("%s  %s", w.Date, title))
			for _, ex := range w.Exercises {
				detail := ""
				if ex.Sets > 0 {
					detail = fmt.Sprintf("%dx%d", ex.Sets, ex.Reps)
					if ex.RestSec > 0 {
						detail += fmt.Sprintf(", %ds rest", ex.RestSec)
					}
				}
				fmt.Printf("  %s %-8d %-28s %s\n",
					output.Checkbox(ex.Complete), ex.ID, ex.Name, detail)
			}
		}
		return nil
	},
}

var workoutPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local sessions with the server's",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		days, _ := cmd.Flags().GetInt("days")
		start := time.Now().Format("2006-01-02")
		end := time.Now().AddDate(0, 0, days-1).Format("2006-01-02")

		out := app.Engine.Resync(keyWorkouts, "pull", nil, func() error {
			fetched, err := app.API.Workouts(start, end)
			if err != nil {
				return err
			}
			app.Mirror.Save(keyWorkouts, fetched)
			return nil
		})
		report(out)
		return nil
	},
}

var workoutGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a workout plan, then re-sync the mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()
		if !app.requireSession("workout generate") {
			return nil
		}

		days, _ := cmd.Flags().GetInt("days")
		persist, _ := cmd.Flags().GetBool("persist")

		start := time.Now().Format("2006-01-02")
		end := time.Now().AddDate(0, 0, days-1).Format("2006-01-02")

		out := app.Engine.Resync(keyWorkouts, "generate",
			func() error { return app.API.GenerateWorkouts(days, persist) },
			func() error {
				fetched, err := app.API.Workouts(start, end)
				if err != nil {
					return err
				}
				app.Mirror.Save(keyWorkouts, fetched)
				return nil
			},
		)
		report(out)
		return nil
	},
}

var workoutDoneCmd = &cobra.Command{
	Use:   "done <exercise-id>",
	Short: "Toggle completion of an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad exercise id %q", args[0])
		}

		workouts := loadWorkouts(app)
		wi, ei := -1, -1
		for i := range workouts {
			for j := range workouts[i].Exercises {
				if workouts[i].Exercises[j].ID == id {
					wi, ei = i, j
				}
			}
		}
		if wi < 0 {
			output.Error("no exercise with id %d; try 'diet workout pull'", id)
			return fmt.Errorf("not found")
		}
		next := !workouts[wi].Exercises[ei].Complete

		out := app.Engine.Mutate(syncengine.Mutation{
			Feature:  keyWorkouts,
			EntityID: args[0],
			Action:   "done",
			Apply:    func() { workouts[wi].Exercises[ei].Complete = next },
			Persist:  func() { app.Mirror.Save(keyWorkouts, workouts) },
			Push:     func() error { return app.API.UpdateExercise(id, next) },
		})
		report(out)
		return nil
	},
}

func init() {
	workoutPullCmd.Flags().Int("days", 7, "Window length in days")
	workoutGenerateCmd.Flags().Int("days", 7, "Plan length in days")
	workoutGenerateCmd.Flags().Bool("persist", true, "Save the sessions server-side")

	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutPullCmd)
	workoutCmd.AddCommand(workoutGenerateCmd)
	workoutCmd.AddCommand(workoutDoneCmd)
	rootCmd.AddCommand(workoutCmd)
}
