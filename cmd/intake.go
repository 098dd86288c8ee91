package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/lifehealth/dietcli/internal/models"
	"github.com/lifehealth/dietcli/internal/output"
	"github.com/lifehealth/dietcli/internal/validate"
	"github.com/spf13/cobra"
)

var intakeCmd = &cobra.Command{
	Use:     "intake",
	Short:   "Manage the diet and fitness intake profile",
	GroupID: "plan",
}

var intakeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()
		if !app.requireSession("intake show") {
			return nil
		}

		in, err := app.API.Intake()
		if err != nil {
			output.Error("intake: %v", err)
			return err
		}
		if in == nil {
			fmt.Println("No intake on file. Run 'diet intake edit' to create one.")
			return nil
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(in)
		}

		output.Title("Intake")
		fmt.Printf("Name:        %s (%d, %s)\n", in.Name, in.Age, in.Sex)
		fmt.Printf("Body:        %.0f in, %.0f lb\n", in.HeightIn, in.WeightLb)
		if in.Diabetic {
			fmt.Println("Diabetic:    yes")
		}
		if in.Conditions != "" {
			fmt.Printf("Conditions:  %s\n", in.Conditions)
		}
		if in.Meds != "" {
			fmt.Printf("Meds:        %s\n", in.Meds)
		}
		fmt.Printf("Goals:       %s\n", in.Goals)
		fmt.Printf("Meals/day:   %d\n", in.MealsPerDay)
		fmt.Printf("Workouts:    %d days/week, %d min\n", in.WorkoutDaysPerWeek, in.WorkoutSessionMin)
		if in.Gym != "" {
			fmt.Printf("Gym:         %s\n", in.Gym)
		}
		return nil
	},
}

// intakeForm collects the profile interactively. Numeric fields are edited as
// strings and converted on accept, so partial input never panics.
func intakeForm(in *models.Intake) error {
	age := numField(in.Age)
	height := floatField(in.HeightIn)
	weight := floatField(in.WeightLb)
	meals := numField(in.MealsPerDay)
	workoutDays := numField(in.WorkoutDaysPerWeek)
	sessionMin := numField(in.WorkoutSessionMin)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&in.Name).
				Validate(func(s string) error { return validate.Required("name", s) }),
			huh.NewInput().Title("Age").Value(&age).
				Validate(intRangeValidator("age", 13, 120)),
			huh.NewSelect[string]().Title("Sex").
				Options(huh.NewOptions("female", "male", "other")...).
				Value(&in.Sex),
			huh.NewInput().Title("Height (in)").Value(&height),
			huh.NewInput().Title("Weight (lb)").Value(&weight),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Diabetic?").Value(&in.Diabetic),
			huh.NewInput().Title("Conditions").Value(&in.Conditions),
			huh.NewInput().Title("Medications").Value(&in.Meds),
			huh.NewText().Title("Goals").
				Description("e.g. \"lose 20 lb in 12 weeks\"").
				Value(&in.Goals),
		),
		huh.NewGroup(
			huh.NewInput().Title("Meals per day").Value(&meals).
				Validate(intRangeValidator("meals per day", 1, 8)),
			huh.NewInput().Title("Workout days per week").Value(&workoutDays).
				Validate(intRangeValidator("workout days", 0, 7)),
			huh.NewInput().Title("Minutes per session").Value(&sessionMin),
			huh.NewInput().Title("Gym").Value(&in.Gym),
			huh.NewInput().Title("ZIP code").Value(&in.Zip),
			huh.NewText().Title("Food notes").Value(&in.FoodNotes),
			huh.NewText().Title("Workout notes").Value(&in.WorkoutNotes),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	in.Age, _ = strconv.Atoi(age)
	in.HeightIn, _ = strconv.ParseFloat(height, 64)
	in.WeightLb, _ = strconv.ParseFloat(weight, 64)
	in.MealsPerDay, _ = strconv.Atoi(meals)
	in.WorkoutDaysPerWeek, _ = strconv.Atoi(workoutDays)
	in.WorkoutSessionMin, _ = strconv.Atoi(sessionMin)
	return nil
}

func numField(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func floatField(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intRangeValidator(field string, min, max int) func(string) error {
	return func(s string) error {
		if s == "" {
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		return validate.IntRange(field, v, min, max, true)
	}
}

var intakeEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the intake interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()
		if !app.requireSession("intake edit") {
			return nil
		}

		in, err := app.API.Intake()
		if err != nil {
			output.Error("intake: %v", err)
			return err
		}
		if in == nil {
			in = &models.Intake{}
		}

		if err := intakeForm(in); err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		ok, err := confirmIntakeSave(in, yes, func() (bool, error) {
			confirm := false
			prompt := huh.NewConfirm().
				Title("Save anyway?").
				Description("Stated goals imply losing more than 2 lb per week.").
				Value(&confirm)
			if err := huh.NewForm(huh.NewGroup(prompt)).Run(); err != nil {
				return false, err
			}
			return confirm, nil
		})
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Intake not saved.")
			return nil
		}

		if err := app.API.SaveIntake(in); err != nil {
			output.Error("save intake: %v", err)
			return err
		}
		output.Success("Intake saved")
		return nil
	},
}

// confirmIntakeSave gates the save on an explicit acknowledgement when the
// stated goals are aggressive. Declining cancels the save; nothing mutates.
// ask runs only when a confirmation is actually needed.
func confirmIntakeSave(in *models.Intake, assumeYes bool, ask func() (bool, error)) (bool, error) {
	if !validate.AggressivePace(in.Goals, in.MealsPerDay) {
		return true, nil
	}
	output.Warning("Stated goals imply losing more than 2 lb per week.")
	if assumeYes {
		return true, nil
	}
	return ask()
}

var intakeRationalizeCmd = &cobra.Command{
	Use:   "rationalize",
	Short: "Run the server's safety check on the intake",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := newApp()
		defer app.Close()
		if !app.requireSession("intake rationalize") {
			return nil
		}

		rz, err := app.API.Rationalize()
		if err != nil {
			output.Error("rationalize: %v", err)
			return err
		}
		printRationalization(rz)
		return nil
	},
}

func printRationalization(rz *models.Rationalization) {
	for _, w := range rz.Warnings {
		output.Warning("%s", w)
	}
	if rz.SafetyRequired {
		output.Warning("The plan needs an explicit safety confirmation before generation.")
	} else if len(rz.Warnings) == 0 {
		output.Success("Intake looks reasonable (%d meals/day)", rz.MealsPerDay)
	}
}

func init() {
	intakeShowCmd.Flags().Bool("json", false, "Print the raw intake as JSON")
	intakeEditCmd.Flags().Bool("yes", false, "Skip the safety confirmation prompt")

	intakeCmd.AddCommand(intakeShowCmd)
	intakeCmd.AddCommand(intakeEditCmd)
	intakeCmd.AddCommand(intakeRationalizeCmd)
	rootCmd.AddCommand(intakeCmd)
}
