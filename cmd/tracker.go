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

var trackCmd = &cobra.Command{
	Use:     "track",
	Aliases: []string{"tracker"},
	Short:   "Record and review weight and glucose readings",
	GroupID: "track",
}

func trackerKey(kind string) string {
	if kind == "glucose" {
		return keyGlucose
	}
	return keyWeight
}

func trackerUnit(kind string) string {
	if kind == "glucose" {
		return "mg/dL"
	}
	return "lb"
}

// trackerAdd applies a reading locally and pushes it once; a failed push
// keeps the reading with a local-only marker.
func trackerAdd(app *App, kind string, value float64, note string) {
	key := trackerKey(kind)
	entries := []models.TrackerEntry{}
	app.Mirror.Load(key, &entries)

	entry := models.TrackerEntry{
		ID:    time.Now().UnixMilli(),
		At:    time.Now().Format(time.RFC3339),
		Value: value,
		Note:  note,
	}
	idx := len(entries)

	out := app.Engine.Mutate(syncengine.Mutation{
		Feature:  key,
		EntityID: strconv.FormatInt(entry.ID, 10),
		Action:   "add",
		Apply:    func() { entries = append(entries, entry) },
		Persist:  func() { app.Mirror.Save(key, entries) },
		Push:     func() error { return app.API.AddTrackerEntry(kind, value, note) },
		Reconcile: func(err error) {
			if err != nil {
				entries[idx].Status = models.SyncLocalOnly
			} else {
				entries[idx].Status = models.SyncConfirmed
			}
		},
	})
	report(out)
}

func trackerList(app *App, kind string, limit int) {
	key := trackerKey(kind)
	entries := []models.TrackerEntry{}
	app.Mirror.Load(key, &entries)

	// Freshen opportunistically; the mirror is the fallback.
	if fetched, err := app.API.TrackerEntries(kind, limit); err == nil {
		entries = fetched
		app.Mirror.Save(key, entries)
	}

	if len(entries) == 0 {
		fmt.Printf("No %s readings yet.\n", kind)
		return
	}
	unit := trackerUnit(kind)
	for _, e := range entries {
		when := e.At
		if t, err := time.Parse(time.RFC3339, e.At); err == nil {
			when = t.Format("Jan _2 15:04")
		}
		line := fmt.Sprintf("%-14s %8.1f %s", when, e.Value, unit)
		if e.Note != "" {
			line += "  " + e.Note
		}
		fmt.Printf("%s %s\n", line, output.FormatSyncStatus(e.Status))
	}
}

func newTrackerCmds(kind, short string) *cobra.Command {
	kindCmd := &cobra.Command{Use: kind, Short: short}

	addCmd := &cobra.Command{
		Use:   "add <value>",
		Short: fmt.Sprintf("Record a %s reading (%s)", kind, trackerUnit(kind)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp()
			defer app.Close()

			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil || value <= 0 {
				return fmt.Errorf("bad reading %q", args[0])
			}
			note, _ := cmd.Flags().GetString("note")
			trackerAdd(app, kind, value, note)
			return nil
		},
	}
	addCmd.Flags().String("note", "", "Optional note for the reading")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("Show recent %s readings", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp()
			defer app.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			trackerList(app, kind, limit)
			return nil
		},
	}
	listCmd.Flags().Int("limit", 30, "Maximum readings to show")

	kindCmd.AddCommand(addCmd)
	kindCmd.AddCommand(listCmd)
	return kindCmd
}

func init() {
	trackCmd.AddCommand(newTrackerCmds("weight", "Weight readings"))
	trackCmd.AddCommand(newTrackerCmds("glucose", "Blood glucose readings"))
	rootCmd.AddCommand(trackCmd)
}
