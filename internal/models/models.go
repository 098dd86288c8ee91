// Package models defines the data types exchanged with the planner API and
// mirrored locally.
package models

import "time"

// SyncStatus describes the outcome of the last propagation attempt for a
// mirrored entity. It is persisted alongside the entity and shown to the
// user; an attempt is never silently discarded.
type SyncStatus string

const (
	// SyncConfirmed means the remote accepted the mutation.
	SyncConfirmed SyncStatus = "synced"
	// SyncLocalOnly means the mutation is applied locally but the remote
	// was unreachable or rejected it.
	SyncLocalOnly SyncStatus = "local only"
	// SyncSuperseded means local state was replaced wholesale by a
	// re-fetch from the remote after a related mutation.
	SyncSuperseded SyncStatus = "superseded"
)

// Intake holds the user's profile and preferences.
type Intake struct {
	Name               string  `json:"name,omitempty"`
	Age                int     `json:"age,omitempty"`
	Sex                string  `json:"sex,omitempty"`
	HeightIn           float64 `json:"height_in,omitempty"`
	WeightLb           float64 `json:"weight_lb,omitempty"`
	Diabetic           bool    `json:"diabetic"`
	Conditions         string  `json:"conditions,omitempty"`
	Meds               string  `json:"meds,omitempty"`
	Goals              string  `json:"goals,omitempty"`
	Zip                string  `json:"zip,omitempty"`
	Gym                string  `json:"gym,omitempty"`
	WorkoutDaysPerWeek int     `json:"workout_days_per_week,omitempty"`
	WorkoutSessionMin  int     `json:"workout_session_min,omitempty"`
	MealsPerDay        int     `json:"meals_per_day,omitempty"`
	FoodNotes          string  `json:"food_notes,omitempty"`
	WorkoutNotes       string  `json:"workout_notes,omitempty"`
}

// Rationalization is the server's safety assessment of the current intake,
// consulted before plan generation.
type Rationalization struct {
	SafetyRequired bool     `json:"safety_required"`
	Warnings       []string `json:"warnings"`
	MealsPerDay    int      `json:"meals_per_day"`
}

// Window is an inclusive date range (YYYY-MM-DD).
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Meal is one entry of a plan day.
type Meal struct {
	Time        string   `json:"time"`
	Title       string   `json:"title"`
	Carbs       *float64 `json:"carbs,omitempty"`
	Kcal        *int     `json:"kcal,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Steps       []string `json:"steps,omitempty"`
}

// PlanDay groups the meals of a single date.
type PlanDay struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

// Plan is a generated or saved meal plan.
type Plan struct {
	Days   []PlanDay `json:"days"`
	Window *Window   `json:"window,omitempty"`
}

// PlanWindow derives the plan's date window. The server-provided window wins;
// otherwise it is computed from the day dates.
func (p *Plan) PlanWindow() *Window {
	if p == nil || len(p.Days) == 0 {
		return nil
	}
	if p.Window != nil && p.Window.Start != "" && p.Window.End != "" {
		return p.Window
	}
	start, end := "", ""
	for _, d := range p.Days {
		if d.Date == "" {
			continue
		}
		if start == "" || d.Date < start {
			start = d.Date
		}
		if end == "" || d.Date > end {
			end = d.Date
		}
	}
	if start == "" {
		return nil
	}
	return &Window{Start: start, End: end}
}

// PlanSummary is one row of the saved-plan list.
type PlanSummary struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// GroceryItem is a mirrored grocery entry. Items created while the remote is
// unreachable carry a client-assigned identity (millisecond timestamp) until
// a server re-fetch supersedes them; both identity spaces share the ID field
// and must never be merged by name alone.
type GroceryItem struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity,omitempty"`
	Unit      string     `json:"unit,omitempty"`
	Purchased bool       `json:"purchased"`
	Status    SyncStatus `json:"sync_status,omitempty"`
}

// NewLocalGroceryID returns a client-assigned identity for an item created
// before any remote identity exists.
func NewLocalGroceryID(now time.Time) int64 {
	return now.UnixMilli()
}

// PriceItem is one row of a price preview.
type PriceItem struct {
	ID             int64   `json:"id,omitempty"`
	Name           string  `json:"name"`
	SuggestedStore string  `json:"suggested_store"`
	UnitPrice      float64 `json:"unit_price"`
	TotalPrice     float64 `json:"total_price"`
}

// DerivedQuantity computes the implied quantity from the server-provided
// prices (total/unit). Returns false when the unit price is not positive.
func (it PriceItem) DerivedQuantity() (float64, bool) {
	if it.UnitPrice <= 0 {
		return 0, false
	}
	return it.TotalPrice / it.UnitPrice, true
}

// PricePreview is the server's pricing estimate for the open grocery list.
// The client trusts and displays the server aggregates; it never recomputes
// them for display.
type PricePreview struct {
	Items      []PriceItem        `json:"items"`
	Totals     map[string]float64 `json:"totals"`
	GrandTotal float64            `json:"grand_total"`
}

// CheckTotals reports whether the displayed aggregates match the item rows
// within a cent. Used by tests to catch drift between the table and the
// server-provided totals, not to correct them.
func (p *PricePreview) CheckTotals() bool {
	const eps = 0.01
	byStore := map[string]float64{}
	for _, it := range p.Items {
		byStore[it.SuggestedStore] += it.TotalPrice
	}
	sum := 0.0
	for store, total := range p.Totals {
		sum += total
		if total == 0 {
			continue
		}
		if diff := byStore[store] - total; diff > eps || diff < -eps {
			return false
		}
	}
	diff := sum - p.GrandTotal
	return diff <= eps && diff >= -eps
}

// Exercise is one tracked exercise of a workout session.
type Exercise struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Machine  string `json:"machine,omitempty"`
	Sets     int    `json:"sets,omitempty"`
	Reps     int    `json:"reps,omitempty"`
	RestSec  int    `json:"rest_sec,omitempty"`
	Complete bool   `json:"complete"`
}

// Workout is a single session with its exercises.
type Workout struct {
	ID        int64      `json:"id"`
	Date      string     `json:"date"`
	Title     string     `json:"title,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

// TrackerEntry is one weight or glucose reading.
type TrackerEntry struct {
	ID     int64      `json:"id"`
	At     string     `json:"at,omitempty"`
	Value  float64    `json:"value"`
	Note   string     `json:"note,omitempty"`
	Status SyncStatus `json:"sync_status,omitempty"`
}

// UserInfo is the response of the session liveness endpoint.
type UserInfo struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	CreatedAt        string `json:"created_at,omitempty"`
	RemainingSeconds *int   `json:"remaining_seconds,omitempty"`
}
