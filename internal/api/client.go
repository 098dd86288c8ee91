// Package api is the typed client for the planner backend. Request and
// response shapes mirror the server's routes; transport concerns (error
// normalization, credentials) live in internal/transport.
package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/lifehealth/dietcli/internal/models"
	"github.com/lifehealth/dietcli/internal/transport"
)

// HealthCandidates are the liveness probe paths, tried in this fixed order
// until one responds.
var HealthCandidates = []string{
	"/api/v1/status",
	"/api/v1/health",
	"/health",
	"/status",
	"/openapi.json",
}

// Client wraps the transport with the planner's routes.
type Client struct {
	t *transport.Client
}

// New creates a client over t.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// --- Health ---

// HealthResult is the first candidate probe that answered.
type HealthResult struct {
	Path string
	Body []byte
}

// Health probes the candidate endpoints in order and returns the first that
// responds. All candidates failing is the only error case.
func (c *Client) Health() (*HealthResult, error) {
	var lastErr error
	for _, p := range HealthCandidates {
		body, err := c.t.Request(p, transport.Options{})
		if err == nil {
			return &HealthResult{Path: p, Body: body}, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no health endpoint responded: %w", lastErr)
}

// --- Intake ---

// Intake fetches the stored intake, nil when none exists yet.
func (c *Client) Intake() (*models.Intake, error) {
	var in *models.Intake
	if err := c.t.GetJSON("/api/v1/intake", &in); err != nil {
		return nil, err
	}
	return in, nil
}

// SaveIntake upserts the intake.
func (c *Client) SaveIntake(in *models.Intake) error {
	return c.t.PostJSON("/api/v1/intake", in, nil)
}

// Rationalize asks the server to sanity-check the current intake before plan
// generation.
func (c *Client) Rationalize() (*models.Rationalization, error) {
	var rz models.Rationalization
	if err := c.t.PostJSON("/api/v1/intake/rationalize", nil, &rz); err != nil {
		return nil, err
	}
	return &rz, nil
}

// --- Plans ---

// PlanRequest is the body for plan generation.
type PlanRequest struct {
	Days           int  `json:"days"`
	Persist        bool `json:"persist"`
	IncludeRecipes bool `json:"include_recipes"`
	Confirm        bool `json:"confirm"`
}

// GeneratePlan generates (and optionally persists) a meal plan.
func (c *Client) GeneratePlan(req PlanRequest) (*models.Plan, error) {
	var plan models.Plan
	if err := c.t.PostJSON("/api/v1/plans/generate", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListPlans lists saved plan windows.
func (c *Client) ListPlans() ([]models.PlanSummary, error) {
	var plans []models.PlanSummary
	if err := c.t.GetJSON("/api/v1/plans", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetPlan fetches a saved plan by its start date.
func (c *Client) GetPlan(start string) (*models.Plan, error) {
	var plan models.Plan
	if err := c.t.GetJSON("/api/v1/plans/"+url.PathEscape(start), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// --- Groceries ---

// GroceryCreate is the body for adding an item.
type GroceryCreate struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// Groceries fetches the remote grocery list.
func (c *Client) Groceries() ([]models.GroceryItem, error) {
	var items []models.GroceryItem
	if err := c.t.GetJSON("/api/v1/groceries", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddGrocery creates an item remotely.
func (c *Client) AddGrocery(item GroceryCreate) error {
	return c.t.PostJSON("/api/v1/groceries", item, nil)
}

// PatchGrocery updates the purchased flag of one item.
func (c *Client) PatchGrocery(id int64, purchased bool) error {
	path := fmt.Sprintf("/api/v1/groceries/%d", id)
	return c.t.PatchJSON(path, map[string]bool{"purchased": purchased}, nil)
}

// SyncFromMeals triggers the server-side grocery build for a meal window.
// The parameters are explicit on the wire so the server round-trip is
// auditable: date window, whether to persist, whether to clear first.
func (c *Client) SyncFromMeals(start, end string, persist, clearExisting, seedIfEmpty bool) error {
	params := url.Values{}
	params.Set("start", start)
	params.Set("end", end)
	params.Set("persist", strconv.FormatBool(persist))
	params.Set("clear_existing", strconv.FormatBool(clearExisting))
	params.Set("seed_if_empty", strconv.FormatBool(seedIfEmpty))
	return c.t.PostJSON("/api/v1/groceries/sync_from_meals?"+params.Encode(), nil, nil)
}

// --- Pricing ---

// PriceAssignResult reports how assigned prices were persisted server-side.
type PriceAssignResult struct {
	Updated int `json:"updated"`
	Persist struct {
		Backend string `json:"backend"`
		Path    string `json:"path,omitempty"`
	} `json:"persist"`
}

// PricePreview fetches pricing estimates for the open grocery list.
func (c *Client) PricePreview() (*models.PricePreview, error) {
	var preview models.PricePreview
	if err := c.t.GetJSON("/api/v1/groceries/price_preview", &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// PriceAssign persists the previewed prices onto the grocery items.
func (c *Client) PriceAssign() (*PriceAssignResult, error) {
	var result PriceAssignResult
	if err := c.t.PostJSON("/api/v1/groceries/price_assign", struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// --- Workouts ---

// Workouts lists sessions in a date window.
func (c *Client) Workouts(start, end string) ([]models.Workout, error) {
	params := url.Values{}
	if start != "" {
		params.Set("start", start)
	}
	if end != "" {
		params.Set("end", end)
	}
	path := "/api/v1/workouts"
	if enc := params.Encode(); enc != "" {
		path += "?" + enc
	}
	var workouts []models.Workout
	if err := c.t.GetJSON(path, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// GenerateWorkouts builds a workout plan server-side.
func (c *Client) GenerateWorkouts(days int, persist bool) error {
	body := map[string]any{"days": days, "persist": persist}
	return c.t.PostJSON("/api/v1/workouts/generate", body, nil)
}

// UpdateExercise toggles completion of one exercise.
func (c *Client) UpdateExercise(id int64, complete bool) error {
	path := fmt.Sprintf("/api/v1/workouts/exercises/%d", id)
	return c.t.PatchJSON(path, map[string]bool{"complete": complete}, nil)
}

// --- Trackers ---

func trackerPath(kind string) string {
	return "/api/v1/trackers/" + kind
}

// TrackerEntries lists recent readings of one tracker kind.
func (c *Client) TrackerEntries(kind string, limit int) ([]models.TrackerEntry, error) {
	path := trackerPath(kind)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var entries []models.TrackerEntry
	if err := c.t.GetJSON(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddTrackerEntry records one reading.
func (c *Client) AddTrackerEntry(kind string, value float64, note string) error {
	body := map[string]any{"value": value}
	if note != "" {
		body["note"] = note
	}
	return c.t.PostJSON(trackerPath(kind), body, nil)
}

// --- Auth ---

// LoginResult carries the session identity and, for deployments that still
// issue one, a bearer token.
type LoginResult struct {
	Token string
	Email string
}

// Login authenticates. The session cookie (if the backend sets one) lands in
// the transport's jar; a bearer token in the body is parsed and returned for
// legacy deployments. A missing token is not a login failure.
func (c *Client) Login(email, password string) (*LoginResult, error) {
	body, err := c.t.Request("/api/v1/auth/login", transport.Options{
		Method: "POST",
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, err
	}
	result := &LoginResult{Email: email}
	if tok, err := ParseAccessToken(body); err == nil {
		result.Token = tok
	}
	return result, nil
}

// Signup registers a new account; response handling matches Login.
func (c *Client) Signup(email, password string) (*LoginResult, error) {
	body, err := c.t.Request("/api/v1/auth/signup", transport.Options{
		Method: "POST",
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, err
	}
	result := &LoginResult{Email: email}
	if tok, err := ParseAccessToken(body); err == nil {
		result.Token = tok
	}
	return result, nil
}

// Me is the session liveness check.
func (c *Client) Me() (*models.UserInfo, error) {
	var info models.UserInfo
	if err := c.t.GetJSON("/api/v1/auth/me", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Extend renews the session and returns the server's remaining seconds,
// -1 when the response does not carry one.
func (c *Client) Extend() (int, error) {
	var resp struct {
		RemainingSeconds *int `json:"remaining_seconds"`
	}
	if err := c.t.PostJSON("/api/v1/auth/extend", nil, &resp); err != nil {
		return -1, err
	}
	if resp.RemainingSeconds == nil {
		return -1, nil
	}
	return *resp.RemainingSeconds, nil
}

// Logout invalidates the session server-side.
func (c *Client) Logout() error {
	return c.t.PostJSON("/api/v1/auth/logout", nil, nil)
}
