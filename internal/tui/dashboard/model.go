// Package dashboard is the live terminal view: session header with an
// advisory countdown, the grocery list with optimistic toggles, and a
// sign-in notice when the session lapses.
package dashboard

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lifehealth/dietcli/internal/api"
	"github.com/lifehealth/dietcli/internal/mirror"
	"github.com/lifehealth/dietcli/internal/models"
	"github.com/lifehealth/dietcli/internal/session"
	"github.com/lifehealth/dietcli/internal/syncengine"
)

const groceriesKey = "groceries"

// PollInterval is how often the session liveness check runs.
const PollInterval = 60 * time.Second

// Deps are the long-lived collaborators the dashboard renders and drives.
type Deps struct {
	API     *api.Client
	Mirror  *mirror.Store
	Engine  *syncengine.Engine
	Session *session.Manager
	Server  string
}

// countdownTickMsg advances the advisory session countdown.
type countdownTickMsg time.Time

// pollTickMsg triggers a liveness check.
type pollTickMsg time.Time

// sessionMsg carries the result of a liveness check or extension.
type sessionMsg session.Event

// groceriesMsg carries a refreshed grocery list.
type groceriesMsg []models.GroceryItem

// outcomeMsg carries a finished propagation attempt. It names the entity so
// the result is merged by identity; completions arriving out of order must
// not touch other items.
type outcomeMsg struct {
	id      int64
	outcome syncengine.Outcome
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	deps Deps

	Width  int
	Height int

	ev        session.Event
	items     []models.GroceryItem
	cursor    int
	lastNote  string
	filter    textinput.Model
	filtering bool
	ShowHelp  bool
}

// NewModel creates the dashboard over already-wired collaborators.
func NewModel(deps Deps) Model {
	items := []models.GroceryItem{}
	deps.Mirror.Load(groceriesKey, &items)

	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter"
	filter.CharLimit = 40

	return Model{
		deps:   deps,
		items:  items,
		filter: filter,
		ev:     session.Event{State: deps.Session.State(), Remaining: deps.Session.Remaining()},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.checkSession(),
		m.countdownTick(),
		m.pollTick(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case countdownTickMsg:
		// Display only; expiry is decided by the next liveness check.
		m.ev = m.deps.Session.Tick()
		return m, m.countdownTick()

	case pollTickMsg:
		return m, tea.Batch(m.pollSession(), m.pollTick())

	case sessionMsg:
		m.ev = session.Event(msg)
		return m, nil

	case groceriesMsg:
		m.items = []models.GroceryItem(msg)
		m.clampCursor()
		return m, nil

	case outcomeMsg:
		m.lastNote = msg.outcome.Detail
		for i := range m.items {
			if m.items[i].ID == msg.id {
				m.items[i].Status = msg.outcome.Status
			}
		}
		m.deps.Mirror.Save(groceriesKey, m.items)
		return m, nil
	}

	// Cursor blink and similar component messages.
	if m.filtering {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter mode captures all keys until enter or esc.
	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filter.SetValue("")
			m.filter.Blur()
			m.cursor = 0
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.filtering = true
		return m, m.filter.Focus()

	case "esc":
		m.filter.SetValue("")
		m.cursor = 0
		return m, nil

	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case " ", "x":
		vis := m.visible()
		if len(vis) == 0 {
			return m, nil
		}
		// Apply and persist before the push so the checkbox flips now and
		// survives a restart; the outcome lands later, keyed by identity.
		i := vis[m.cursor]
		m.items[i].Purchased = !m.items[i].Purchased
		m.items[i].Status = ""
		m.deps.Mirror.Save(groceriesKey, m.items)
		return m, m.push(m.items[i].ID, m.items[i].Purchased)

	case "r":
		if m.ev.State == session.StateUnauthenticated {
			return m, m.checkSession()
		}
		return m, m.refreshGroceries()

	case "e":
		return m, m.extendSession()

	case "?":
		m.ShowHelp = !m.ShowHelp
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return m.renderView()
}

func (m *Model) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// visible returns the item indices matching the active filter.
func (m Model) visible() []int {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	idx := make([]int, 0, len(m.items))
	for i, it := range m.items {
		if needle == "" || strings.Contains(strings.ToLower(it.Name), needle) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m Model) countdownTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return countdownTickMsg(t)
	})
}

func (m Model) pollTick() tea.Cmd {
	return tea.Tick(PollInterval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func (m Model) checkSession() tea.Cmd {
	return func() tea.Msg {
		return sessionMsg(m.deps.Session.Check())
	}
}

func (m Model) pollSession() tea.Cmd {
	return func() tea.Msg {
		return sessionMsg(m.deps.Session.Poll())
	}
}

func (m Model) extendSession() tea.Cmd {
	return func() tea.Msg {
		return sessionMsg(m.deps.Session.Extend())
	}
}

func (m Model) refreshGroceries() tea.Cmd {
	return func() tea.Msg {
		fetched, err := m.deps.API.Groceries()
		if err != nil {
			// Keep showing the mirror.
			return groceriesMsg(m.items)
		}
		m.deps.Mirror.Save(groceriesKey, fetched)
		return groceriesMsg(fetched)
	}
}

// push propagates an already-applied toggle. The local flip happened in
// handleKey; the engine contributes the single attempt, per-entity
// serialization and outcome recording. The returned message carries only the
// entity id and outcome, never a list snapshot, so concurrent toggles cannot
// overwrite each other's state.
func (m Model) push(id int64, purchased bool) tea.Cmd {
	return func() tea.Msg {
		out := m.deps.Engine.Mutate(syncengine.Mutation{
			Feature:  groceriesKey,
			EntityID: strconv.FormatInt(id, 10),
			Action:   "toggle",
			Push:     func() error { return m.deps.API.PatchGrocery(id, purchased) },
		})
		return outcomeMsg{id: id, outcome: out}
	}
}
