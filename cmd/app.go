package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/lifehealth/dietcli/internal/api"
	"github.com/lifehealth/dietcli/internal/config"
	"github.com/lifehealth/dietcli/internal/endpoint"
	"github.com/lifehealth/dietcli/internal/journal"
	"github.com/lifehealth/dietcli/internal/mirror"
	"github.com/lifehealth/dietcli/internal/session"
	"github.com/lifehealth/dietcli/internal/syncengine"
	"github.com/lifehealth/dietcli/internal/transport"
)

// Mirror keys, one per feature collection.
const (
	keyGroceries = "groceries"
	keyPlan      = "plan"
	keyWorkouts  = "workouts"
	keyWeight    = "trackers/weight"
	keyGlucose   = "trackers/glucose"
)

// App is the configuration object built once per invocation and handed to
// every command; nothing reads ambient configuration after this point.
type App struct {
	Config    *config.Config
	Creds     *config.Credentials
	Resolver  *endpoint.Resolver
	Transport *transport.Client
	API       *api.Client
	Mirror    *mirror.Store
	Engine    *syncengine.Engine
	Journal   *journal.Journal
	Session   *session.Manager
}

// newApp wires the layered configuration sources, transport, mirror store,
// sync engine and session manager. Configuration problems are never fatal;
// every fallback degrades toward the computed defaults.
func newApp() *App {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		cfg = &config.Config{}
	}
	creds, _ := config.LoadCredentials()
	app := &App{Config: cfg, Creds: creds}

	resolver := endpoint.NewResolver(endpoint.Sources{
		Override:  config.EnvBaseURL(),
		Flag:      apiFlag,
		Persisted: cfg.BaseURL,
	}, func(base string) {
		cfg.BaseURL = base
		_ = config.Save(cfg)
	})

	// Suppliers read through the App so a login during this invocation is
	// visible immediately.
	tr := transport.New(resolver, func() string {
		if app.Creds == nil {
			return ""
		}
		return app.Creds.Token
	})
	clientID := config.ClientID()
	tr.SetClientID(func() string { return clientID })
	client := api.New(tr)

	stateDir, err := config.StateDir()
	if err != nil {
		stateDir = filepath.Join(os.TempDir(), "diet-state")
	}
	store := mirror.New(stateDir)

	var jn *journal.Journal
	var rec syncengine.Recorder
	if dir, err := config.Dir(); err == nil {
		if j, err := journal.Open(dir); err == nil {
			jn = j
			rec = j
		}
	}

	app.Resolver = resolver
	app.Transport = tr
	app.API = client
	app.Mirror = store
	app.Engine = syncengine.New(rec)
	app.Journal = jn
	app.Session = session.NewManager(client)
	// Between checkpoints a bearer token's exp claim stands in for a
	// countdown the server did not send.
	app.Session.SetCountdownSeed(func() (int, bool) {
		if app.Creds == nil || app.Creds.Token == "" {
			return 0, false
		}
		rem, ok := api.TokenRemaining(app.Creds.Token, time.Now())
		if !ok {
			return 0, false
		}
		return rem, true
	})
	return app
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Journal != nil {
		a.Journal.Close()
	}
}

// requireSession gates a protected command on a liveness check. A failure
// never crashes; it reports how to get back in and remembers where the user
// was headed.
func (a *App) requireSession(next string) bool {
	a.Session.SetNext(next)
	ev := a.Session.Check()
	return ev.State != session.StateUnauthenticated
}
