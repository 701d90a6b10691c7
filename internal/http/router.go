// Package http is the service's HTTP surface: the router, the middleware
// stack and the handlers that glue the per-user stores to the catalog.
package http

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zerethyily52/Eco-Unity/internal/auth"
	"github.com/zerethyily52/Eco-Unity/internal/catalog"
	"github.com/zerethyily52/Eco-Unity/internal/challenges"
	"github.com/zerethyily52/Eco-Unity/internal/feed"
	"github.com/zerethyily52/Eco-Unity/internal/joinstate"
	"github.com/zerethyily52/Eco-Unity/internal/kv"
	"github.com/zerethyily52/Eco-Unity/internal/progress"
	"github.com/zerethyily52/Eco-Unity/internal/service"
)

// API carries every dependency the handlers need. Rand feeds the landing
// selection shuffle and is guarded by its own mutex; the catalog service has
// its own rand internally.
type API struct {
	Catalog    *catalog.Service
	Challenges *challenges.Generator
	Feed       *feed.Client
	Service    *service.Service
	Auth       *auth.Manager
	Store      kv.Store
	Log        *zap.Logger
	Origins    []string
	Rand       *rand.Rand

	randMu sync.Mutex

	statesMu sync.Mutex
	states   map[string]*userState
}

// userState bundles one user's stores, constructed on first request.
type userState struct {
	ledger *progress.Ledger
	joins  *joinstate.Store
}

func (a *API) state(userID string) *userState {
	a.statesMu.Lock()
	defer a.statesMu.Unlock()
	if a.states == nil {
		a.states = make(map[string]*userState)
	}
	st, ok := a.states[userID]
	if !ok {
		ledger := progress.NewLedger(a.Store, userID, a.Log)
		st = &userState{
			ledger: ledger,
			joins:  joinstate.NewStore(a.Store, userID, ledger, a.Log),
		}
		a.states[userID] = st
	}
	return st
}

// dropState discards a user's in-memory stores so the next request reloads
// from persistence. Used after import and full clear.
func (a *API) dropState(userID string) {
	a.statesMu.Lock()
	defer a.statesMu.Unlock()
	delete(a.states, userID)
}

func (a *API) Router() http.Handler {
	if a.Rand == nil {
		a.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(a.loggingMiddleware)
	r.Use(a.corsMiddleware)

	r.Get("/health", a.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.authMiddleware)
		r.Get("/me", a.handleMe)

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", a.handleListCampaigns)
			r.Get("/main", a.handleMainCampaign)
			r.Get("/{id}", a.handleGetCampaign)
			r.Post("/{id}/join", a.handleJoinCampaign)
			r.Post("/{id}/leave", a.handleLeaveCampaign)
			r.Post("/{id}/contribute", a.handleContribute)
		})

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", a.handleListChallenges)
			r.Post("/reset", a.handleResetChallenges)
			r.Post("/{id}/progress", a.handleChallengeProgress)
			r.Post("/{id}/reset", a.handleChallengeReset)
		})

		r.Route("/planting", func(r chi.Router) {
			r.Get("/progress", a.handlePlantingStatus)
			r.Post("/progress", a.handlePlantingAdd)
			r.Post("/reset", a.handlePlantingReset)
		})

		r.Get("/dashboard/air", a.handleDashboardAir)
		r.Get("/dashboard/global", a.handleDashboardGlobal)

		r.Get("/activities", a.handleListActivities)
		r.Get("/progress", a.handleUserProgress)
		r.Post("/achievements/{id}/unlock", a.handleUnlockAchievement)

		r.Get("/export", a.handleExport)
		r.Post("/import", a.handleImport)
		r.Delete("/data", a.handleClearData)
	})

	return r
}
