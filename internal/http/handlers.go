package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zerethyily52/Eco-Unity/internal/auth"
	"github.com/zerethyily52/Eco-Unity/internal/catalog"
	"github.com/zerethyily52/Eco-Unity/internal/challenges"
	"github.com/zerethyily52/Eco-Unity/internal/feed"
	"github.com/zerethyily52/Eco-Unity/internal/progress"
	"github.com/zerethyily52/Eco-Unity/internal/service"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type entityResponse struct {
	ID string `json:"id"`
}

// campaignView is a catalog campaign annotated with the caller's join state
// and, when joined, the per-campaign progress record.
type campaignView struct {
	catalog.Campaign
	IsJoined bool             `json:"isJoined"`
	Progress *catalog.Overlay `json:"progress,omitempty"`
}

type challengeView struct {
	challenges.Challenge
	Recommendations []string `json:"recommendations"`
}

// actionStat maps an activity action type onto the campaign stat field its
// amount contributes to.
var actionStat = map[string]string{
	progress.ActionTreePlanted:      catalog.StatTreesPlanted,
	progress.ActionTrashCollected:   catalog.StatTrashCollected,
	progress.ActionEcoTransport:     catalog.StatMilesWalked,
	progress.ActionEducationSession: catalog.StatStudentsImpacted,
	progress.ActionEnergySaved:      catalog.StatCO2Saved,
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password required")
		return
	}
	userID, err := a.Service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already registered")
			return
		}
		writeError(w, http.StatusBadRequest, "REGISTRATION_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entityResponse{ID: userID})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	accessToken, refreshToken, err := a.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user")
		return
	}
	user, err := a.Service.UserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// requireUser resolves the authenticated user's per-request state.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (string, *userState, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user")
		return "", nil, false
	}
	return userID, a.state(userID), true
}

func (a *API) annotate(r *http.Request, st *userState, c catalog.Campaign) campaignView {
	view := campaignView{Campaign: c}
	if st.joins.IsJoined(r.Context(), c.Title) {
		view.IsJoined = true
		if o, ok := st.ledger.Overlay(r.Context(), c.ID); ok {
			view.Progress = &o
		}
	}
	return view
}

// handleListCampaigns refreshes the derived stats and returns the landing
// selection: a shuffled sample of not-joined campaigns with every joined
// campaign appended.
func (a *API) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	a.Catalog.Rerandomize()
	all := a.Catalog.Campaigns()
	isJoined := func(title string) bool { return st.joins.IsJoined(r.Context(), title) }

	a.randMu.Lock()
	selection := catalog.LandingSelection(all, isJoined, a.Rand)
	a.randMu.Unlock()

	views := make([]campaignView, 0, len(selection))
	for _, c := range selection {
		views = append(views, a.annotate(r, st, c))
	}
	writeJSON(w, http.StatusOK, views)
}

// handleMainCampaign returns the featured campaign for a category plus up to
// four others.
func (a *API) handleMainCampaign(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	category := catalog.Category(r.URL.Query().Get("category"))
	if category == "" {
		category = catalog.TreePlanting
	}
	titleHint := r.URL.Query().Get("title")

	main, others, found := catalog.MainAndOthers(a.Catalog.Campaigns(), category, titleHint)
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No campaigns in category")
		return
	}
	otherViews := make([]campaignView, 0, len(others))
	for _, c := range others {
		otherViews = append(otherViews, a.annotate(r, st, c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"main":   a.annotate(r, st, main),
		"others": otherViews,
	})
}

func (a *API) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	c, found := a.Catalog.ByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Campaign not found")
		return
	}
	writeJSON(w, http.StatusOK, a.annotate(r, st, c))
}

func (a *API) handleJoinCampaign(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	c, found := a.Catalog.ByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Campaign not found")
		return
	}
	st.joins.Join(r.Context(), c.ID, c.Title)
	writeJSON(w, http.StatusOK, a.annotate(r, st, c))
}

func (a *API) handleLeaveCampaign(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	c, found := a.Catalog.ByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Campaign not found")
		return
	}
	st.joins.Leave(r.Context(), c.ID, c.Title)
	writeJSON(w, http.StatusOK, a.annotate(r, st, c))
}

type contributeRequest struct {
	ActionType string `json:"actionType"`
	Amount     int    `json:"amount"`
}

func (a *API) handleContribute(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	c, found := a.Catalog.ByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Campaign not found")
		return
	}
	var req contributeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	stat, known := actionStat[req.ActionType]
	if !known {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown action type")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive")
		return
	}
	if !st.joins.IsJoined(r.Context(), c.Title) {
		writeError(w, http.StatusConflict, "NOT_JOINED", "Join the campaign before contributing")
		return
	}
	st.ledger.UpdateStat(r.Context(), c.ID, stat, req.Amount)
	st.ledger.AddActivity(r.Context(), c.ID, req.ActionType, req.Amount)
	writeJSON(w, http.StatusOK, a.annotate(r, st, c))
}

// handleListChallenges generates the current challenge list and splices the
// caller's persisted progress onto it.
func (a *API) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	merged := st.ledger.MergeProgress(r.Context(), a.Challenges.Generate(r.Context()))
	views := make([]challengeView, 0, len(merged))
	for _, c := range merged {
		views = append(views, challengeView{Challenge: c, Recommendations: challenges.Recommendations(c)})
	}
	writeJSON(w, http.StatusOK, views)
}

type challengeProgressRequest struct {
	Progress int `json:"progress"`
}

func (a *API) setChallengeProgress(w http.ResponseWriter, r *http.Request, value int) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid challenge id")
		return
	}
	// Merge first so the update applies to the current generation.
	st.ledger.MergeProgress(r.Context(), a.Challenges.Generate(r.Context()))
	updated, found := st.ledger.SetChallengeProgress(r.Context(), id, value)
	if !found {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Challenge not found")
		return
	}
	writeJSON(w, http.StatusOK, challengeView{Challenge: updated, Recommendations: challenges.Recommendations(updated)})
}

func (a *API) handleChallengeProgress(w http.ResponseWriter, r *http.Request) {
	var req challengeProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a.setChallengeProgress(w, r, req.Progress)
}

func (a *API) handleChallengeReset(w http.ResponseWriter, r *http.Request) {
	a.setChallengeProgress(w, r, 0)
}

func (a *API) handleResetChallenges(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	st.ledger.ResetChallenges(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

type plantingResponse struct {
	Progress int            `json:"progress"`
	Target   int            `json:"target"`
	Phase    progress.Phase `json:"phase"`
	Applied  bool           `json:"applied"`
}

func (a *API) plantingState(r *http.Request, st *userState, applied bool) plantingResponse {
	p, target, phase := st.ledger.Planting(r.Context())
	return plantingResponse{Progress: p, Target: target, Phase: phase, Applied: applied}
}

func (a *API) handlePlantingStatus(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.plantingState(r, st, false))
}

type plantingAddRequest struct {
	Amount int `json:"amount"`
}

func (a *API) handlePlantingAdd(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	req := plantingAddRequest{Amount: 1}
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Amount must be positive")
		return
	}
	applied := st.ledger.AddPlanting(r.Context(), req.Amount)
	writeJSON(w, http.StatusOK, a.plantingState(r, st, applied))
}

func (a *API) handlePlantingReset(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	applied := st.ledger.ResetPlanting(r.Context())
	writeJSON(w, http.StatusOK, a.plantingState(r, st, applied))
}

// handleDashboardAir returns the current air quality reading with its band
// metadata, degrading to the static defaults when the feed is down.
func (a *API) handleDashboardAir(w http.ResponseWriter, r *http.Request) {
	aq := a.Feed.AirQuality(r.Context())
	if aq == nil {
		aq = &feed.AirQuality{
			AQI:         3,
			City:        "Unknown Location",
			DominantPol: "pm25",
			Pollution:   map[string]float64{},
			Status:      feed.StatusForAQI(3),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reading":         aq,
		"color":           aq.Status.Color(),
		"description":     aq.Status.Description(),
		"recommendations": aq.Status.Recommendations(),
	})
}

func (a *API) handleDashboardGlobal(w http.ResponseWriter, r *http.Request) {
	stats := a.Feed.GlobalStats()

	co2Level := stats.CO2Levels
	if co2 := a.Feed.CO2(r.Context()); co2 != nil {
		co2Level = co2.Trend
	}
	iceExtent := 12.0
	if arctic := a.Feed.Arctic(r.Context()); arctic != nil {
		iceExtent = arctic.Extent
	}
	oceanTemp := 0.8
	if ocean := a.Feed.Ocean(r.Context()); ocean != nil {
		oceanTemp = ocean.Latest
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"globalStats":  stats,
		"co2Level":     co2Level,
		"arcticIce":    iceExtent,
		"oceanWarming": oceanTemp,
	})
}

func (a *API) handleListActivities(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"activities": st.ledger.Activities(r.Context()),
		"totals":     st.ledger.CategoryTotals(r.Context()),
	})
}

func (a *API) handleUserProgress(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.ledger.Progress(r.Context()))
}

func (a *API) handleUnlockAchievement(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	unlocked := st.ledger.UnlockAchievement(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{
		"unlocked":     unlocked,
		"achievements": st.ledger.Progress(r.Context()).AchievementsUnlocked,
	})
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	_, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	bundle, err := st.ledger.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export data")
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	userID, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var bundle progress.ExportBundle
	if !decodeJSON(w, r, &bundle) {
		return
	}
	if err := st.ledger.Import(r.Context(), bundle); err != nil {
		writeError(w, http.StatusInternalServerError, "IMPORT_FAILED", "Failed to import data")
		return
	}
	a.dropState(userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (a *API) handleClearData(w http.ResponseWriter, r *http.Request) {
	userID, st, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := st.ledger.ClearAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "CLEAR_FAILED", "Failed to clear data")
		return
	}
	a.dropState(userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
