package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meuhoroscopo/backend/internal/auth"
	"github.com/meuhoroscopo/backend/internal/horoscope"
	"github.com/meuhoroscopo/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// horoscopeCacheControl mirrors the CDN policy for daily content: an hour
// in the browser, a day at the edge.
const horoscopeCacheControl = "public, max-age=3600, s-maxage=86400"

// Handlers holds the API handlers.
type Handlers struct {
	service  *horoscope.Service
	sessions *auth.Manager
}

// NewHandlers creates new API handlers.
func NewHandlers(service *horoscope.Service, sessions *auth.Manager) *Handlers {
	return &Handlers{service: service, sessions: sessions}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// effectiveDate resolves the ?date override, defaulting to today in São
// Paulo time. Returns "" when the override is malformed.
func (h *Handlers) effectiveDate(r *http.Request) string {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.service.Today()
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return ""
	}
	return raw
}

// ============================================================================
// CONTENT HANDLERS
// ============================================================================

// GetDaily returns the general daily horoscope for a sign, generating it
// on first request.
func (h *Handlers) GetDaily(w http.ResponseWriter, r *http.Request) {
	signo := chi.URLParam(r, "signo")

	date := h.effectiveDate(r)
	if date == "" {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.service.Daily(r.Context(), signo, date)
	if errors.Is(err, horoscope.ErrSignNotFound) {
		respondError(w, http.StatusNotFound, "Sign not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("sign", signo).Str("date", date).Msg("Daily horoscope failed")
		respondError(w, http.StatusInternalServerError, "Failed to get horoscope")
		return
	}

	w.Header().Set("Cache-Control", horoscopeCacheControl)
	respondJSON(w, http.StatusOK, result)
}

// GetCategory returns the category-specific daily horoscope for a sign.
func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	signo := chi.URLParam(r, "signo")
	categoria := chi.URLParam(r, "categoria")

	date := h.effectiveDate(r)
	if date == "" {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.service.Category(r.Context(), signo, categoria, date)
	if errors.Is(err, horoscope.ErrSignNotFound) {
		respondError(w, http.StatusNotFound, "Sign not found")
		return
	}
	if errors.Is(err, horoscope.ErrCategoryNotFound) {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("sign", signo).Str("category", categoria).Str("date", date).Msg("Category horoscope failed")
		respondError(w, http.StatusInternalServerError, "Failed to get horoscope")
		return
	}

	w.Header().Set("Cache-Control", horoscopeCacheControl)
	respondJSON(w, http.StatusOK, result)
}

// GetSigns returns the sign navigation list with today's preview text
// per sign.
func (h *Handlers) GetSigns(w http.ResponseWriter, r *http.Request) {
	date := h.effectiveDate(r)
	if date == "" {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	signs, err := h.service.SignsWithPreviews(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("Sign listing failed")
		respondError(w, http.StatusInternalServerError, "Failed to list signs")
		return
	}

	w.Header().Set("Cache-Control", horoscopeCacheControl)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"signs": signs,
		"count": len(signs),
	})
}

// GetCategories returns all horoscope categories.
func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", horoscopeCacheControl)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": models.Categories,
		"count":      len(models.Categories),
	})
}

// HealthCheck returns service health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "horoscopo",
	})
}

// ============================================================================
// SESSION + VOTE HANDLERS
// ============================================================================

// CreateAnonymousSession mints a new anonymous identity token.
func (h *Handlers) CreateAnonymousSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.IssueAnonymous()
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue anonymous session")
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	respondJSON(w, http.StatusOK, session)
}

type voteRequest struct {
	SignID        int    `json:"signId"`
	EffectiveDate string `json:"effectiveDate"`
	CategoryID    int    `json:"categoryId"`
	Rating        *bool  `json:"rating"`
}

// GetVote returns whether the caller has voted on the given horoscope.
// Callers without a session read as "not voted".
func (h *Handlers) GetVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		respondJSON(w, http.StatusOK, &horoscope.VoteStatus{})
		return
	}

	q := r.URL.Query()
	signID := parseIntParam(q.Get("signId"))
	if signID <= 0 {
		respondError(w, http.StatusBadRequest, "signId is required")
		return
	}
	categoryID := parseIntParam(q.Get("categoryId"))

	date := q.Get("effectiveDate")
	if date == "" {
		date = h.service.Today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid effectiveDate, expected YYYY-MM-DD")
		return
	}

	status, err := h.service.GetVote(r.Context(), userID, signID, date, categoryID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Int("sign", signID).Msg("Vote lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to get vote")
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// CastVote records or replaces the caller's vote.
func (h *Handlers) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Session required")
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SignID <= 0 || req.Rating == nil {
		respondError(w, http.StatusBadRequest, "signId and rating are required")
		return
	}

	date := req.EffectiveDate
	if date == "" {
		date = h.service.Today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid effectiveDate, expected YYYY-MM-DD")
		return
	}

	err := h.service.CastVote(r.Context(), userID, req.SignID, date, req.CategoryID, *req.Rating)
	if errors.Is(err, horoscope.ErrContentNotFound) || errors.Is(err, horoscope.ErrCategoryContentNotFound) {
		respondError(w, http.StatusNotFound, "Horoscope not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("user", userID).Int("sign", req.SignID).Msg("Vote failed")
		respondError(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseIntParam(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
