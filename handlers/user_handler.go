package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitTrackAPI/internal/dailystats"
	"fitTrackAPI/internal/profile"
	"fitTrackAPI/services"
)

type UserHandler struct {
	profileService *services.ProfileService
	statsService   *services.StatsService
}

func NewUserHandler(profileService *services.ProfileService, statsService *services.StatsService) *UserHandler {
	return &UserHandler{
		profileService: profileService,
		statsService:   statsService,
	}
}

// chatIDFromRequest resolves the caller's chat identity from the X-Chat-ID
// header, falling back to the chat_id query parameter.
func chatIDFromRequest(r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-Chat-ID")
	if raw == "" {
		raw = r.URL.Query().Get("chat_id")
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || chatID == 0 {
		return 0, false
	}
	return chatID, true
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	chatID, ok := chatIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Valid X-Chat-ID header or chat_id parameter is required")
		return
	}

	user, err := h.profileService.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			respondWithError(w, http.StatusNotFound, "Profile not set up")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	chatID, ok := chatIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Valid X-Chat-ID header or chat_id parameter is required")
		return
	}

	user, err := h.profileService.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			respondWithError(w, http.StatusNotFound, "Profile not set up")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	stats, err := h.statsService.GetOrCreateDaily(ctx, user.ID, time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load daily stats")
		return
	}

	respondWithJSON(w, http.StatusOK, dailystats.BuildProgress(stats))
}

func (h *UserHandler) GetTodayLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	chatID, ok := chatIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Valid X-Chat-ID header or chat_id parameter is required")
		return
	}

	user, err := h.profileService.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			respondWithError(w, http.StatusNotFound, "Profile not set up")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	entries, err := h.statsService.TodayEntries(ctx, user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load log entries")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	chatID, ok := chatIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Valid X-Chat-ID header or chat_id parameter is required")
		return
	}

	if err := h.profileService.DeleteByChatID(ctx, chatID); err != nil {
		if errors.Is(err, profile.ErrNoProfile) {
			respondWithError(w, http.StatusNotFound, "Profile not set up")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "profile deleted"})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
