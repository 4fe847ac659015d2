package handlers

import (
	"strconv"

	"github.com/cinetrack/movie-review-backend/internal/services"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type WatchlistHandler struct {
	watchlistService *services.WatchlistService
}

func NewWatchlistHandler(watchlistService *services.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// GetWatchlist handles GET /watchlist.
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	userID := c.GetUint("user_id")

	entries, err := h.watchlistService.List(userID)
	if err != nil {
		respondError(c, "Failed to fetch watchlist", err)
		return
	}

	utils.SendSuccess(c, "Watchlist retrieved successfully", entries)
}

// AddToWatchlist handles POST /watchlist.
func (h *WatchlistHandler) AddToWatchlist(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	entry, err := h.watchlistService.Add(userID, req)
	if err != nil {
		respondError(c, "Failed to add to watchlist", err)
		return
	}

	utils.SendCreated(c, "Movie added to watchlist", entry)
}

// RemoveFromWatchlist handles DELETE /watchlist/:tmdb_id.
func (h *WatchlistHandler) RemoveFromWatchlist(c *gin.Context) {
	userID := c.GetUint("user_id")

	tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid movie ID")
		return
	}

	if err := h.watchlistService.Remove(userID, tmdbID); err != nil {
		respondError(c, "Failed to remove from watchlist", err)
		return
	}

	utils.SendSuccess(c, "Movie removed from watchlist", nil)
}
