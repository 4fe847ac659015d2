package handlers

import (
	"strconv"

	"github.com/cinetrack/movie-review-backend/internal/services"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	movieService *services.MovieService
}

func NewMovieHandler(movieService *services.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// GetMovies handles GET /movies with genre/year/rating filters.
func (h *MovieHandler) GetMovies(c *gin.Context) {
	var filter services.MovieFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid filter parameters")
		return
	}

	movies, err := h.movieService.List(filter)
	if err != nil {
		respondError(c, "Failed to fetch movies", err)
		return
	}

	utils.SendSuccess(c, "Movies retrieved successfully", movies)
}

// GetMovie handles GET /movies/:tmdb_id. An unseen id gets a placeholder
// record created on the fly.
func (h *MovieHandler) GetMovie(c *gin.Context) {
	tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "Invalid movie ID")
		return
	}

	detail, err := h.movieService.GetByTMDBID(tmdbID)
	if err != nil {
		respondError(c, "Failed to fetch movie", err)
		return
	}

	utils.SendSuccess(c, "Movie retrieved successfully", detail)
}

// CreateMovie handles POST /movies (admin only).
func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req services.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	movie, err := h.movieService.Create(req)
	if err != nil {
		respondError(c, "Failed to create movie", err)
		return
	}

	utils.SendCreated(c, "Movie created successfully", movie)
}
