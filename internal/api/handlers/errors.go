package handlers

import (
	"errors"
	"net/http"

	"github.com/cinetrack/movie-review-backend/internal/services"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// statusForError maps service errors to HTTP statuses so handlers don't
// repeat the taxonomy.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrDuplicateReview),
		errors.Is(err, services.ErrMovieExists),
		errors.Is(err, services.ErrWatchlistDuplicate):
		return http.StatusConflict
	case errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrMovieNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrWatchlistNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, message string, err error) {
	utils.SendError(c, statusForError(err), message, err)
}
