package services

import (
	"fmt"
	"math"

	"github.com/cinetrack/movie-review-backend/internal/models"
	"gorm.io/gorm"
)

// RatingService keeps a movie's cached average_rating/review_count consistent
// with the reviews table. The summary is recomputed from the full review set
// on every review create or delete rather than adjusted incrementally, so a
// missed update heals on the next review event and repeated calls are
// idempotent.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// Recompute reads every review for the movie and writes the summary back.
// Safe to call concurrently: overlapping recomputes both read the current
// review set, so last-writer-wins still converges.
func (s *RatingService) Recompute(movieID uint) error {
	var ratings []int64
	if err := s.db.Model(&models.Review{}).
		Where("movie_id = ?", movieID).
		Pluck("rating", &ratings).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	average := 0.0
	if len(ratings) > 0 {
		var sum int64
		for _, r := range ratings {
			sum += r
		}
		average = roundHalfUp(float64(sum*10)/float64(len(ratings))) / 10
	}

	err := s.db.Model(&models.Movie{}).
		Where("id = ?", movieID).
		Updates(map[string]interface{}{
			"average_rating": average,
			"review_count":   len(ratings),
		}).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return nil
}

// roundHalfUp rounds halves away from zero; ratings are positive so this is
// half-up, not banker's rounding.
func roundHalfUp(v float64) float64 {
	return math.Round(v)
}
