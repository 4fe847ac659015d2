package services

import (
	"errors"
	"fmt"

	"github.com/cinetrack/movie-review-backend/internal/models"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/cinetrack/movie-review-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewService owns the reviews table and the one-review-per-(user, movie)
// invariant. Every successful create or delete triggers a synchronous
// summary recompute for the affected movie before the call returns.
type ReviewService struct {
	db     *gorm.DB
	movies *MovieService
	rating *RatingService
}

func NewReviewService(db *gorm.DB, movies *MovieService, rating *RatingService) *ReviewService {
	return &ReviewService{db: db, movies: movies, rating: rating}
}

type SubmitReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type ReviewListResponse struct {
	Reviews []models.Review `json:"reviews"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Pages   int             `json:"pages"`
}

// Submit validates the payload, resolves the movie record and inserts the
// review. A pre-check gives the common duplicate case a clean answer, but
// two racing submissions are decided by the unique index: the loser's
// duplicate-key error is translated, never leaked.
func (s *ReviewService) Submit(userID uint, tmdbID int64, req SubmitReviewRequest) (*models.Review, error) {
	if !utils.IsValidRating(req.Rating) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if !utils.IsValidReviewText(req.ReviewText) {
		return nil, fmt.Errorf("%w: review text must be non-empty and at most %d characters",
			ErrValidation, utils.MaxReviewTextLength)
	}

	movie, err := s.movies.ResolveOrCreate(tmdbID, PlaceholderTitleReview)
	if err != nil {
		return nil, err
	}

	var existing models.Review
	err = s.db.Where("user_id = ? AND movie_id = ?", userID, movie.ID).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateReview
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	review := models.Review{
		UserID:     userID,
		MovieID:    movie.ID,
		TMDBID:     tmdbID,
		Rating:     req.Rating,
		ReviewText: utils.SanitizeString(req.ReviewText),
	}

	if err := s.db.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	s.recomputeSummary(movie.ID)

	if err := s.db.Preload("User").Preload("Movie").First(&review, "id = ?", review.ID).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return &review, nil
}

// Delete removes the caller's own review and recomputes the movie summary.
func (s *ReviewService) Delete(reviewID uuid.UUID, requestingUserID uint) error {
	var review models.Review
	if err := s.db.First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	if review.UserID != requestingUserID {
		return ErrForbidden
	}

	if err := s.db.Delete(&models.Review{}, "id = ?", reviewID).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	s.recomputeSummary(review.MovieID)

	return nil
}

// ListByMovie returns a movie's reviews, newest first.
func (s *ReviewService) ListByMovie(tmdbID int64, page, limit int) (*ReviewListResponse, error) {
	return s.list(s.db.Where("tmdb_id = ?", tmdbID), page, limit, "User")
}

// ListByUser returns one user's reviews, newest first.
func (s *ReviewService) ListByUser(userID uint, page, limit int) (*ReviewListResponse, error) {
	return s.list(s.db.Where("user_id = ?", userID), page, limit, "Movie")
}

// ListAll returns every review, newest first.
func (s *ReviewService) ListAll(page, limit int) (*ReviewListResponse, error) {
	return s.list(s.db, page, limit, "User", "Movie")
}

func (s *ReviewService) list(query *gorm.DB, page, limit int, preloads ...string) (*ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	// New session so the condition chain can back both the count and the
	// page query.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Model(&models.Review{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	listQuery := query.Model(&models.Review{})
	for _, preload := range preloads {
		listQuery = listQuery.Preload(preload)
	}

	var reviews []models.Review
	if err := listQuery.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return &ReviewListResponse{
		Reviews: reviews,
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// recomputeSummary runs the aggregator for a committed review write. A
// failure here leaves the summary stale but the review data intact; the next
// review event for the movie heals it, so the write is still reported as
// successful.
func (s *ReviewService) recomputeSummary(movieID uint) {
	if err := s.rating.Recompute(movieID); err != nil {
		logger.Warnf("rating recompute failed for movie_id=%d (summary stale until next review event): %v", movieID, err)
	}
}
