package services

import (
	"errors"
	"fmt"

	"github.com/cinetrack/movie-review-backend/internal/models"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"gorm.io/gorm"
)

// WatchlistService manages per-user watchlists. Entries snapshot display
// fields at add time; the (user, tmdb_id) unique index keeps each movie on a
// list at most once.
type WatchlistService struct {
	db *gorm.DB
}

func NewWatchlistService(db *gorm.DB) *WatchlistService {
	return &WatchlistService{db: db}
}

type AddWatchlistRequest struct {
	TMDBID      int64   `json:"tmdb_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
}

// List returns the user's watchlist, newest first.
func (s *WatchlistService) List(userID uint) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	return entries, nil
}

// Add puts a movie on the user's watchlist. Duplicates are rejected by the
// unique index, which also settles concurrent adds.
func (s *WatchlistService) Add(userID uint, req AddWatchlistRequest) (*models.WatchlistEntry, error) {
	entry := models.WatchlistEntry{
		UserID:      userID,
		TMDBID:      req.TMDBID,
		Title:       utils.SanitizeString(req.Title),
		PosterPath:  req.PosterPath,
		Overview:    req.Overview,
		VoteAverage: req.VoteAverage,
	}

	if req.ReleaseDate != "" {
		released, err := parseReleaseDate(req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid release_date", ErrValidation)
		}
		entry.ReleaseDate = &released
	}

	if err := s.db.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWatchlistDuplicate
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return &entry, nil
}

// Remove deletes the entry for (user, tmdbID).
func (s *WatchlistService) Remove(userID uint, tmdbID int64) error {
	result := s.db.Where("user_id = ? AND tmdb_id = ?", userID, tmdbID).
		Delete(&models.WatchlistEntry{})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWatchlistNotFound
	}
	return nil
}
