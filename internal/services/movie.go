package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/cinetrack/movie-review-backend/internal/models"
	"github.com/cinetrack/movie-review-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	// Placeholder titles for lazily-created movie records. Metadata is filled
	// in later from the catalog.
	PlaceholderTitleLookup = "Loading..."
	PlaceholderTitleReview = "Unknown Movie"

	DefaultPageSize = 20
	MaxPageSize     = 100

	recentReviewsLimit = 10
)

type MovieService struct {
	db   *gorm.DB
	tmdb *TMDBClient // optional, enriches placeholder records
}

func NewMovieService(db *gorm.DB, tmdb *TMDBClient) *MovieService {
	return &MovieService{db: db, tmdb: tmdb}
}

type MovieFilter struct {
	GenreID   int     `form:"genre"`
	Year      int     `form:"year"`
	MinRating float64 `form:"rating"`
	Page      int     `form:"page"`
	Limit     int     `form:"limit"`
}

func (f *MovieFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

type MovieListResponse struct {
	Movies []models.Movie `json:"movies"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Pages  int            `json:"pages"`
}

type MovieDetailResponse struct {
	Movie       models.Movie    `json:"movie"`
	Reviews     []models.Review `json:"reviews"`
	ReviewCount int             `json:"review_count"`
}

type GenreInput struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CreateMovieRequest struct {
	TMDBID       int64        `json:"tmdb_id" binding:"required"`
	Title        string       `json:"title" binding:"required"`
	Overview     string       `json:"overview"`
	ReleaseDate  string       `json:"release_date"`
	PosterPath   string       `json:"poster_path"`
	BackdropPath string       `json:"backdrop_path"`
	Genres       []GenreInput `json:"genres"`
	Runtime      int          `json:"runtime"`
	VoteAverage  float64      `json:"vote_average"`
	VoteCount    int          `json:"vote_count"`
}

// ResolveOrCreate guarantees a local record exists for the external catalog
// id. Concurrent first references race on the unique index: a duplicate-key
// error means someone else just created the row, so re-fetch it.
func (s *MovieService) ResolveOrCreate(tmdbID int64, defaultTitle string) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.Where("tmdb_id = ?", tmdbID).First(&movie).Error
	if err == nil {
		return &movie, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	movie = models.Movie{
		TMDBID:        tmdbID,
		Title:         defaultTitle,
		AverageRating: 0,
		ReviewCount:   0,
	}

	if err := s.db.Create(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Movie
			if ferr := s.db.Where("tmdb_id = ?", tmdbID).First(&existing).Error; ferr != nil {
				return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, ferr)
			}
			return &existing, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return &movie, nil
}

// GetByTMDBID returns the movie plus its most recent reviews, creating a
// placeholder record on first reference.
func (s *MovieService) GetByTMDBID(tmdbID int64) (*MovieDetailResponse, error) {
	movie, err := s.ResolveOrCreate(tmdbID, PlaceholderTitleLookup)
	if err != nil {
		return nil, err
	}

	// Fill in catalog metadata for records still carrying a placeholder
	// title. Best effort: a catalog failure never fails the lookup.
	if s.tmdb != nil && (movie.Title == PlaceholderTitleLookup || movie.Title == PlaceholderTitleReview) {
		if enriched, eerr := s.enrichFromCatalog(movie); eerr != nil {
			logger.Warnf("catalog enrichment failed for tmdb_id=%d: %v", tmdbID, eerr)
		} else {
			movie = enriched
		}
	}

	var reviews []models.Review
	if err := s.db.Preload("User").
		Where("tmdb_id = ?", tmdbID).
		Order("created_at DESC").
		Limit(recentReviewsLimit).
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return &MovieDetailResponse{
		Movie:       *movie,
		Reviews:     reviews,
		ReviewCount: len(reviews),
	}, nil
}

// List returns movies matching the filter, newest first.
func (s *MovieService) List(filter MovieFilter) (*MovieListResponse, error) {
	filter.Normalize()

	query := s.db.Model(&models.Movie{})

	if filter.GenreID > 0 {
		query = query.Where(
			"id IN (?)",
			s.db.Model(&models.MovieGenre{}).Select("movie_id").Where("tmdb_genre_id = ?", filter.GenreID),
		)
	}
	if filter.Year > 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("release_date >= ? AND release_date < ?", start, start.AddDate(1, 0, 0))
	}
	if filter.MinRating > 0 {
		query = query.Where("average_rating >= ?", filter.MinRating)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	var movies []models.Movie
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Genres").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return &MovieListResponse{
		Movies: movies,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
		Pages:  int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
	}, nil
}

// Create adds a fully-described movie (admin path).
func (s *MovieService) Create(req CreateMovieRequest) (*models.Movie, error) {
	movie := models.Movie{
		TMDBID:       req.TMDBID,
		Title:        req.Title,
		Overview:     req.Overview,
		PosterPath:   req.PosterPath,
		BackdropPath: req.BackdropPath,
		Runtime:      req.Runtime,
		VoteAverage:  req.VoteAverage,
		VoteCount:    req.VoteCount,
	}

	if req.ReleaseDate != "" {
		released, err := parseReleaseDate(req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid release_date", ErrValidation)
		}
		movie.ReleaseDate = &released
	}

	for _, g := range req.Genres {
		movie.Genres = append(movie.Genres, models.MovieGenre{
			TMDBGenreID: g.ID,
			Name:        g.Name,
		})
	}

	if err := s.db.Create(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMovieExists
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return &movie, nil
}

func (s *MovieService) enrichFromCatalog(movie *models.Movie) (*models.Movie, error) {
	details, err := s.tmdb.GetMovieDetails(movie.TMDBID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":         details.Title,
		"overview":      details.Overview,
		"poster_path":   details.PosterPath,
		"backdrop_path": details.BackdropPath,
		"runtime":       details.Runtime,
		"vote_average":  details.VoteAverage,
		"vote_count":    details.VoteCount,
	}
	if released, perr := parseReleaseDate(details.ReleaseDate); perr == nil {
		updates["release_date"] = released
	}

	if err := s.db.Model(movie).Updates(updates).Error; err != nil {
		return nil, err
	}

	for _, g := range details.Genres {
		s.db.Create(&models.MovieGenre{MovieID: movie.ID, TMDBGenreID: g.ID, Name: g.Name})
	}

	var refreshed models.Movie
	if err := s.db.Preload("Genres").First(&refreshed, movie.ID).Error; err != nil {
		return nil, err
	}
	return &refreshed, nil
}

func parseReleaseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
