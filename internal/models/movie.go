package models

import (
	"time"
)

// Movie is the local record for an externally-catalogued film. Rows are
// created lazily the first time a TMDB id is referenced; metadata may be
// filled in later. AverageRating and ReviewCount are a cached projection of
// the reviews table, written only by the rating service.
type Movie struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	TMDBID       int64        `json:"tmdb_id" gorm:"uniqueIndex;not null"`
	Title        string       `json:"title" gorm:"not null"`
	Overview     string       `json:"overview"`
	ReleaseDate  *time.Time   `json:"release_date"`
	PosterPath   string       `json:"poster_path"`
	BackdropPath string       `json:"backdrop_path"`
	Genres       []MovieGenre `json:"genres" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Runtime      int          `json:"runtime"`
	VoteAverage  float64      `json:"vote_average"`
	VoteCount    int          `json:"vote_count"`

	AverageRating float64 `json:"average_rating" gorm:"default:0"`
	ReviewCount   int     `json:"review_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MovieGenre struct {
	ID          uint   `json:"-" gorm:"primaryKey"`
	MovieID     uint   `json:"-" gorm:"not null;index"`
	TMDBGenreID int    `json:"id"`
	Name        string `json:"name"`
}
