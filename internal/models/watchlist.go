package models

import (
	"time"
)

// WatchlistEntry snapshots the movie's display fields at add time so the
// list renders without a join against movies.
type WatchlistEntry struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_watchlist_user_tmdb"`
	TMDBID      int64      `json:"tmdb_id" gorm:"not null;uniqueIndex:idx_watchlist_user_tmdb"`
	Title       string     `json:"title" gorm:"not null"`
	PosterPath  string     `json:"poster_path"`
	ReleaseDate *time.Time `json:"release_date"`
	Overview    string     `json:"overview"`
	VoteAverage float64    `json:"vote_average"`
	CreatedAt   time.Time  `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}
