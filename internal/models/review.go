package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is one user's take on one movie. The composite unique index over
// (user_id, movie_id) is the source of truth for the one-review-per-user
// rule; application-level checks are advisory only.
type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_movie"`
	MovieID    uint      `json:"movie_id" gorm:"not null;uniqueIndex:idx_reviews_user_movie"`
	TMDBID     int64     `json:"tmdb_id" gorm:"not null;index"`
	Rating     int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	ReviewText string    `json:"review_text" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	User  User  `json:"user,omitempty"`
	Movie Movie `json:"movie,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
