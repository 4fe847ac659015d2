package services

import (
	"testing"

	"github.com/cinetrack/movie-review-backend/internal/models"
)

func TestRecompute_EmptyReviewSetZeroesSummary(t *testing.T) {
	db := newTestDB(t)
	rating := NewRatingService(db)

	// Stale summary left behind by a hypothetical missed update.
	movie := models.Movie{TMDBID: 603, Title: "The Matrix", AverageRating: 4.2, ReviewCount: 7}
	if err := db.Create(&movie).Error; err != nil {
		t.Fatalf("seed movie: %v", err)
	}

	if err := rating.Recompute(movie.ID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	refreshed := fetchMovie(t, db, movie.ID)
	if refreshed.AverageRating != 0 || refreshed.ReviewCount != 0 {
		t.Fatalf("expected 0/0, got %v/%d", refreshed.AverageRating, refreshed.ReviewCount)
	}
}

func TestRecompute_SelfHealsFromStaleSummary(t *testing.T) {
	db, movies, rating, _ := newReviewStack(t)
	user := createTestUser(t, db, "keymaker")

	movie, err := movies.ResolveOrCreate(603, PlaceholderTitleReview)
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}

	// A review written without its summary update, as after a crash between
	// the review write and the aggregator.
	review := models.Review{UserID: user.ID, MovieID: movie.ID, TMDBID: 603, Rating: 2, ReviewText: "hm"}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}

	stale := fetchMovie(t, db, movie.ID)
	if stale.ReviewCount != 0 {
		t.Fatalf("expected stale summary before recompute, got count %d", stale.ReviewCount)
	}

	if err := rating.Recompute(movie.ID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}

	healed := fetchMovie(t, db, movie.ID)
	if healed.AverageRating != 2.0 || healed.ReviewCount != 1 {
		t.Fatalf("expected 2.0/1 after recompute, got %v/%d", healed.AverageRating, healed.ReviewCount)
	}
}
