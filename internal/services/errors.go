package services

import "errors"

// Service-level error taxonomy. Handlers map these to HTTP statuses; raw
// storage errors never cross this boundary.
var (
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateReview       = errors.New("you have already reviewed this movie")
	ErrReviewNotFound        = errors.New("review not found")
	ErrMovieNotFound         = errors.New("movie not found")
	ErrMovieExists           = errors.New("movie already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrWatchlistDuplicate    = errors.New("movie already in watchlist")
	ErrWatchlistNotFound     = errors.New("movie not found in watchlist")
	ErrForbidden             = errors.New("not authorized to perform this action")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrDependencyUnavailable = errors.New("storage temporarily unavailable")
)
