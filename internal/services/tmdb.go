package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TMDBClient fetches catalog metadata from The Movie Database. The frontend
// talks to TMDB directly for browsing; the backend only uses this client to
// fill in placeholder movie records.
type TMDBClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TMDBMovieDetails struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Overview     string      `json:"overview"`
	ReleaseDate  string      `json:"release_date"`
	PosterPath   string      `json:"poster_path"`
	BackdropPath string      `json:"backdrop_path"`
	Genres       []TMDBGenre `json:"genres"`
	Runtime      int         `json:"runtime"`
	VoteAverage  float64     `json:"vote_average"`
	VoteCount    int         `json:"vote_count"`
}

func NewTMDBClient(apiKey string) *TMDBClient {
	return &TMDBClient{
		apiKey:  apiKey,
		baseURL: "https://api.themoviedb.org/3",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetMovieDetails fetches full details for a movie by its TMDB id.
func (c *TMDBClient) GetMovieDetails(tmdbID int64) (*TMDBMovieDetails, error) {
	u, err := url.Parse(fmt.Sprintf("%s/movie/%d", c.baseURL, tmdbID))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	query := u.Query()
	query.Set("api_key", c.apiKey)
	u.RawQuery = query.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TMDB request failed with status %d", resp.StatusCode)
	}

	var details TMDBMovieDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &details, nil
}
