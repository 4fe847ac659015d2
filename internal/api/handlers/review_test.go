package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cinetrack/movie-review-backend/internal/api/middleware"
	"github.com/cinetrack/movie-review-backend/internal/config"
	"github.com/cinetrack/movie-review-backend/internal/database"
	"github.com/cinetrack/movie-review-backend/internal/models"
	"github.com/cinetrack/movie-review-backend/internal/services"
	"github.com/cinetrack/movie-review-backend/internal/utils"
	"github.com/cinetrack/movie-review-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init()
	os.Exit(m.Run())
}

type testApp struct {
	db     *gorm.DB
	cfg    *config.Config
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-jwt-secret"}

	movieService := services.NewMovieService(db, nil)
	ratingService := services.NewRatingService(db)
	reviewService := services.NewReviewService(db, movieService, ratingService)
	reviewHandler := NewReviewHandler(reviewService)
	movieHandler := NewMovieHandler(movieService)

	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/movies/:tmdb_id", movieHandler.GetMovie)
	api.GET("/movies/:tmdb_id/reviews", reviewHandler.GetMovieReviews)
	api.POST("/movies/:tmdb_id/reviews", middleware.AuthMiddleware(cfg), reviewHandler.SubmitReview)
	api.DELETE("/reviews/:review_id", middleware.AuthMiddleware(cfg), reviewHandler.DeleteReview)

	return &testApp{db: db, cfg: cfg, router: router}
}

func (a *testApp) createUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "password123",
		Role:     "user",
	}
	if err := a.db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	pair, err := utils.GenerateTokenPair(user.ID, user.Username, user.Role, a.cfg.JWTSecret)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}
	return &user, pair.AccessToken
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestSubmitReviewEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, token := app.createUser(t, "neo")

	w := app.do(t, http.MethodPost, "/api/v1/movies/603/reviews", token, gin.H{
		"rating":      4,
		"review_text": "Still holds up.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp utils.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
}

func TestSubmitReviewEndpoint_RequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/movies/603/reviews", "", gin.H{
		"rating":      4,
		"review_text": "nope",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSubmitReviewEndpoint_ValidationAndConflict(t *testing.T) {
	app := newTestApp(t)
	_, token := app.createUser(t, "trinity")

	// Out-of-range rating.
	w := app.do(t, http.MethodPost, "/api/v1/movies/603/reviews", token, gin.H{
		"rating":      9,
		"review_text": "way too good",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// First valid submission.
	w = app.do(t, http.MethodPost, "/api/v1/movies/603/reviews", token, gin.H{
		"rating":      5,
		"review_text": "perfect",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Second submission for the same movie conflicts.
	w = app.do(t, http.MethodPost, "/api/v1/movies/603/reviews", token, gin.H{
		"rating":      1,
		"review_text": "changed my mind",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteReviewEndpoint_OwnershipEnforced(t *testing.T) {
	app := newTestApp(t)
	_, ownerToken := app.createUser(t, "owner")
	_, otherToken := app.createUser(t, "other")

	w := app.do(t, http.MethodPost, "/api/v1/movies/603/reviews", ownerToken, gin.H{
		"rating":      3,
		"review_text": "decent",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var review models.Review
	if err := app.db.First(&review).Error; err != nil {
		t.Fatalf("fetch review: %v", err)
	}

	w = app.do(t, http.MethodDelete, "/api/v1/reviews/"+review.ID.String(), otherToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", w.Code)
	}

	w = app.do(t, http.MethodDelete, "/api/v1/reviews/"+review.ID.String(), ownerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d: %s", w.Code, w.Body.String())
	}

	// Gone now.
	w = app.do(t, http.MethodDelete, "/api/v1/reviews/"+review.ID.String(), ownerToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestGetMovieEndpoint_LazyCreate(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/movies/42", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	app.db.Model(&models.Movie{}).Where("tmdb_id = ?", 42).Count(&count)
	if count != 1 {
		t.Fatalf("expected lazily created movie record, got %d", count)
	}
}

func TestGetMovieReviewsEndpoint_Pagination(t *testing.T) {
	app := newTestApp(t)
	_, token := app.createUser(t, "reviewer")

	w := app.do(t, http.MethodPost, "/api/v1/movies/603/reviews", token, gin.H{
		"rating":      4,
		"review_text": "Worth a rewatch.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w = app.do(t, http.MethodGet, "/api/v1/movies/603/reviews?page=1&limit=10", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Total != 1 || resp.Data.Pages != 1 {
		t.Fatalf("expected total=1 pages=1, got %+v", resp.Data)
	}
}
