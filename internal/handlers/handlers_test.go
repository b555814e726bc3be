package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/electrify/backend/internal/config"
	"github.com/emilythestrangee/electrify/backend/internal/database"
	"github.com/emilythestrangee/electrify/backend/internal/middleware"
	"github.com/emilythestrangee/electrify/backend/internal/models"
	"github.com/emilythestrangee/electrify/backend/internal/notify"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:           testSecret,
		EnforceVotingWindow: false,
		StorageTimeout:      5 * time.Second,
	}
	h := NewHandler(db, cfg, notify.LogNotifier{}, nil)

	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	r := gin.New()
	api := r.Group("/api")
	users := api.Group("/users")
	users.POST("/register", h.Auth.Register)
	users.POST("/login", h.Auth.Login)
	users.POST("/resend-verification-code", h.Auth.ResendVerification)
	users.GET("/current-user", auth, h.Auth.GetMe)

	contests := api.Group("/contests")
	contests.GET("/published", h.Contest.GetPublishedContests)
	contests.GET("/:contestId", h.Contest.GetContest)
	contests.GET("/:contestId/results", h.Contest.GetResults)
	contests.POST("/:contestId/vote", middleware.VoterKeyMiddleware(), h.Vote.CastVote)
	contests.POST("", auth, h.Contest.CreateContest)
	contests.POST("/:contestId/contestants", auth, h.Contest.AttachContestants)
	contests.PATCH("/:contestId/publish", auth, h.Contest.SetPublished)
	contests.DELETE("/:contestId", auth, h.Contest.DeleteContest)

	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Username: "tester", Email: email, Password: "x", IsVerified: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(r *gin.Engine, method, path, token string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, db := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate email is rejected.
	w = doJSON(r, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "ada2",
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// A successful login stamps last_login.
	var logged models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&logged).Error)
	assert.NotNil(t, logged.LastLogin)

	w = doJSON(r, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterConcurrentDuplicateEmail(t *testing.T) {
	r, db := newTestRouter(t)

	// Sneak a conflicting row in between the existence check and the
	// insert, the way a concurrent registration would.
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("race_register", func(tx *gorm.DB) {
		if fired {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).Create(&models.User{
			Username: "first",
			Email:    "race@example.com",
			Password: "x",
		})
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Create().Remove("race_register") })

	w := doJSON(r, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "second",
		"email":    "race@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestResendVerificationCode(t *testing.T) {
	r, db := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var before models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&before).Error)

	w = doJSON(r, http.MethodPost, "/api/users/resend-verification-code", "", gin.H{
		"email": "ada@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var after models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&after).Error)
	assert.NotEqual(t, before.VerificationToken, after.VerificationToken)
	require.NotNil(t, after.VerificationTokenExpires)
	assert.True(t, after.VerificationTokenExpires.After(time.Now()))

	// Verified accounts have nothing to resend.
	seedUser(t, db, "done@example.com")
	w = doJSON(r, http.MethodPost, "/api/users/resend-verification-code", "", gin.H{
		"email": "done@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/users/resend-verification-code", "", gin.H{
		"email": "ghost@example.com",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/contests", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/users/current-user", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContestLifecycleOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	owner := seedUser(t, db, "owner@example.com")
	token := tokenFor(t, owner)

	now := time.Now().UTC()
	w := doJSON(r, http.MethodPost, "/api/contests", token, gin.H{
		"name":        "Golden Hour",
		"description": "best sunset photo",
		"start_date":  now.Format(time.RFC3339),
		"end_date":    now.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.Contest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	contestID := created.Data.ID
	require.NotZero(t, contestID)

	base := fmt.Sprintf("/api/contests/%d", contestID)

	// Publishing with no contestants is an invalid state.
	w = doJSON(r, http.MethodPatch, base+"/publish", token, gin.H{"is_published": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, base+"/contestants", token, gin.H{
		"contestants": []gin.H{{"name": "X"}, {"name": "Y"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// A stranger may not publish someone else's contest.
	stranger := seedUser(t, db, "stranger@example.com")
	w = doJSON(r, http.MethodPatch, base+"/publish", tokenFor(t, stranger), gin.H{"is_published": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPatch, base+"/publish", token, gin.H{"is_published": true})
	require.Equal(t, http.StatusOK, w.Code)

	// Published contest is publicly visible.
	w = doJSON(r, http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVoteEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	owner := seedUser(t, db, "owner@example.com")
	token := tokenFor(t, owner)

	now := time.Now().UTC()
	w := doJSON(r, http.MethodPost, "/api/contests", token, gin.H{
		"name":        "Pets",
		"description": "cutest pet",
		"start_date":  now.Format(time.RFC3339),
		"end_date":    now.Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data models.Contest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	contestID := created.Data.ID

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/contests/%d/contestants", contestID), token, gin.H{
		"contestants": []gin.H{{"name": "Rex"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Data models.Contest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Len(t, updated.Data.Contestants, 1)
	contestantID := updated.Data.Contestants[0].ID

	w = doJSON(r, http.MethodPatch, fmt.Sprintf("/api/contests/%d/publish", contestID), token, gin.H{"is_published": true})
	require.Equal(t, http.StatusOK, w.Code)

	votePath := fmt.Sprintf("/api/contests/%d/vote", contestID)
	cookie := &http.Cookie{Name: "voter_key", Value: "voter-a"}

	w = doJSON(r, http.MethodPost, votePath, "", gin.H{"contestant_id": contestantID}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var voteResp struct {
		CurrentVotes int `json:"current_votes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &voteResp))
	assert.Equal(t, 1, voteResp.CurrentVotes)

	// Same voter key again: conflict, tally unchanged.
	w = doJSON(r, http.MethodPost, votePath, "", gin.H{"contestant_id": contestantID}, cookie)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Different voter key is admitted.
	w = doJSON(r, http.MethodPost, votePath, "", gin.H{"contestant_id": contestantID},
		&http.Cookie{Name: "voter_key", Value: "voter-b"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown contest 404s.
	w = doJSON(r, http.MethodPost, "/api/contests/9999/vote", "", gin.H{"contestant_id": contestantID}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
