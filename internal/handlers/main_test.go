package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dzyusuf20/voting-appAPI/internal/auth"
	"github.com/dzyusuf20/voting-appAPI/internal/config"
	"github.com/dzyusuf20/voting-appAPI/internal/database"
	"github.com/dzyusuf20/voting-appAPI/internal/models"
	"github.com/dzyusuf20/voting-appAPI/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testSecret   = "test-secret"
	testPassword = "c0rrectHorse"
)

var dbCounter atomic.Int64

// setupServer gives each test its own in-memory database behind the real
// router, with the same schema the server migrates at startup.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:votetest%d?mode=memory&cache=shared&_foreign_keys=on", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// one connection keeps the shared in-memory DB alive and spares
	// sqlite from write-lock contention in concurrent tests
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Kandidat{}, &models.Vote{}))
	database.DB = db

	cfg := &config.Config{
		ServerPort: "8080",
		JWTSecret:  testSecret,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		PageSize:   10,
	}
	return server.NewRouter(cfg)
}

func createAdmin(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	u := models.NewAdmin(username, hash)
	require.NoError(t, database.DB.Create(&u).Error)
	return &u
}

func createPeserta(t *testing.T, owner *models.User, username string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	u := models.NewPeserta(username, hash, owner.ID)
	require.NoError(t, database.DB.Create(&u).Error)
	return &u
}

func createKandidat(t *testing.T, owner *models.User, nama string) *models.Kandidat {
	t.Helper()
	k := models.Kandidat{AdminOwnerID: owner.ID, Nama: nama}
	require.NoError(t, database.DB.Create(&k).Error)
	return &k
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := auth.NewAccessToken(u, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func countVotes(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.DB.Model(&models.Vote{}).Count(&n).Error)
	return n
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
