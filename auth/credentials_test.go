package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/PrasannaGadalGIT/ecom-blink/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func newAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", Register(db))
	r.POST("/auth/login", Login(db))
	return r
}

func postJSON(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := postJSON(r, "/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice@example.com", registered.User.Email)

	// password hash never serialized
	assert.NotContains(t, w.Body.String(), "hunter22")

	// duplicate email
	w = postJSON(r, "/auth/register", gin.H{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "hunter23",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// login with the right password
	w = postJSON(r, "/auth/login", gin.H{"email": "alice@example.com", "password": "hunter22"})
	assert.Equal(t, http.StatusOK, w.Code)

	// wrong password
	w = postJSON(r, "/auth/login", gin.H{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// unknown user
	w = postJSON(r, "/auth/login", gin.H{"email": "bob@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	r := newAuthRouter(db)

	w := postJSON(r, "/auth/register", gin.H{"email": "no-user@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/auth/register", gin.H{"username": "x", "email": "not-an-email", "password": "hunter22"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
