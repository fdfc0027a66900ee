package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinehall/restaurant-pos/controllers"
	"github.com/dinehall/restaurant-pos/middlewares"
	"github.com/dinehall/restaurant-pos/models"
	"github.com/dinehall/restaurant-pos/utils"
)

func setupTestDBForUsers(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		panic(err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/auth/register", userCtrl.Register)
	router.POST("/auth/token", userCtrl.Login)

	protected := router.Group("/admin", middlewares.AuthMiddleware())
	protected.GET("/users/me", userCtrl.GetProfile)
	protected.POST("/users/logout", userCtrl.Logout)
	protected.GET("/users", userCtrl.GetAllUsers)
	return router
}

func registerUser(router *gin.Engine, email, password, role string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]interface{}{
		"name":     "Test User",
		"email":    email,
		"password": password,
		"role":     role,
	})
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginUser(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]interface{}{
		"email":    email,
		"password": password,
	})
	req, _ := http.NewRequest("POST", "/auth/token", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	w := registerUser(router, "waiter@dinehall.com", "supersecret1", "staff")
	assert.Equal(t, http.StatusCreated, w.Code)

	// short password is rejected at binding
	w = registerUser(router, "short@dinehall.com", "short", "staff")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// wrong password
	w = loginUser(router, "waiter@dinehall.com", "wrongpassword")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid credentials", resp["message"])

	// unknown email gets the same answer as a wrong password
	w = loginUser(router, "nobody@dinehall.com", "supersecret1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = loginUser(router, "waiter@dinehall.com", "supersecret1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "staff", data["user_role"])
}

func TestInactiveUserCannotLogin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(router, "gone@dinehall.com", "supersecret1", "staff")
	db.Model(&models.User{}).Where("email = ?", "gone@dinehall.com").
		Update("is_active", false)

	w := loginUser(router, "gone@dinehall.com", "supersecret1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRequiresToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(router, "me@dinehall.com", "supersecret1", "staff")
	w := loginUser(router, "me@dinehall.com", "supersecret1")
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token := resp["data"].(map[string]interface{})["token"].(string)

	// no token
	req, _ := http.NewRequest("GET", "/admin/users/me", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// with token
	req, _ = http.NewRequest("GET", "/admin/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "me@dinehall.com", data["email"])
	assert.Equal(t, "staff", data["role"])
}

func TestLogoutBlacklistsToken(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(router, "bye@dinehall.com", "supersecret1", "staff")
	w := loginUser(router, "bye@dinehall.com", "supersecret1")
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token := resp["data"].(map[string]interface{})["token"].(string)

	req, _ := http.NewRequest("POST", "/admin/users/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// the same token is dead now
	req, _ = http.NewRequest("GET", "/admin/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsersIsAdminOnly(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(router, "staff@dinehall.com", "supersecret1", "staff")
	registerUser(router, "boss@dinehall.com", "supersecret1", "admin")

	w := loginUser(router, "staff@dinehall.com", "supersecret1")
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	staffToken := resp["data"].(map[string]interface{})["token"].(string)

	w = loginUser(router, "boss@dinehall.com", "supersecret1")
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	adminToken := resp["data"].(map[string]interface{})["token"].(string)

	req, _ := http.NewRequest("GET", "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req, _ = http.NewRequest("GET", "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"].([]interface{}), 2)
}
