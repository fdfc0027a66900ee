package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dinehall/restaurant-pos/controllers"
	"github.com/dinehall/restaurant-pos/models"
	"github.com/dinehall/restaurant-pos/utils"
)

func setupTestDBForSessions(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Table{}, &models.TableSession{}, &models.Order{},
		&models.OrderItem{}, &models.Customer{}, &models.MenuItem{},
		&models.MenuCategory{}, &models.MenuSubcategory{}, &models.Notification{})
	if err != nil {
		panic(err)
	}
	return db
}

// setupSessionRouter registers session routes; a test may inject a role
// through the X-Test-Role header to exercise admin-only paths.
func setupSessionRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set("role", role)
		}
		c.Next()
	})

	sessionCtrl := controllers.NewSessionController(db)
	router.POST("/table-sessions", sessionCtrl.CreateSession)
	router.GET("/table-sessions/history/paginated", sessionCtrl.GetSessionHistory)
	router.GET("/table-sessions/:session_id", sessionCtrl.GetSessionByID)
	router.PATCH("/table-sessions/:session_id", sessionCtrl.UpdateSession)
	router.POST("/table-sessions/:session_id/orders", sessionCtrl.CreateOrderInSession)
	router.POST("/table-sessions/:session_id/close", sessionCtrl.CloseSession)
	router.DELETE("/table-sessions/:session_id", sessionCtrl.DeleteSession)
	return router
}

func startSession(t *testing.T, router *gin.Engine, tableID uint) map[string]interface{} {
	payload, _ := json.Marshal(map[string]interface{}{"table_id": tableID})
	req, _ := http.NewRequest("POST", "/table-sessions", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]interface{})
}

func TestStartSessionCreatesFirstOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 4}
	db.Create(&table)

	data := startSession(t, router, table.ID)

	orders := data["orders"].([]interface{})
	assert.Len(t, orders, 1)
	first := orders[0].(map[string]interface{})
	assert.Equal(t, "pending", first["status"])
	assert.Equal(t, float64(0), data["total_bill"])
}

func TestStartSessionConflictLeavesStateUnchanged(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 4}
	db.Create(&table)

	data := startSession(t, router, table.ID)
	firstSessionID := uint(data["id"].(float64))

	// second start on the same table must conflict
	payload, _ := json.Marshal(map[string]interface{}{"table_id": table.ID})
	req, _ := http.NewRequest("POST", "/table-sessions", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "table already has an open session", resp["message"])

	// exactly one open session, the original one, untouched
	var open []models.TableSession
	db.Where("table_id = ? AND ended_at IS NULL", table.ID).Find(&open)
	assert.Len(t, open, 1)
	assert.Equal(t, firstSessionID, open[0].ID)
}

func TestCloseSessionWithUnservedOrdersFails(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 2}
	db.Create(&table)
	data := startSession(t, router, table.ID)
	sessionID := int(data["id"].(float64))

	url := "/table-sessions/" + strconv.Itoa(sessionID) + "/close"
	req, _ := http.NewRequest("POST", url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session has unserved orders", resp["message"])

	// the table stays occupied and the session stays open
	var session models.TableSession
	db.First(&session, sessionID)
	assert.Nil(t, session.EndedAt)
}

func TestCloseSessionSucceedsWhenAllServed(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 4}
	db.Create(&table)
	data := startSession(t, router, table.ID)
	sessionID := int(data["id"].(float64))

	now := time.Now()
	db.Model(&models.Order{}).Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{"status": models.OrderServed, "served_at": now})

	url := "/table-sessions/" + strconv.Itoa(sessionID) + "/close"
	req, _ := http.NewRequest("POST", url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var session models.TableSession
	db.First(&session, sessionID)
	assert.NotNil(t, session.EndedAt)
	assert.NotNil(t, session.FinalBill)
	assert.NotNil(t, session.BillRef)

	// the table is free again: a new session may start
	data2 := startSession(t, router, table.ID)
	assert.NotEqual(t, float64(sessionID), data2["id"])

	// closing twice is refused
	req, _ = http.NewRequest("POST", url, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClosedSessionRejectsNewOrders(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 9}
	db.Create(&table)
	data := startSession(t, router, table.ID)
	sessionID := int(data["id"].(float64))

	db.Model(&models.Order{}).Where("session_id = ?", sessionID).
		Update("status", models.OrderServed)
	req, _ := http.NewRequest("POST", "/table-sessions/"+strconv.Itoa(sessionID)+"/close", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("POST", "/table-sessions/"+strconv.Itoa(sessionID)+"/orders", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session is closed", resp["message"])
}

func TestBindCustomerLastWriteWins(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 5}
	db.Create(&table)
	ram := models.Customer{PhoneNumber: "9841000010", Name: "Ram"}
	hari := models.Customer{PhoneNumber: "9841000011", Name: "Hari"}
	db.Create(&ram)
	db.Create(&hari)

	data := startSession(t, router, table.ID)
	sessionID := int(data["id"].(float64))
	url := "/table-sessions/" + strconv.Itoa(sessionID)

	patch := func(customerID uint) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]interface{}{"customer_id": customerID})
		req, _ := http.NewRequest("PATCH", url, bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, patch(ram.ID).Code)
	assert.Equal(t, http.StatusOK, patch(hari.ID).Code)

	var session models.TableSession
	db.First(&session, sessionID)
	assert.Equal(t, hari.ID, *session.CustomerID)

	// unknown customer is a lookup miss
	assert.Equal(t, http.StatusNotFound, patch(9999).Code)

	// once closed, binding is refused
	db.Model(&models.Order{}).Where("session_id = ?", sessionID).
		Update("status", models.OrderServed)
	req, _ := http.NewRequest("POST", url+"/close", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusConflict, patch(ram.ID).Code)
}

func TestCloseSessionUpdatesCustomerStats(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 6}
	db.Create(&table)
	customer := models.Customer{PhoneNumber: "9841000012", Name: "Gita"}
	db.Create(&customer)

	data := startSession(t, router, table.ID)
	sessionID := int(data["id"].(float64))

	payload, _ := json.Marshal(map[string]interface{}{"customer_id": customer.ID})
	req, _ := http.NewRequest("PATCH", "/table-sessions/"+strconv.Itoa(sessionID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// put something on the bill
	var order models.Order
	db.Where("session_id = ?", sessionID).First(&order)
	db.Create(&models.OrderItem{OrderID: order.ID, MenuItemID: 1, Quantity: 2, PriceAtTime: 150})
	db.Model(&models.Order{}).Where("session_id = ?", sessionID).
		Update("status", models.OrderServed)

	req, _ = http.NewRequest("POST", "/table-sessions/"+strconv.Itoa(sessionID)+"/close", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Customer
	db.First(&updated, customer.ID)
	assert.Equal(t, 1, updated.VisitCount)
	assert.Equal(t, 300.0, updated.TotalSpent)
}

func TestSessionHistoryPagination(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 8}
	db.Create(&table)

	base := time.Now().Add(-3 * time.Hour)
	for i := 0; i < 3; i++ {
		ended := base.Add(time.Duration(i) * time.Hour)
		bill := float64(100 * (i + 1))
		db.Create(&models.TableSession{
			TableID:   table.ID,
			StartedAt: ended.Add(-30 * time.Minute),
			EndedAt:   &ended,
			FinalBill: &bill,
		})
	}
	// one still open, must not appear
	db.Create(&models.TableSession{TableID: table.ID, StartedAt: time.Now()})

	req, _ := http.NewRequest("GET", "/table-sessions/history/paginated?page=1&page_size=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(3), data["total"])
	assert.Equal(t, float64(2), data["total_pages"])

	items := data["items"].([]interface{})
	assert.Len(t, items, 2)

	// newest first
	newest := items[0].(map[string]interface{})
	assert.Equal(t, float64(300), newest["final_bill"])

	req, _ = http.NewRequest("GET", "/table-sessions/history/paginated?page=2&page_size=2", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items = resp["data"].(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestDeleteSessionRequiresAdmin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForSessions(t)
	router := setupSessionRouter(db)

	table := models.Table{Number: 11}
	db.Create(&table)
	data := startSession(t, router, table.ID)
	sessionID := int(data["id"].(float64))
	url := "/table-sessions/" + strconv.Itoa(sessionID)

	// staff may not delete
	req, _ := http.NewRequest("DELETE", url, nil)
	req.Header.Set("X-Test-Role", "staff")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admin may
	req, _ = http.NewRequest("DELETE", url, nil)
	req.Header.Set("X-Test-Role", "admin")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.TableSession{}).Where("id = ?", sessionID).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.Order{}).Where("session_id = ?", sessionID).Count(&count)
	assert.Equal(t, int64(0), count)
}
