package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dinehall/restaurant-pos/hub"
	"github.com/dinehall/restaurant-pos/models"
	"github.com/dinehall/restaurant-pos/utils"
)

type SessionController struct {
	DB *gorm.DB
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{DB: db}
}

// CreateSession -> seat a table. Fails with 409 if the table already has
// an open session. The session and its first empty order are created in
// one transaction, so a seated table never has zero orders.
func (sc *SessionController) CreateSession(c *gin.Context) {
	var req struct {
		TableID uint `json:"table_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := sc.DB.First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	session := models.TableSession{
		TableID:   table.ID,
		StartedAt: time.Now(),
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		var openCount int64
		if err := tx.Model(&models.TableSession{}).
			Where("table_id = ? AND ended_at IS NULL", table.ID).
			Count(&openCount).Error; err != nil {
			return err
		}
		if openCount > 0 {
			return ErrTableOccupied
		}

		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		firstOrder := models.Order{
			SessionID: session.ID,
			Status:    models.OrderPending,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&firstOrder).Error; err != nil {
			return err
		}
		session.Orders = []models.Order{firstOrder}
		return nil
	})
	if err == ErrTableOccupied {
		utils.RespondError(c, http.StatusConflict, ErrTableOccupied)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	session.FillTotals()
	hub.BroadcastSessionStart(session, floorStats(sc.DB))

	utils.InfoLogger.Printf("Session %d started at table %d", session.ID, table.Number)
	utils.RespondJSON(c, http.StatusCreated, "Session started", session)
}

// CreateOrderInSession -> append an empty pending order to an open session
func (sc *SessionController) CreateOrderInSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	var session models.TableSession
	if err := sc.DB.First(&session, sessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if session.IsClosed() {
		utils.RespondError(c, http.StatusConflict, ErrSessionClosed)
		return
	}

	order := models.Order{
		SessionID: session.ID,
		Status:    models.OrderPending,
		CreatedAt: time.Now(),
	}
	if err := sc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	order.FillTotals()
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// UpdateSession -> bind (or rebind) a customer; last write wins while the
// session is open, refused once it is closed.
func (sc *SessionController) UpdateSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req struct {
		CustomerID *uint `json:"customer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var session models.TableSession
	if err := sc.DB.First(&session, sessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if session.IsClosed() {
		utils.RespondError(c, http.StatusConflict, ErrSessionClosed)
		return
	}

	if req.CustomerID != nil {
		var customer models.Customer
		if err := sc.DB.First(&customer, *req.CustomerID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		session.CustomerID = req.CustomerID
	}

	if err := sc.DB.Save(&session).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session updated", session)
}

// CloseSession -> terminal transition. Precondition: every order served,
// otherwise 412 with a distinct message so the client can say why. On
// success the bill is snapshotted, a bill reference issued, customer
// stats bumped, and the table is free (occupancy being derived).
func (sc *SessionController) CloseSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	var session models.TableSession
	if err := sc.DB.Preload("Orders.Items").Preload("Customer").First(&session, sessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if session.IsClosed() {
		utils.RespondError(c, http.StatusBadRequest, ErrSessionAlreadyDone)
		return
	}

	if session.HasUnservedOrders() {
		utils.RespondError(c, http.StatusPreconditionFailed, ErrUnservedOrders)
		return
	}

	session.Close(time.Now(), uuid.NewString())

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		if session.Customer != nil {
			session.Customer.VisitCount++
			session.Customer.TotalSpent += *session.FinalBill
			if err := tx.Save(session.Customer).Error; err != nil {
				return err
			}
		}

		var table models.Table
		if err := tx.First(&table, session.TableID).Error; err != nil {
			return err
		}
		notif := models.Notification{
			Message: "Table " + strconv.Itoa(table.Number) + " freed, bill " +
				utils.FormatCurrencyNPR(*session.FinalBill),
			CreatedAt: time.Now(),
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	session.FillTotals()
	hub.BroadcastSessionClose(session, floorStats(sc.DB))

	utils.InfoLogger.Printf("Session %d closed, bill %s", session.ID,
		utils.FormatCurrencyNPR(*session.FinalBill))
	utils.RespondJSON(c, http.StatusOK, "Session closed", session)
}

// GetSessionByID -> session with orders, items and the running bill
func (sc *SessionController) GetSessionByID(c *gin.Context) {
	sessionID := c.Param("session_id")

	var session models.TableSession
	if err := sc.DB.
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("orders.created_at asc") }).
		Preload("Orders.Items").
		Preload("Customer").
		First(&session, sessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	session.FillTotals()
	utils.RespondJSON(c, http.StatusOK, "Session detail", session)
}

type sessionHistoryEntry struct {
	ID           uint       `json:"id"`
	TableID      uint       `json:"table_id"`
	TableNumber  int        `json:"table_number"`
	CustomerName *string    `json:"customer_name"`
	FinalBill    float64    `json:"final_bill"`
	BillRef      *string    `json:"bill_ref"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
}

// GetSessionHistory -> closed sessions, newest first, paginated
func (sc *SessionController) GetSessionHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	var total int64
	if err := sc.DB.Model(&models.TableSession{}).
		Where("ended_at IS NOT NULL").
		Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var sessions []models.TableSession
	if err := sc.DB.
		Preload("Customer").
		Preload("Table").
		Where("ended_at IS NOT NULL").
		Order("ended_at desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&sessions).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	items := make([]sessionHistoryEntry, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		entry := sessionHistoryEntry{
			ID:           s.ID,
			TableID:      s.TableID,
			TableNumber:  s.Table.Number,
			CustomerName: s.CustomerName(),
			BillRef:      s.BillRef,
			StartedAt:    s.StartedAt,
			EndedAt:      s.EndedAt,
		}
		if s.FinalBill != nil {
			entry.FinalBill = *s.FinalBill
		}
		items = append(items, entry)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	utils.RespondJSON(c, http.StatusOK, "Session history", gin.H{
		"items":       items,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": totalPages,
	})
}

// DeleteSession -> hard delete for history cleanup. Admin only; the role
// claim in the token is the authority, not anything the client sends.
func (sc *SessionController) DeleteSession(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	sessionID := c.Param("session_id")

	var session models.TableSession
	if err := sc.DB.First(&session, sessionID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id IN (?)",
			tx.Model(&models.Order{}).Select("id").Where("session_id = ?", session.ID),
		).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&session).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Session %d deleted", session.ID)
	utils.RespondJSON(c, http.StatusOK, "Session deleted", gin.H{
		"session_id": session.ID,
	})
}
