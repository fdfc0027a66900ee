package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinehall/restaurant-pos/hub"
	"github.com/dinehall/restaurant-pos/models"
	"github.com/dinehall/restaurant-pos/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// GetOrderByID -> order with items and computed totals
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order.FillTotals()
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// AddItem -> add a line to an order. The current catalog price is
// captured into price_at_time so later menu edits never change this
// order. Refused once the parent session is closed, and refused once the
// order is served: serving snapshots the total over its items, so the
// item set is frozen from that point.
func (oc *OrderController) AddItem(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("Session").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if order.Session.IsClosed() {
		utils.RespondError(c, http.StatusConflict, ErrSessionClosed)
		return
	}

	if order.Status == models.OrderServed {
		utils.RespondError(c, http.StatusConflict, ErrOrderServed)
		return
	}

	var req struct {
		MenuItemID uint   `json:"menu_item_id" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required,gte=1"`
		Note       string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menuItem models.MenuItem
	if err := oc.DB.First(&menuItem, req.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	item := models.OrderItem{
		OrderID:     order.ID,
		MenuItemID:  menuItem.ID,
		Quantity:    req.Quantity,
		PriceAtTime: menuItem.Price,
		Note:        req.Note,
		CreatedAt:   time.Now(),
	}
	if err := oc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	item.LineTotal = item.ComputedLineTotal()

	utils.InfoLogger.Printf("Item added to order %d: menu_item=%d qty=%d", order.ID, menuItem.ID, req.Quantity)
	utils.RespondJSON(c, http.StatusCreated, "Item added", item)
}

// ServeOrder -> the kitchen-driven terminal transition. Idempotent:
// serving an already served order is a no-op, served_at is set once.
func (oc *OrderController) ServeOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if order.Status == models.OrderServed {
		order.FillTotals()
		utils.RespondJSON(c, http.StatusOK, "Order already served", order)
		return
	}

	order.MarkServed(time.Now())
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	order.FillTotals()
	hub.BroadcastOrderServed(order)

	utils.RespondJSON(c, http.StatusOK, "Order served", order)
}

// DeleteOrder -> removes the order and its items; the session bill is
// derived, so it follows on the next read.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": order.ID})
}
