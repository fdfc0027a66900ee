package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinehall/restaurant-pos/hub"
	"github.com/dinehall/restaurant-pos/models"
	"github.com/dinehall/restaurant-pos/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetAllTables -> floor view with derived occupancy. A table is occupied
// exactly when an open session references it; nothing is stored.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var open []models.TableSession
	if err := tc.DB.Preload("Customer").Where("ended_at IS NULL").Find(&open).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	openByTable := make(map[uint]*models.TableSession, len(open))
	for i := range open {
		openByTable[open[i].TableID] = &open[i]
	}

	reads := make([]models.TableRead, 0, len(tables))
	for _, t := range tables {
		read := models.TableRead{
			ID:     t.ID,
			Number: t.Number,
			Type:   t.Type,
		}
		if s, ok := openByTable[t.ID]; ok {
			read.IsOccupied = true
			read.ActiveSessionID = &s.ID
			read.CustomerName = s.CustomerName()
			arrival := s.StartedAt
			read.CustomerArrival = &arrival
		}
		reads = append(reads, read)
	}

	utils.RespondJSON(c, http.StatusOK, "List of tables", reads)
}

// GetTableByID -> detail of a single table
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// CreateTable -> add a table to the floor (admin)
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number int    `json:"number" binding:"required"`
		Type   string `json:"type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		Number: req.Number,
		Type:   models.TableIndoor,
	}
	if req.Type != "" {
		table.Type = req.Type
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableCreate(table)

	utils.InfoLogger.Printf("New table created: %d (type=%s)", table.Number, table.Type)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// DeleteTable -> remove a table (admin); refused while in service
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var openCount int64
	tc.DB.Model(&models.TableSession{}).
		Where("table_id = ? AND ended_at IS NULL", table.ID).
		Count(&openCount)
	if openCount > 0 {
		utils.RespondError(c, http.StatusConflict, ErrTableInService)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastTableDelete(table.ID)

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

// floorStats counts occupied/available tables for broadcasts.
func floorStats(db *gorm.DB) map[string]interface{} {
	var total, occupied int64

	db.Model(&models.Table{}).Count(&total)
	db.Model(&models.TableSession{}).
		Where("ended_at IS NULL").
		Count(&occupied)

	return map[string]interface{}{
		"total":     total,
		"occupied":  occupied,
		"available": total - occupied,
	}
}
