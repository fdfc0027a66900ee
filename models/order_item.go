package models

import "time"

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order from JSON to avoid recursive nesting
	Order      Order    `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint     `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	// PriceAtTime is the catalog price captured when the item was added,
	// so later menu price changes never touch historical orders.
	PriceAtTime float64   `gorm:"type:decimal(10,2);not null" json:"price_at_time"`
	Note        string    `gorm:"type:text" json:"note"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`

	// derived = quantity x price_at_time
	LineTotal float64 `gorm:"-" json:"line_total"`
}

func (it *OrderItem) ComputedLineTotal() float64 {
	return float64(it.Quantity) * it.PriceAtTime
}
