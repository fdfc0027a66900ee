package models

import "time"

type MenuItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	SubcategoryID uint            `gorm:"not null" json:"subcategory_id"`
	Subcategory   MenuSubcategory `gorm:"foreignKey:SubcategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Price         float64         `gorm:"type:decimal(10,2);not null" json:"price"`
	Description   string          `gorm:"type:text" json:"description"`
	IsAvailable   bool            `gorm:"not null;default:true" json:"is_available"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}
