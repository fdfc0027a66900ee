package models

import "time"

type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone_number"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	VisitCount  int       `gorm:"not null;default:0" json:"visit_count"`
	TotalSpent  float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_spent"`
	CreatedAt   time.Time `gorm:"not null" json:"customer_since"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}
