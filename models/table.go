package models

import "time"

const (
	TableIndoor   = "indoor"
	TableRooftop  = "rooftop"
	TableTakeaway = "takeaway"
)

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"uniqueIndex;not null" json:"number"`
	Type      string    `gorm:"type:varchar(20);not null;default:'indoor'" json:"type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableRead is the floor view of a table. Occupancy is never stored:
// a table is occupied exactly when an open session references it.
type TableRead struct {
	ID              uint       `json:"id"`
	Number          int        `json:"number"`
	Type            string     `json:"type"`
	IsOccupied      bool       `json:"is_occupied"`
	ActiveSessionID *uint      `json:"active_session_id"`
	CustomerName    *string    `json:"customer_name"`
	CustomerArrival *time.Time `json:"customer_arrival"`
}
