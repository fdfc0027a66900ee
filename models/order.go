package models

import "time"

const (
	OrderPending = "pending" // placed, being prepared
	OrderServed  = "served"  // delivered to the table
)

type Order struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	SessionID  uint         `gorm:"not null;index" json:"table_session_id"`
	Session    TableSession `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Status     string       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
	ServedAt   *time.Time   `json:"served_at,omitempty"`
	FinalTotal *float64     `gorm:"type:decimal(10,2)" json:"-"`
	Items      []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`

	// derived, filled by FillTotals before the order is written out
	TotalAmount float64 `gorm:"-" json:"total_amount"`
}

// ComputedTotal uses the snapshot once served, recomputes while pending.
// Requires Items to be loaded.
func (o *Order) ComputedTotal() float64 {
	if o.FinalTotal != nil {
		return *o.FinalTotal
	}
	var total float64
	for i := range o.Items {
		total += o.Items[i].ComputedLineTotal()
	}
	return total
}

// MarkServed is the externally driven terminal transition. It is
// idempotent: served_at and the total snapshot are set exactly once.
func (o *Order) MarkServed(now time.Time) {
	if o.Status == OrderServed {
		return
	}
	total := o.ComputedTotal()
	o.Status = OrderServed
	o.ServedAt = &now
	o.FinalTotal = &total
}

func (o *Order) FillTotals() {
	for i := range o.Items {
		o.Items[i].LineTotal = o.Items[i].ComputedLineTotal()
	}
	o.TotalAmount = o.ComputedTotal()
}
