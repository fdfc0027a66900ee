package models

import "time"

// TableSession is one seating: it owns the orders placed between
// started_at and ended_at. The table reference is set at creation and
// never changes; history keeps its table even after the session closes.
type TableSession struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	TableID    uint       `gorm:"not null;index" json:"table_id"`
	Table      Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CustomerID *uint      `gorm:"index" json:"customer_id,omitempty"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"customer,omitempty"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	FinalBill  *float64   `gorm:"type:decimal(10,2)" json:"final_bill,omitempty"`
	BillRef    *string    `gorm:"type:varchar(64)" json:"bill_ref,omitempty"`
	Orders     []Order    `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"orders"`

	// derived, filled by FillTotals before the session is written out
	TotalBill float64 `gorm:"-" json:"total_bill"`
}

func (s *TableSession) IsClosed() bool {
	return s.EndedAt != nil
}

// ComputedBill uses the snapshot once closed, recomputes while open.
// Requires Orders (and their Items) to be loaded.
func (s *TableSession) ComputedBill() float64 {
	if s.FinalBill != nil {
		return *s.FinalBill
	}
	var total float64
	for i := range s.Orders {
		total += s.Orders[i].ComputedTotal()
	}
	return total
}

// HasUnservedOrders reports whether any loaded order is not yet served.
func (s *TableSession) HasUnservedOrders() bool {
	for i := range s.Orders {
		if s.Orders[i].Status != OrderServed {
			return true
		}
	}
	return false
}

// Close finalizes the session: ended_at is set exactly once and the bill
// is snapshotted over the (now immutable) order set.
func (s *TableSession) Close(now time.Time, billRef string) {
	if s.EndedAt != nil {
		return
	}
	bill := s.ComputedBill()
	s.EndedAt = &now
	s.FinalBill = &bill
	s.BillRef = &billRef
}

// FillTotals populates the derived totals on the session and everything
// it owns, so responses always carry freshly computed amounts.
func (s *TableSession) FillTotals() {
	for i := range s.Orders {
		s.Orders[i].FillTotals()
	}
	s.TotalBill = s.ComputedBill()
}

func (s *TableSession) CustomerName() *string {
	if s.Customer == nil {
		return nil
	}
	return &s.Customer.Name
}
