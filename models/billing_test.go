package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{Quantity: 2, PriceAtTime: 150}
	assert.Equal(t, 300.0, item.ComputedLineTotal())

	item = OrderItem{Quantity: 3, PriceAtTime: 99.5}
	assert.Equal(t, 298.5, item.ComputedLineTotal())
}

func TestOrderTotalIsSumOfLineTotals(t *testing.T) {
	order := Order{
		Status: OrderPending,
		Items: []OrderItem{
			{Quantity: 2, PriceAtTime: 150},
			{Quantity: 1, PriceAtTime: 75.5},
		},
	}
	assert.Equal(t, 375.5, order.ComputedTotal())

	// mutating the items mutates the total, nothing is cached while pending
	order.Items = append(order.Items, OrderItem{Quantity: 4, PriceAtTime: 10})
	assert.Equal(t, 415.5, order.ComputedTotal())
}

func TestMarkServedIsIdempotent(t *testing.T) {
	order := Order{
		Status: OrderPending,
		Items:  []OrderItem{{Quantity: 2, PriceAtTime: 150}},
	}

	first := time.Now()
	order.MarkServed(first)

	assert.Equal(t, OrderServed, order.Status)
	assert.NotNil(t, order.ServedAt)
	assert.Equal(t, first, *order.ServedAt)
	assert.NotNil(t, order.FinalTotal)
	assert.Equal(t, 300.0, *order.FinalTotal)

	// serving again must not move served_at or the snapshot
	order.MarkServed(first.Add(time.Hour))
	assert.Equal(t, first, *order.ServedAt)
	assert.Equal(t, 300.0, *order.FinalTotal)
}

func TestSessionBillIsSumOfOrderTotals(t *testing.T) {
	session := TableSession{
		Orders: []Order{
			{Items: []OrderItem{{Quantity: 2, PriceAtTime: 150}}},
			{Items: []OrderItem{{Quantity: 1, PriceAtTime: 200}, {Quantity: 2, PriceAtTime: 50}}},
		},
	}
	assert.Equal(t, 600.0, session.ComputedBill())

	// dropping an order drops its share of the bill
	session.Orders = session.Orders[:1]
	assert.Equal(t, 300.0, session.ComputedBill())
}

func TestSessionCloseSnapshotsBill(t *testing.T) {
	session := TableSession{
		Orders: []Order{
			{Status: OrderServed, Items: []OrderItem{{Quantity: 2, PriceAtTime: 150}}},
		},
	}

	assert.False(t, session.IsClosed())

	now := time.Now()
	session.Close(now, "ref-1")

	assert.True(t, session.IsClosed())
	assert.Equal(t, now, *session.EndedAt)
	assert.Equal(t, 300.0, *session.FinalBill)
	assert.Equal(t, "ref-1", *session.BillRef)

	// closing again must not move ended_at or re-snapshot
	session.Close(now.Add(time.Hour), "ref-2")
	assert.Equal(t, now, *session.EndedAt)
	assert.Equal(t, "ref-1", *session.BillRef)
}

func TestHasUnservedOrders(t *testing.T) {
	session := TableSession{
		Orders: []Order{
			{Status: OrderServed},
			{Status: OrderPending},
		},
	}
	assert.True(t, session.HasUnservedOrders())

	session.Orders[1].Status = OrderServed
	assert.False(t, session.HasUnservedOrders())

	empty := TableSession{}
	assert.False(t, empty.HasUnservedOrders())
}

func TestFillTotals(t *testing.T) {
	session := TableSession{
		Orders: []Order{
			{Items: []OrderItem{{Quantity: 2, PriceAtTime: 150}, {Quantity: 1, PriceAtTime: 100}}},
		},
	}

	session.FillTotals()

	assert.Equal(t, 400.0, session.TotalBill)
	assert.Equal(t, 400.0, session.Orders[0].TotalAmount)
	assert.Equal(t, 300.0, session.Orders[0].Items[0].LineTotal)
	assert.Equal(t, 100.0, session.Orders[0].Items[1].LineTotal)
}
