package hub

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dinehall/restaurant-pos/models"
	"github.com/dinehall/restaurant-pos/utils"
)

// Event types
const (
	EventSessionStart   = "session_start"
	EventSessionClose   = "session_close"
	EventTableCreate    = "table_create"
	EventTableDelete    = "table_delete"
	EventOrderServed    = "order_served"
	EventStaleSession   = "stale_session"
	EventStaffNotif     = "staff_notification"
	EventDashboardStats = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// FloorHub holds every connected floor client (staff, admin) and fans
// table/session events out to them.
type FloorHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var floorHub = FloorHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	floorHub.clients[conn] = role
}

// UnregisterClient releases a connection.
func UnregisterClient(conn *websocket.Conn) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()
	delete(floorHub.clients, conn)
	conn.Close()
}

// BroadcastSessionStart -> a table was seated
func BroadcastSessionStart(session models.TableSession, stats interface{}) {
	broadcast(Message{
		Event: EventSessionStart,
		Data: map[string]interface{}{
			"session": session,
			"stats":   stats,
		},
	})
}

// BroadcastSessionClose -> a session was closed and the table freed
func BroadcastSessionClose(session models.TableSession, stats interface{}) {
	broadcast(Message{
		Event: EventSessionClose,
		Data: map[string]interface{}{
			"session": session,
			"stats":   stats,
		},
	})
}

// BroadcastOrderServed -> an order reached the table
func BroadcastOrderServed(order models.Order) {
	broadcast(Message{
		Event: EventOrderServed,
		Data:  order,
	})
}

// BroadcastTableCreate -> a new table exists on the floor
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{
		Event: EventTableCreate,
		Data:  table,
	})
}

// BroadcastTableDelete -> a table was removed
func BroadcastTableDelete(tableID uint) {
	broadcast(Message{
		Event: EventTableDelete,
		Data:  map[string]interface{}{"table_id": tableID},
	})
}

// BroadcastStaleSession -> a session has been open suspiciously long
func BroadcastStaleSession(session models.TableSession) {
	broadcast(Message{
		Event: EventStaleSession,
		Data:  session,
	})
}

// BroadcastStaffNotification -> free-text notice for the floor staff
func BroadcastStaffNotification(message string) {
	broadcast(Message{
		Event: EventStaffNotif,
		Data:  message,
	})
}

// BroadcastMessage -> generic broadcast
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	floorHub.mutex.Lock()
	defer floorHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Error marshaling floor message: %v", err)
		}
		return
	}

	for conn := range floorHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// drop the write, the read loop will reap the connection
			continue
		}
	}
}
