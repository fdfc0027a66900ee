package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/dinehall/restaurant-pos/hub"
	"github.com/dinehall/restaurant-pos/models"
	"github.com/dinehall/restaurant-pos/utils"
)

// SessionMonitor periodically flags sessions that have been open longer
// than MaxOpenFor and pushes a stale_session event to the floor, so a
// forgotten table does not sit unbilled all night.
type SessionMonitor struct {
	DB         *gorm.DB
	StopChan   chan struct{}
	Interval   time.Duration
	MaxOpenFor time.Duration

	flagged map[uint]struct{} // sessions already reported
}

func NewSessionMonitor(db *gorm.DB) *SessionMonitor {
	return &SessionMonitor{
		DB:         db,
		StopChan:   make(chan struct{}),
		Interval:   time.Minute,
		MaxOpenFor: 3 * time.Hour,
		flagged:    make(map[uint]struct{}),
	}
}

func (sm *SessionMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.checkStaleSessions()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *SessionMonitor) Stop() {
	close(sm.StopChan)
}

func (sm *SessionMonitor) checkStaleSessions() {
	cutoff := time.Now().Add(-sm.MaxOpenFor)

	var stale []models.TableSession
	if err := sm.DB.Preload("Customer").
		Where("ended_at IS NULL AND started_at < ?", cutoff).
		Find(&stale).Error; err != nil {
		utils.ErrorLogger.Printf("Session monitor query failed: %v", err)
		return
	}

	for i := range stale {
		s := &stale[i]
		if _, done := sm.flagged[s.ID]; done {
			continue
		}
		sm.flagged[s.ID] = struct{}{}

		utils.InfoLogger.Printf("Session %d open since %s, flagging as stale",
			s.ID, s.StartedAt.Format(time.RFC3339))
		hub.BroadcastStaleSession(*s)
	}

	// forget closed sessions so the map does not grow forever
	for id := range sm.flagged {
		found := false
		for i := range stale {
			if stale[i].ID == id {
				found = true
				break
			}
		}
		if !found {
			delete(sm.flagged, id)
		}
	}
}
