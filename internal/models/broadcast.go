package models

import "time"

// Broadcast represents an admin-authored message delivered to all polling clients
type Broadcast struct {
	ID        int       `json:"id" bson:"id"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// BroadcastID returns the id of a broadcast
func BroadcastID(b Broadcast) int {
	return b.ID
}
