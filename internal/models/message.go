package models

import "time"

// Message represents a chat message posted to a group
type Message struct {
	ID        int       `json:"id" bson:"id"`
	Username  string    `json:"username" bson:"username"`
	Tier      string    `json:"tier,omitempty" bson:"tier,omitempty"` // Snapshot of the sender's tier at send time
	Message   string    `json:"message" bson:"message"`
	Group     string    `json:"group" bson:"group"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// MessageID returns the id of a message
func MessageID(m Message) int {
	return m.ID
}
