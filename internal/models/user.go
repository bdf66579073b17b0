package models

import "time"

// User represents a registered account
type User struct {
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"password" bson:"password"`
	Email     string    `json:"email" bson:"email"`
	IsPremium bool      `json:"isPremium" bson:"isPremium"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
