package models

import "time"

// GuestSession is the server-side record behind a guest session key.
type GuestSession struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}
