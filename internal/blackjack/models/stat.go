package models

import "time"

// Stat holds the lifetime win/lose/draw counters for one device.
type Stat struct {
	ID        int64     `json:"id"`
	Device    string    `json:"device"`
	Wins      int64     `json:"wins"`
	Loses     int64     `json:"loses"`
	Draws     int64     `json:"draws"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
