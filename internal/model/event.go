package model

import (
	"time"
)

// TurnEvent is the audit record published for every resolved chat turn.
type TurnEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Intent    string    `json:"intent"`
	Keyword   string    `json:"keyword,omitempty"`
	Date      string    `json:"date,omitempty"`
	MealTime  string    `json:"meal_time,omitempty"`
	Explicit  bool      `json:"explicit_date"`
	Restored  bool      `json:"restored_from_session"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}
