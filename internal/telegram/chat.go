package telegram

import "time"

// Chat is a Telegram chat subscribed to ingestion and error notifications.
type Chat struct {
	ID         int64     `json:"id"`
	FirstName  string    `json:"first_name"`
	Subscribed time.Time `json:"subscribed"`
}
