package models

import "time"

// User represents a Telegram chat using the bot
type User struct {
	ChatID               int64     `json:"chat_id" db:"chat_id"`
	Username             string    `json:"username" db:"username"`
	Severity             Severity  `json:"severity" db:"severity"`
	NotificationsEnabled bool      `json:"notifications_enabled" db:"notifications_enabled"`
	NotificationHour     int       `json:"notification_hour" db:"notification_hour"` // 0-23, local time
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}
