package entities

import "time"

// ChatMessage is an informational support-chat entry. Anonymous and
// system messages carry a nil UserID. Not part of any settlement invariant.
type ChatMessage struct {
	ID        int64     `db:"id"`
	UserID    *int64    `db:"user_id"`
	Content   string    `db:"content"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
}
