package models

import (
	"time"
)

type Entry struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
	Content   string
}

// FeedEntry is an entry joined with its author's username, the shape the
// feed and search pages render.
type FeedEntry struct {
	Entry
	Username string
}
