package model

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Comment is owned by exactly one User. UserID never changes after creation.
type Comment struct {
	ID         int64
	UserID     int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CommentHistory is an immutable snapshot of a comment's text.
type CommentHistory struct {
	ID        int64
	CommentID int64
	Text      string
	CreatedAt time.Time
}

type Token struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Principal is the authenticated identity behind a single request.
type Principal struct {
	UserID  int64
	Name    string
	IsAdmin bool
}
