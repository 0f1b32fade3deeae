package models

import "time"

type PostingHistory struct {
	ID           int64     `db:"id" json:"id"`
	SessionID    string    `db:"session_id" json:"session_id"`
	BlogID       string    `db:"blog_id" json:"blog_id"`
	PostID       string    `db:"post_id" json:"post_id"`
	PostURL      string    `db:"post_url" json:"post_url"`
	Title        string    `db:"title" json:"title"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
